package system

import (
	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/lod"
	"github.com/worldweaver/server/internal/world"
)

// ScheduleSystem drives NPC behavior from schedule components. Each NPC is
// gated by its room's LOD tier: an NPC in the player's room acts every tick,
// one across the map acts on its statistical-tier turn, and both follow the
// exact same package-selection rules when they do act.
type ScheduleSystem struct {
	world  *world.World
	events *event.Log
	lod    *lod.Manager
}

func NewScheduleSystem(w *world.World, events *event.Log, lodMgr *lod.Manager) *ScheduleSystem {
	return &ScheduleSystem{world: w, events: events, lod: lodMgr}
}

func (s *ScheduleSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScheduleSystem) Update(tick uint64) {
	if room, ok := s.world.PlayerRoom(); ok {
		s.lod.SetPlayerRoom(room)
	}

	s.world.Schedules.EachSorted(func(id ecs.EntityID, sched *component.Schedule) {
		pos, ok := s.world.Positions.Get(id)
		if !ok {
			return
		}
		detail := s.lod.DetermineLOD(pos.RoomID)
		if !s.lod.ShouldSimulate(tick, id, detail) {
			return
		}

		playerNearby := detail == lod.Full || detail == lod.Reduced
		pkg, ok := sched.ActivePackage(s.world.Time.Hour, playerNearby)
		if !ok {
			return
		}
		s.act(tick, id, pos.RoomID, pkg.Action)
	})
}

func (s *ScheduleSystem) act(tick uint64, id, roomID ecs.EntityID, action component.Action) {
	switch action.Kind {
	case component.ActionStayInRoom:
		// Nothing to do; presence is the behavior.

	case component.ActionMoveToRoom:
		if action.RoomID == roomID {
			return
		}
		hop, ok := s.world.Graph.NextHop(roomID, action.RoomID)
		if !ok {
			return
		}
		s.world.MoveEntity(id, hop)
		s.events.Record(tick, event.NpcMoved{
			NpcID:    id,
			FromRoom: roomID,
			ToRoom:   hop,
		})

	case component.ActionPerformActivity:
		if skills, ok := s.world.Skills.Get(id); ok && action.Activity != "" {
			skills.Improve(action.Activity, 1)
			s.world.Touch(id)
			s.events.Record(tick, event.SkillExercised{
				NpcID:  id,
				Skill:  action.Activity,
				Level:  skills.Level(action.Activity),
				RoomID: roomID,
			})
		}
	}
}
