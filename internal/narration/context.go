// Package narration is the boundary between the simulation and whatever
// narrates it. It assembles read-only context bundles and accepts exactly
// one kind of write back: a conversation outcome. Narration can color how
// the world is described; it can never change stats, health, inventory or
// quality values.
package narration

import (
	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/core/event"
	"github.com/worldweaver/server/internal/world"
)

// RoomContext is everything a narrator needs to describe a room.
type RoomContext struct {
	Room         world.RoomDetails     `json:"room"`
	Occupants    []world.EntitySummary `json:"occupants"`
	RecentEvents []event.Record        `json:"recent_events,omitempty"`
	Hour         int                   `json:"hour"`
	Season       world.Season          `json:"season"`
	Weather      string                `json:"weather"`
}

// EntityContext is everything a narrator needs to voice an NPC.
type EntityContext struct {
	ID             ecs.EntityID                   `json:"id"`
	Name           string                         `json:"name"`
	Personality    string                         `json:"personality"`
	Greeting       string                         `json:"greeting"`
	Mood           string                         `json:"mood"`
	Activity       string                         `json:"activity,omitempty"`
	PlayerAffinity int                            `json:"player_affinity"`
	Conversations  []component.ConversationRecord `json:"conversations,omitempty"`
}

// recentConversations bounds how much dialogue history a context carries.
const recentConversations = 5

// recentRoomEvents bounds how much event history a room context carries.
const recentRoomEvents = 10

// BuildRoomContext assembles the room bundle. The caller holds the engine
// lock; this function only reads.
func BuildRoomContext(w *world.World, elog *event.Log, roomID ecs.EntityID) (RoomContext, bool) {
	details, ok := w.RoomDetailsOf(roomID)
	if !ok {
		return RoomContext{}, false
	}
	return RoomContext{
		Room:         details,
		Occupants:    w.SummariesInRoom(roomID),
		RecentEvents: elog.QueryInRoom(roomID, recentRoomEvents),
		Hour:         w.Time.Hour,
		Season:       w.Time.CurrentSeason(),
		Weather:      w.Weather,
	}, true
}

// BuildEntityContext assembles the NPC bundle: identity, personality, a mood
// derived from current state, and recent conversations with the player.
func BuildEntityContext(w *world.World, id ecs.EntityID) (EntityContext, bool) {
	npc, ok := w.Npcs.Get(id)
	if !ok {
		return EntityContext{}, false
	}
	ctx := EntityContext{
		ID:          id,
		Personality: npc.Personality,
		Greeting:    npc.Greeting,
	}
	if n, ok := w.Names.Get(id); ok {
		ctx.Name = n.Value
	}

	playerID := w.PlayerID()
	if rels, ok := w.Relationships.Get(id); ok {
		ctx.PlayerAffinity = rels.Affinity(playerID)
	}
	if mem, ok := w.DialogueMemories.Get(id); ok {
		ctx.Conversations = mem.Recent(playerID, recentConversations)
	}
	if sched, ok := w.Schedules.Get(id); ok {
		if pkg, ok := sched.ActivePackage(w.Time.Hour, true); ok &&
			pkg.Action.Kind == component.ActionPerformActivity {
			ctx.Activity = pkg.Action.Activity
		}
	}
	ctx.Mood = deriveMood(w, id, ctx.PlayerAffinity)
	return ctx, true
}

// deriveMood is a pure function of simulation state. It never stores
// anything; the same state always yields the same mood.
func deriveMood(w *world.World, id ecs.EntityID, affinity int) string {
	if h, ok := w.Healths.Get(id); ok {
		if !h.Alive() {
			return "dead"
		}
		if h.Current*4 < h.Max {
			return "distressed"
		}
	}
	switch {
	case affinity >= 50:
		return "warm"
	case affinity >= 10:
		return "friendly"
	case affinity <= -50:
		return "hostile"
	case affinity <= -10:
		return "wary"
	}
	if w.Time.Hour < 6 || w.Time.Hour >= 22 {
		return "tired"
	}
	return "neutral"
}

// Outcome is what the narrator reports back after a conversation.
type Outcome struct {
	NpcID   ecs.EntityID `json:"npc_id"`
	Summary string       `json:"summary"`
	Topics  []string     `json:"topics"`
}

// RecordOutcome applies a narrated conversation to the world: the NPC
// remembers it and a dialogue event is recorded. This is the narration
// boundary's only write path; it never touches stats or relationships.
func RecordOutcome(w *world.World, elog *event.Log, out Outcome) bool {
	if _, ok := w.Npcs.Get(out.NpcID); !ok {
		return false
	}
	playerID := w.PlayerID()

	if mem, ok := w.DialogueMemories.Get(out.NpcID); ok {
		mem.Add(component.ConversationRecord{
			WithEntity: playerID,
			Tick:       w.Tick,
			Summary:    out.Summary,
			Topics:     out.Topics,
		})
	}
	w.Touch(out.NpcID)

	var roomID ecs.EntityID
	if pos, ok := w.Positions.Get(out.NpcID); ok {
		roomID = pos.RoomID
	}
	elog.Record(w.Tick, event.PlayerTalkedToNpc{
		NpcID:  out.NpcID,
		RoomID: roomID,
	})
	return true
}
