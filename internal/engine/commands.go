package engine

import (
	"fmt"

	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/core/event"
	"github.com/worldweaver/server/internal/storylet"
	"github.com/worldweaver/server/internal/world"
)

// Move walks an entity through an exit of its current room. On success
// exactly one movement event is recorded and the destination's details are
// returned; on failure nothing is recorded and the world is untouched.
func (e *Engine) Move(id ecs.EntityID, direction string) (world.RoomDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.world.Alive(id) {
		return world.RoomDetails{}, ErrUnknownEntity
	}
	pos, ok := e.world.Positions.Get(id)
	if !ok {
		return world.RoomDetails{}, ErrNotPositioned
	}
	room, ok := e.world.Rooms.Get(pos.RoomID)
	if !ok {
		return world.RoomDetails{}, ErrUnknownRoom
	}
	exit, ok := room.ExitTo(direction)
	if !ok {
		return world.RoomDetails{}, fmt.Errorf("%w: %s", ErrNoExit, direction)
	}

	from := pos.RoomID
	e.world.MoveEntity(id, exit.TargetRoom)

	if id == e.world.PlayerID() {
		e.lod.SetPlayerRoom(exit.TargetRoom)
		e.events.Record(e.world.Tick, event.PlayerMoved{
			PlayerID:  id,
			FromRoom:  from,
			ToRoom:    exit.TargetRoom,
			Direction: direction,
		})
	} else {
		e.events.Record(e.world.Tick, event.NpcMoved{
			NpcID:    id,
			FromRoom: from,
			ToRoom:   exit.TargetRoom,
		})
	}

	details, _ := e.world.RoomDetailsOf(exit.TargetRoom)
	return details, nil
}

// RoomDetails returns the read-model of one room.
func (e *Engine) RoomDetails(roomID ecs.EntityID) (world.RoomDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	details, ok := e.world.RoomDetailsOf(roomID)
	if !ok {
		return world.RoomDetails{}, ErrUnknownRoom
	}
	return details, nil
}

// EntitiesInRoom lists a room's occupants in id order.
func (e *Engine) EntitiesInRoom(roomID ecs.EntityID) ([]world.EntitySummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.world.Rooms.Get(roomID); !ok {
		return nil, ErrUnknownRoom
	}
	return e.world.SummariesInRoom(roomID), nil
}

// AdvanceTime runs the simulation forward by whole game hours, ticking every
// system the appropriate number of times. Paused engines still advance; the
// command is an explicit fast-forward, not a scheduled tick.
func (e *Engine) AdvanceTime(hours int) {
	if hours <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	ticks := uint64(hours) * e.ticksPerHour
	for i := uint64(0); i < ticks; i++ {
		e.world.Tick++
		e.runner.Tick(e.world.Tick)
	}
}

// EventsByTag returns up to limit newest-first records carrying the tag.
func (e *Engine) EventsByTag(tag string, limit int) []event.Record {
	return e.events.QueryByTag(tag, limit)
}

// EventsSinceTick returns all records after the given tick, oldest first.
func (e *Engine) EventsSinceTick(tick uint64) []event.Record {
	return e.events.QuerySinceTick(tick)
}

// EventsInRoom returns up to limit newest-first records scoped to the room.
func (e *Engine) EventsInRoom(roomID ecs.EntityID, limit int) []event.Record {
	return e.events.QueryInRoom(roomID, limit)
}

// QueryEvents returns up to limit newest-first records carrying every tag
// and recorded after sinceTick.
func (e *Engine) QueryEvents(tags []string, sinceTick uint64, limit int) []event.Record {
	return e.events.Query(tags, sinceTick, limit)
}

// SpawnNpc creates an NPC in a room and records its arrival.
func (e *Engine) SpawnNpc(roomID ecs.EntityID) (ecs.EntityID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.world.Rooms.Get(roomID); !ok {
		return ecs.ZeroEntity, ErrUnknownRoom
	}
	id := e.world.Spawn(world.KindNpc)
	e.world.SetPosition(id, roomID)
	e.events.Record(e.world.Tick, event.EntitySpawned{
		EntityID: id,
		Kind:     string(world.KindNpc),
		RoomID:   roomID,
	})
	return id, nil
}

// Despawn removes an entity, its components and its quality values, and
// records the removal.
func (e *Engine) Despawn(id ecs.EntityID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	kind, ok := e.world.KindOf(id)
	if !ok {
		return ErrUnknownEntity
	}
	var roomID ecs.EntityID
	if pos, ok := e.world.Positions.Get(id); ok {
		roomID = pos.RoomID
	}

	e.world.Despawn(id)
	e.storylets.Forget(id)
	e.events.Record(e.world.Tick, event.EntityDespawned{
		EntityID: id,
		Kind:     string(kind),
		RoomID:   roomID,
	})
	return nil
}

// QualityValue reads an entity's value for a quality.
func (e *Engine) QualityValue(id ecs.EntityID, qualityID string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.storylets.Value(id, qualityID)
}

// ModifyQuality shifts an entity's quality by a delta, clamped to its bounds.
func (e *Engine) ModifyQuality(id ecs.EntityID, qualityID string, change int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.storylets.Modify(id, qualityID, change)
}

// AvailableStorylets lists the storylets whose requirements the entity meets.
func (e *Engine) AvailableStorylets(id ecs.EntityID) []*storylet.Storylet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.storylets.AvailableStorylets(id)
}

// AvailableBranches lists the branches of one storylet the entity can take.
func (e *Engine) AvailableBranches(id ecs.EntityID, storyletID string) ([]storylet.Branch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.storylets.AvailableBranches(id, storyletID)
}

// ExecuteBranch applies a branch's effects atomically: requirements are
// re-checked and every effect target validated before the first write.
func (e *Engine) ExecuteBranch(id ecs.EntityID, storyletID, branchID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.storylets.ExecuteBranch(id, storyletID, branchID)
}
