package engine

import (
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/narration"
)

// RoomContext assembles the narration bundle for a room.
func (e *Engine) RoomContext(roomID ecs.EntityID) (narration.RoomContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, ok := narration.BuildRoomContext(e.world, e.events, roomID)
	if !ok {
		return narration.RoomContext{}, ErrUnknownRoom
	}
	return ctx, nil
}

// EntityContext assembles the narration bundle for an NPC.
func (e *Engine) EntityContext(id ecs.EntityID) (narration.EntityContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, ok := narration.BuildEntityContext(e.world, id)
	if !ok {
		return narration.EntityContext{}, ErrUnknownEntity
	}
	return ctx, nil
}

// RecordNarratedOutcome applies a conversation outcome through the narration
// boundary's single write path.
func (e *Engine) RecordNarratedOutcome(out narration.Outcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !narration.RecordOutcome(e.world, e.events, out) {
		return ErrUnknownEntity
	}
	return nil
}
