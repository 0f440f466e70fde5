// Package component defines the data fragments that attach to entities.
// Components carry no behavior beyond local invariant enforcement (clamping,
// capacity); all cross-entity logic lives in systems.
package component

import "github.com/worldweaver/server/internal/core/ecs"

// Name is a display name for any entity.
type Name struct {
	Value string `json:"value"`
}

// Description is narrative text for any entity.
type Description struct {
	Value string `json:"value"`
}

// Position records which room an entity is in. Mutated only through
// world.MoveEntity so the room occupancy index stays consistent.
type Position struct {
	RoomID ecs.EntityID `json:"room_id"`
}

// Exit is a one-way connection out of a room.
type Exit struct {
	Direction   string       `json:"direction"`
	TargetRoom  ecs.EntityID `json:"target_room"`
	Description string       `json:"description,omitempty"`
}

// Room marks an entity as a location and lists its exits.
type Room struct {
	Exits []Exit `json:"exits"`
}

// ExitTo returns the exit in the given direction, if any.
func (r *Room) ExitTo(direction string) (Exit, bool) {
	for _, e := range r.Exits {
		if e.Direction == direction {
			return e, true
		}
	}
	return Exit{}, false
}

// Npc holds per-NPC narrative data consumed by the narration boundary.
type Npc struct {
	Personality string `json:"personality"`
	Greeting    string `json:"greeting"`
}

// Player marks the player entity and tracks its movement history.
type Player struct {
	MovementHistory []ecs.EntityID `json:"movement_history"`
}
