package world

import (
	"github.com/worldweaver/server/internal/core/ecs"
)

// RoomDetails is the read-model of a room handed to external callers.
type RoomDetails struct {
	ID          ecs.EntityID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Exits       []ExitView   `json:"exits"`
}

type ExitView struct {
	Direction   string       `json:"direction"`
	TargetRoom  ecs.EntityID `json:"target_room"`
	Description string       `json:"description,omitempty"`
}

// EntitySummary is the read-model of one occupant of a room.
type EntitySummary struct {
	ID          ecs.EntityID `json:"id"`
	Kind        Kind         `json:"kind"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
}

// RoomDetailsOf assembles the read-model for a room, or false for unknown or
// non-room ids.
func (w *World) RoomDetailsOf(roomID ecs.EntityID) (RoomDetails, bool) {
	room, ok := w.Rooms.Get(roomID)
	if !ok {
		return RoomDetails{}, false
	}
	d := RoomDetails{ID: roomID}
	if n, ok := w.Names.Get(roomID); ok {
		d.Name = n.Value
	}
	if desc, ok := w.Descriptions.Get(roomID); ok {
		d.Description = desc.Value
	}
	d.Exits = make([]ExitView, 0, len(room.Exits))
	for _, e := range room.Exits {
		d.Exits = append(d.Exits, ExitView{
			Direction:   e.Direction,
			TargetRoom:  e.TargetRoom,
			Description: e.Description,
		})
	}
	return d, true
}

// SummariesInRoom returns occupant summaries in id order.
func (w *World) SummariesInRoom(roomID ecs.EntityID) []EntitySummary {
	ids := w.EntitiesInRoom(roomID)
	out := make([]EntitySummary, 0, len(ids))
	for _, id := range ids {
		s := EntitySummary{ID: id}
		if m, ok := w.meta[id]; ok {
			s.Kind = m.Kind
		}
		if n, ok := w.Names.Get(id); ok {
			s.Name = n.Value
		}
		if d, ok := w.Descriptions.Get(id); ok {
			s.Description = d.Value
		}
		out = append(out, s)
	}
	return out
}
