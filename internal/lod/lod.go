// Package lod bounds per-tick NPC cost by assigning every non-player entity
// a simulation detail tier from its graph distance to the player's room.
package lod

import (
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/world"
)

// Detail is a simulation frequency tier.
type Detail int

const (
	Full        Detail = iota // player's room: every tick
	Reduced                   // adjacent rooms: every 10th tick
	Abstract                  // same region: every 100th tick
	Statistical               // everything else: every 1000th tick
)

func (d Detail) String() string {
	switch d {
	case Full:
		return "full"
	case Reduced:
		return "reduced"
	case Abstract:
		return "abstract"
	default:
		return "statistical"
	}
}

// Period returns the tier's update interval in ticks.
func (d Detail) Period() uint64 {
	switch d {
	case Full:
		return 1
	case Reduced:
		return 10
	case Abstract:
		return 100
	default:
		return 1000
	}
}

// Manager decides, per entity, whether this tick simulates it. DetermineLOD
// and ShouldSimulate are pure functions of (player room, graph) and
// (tick, id, detail); they carry no simulation history.
type Manager struct {
	playerRoom ecs.EntityID
	graph      *world.RoomGraph
}

func NewManager(graph *world.RoomGraph, playerRoom ecs.EntityID) *Manager {
	return &Manager{playerRoom: playerRoom, graph: graph}
}

// SetPlayerRoom must be called whenever the player's room changes; every
// DetermineLOD answer depends on it.
func (m *Manager) SetPlayerRoom(room ecs.EntityID) {
	m.playerRoom = room
}

func (m *Manager) PlayerRoom() ecs.EntityID {
	return m.playerRoom
}

// DetermineLOD maps a room to its detail tier relative to the player.
func (m *Manager) DetermineLOD(npcRoom ecs.EntityID) Detail {
	switch {
	case npcRoom == m.playerRoom:
		return Full
	case m.graph.IsAdjacent(m.playerRoom, npcRoom):
		return Reduced
	case m.graph.SameRegion(m.playerRoom, npcRoom):
		return Abstract
	default:
		return Statistical
	}
}

// ShouldSimulate staggers entities inside a tier so a tier's population
// spreads across its period instead of bursting every Nth tick: entity id
// mod period picks the tick offset. Same inputs, same answer, always.
func (m *Manager) ShouldSimulate(tick uint64, id ecs.EntityID, detail Detail) bool {
	period := detail.Period()
	if period == 1 {
		return true
	}
	return tick%period == id.Mod(period)
}

// Stats counts rooms per tier, for operational visibility.
type Stats struct {
	Full        int
	Reduced     int
	Abstract    int
	Statistical int
}

func (s Stats) Total() int {
	return s.Full + s.Reduced + s.Abstract + s.Statistical
}

func (m *Manager) Stats(rooms []ecs.EntityID) Stats {
	var s Stats
	for _, r := range rooms {
		switch m.DetermineLOD(r) {
		case Full:
			s.Full++
		case Reduced:
			s.Reduced++
		case Abstract:
			s.Abstract++
		default:
			s.Statistical++
		}
	}
	return s
}
