package system

import (
	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/lod"
	"github.com/worldweaver/server/internal/world"
)

// EconomySystem drifts each market's price modifier one point toward its
// baseline per simulated turn. Supply and demand push the target away from
// the baseline, so a starved market stays expensive until supply recovers.
type EconomySystem struct {
	world  *world.World
	events *event.Log
	lod    *lod.Manager
}

func NewEconomySystem(w *world.World, events *event.Log, lodMgr *lod.Manager) *EconomySystem {
	return &EconomySystem{world: w, events: events, lod: lodMgr}
}

func (s *EconomySystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EconomySystem) Update(tick uint64) {
	s.world.Markets.EachSorted(func(roomID ecs.EntityID, m *component.Market) {
		detail := s.lod.DetermineLOD(roomID)
		if !s.lod.ShouldSimulate(tick, roomID, detail) {
			return
		}

		target := m.Baseline
		if m.Supply < m.Demand {
			target += (m.Demand - m.Supply) / 2
		} else if m.Supply > m.Demand {
			target -= (m.Supply - m.Demand) / 2
		}

		next := stepToward(m.PriceMod, target)
		if next == m.PriceMod {
			return
		}
		old := m.PriceMod
		m.PriceMod = next
		s.world.Touch(roomID)
		s.events.Record(tick, event.MarketShifted{
			RoomID: roomID,
			OldMod: old,
			NewMod: next,
		})
	})
}

func stepToward(cur, target int) int {
	switch {
	case cur < target:
		return cur + 1
	case cur > target:
		return cur - 1
	default:
		return cur
	}
}
