package system

import (
	"sort"

	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/world"
)

// faction relations cool off one point per game day
const factionDecayHours = 24

// FactionSystem decays inter-faction relations toward neutral. Grudges and
// alliances both fade unless events keep refreshing them.
type FactionSystem struct {
	world  *world.World
	events *event.Log

	ticksPerHour uint64
}

func NewFactionSystem(w *world.World, events *event.Log, ticksPerHour uint64) *FactionSystem {
	if ticksPerHour == 0 {
		ticksPerHour = 1
	}
	return &FactionSystem{world: w, events: events, ticksPerHour: ticksPerHour}
}

func (s *FactionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *FactionSystem) Update(tick uint64) {
	if tick%(s.ticksPerHour*factionDecayHours) != 0 {
		return
	}

	s.world.Factions.EachSorted(func(id ecs.EntityID, f *component.Faction) {
		others := make([]ecs.EntityID, 0, len(f.Relations))
		for other := range f.Relations {
			others = append(others, other)
		}
		sort.Slice(others, func(i, j int) bool { return others[i].Less(others[j]) })

		for _, other := range others {
			old := f.Relations[other]
			if old == 0 {
				continue
			}
			next := stepToward(old, 0)
			f.SetRelation(other, next)
			s.world.Touch(id)
			s.events.Record(tick, event.FactionRelationChanged{
				FactionA: id,
				FactionB: other,
				OldValue: old,
				NewValue: next,
			})
		}
	})
}
