// Package system holds the concrete simulation systems the runner drives
// each tick. Systems hold references to the world, the event log and the
// LOD manager; they never own goroutines and never lock, because the engine
// serializes all ticks.
package system

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/world"
)

// ClockSystem advances the in-game calendar. Every ticksPerHour ticks the
// hour rolls forward and a TimeAdvanced event is recorded; weather is
// re-rolled every six game hours from a hash of the world seed and the
// absolute hour, so the same seed always produces the same weather history.
type ClockSystem struct {
	world  *world.World
	events *event.Log

	ticksPerHour uint64
}

func NewClockSystem(w *world.World, events *event.Log, ticksPerHour uint64) *ClockSystem {
	if ticksPerHour == 0 {
		ticksPerHour = 1
	}
	return &ClockSystem{world: w, events: events, ticksPerHour: ticksPerHour}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ClockSystem) Update(tick uint64) {
	if tick%s.ticksPerHour != 0 {
		return
	}

	oldHour := s.world.Time.Hour
	s.world.Time.Advance(1)
	s.events.Record(tick, event.TimeAdvanced{
		OldHour: oldHour,
		NewHour: s.world.Time.Hour,
		Day:     s.world.Time.Day,
	})

	if s.world.Time.Hour%6 == 0 {
		next := weatherFor(s.world.Seed, s.world.Time)
		if next != s.world.Weather {
			old := s.world.Weather
			s.world.Weather = next
			s.events.Record(tick, event.WeatherChanged{
				OldWeather: old,
				NewWeather: next,
			})
		}
	}
}

var weatherTable = map[world.Season][]string{
	world.SeasonSpring: {"clear", "clear", "rain", "overcast"},
	world.SeasonSummer: {"clear", "clear", "clear", "storm"},
	world.SeasonAutumn: {"overcast", "clear", "rain", "fog"},
	world.SeasonWinter: {"overcast", "snow", "clear", "snow"},
}

// weatherFor picks weather from the season's table, indexed by a hash of the
// seed and the calendar position. Pure function: no RNG state survives
// between calls.
func weatherFor(seed int64, t world.GameTime) string {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(t.Year)*8640+uint64(t.Month)*720+uint64(t.Day)*24+uint64(t.Hour))
	h.Write(buf[:])

	table := weatherTable[t.CurrentSeason()]
	return table[h.Sum64()%uint64(len(table))]
}
