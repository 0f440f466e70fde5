package component

import "github.com/worldweaver/server/internal/core/ecs"

// ConditionKind enumerates the closed set of schedule conditions. Adding a
// kind means extending the switch in Condition.Matches; there is no runtime
// registration.
type ConditionKind string

const (
	ConditionTimeRange    ConditionKind = "time_range"
	ConditionAlways       ConditionKind = "always"
	ConditionPlayerNearby ConditionKind = "player_nearby"
)

// Condition gates a schedule package. Only the fields for its Kind are set.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	StartHour int           `json:"start_hour,omitempty"`
	EndHour   int           `json:"end_hour,omitempty"`
}

// Matches reports whether the condition holds for the given game hour and
// player proximity. Time ranges are half-open [start, end) and wrap past
// midnight when start > end.
func (c Condition) Matches(hour int, playerNearby bool) bool {
	switch c.Kind {
	case ConditionTimeRange:
		if c.StartHour <= c.EndHour {
			return hour >= c.StartHour && hour < c.EndHour
		}
		return hour >= c.StartHour || hour < c.EndHour
	case ConditionAlways:
		return true
	case ConditionPlayerNearby:
		return playerNearby
	}
	return false
}

// ActionKind enumerates the closed set of schedule actions.
type ActionKind string

const (
	ActionStayInRoom      ActionKind = "stay_in_room"
	ActionMoveToRoom      ActionKind = "move_to_room"
	ActionPerformActivity ActionKind = "perform_activity"
)

// Action is what an active package makes the NPC do.
type Action struct {
	Kind     ActionKind   `json:"kind"`
	RoomID   ecs.EntityID `json:"room_id,omitempty"`
	Activity string       `json:"activity,omitempty"`
}

// Package is one priority-ranked behavior entry.
type Package struct {
	Priority  int       `json:"priority"`
	Condition Condition `json:"condition"`
	Action    Action    `json:"action"`
}

// Schedule is an ordered list of priority packages. Order is registration
// order and is part of the component's contract: see ActivePackage.
type Schedule struct {
	Packages []Package `json:"packages"`
}

// ActivePackage returns the highest-priority package whose condition holds.
// Ties break by registration order: the first registered package wins. This
// tie-break is deliberately arbitrary but must stay stable across runs; the
// strict > below is what encodes it, so don't "simplify" it to >=.
func (s *Schedule) ActivePackage(hour int, playerNearby bool) (Package, bool) {
	var (
		best  Package
		found bool
	)
	for _, pkg := range s.Packages {
		if !pkg.Condition.Matches(hour, playerNearby) {
			continue
		}
		if !found || pkg.Priority > best.Priority {
			best = pkg
			found = true
		}
	}
	return best, found
}
