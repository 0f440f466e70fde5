// Package storylet implements quality-gated narrative nodes. Qualities are
// bounded per-entity counters; storylets and branches are static content
// whose availability is a pure function of quality values. This indirection
// is what keeps an external narration layer honest: it may only choose among
// branches this package reports available, and only ExecuteBranch changes
// state.
package storylet

// Definition declares a quality: its bounds and the value an entity has
// before anything writes to it. Every write clamps into [Min, Max].
type Definition struct {
	ID      string
	Name    string
	Min     int
	Max     int
	Initial int
}

func (d Definition) clamp(v int) int {
	if v < d.Min {
		return d.Min
	}
	if v > d.Max {
		return d.Max
	}
	return v
}

// Requirement is one min/max gate on a quality. Nil bounds are open ends.
// Requirements on a storylet or branch combine by AND; there is no OR or
// NOT in the model.
type Requirement struct {
	QualityID string
	Min       *int
	Max       *int
}

func (r Requirement) satisfied(value int) bool {
	if r.Min != nil && value < *r.Min {
		return false
	}
	if r.Max != nil && value > *r.Max {
		return false
	}
	return true
}

// Effect is one signed delta a branch applies to a quality.
type Effect struct {
	QualityID string
	Change    int
}

// Branch is one player-selectable choice inside a storylet.
type Branch struct {
	ID           string
	Label        string
	Requirements []Requirement
	Effects      []Effect
}

// Storylet is a narrative node. BodyTemplate is filled in by the narration
// layer; this package never renders it.
type Storylet struct {
	ID           string
	Title        string
	BodyTemplate string
	Category     string
	Requirements []Requirement
	Branches     []Branch
}

// Branch returns the branch with the given id.
func (s *Storylet) Branch(id string) (Branch, bool) {
	for _, b := range s.Branches {
		if b.ID == id {
			return b, true
		}
	}
	return Branch{}, false
}
