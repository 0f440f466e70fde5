package storylet

import (
	"errors"
	"fmt"

	"github.com/worldweaver/server/internal/core/ecs"
)

var (
	ErrUnknownQuality  = errors.New("unknown quality")
	ErrUnknownStorylet = errors.New("unknown storylet")
	ErrUnknownBranch   = errors.New("unknown branch")
	// ErrBranchUnavailable means the branch's (or its storylet's)
	// requirements do not hold for the entity.
	ErrBranchUnavailable = errors.New("branch not available")
)

// Manager tracks quality values per entity and evaluates storylet
// availability. Content (definitions and storylets) is loaded once at
// startup and never mutated afterwards; only per-entity values change.
type Manager struct {
	defs      map[string]Definition
	storylets []*Storylet // content order, stable across runs
	byID      map[string]*Storylet
	values    map[ecs.EntityID]map[string]int
}

func NewManager(defs []Definition, storylets []*Storylet) (*Manager, error) {
	m := &Manager{
		defs:      make(map[string]Definition, len(defs)),
		storylets: storylets,
		byID:      make(map[string]*Storylet, len(storylets)),
		values:    make(map[ecs.EntityID]map[string]int),
	}
	for _, d := range defs {
		if d.Max < d.Min {
			return nil, fmt.Errorf("quality %q: max %d below min %d", d.ID, d.Max, d.Min)
		}
		m.defs[d.ID] = d
	}
	for _, s := range storylets {
		if _, dup := m.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate storylet id %q", s.ID)
		}
		m.byID[s.ID] = s
		for _, reqs := range append([][]Requirement{s.Requirements}, branchReqs(s)...) {
			for _, r := range reqs {
				if _, ok := m.defs[r.QualityID]; !ok {
					return nil, fmt.Errorf("storylet %q: %w %q", s.ID, ErrUnknownQuality, r.QualityID)
				}
			}
		}
	}
	return m, nil
}

func branchReqs(s *Storylet) [][]Requirement {
	out := make([][]Requirement, 0, len(s.Branches))
	for _, b := range s.Branches {
		out = append(out, b.Requirements)
	}
	return out
}

// Value returns an entity's current value for a quality, or the definition's
// clamped initial when the entity has never been written.
func (m *Manager) Value(entity ecs.EntityID, qualityID string) (int, error) {
	def, ok := m.defs[qualityID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, qualityID)
	}
	if vals, ok := m.values[entity]; ok {
		if v, ok := vals[qualityID]; ok {
			return v, nil
		}
	}
	return def.clamp(def.Initial), nil
}

// SetValue stores a value, clamped into the quality's bounds. Out-of-range
// writes clamp; they never error. Clamping is the invariant policy.
func (m *Manager) SetValue(entity ecs.EntityID, qualityID string, value int) error {
	def, ok := m.defs[qualityID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuality, qualityID)
	}
	vals, ok := m.values[entity]
	if !ok {
		vals = make(map[string]int)
		m.values[entity] = vals
	}
	vals[qualityID] = def.clamp(value)
	return nil
}

// Modify applies a signed delta, clamped.
func (m *Manager) Modify(entity ecs.EntityID, qualityID string, change int) error {
	cur, err := m.Value(entity, qualityID)
	if err != nil {
		return err
	}
	return m.SetValue(entity, qualityID, cur+change)
}

// Forget drops all quality state for an entity; called on despawn.
func (m *Manager) Forget(entity ecs.EntityID) {
	delete(m.values, entity)
}

// ForgetAll drops every entity's quality state. Content stays; only values
// reset. Used when a saved world replaces a live one.
func (m *Manager) ForgetAll() {
	clear(m.values)
}

// Storylet returns a content node by id.
func (m *Manager) Storylet(id string) (*Storylet, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorylet, id)
	}
	return s, nil
}

// AvailableStorylets is a pure read: every storylet whose requirements all
// hold for the entity, in content order.
func (m *Manager) AvailableStorylets(entity ecs.EntityID) []*Storylet {
	out := make([]*Storylet, 0)
	for _, s := range m.storylets {
		if m.requirementsHold(entity, s.Requirements) {
			out = append(out, s)
		}
	}
	return out
}

// AvailableBranches is a pure read: the storylet's branches whose
// requirements all hold for the entity.
func (m *Manager) AvailableBranches(entity ecs.EntityID, storyletID string) ([]Branch, error) {
	s, err := m.Storylet(storyletID)
	if err != nil {
		return nil, err
	}
	out := make([]Branch, 0, len(s.Branches))
	for _, b := range s.Branches {
		if m.requirementsHold(entity, b.Requirements) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ExecuteBranch is the only way narrative choices change quality values. It
// re-checks availability (the narration layer selects, the manager decides),
// then applies every effect or none: any effect targeting an undefined
// quality aborts the whole branch before the first write.
func (m *Manager) ExecuteBranch(entity ecs.EntityID, storyletID, branchID string) error {
	s, err := m.Storylet(storyletID)
	if err != nil {
		return err
	}
	b, ok := s.Branch(branchID)
	if !ok {
		return fmt.Errorf("%w: %q in storylet %q", ErrUnknownBranch, branchID, storyletID)
	}
	if !m.requirementsHold(entity, s.Requirements) || !m.requirementsHold(entity, b.Requirements) {
		return fmt.Errorf("%w: %q", ErrBranchUnavailable, branchID)
	}
	// Validate all targets before any write so the branch applies atomically.
	for _, e := range b.Effects {
		if _, ok := m.defs[e.QualityID]; !ok {
			return fmt.Errorf("effect target %w: %q", ErrUnknownQuality, e.QualityID)
		}
	}
	for _, e := range b.Effects {
		// Error impossible: targets validated above.
		_ = m.Modify(entity, e.QualityID, e.Change)
	}
	return nil
}

func (m *Manager) requirementsHold(entity ecs.EntityID, reqs []Requirement) bool {
	for _, r := range reqs {
		v, err := m.Value(entity, r.QualityID)
		if err != nil || !r.satisfied(v) {
			return false
		}
	}
	return true
}

// Snapshot returns an entity's explicit quality writes, for persistence.
func (m *Manager) Snapshot(entity ecs.EntityID) map[string]int {
	vals, ok := m.values[entity]
	if !ok {
		return nil
	}
	out := make(map[string]int, len(vals))
	for k, v := range vals {
		out[k] = v
	}
	return out
}

// Restore reinstalls persisted quality values, clamping against current
// content bounds. Unknown quality ids are dropped, since content may have
// changed between saves.
func (m *Manager) Restore(entity ecs.EntityID, vals map[string]int) {
	for id, v := range vals {
		if _, ok := m.defs[id]; ok {
			_ = m.SetValue(entity, id, v)
		}
	}
}
