package storylet

import (
	"errors"
	"testing"

	"github.com/worldweaver/server/internal/core/ecs"
)

func intp(v int) *int { return &v }

func testContent() ([]Definition, []*Storylet) {
	defs := []Definition{
		{ID: "gold", Name: "Gold", Min: 0, Max: 9999, Initial: 10},
		{ID: "favor", Name: "Favor", Min: -10, Max: 10, Initial: 0},
	}
	storylets := []*Storylet{
		{
			ID:    "buy_sword",
			Title: "Buy a Sword",
			Branches: []Branch{
				{
					ID:           "pay",
					Requirements: []Requirement{{QualityID: "gold", Min: intp(50)}},
					Effects: []Effect{
						{QualityID: "gold", Change: -50},
						{QualityID: "favor", Change: 1},
					},
				},
				{
					ID:      "browse",
					Effects: []Effect{{QualityID: "favor", Change: 1}},
				},
			},
		},
		{
			ID:           "vip_room",
			Title:        "The Back Room",
			Requirements: []Requirement{{QualityID: "favor", Min: intp(5)}},
			Branches:     []Branch{{ID: "enter"}},
		},
	}
	return defs, storylets
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(testContent())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestValueDefaultsToInitial(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()

	v, err := m.Value(e, "gold")
	if err != nil || v != 10 {
		t.Fatalf("Value = %d, %v", v, err)
	}
	if _, err := m.Value(e, "mana"); !errors.Is(err, ErrUnknownQuality) {
		t.Fatalf("unknown quality error = %v", err)
	}
}

func TestSetAndModifyClamp(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()

	if err := m.SetValue(e, "favor", 99); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if v, _ := m.Value(e, "favor"); v != 10 {
		t.Fatalf("over-max write = %d", v)
	}
	if err := m.Modify(e, "favor", -100); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if v, _ := m.Value(e, "favor"); v != -10 {
		t.Fatalf("under-min modify = %d", v)
	}
}

func TestAvailabilityFollowsQualities(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()

	avail := m.AvailableStorylets(e)
	if len(avail) != 1 || avail[0].ID != "buy_sword" {
		t.Fatalf("initial availability = %d storylets", len(avail))
	}

	m.SetValue(e, "favor", 5)
	avail = m.AvailableStorylets(e)
	if len(avail) != 2 {
		t.Fatalf("after favor raise: %d storylets", len(avail))
	}
	// Content order, not alphabetical.
	if avail[0].ID != "buy_sword" || avail[1].ID != "vip_room" {
		t.Fatalf("order = %s, %s", avail[0].ID, avail[1].ID)
	}
}

func TestAvailableBranches(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()

	branches, err := m.AvailableBranches(e, "buy_sword")
	if err != nil {
		t.Fatalf("AvailableBranches: %v", err)
	}
	if len(branches) != 1 || branches[0].ID != "browse" {
		t.Fatalf("poor entity sees %d branches", len(branches))
	}

	m.SetValue(e, "gold", 100)
	branches, _ = m.AvailableBranches(e, "buy_sword")
	if len(branches) != 2 {
		t.Fatalf("rich entity sees %d branches", len(branches))
	}

	if _, err := m.AvailableBranches(e, "nope"); !errors.Is(err, ErrUnknownStorylet) {
		t.Fatalf("unknown storylet error = %v", err)
	}
}

func TestExecuteBranchAppliesAllEffects(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()
	m.SetValue(e, "gold", 60)

	if err := m.ExecuteBranch(e, "buy_sword", "pay"); err != nil {
		t.Fatalf("ExecuteBranch: %v", err)
	}
	if v, _ := m.Value(e, "gold"); v != 10 {
		t.Fatalf("gold = %d", v)
	}
	if v, _ := m.Value(e, "favor"); v != 1 {
		t.Fatalf("favor = %d", v)
	}
}

func TestExecuteBranchRejectsUnavailable(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()

	err := m.ExecuteBranch(e, "buy_sword", "pay")
	if !errors.Is(err, ErrBranchUnavailable) {
		t.Fatalf("err = %v", err)
	}
	// Nothing may have been written.
	if v, _ := m.Value(e, "gold"); v != 10 {
		t.Fatalf("failed branch changed gold to %d", v)
	}
	if v, _ := m.Value(e, "favor"); v != 0 {
		t.Fatalf("failed branch changed favor to %d", v)
	}

	// Storylet-level requirements gate branches too.
	if err := m.ExecuteBranch(e, "vip_room", "enter"); !errors.Is(err, ErrBranchUnavailable) {
		t.Fatalf("storylet gate err = %v", err)
	}
	if err := m.ExecuteBranch(e, "buy_sword", "ghost"); !errors.Is(err, ErrUnknownBranch) {
		t.Fatalf("unknown branch err = %v", err)
	}
}

func TestExecuteBranchUnknownEffectTargetWritesNothing(t *testing.T) {
	// An effect targeting a quality the content never defined must fail the
	// whole branch, including its valid sibling effects.
	defs := []Definition{{ID: "gold", Name: "Gold", Min: 0, Max: 9999, Initial: 10}}
	storylets := []*Storylet{{
		ID:    "haunted_shop",
		Title: "Haunted Shop",
		Branches: []Branch{{
			ID: "trade",
			Effects: []Effect{
				{QualityID: "gold", Change: -10},
				{QualityID: "ectoplasm", Change: 5},
			},
		}},
	}}
	m, err := NewManager(defs, storylets)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	e := ecs.NewEntityID()

	if err := m.ExecuteBranch(e, "haunted_shop", "trade"); !errors.Is(err, ErrUnknownQuality) {
		t.Fatalf("err = %v", err)
	}
	if v, _ := m.Value(e, "gold"); v != 10 {
		t.Fatalf("failed branch changed gold to %d", v)
	}
}

func TestForgetDropsState(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()
	m.SetValue(e, "gold", 500)

	m.Forget(e)
	if v, _ := m.Value(e, "gold"); v != 10 {
		t.Fatalf("after forget gold = %d, want initial", v)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := newTestManager(t)
	e := ecs.NewEntityID()
	m.SetValue(e, "gold", 321)
	m.SetValue(e, "favor", -3)

	snap := m.Snapshot(e)
	if len(snap) != 2 {
		t.Fatalf("snapshot = %v", snap)
	}

	m2 := newTestManager(t)
	snap["ghost_quality"] = 7 // stale content must be dropped silently
	m2.Restore(e, snap)
	if v, _ := m2.Value(e, "gold"); v != 321 {
		t.Fatalf("restored gold = %d", v)
	}
	if v, _ := m2.Value(e, "favor"); v != -3 {
		t.Fatalf("restored favor = %d", v)
	}
}

func TestNewManagerValidatesContent(t *testing.T) {
	if _, err := NewManager([]Definition{{ID: "q", Min: 5, Max: 1}}, nil); err == nil {
		t.Fatal("inverted bounds accepted")
	}

	defs := []Definition{{ID: "gold", Max: 100}}
	dup := []*Storylet{{ID: "a"}, {ID: "a"}}
	if _, err := NewManager(defs, dup); err == nil {
		t.Fatal("duplicate storylet id accepted")
	}

	badReq := []*Storylet{{ID: "a", Requirements: []Requirement{{QualityID: "mana"}}}}
	if _, err := NewManager(defs, badReq); !errors.Is(err, ErrUnknownQuality) {
		t.Fatalf("unknown requirement quality err = %v", err)
	}
}
