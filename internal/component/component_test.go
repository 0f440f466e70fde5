package component

import (
	"testing"

	"github.com/worldweaver/server/internal/core/ecs"
)

func TestStatsClamp(t *testing.T) {
	s := &Stats{Strength: 50, Dexterity: -3, Intelligence: 10, Charisma: 20, Constitution: 1}
	s.Clamp(1, 20)
	if s.Strength != 20 || s.Dexterity != 1 || s.Intelligence != 10 {
		t.Fatalf("clamp produced %+v", s)
	}
}

func TestSkillsImprove(t *testing.T) {
	s := NewSkills()
	s.Improve("smithing", 30)
	s.Improve("smithing", 90)
	if got := s.Level("smithing"); got != 100 {
		t.Fatalf("level = %d, want capped 100", got)
	}
	s.Improve("smithing", -50)
	if got := s.Level("smithing"); got != 100 {
		t.Fatalf("negative improve changed level to %d", got)
	}
	if got := s.Level("unknown"); got != 0 {
		t.Fatalf("unknown skill level = %d", got)
	}
}

func TestHealthClamps(t *testing.T) {
	h := NewHealth(30)
	h.Damage(100)
	if h.Current != 0 || h.Alive() {
		t.Fatalf("overkill left %d hp, alive=%v", h.Current, h.Alive())
	}
	h.Heal(1000)
	if h.Current != 30 {
		t.Fatalf("overheal left %d hp", h.Current)
	}
}

func TestInventoryCapacity(t *testing.T) {
	inv := NewInventory(2)
	if err := inv.Add(Item{Kind: "sword"}); err != nil {
		t.Fatalf("add 1: %v", err)
	}
	if err := inv.Add(Item{Kind: "shield"}); err != nil {
		t.Fatalf("add 2: %v", err)
	}
	if err := inv.Add(Item{Kind: "helmet"}); err != ErrInventoryFull {
		t.Fatalf("add over capacity: %v", err)
	}
}

func TestInventoryStackMergeAtCapacity(t *testing.T) {
	inv := NewInventory(1)
	if err := inv.Add(Item{Kind: "arrow", Stackable: true, StackCount: 10}); err != nil {
		t.Fatalf("first stack: %v", err)
	}
	// Merging onto an existing stack must succeed even when full.
	if err := inv.Add(Item{Kind: "arrow", Stackable: true, StackCount: 5}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := inv.Count("arrow"); got != 15 {
		t.Fatalf("count = %d", got)
	}
	if len(inv.Items) != 1 {
		t.Fatalf("stack split into %d slots", len(inv.Items))
	}
}

func TestInventoryRemove(t *testing.T) {
	inv := NewInventory(5)
	inv.Add(Item{Kind: "arrow", Stackable: true, StackCount: 2})
	if !inv.Remove("arrow") || inv.Count("arrow") != 1 {
		t.Fatal("removing from a stack should decrement it")
	}
	if !inv.Remove("arrow") || inv.Count("arrow") != 0 {
		t.Fatal("removing the last unit should drop the slot")
	}
	if inv.Remove("arrow") {
		t.Fatal("removing a missing kind reported success")
	}
}

func TestRelationshipAffinityClamps(t *testing.T) {
	r := NewRelationships()
	other := ecs.NewEntityID()
	r.ModifyAffinity(other, 250, 7)
	if got := r.Affinity(other); got != 100 {
		t.Fatalf("affinity = %d", got)
	}
	r.ModifyAffinity(other, -500, 8)
	if got := r.Affinity(other); got != -100 {
		t.Fatalf("affinity = %d", got)
	}
	if r.Relations[other].LastInteractionTick != 8 {
		t.Fatal("interaction tick not stamped")
	}
}

func TestDialogueMemoryBounded(t *testing.T) {
	m := NewDialogueMemory(3)
	with := ecs.NewEntityID()
	for i := 0; i < 5; i++ {
		m.Add(ConversationRecord{WithEntity: with, Tick: uint64(i)})
	}
	if len(m.Conversations) != 3 {
		t.Fatalf("retained %d conversations", len(m.Conversations))
	}
	if m.Conversations[0].Tick != 2 {
		t.Fatalf("oldest retained tick = %d, want 2", m.Conversations[0].Tick)
	}

	recent := m.Recent(with, 2)
	if len(recent) != 2 || recent[0].Tick != 4 || recent[1].Tick != 3 {
		t.Fatalf("recent = %+v", recent)
	}
}

func TestFactionRelationClamps(t *testing.T) {
	f := NewFaction("guild")
	other := ecs.NewEntityID()
	f.SetRelation(other, 500)
	if f.Relation(other) != 100 {
		t.Fatalf("relation = %d", f.Relation(other))
	}
	f.SetRelation(other, -101)
	if f.Relation(other) != -100 {
		t.Fatalf("relation = %d", f.Relation(other))
	}
}
