package world

import (
	"testing"

	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
)

// twoRooms builds a world with two connected rooms and returns their ids.
func twoRooms(t *testing.T) (*World, ecs.EntityID, ecs.EntityID) {
	t.Helper()
	w := New(42)
	a := w.Spawn(KindRoom)
	b := w.Spawn(KindRoom)
	w.Rooms.Set(a, &component.Room{Exits: []component.Exit{{Direction: "east", TargetRoom: b}}})
	w.Rooms.Set(b, &component.Room{Exits: []component.Exit{{Direction: "west", TargetRoom: a}}})
	w.Graph.AddConnection(a, b)
	return w, a, b
}

func TestSpawnAssignsMeta(t *testing.T) {
	w := New(1)
	w.Tick = 7
	id := w.Spawn(KindNpc)

	if !w.Alive(id) {
		t.Fatal("spawned entity not alive")
	}
	kind, ok := w.KindOf(id)
	if !ok || kind != KindNpc {
		t.Fatalf("kind = %v, %v", kind, ok)
	}
	m, _ := w.MetaOf(id)
	if m.CreatedTick != 7 || m.ModifiedTick != 7 {
		t.Fatalf("meta = %+v", m)
	}
}

func TestDespawnRemovesEverything(t *testing.T) {
	w, a, _ := twoRooms(t)
	id := w.Spawn(KindNpc)
	w.Names.Set(id, &component.Name{Value: "Gareth"})
	w.SetPosition(id, a)

	w.Despawn(id)
	if w.Alive(id) {
		t.Fatal("despawned entity still alive")
	}
	if w.Names.Has(id) || w.Positions.Has(id) {
		t.Fatal("despawn left components behind")
	}
	for _, occ := range w.EntitiesInRoom(a) {
		if occ == id {
			t.Fatal("despawned entity still indexed in room")
		}
	}
}

func TestMoveEntityMaintainsRoomIndex(t *testing.T) {
	w, a, b := twoRooms(t)
	id := w.Spawn(KindNpc)
	w.SetPosition(id, a)

	w.MoveEntity(id, b)

	if got := w.EntitiesInRoom(a); len(got) != 0 {
		t.Fatalf("origin room still has %d occupants", len(got))
	}
	got := w.EntitiesInRoom(b)
	if len(got) != 1 || got[0] != id {
		t.Fatalf("destination occupants = %v", got)
	}
	pos, _ := w.Positions.Get(id)
	if pos.RoomID != b {
		t.Fatalf("position = %s", pos.RoomID)
	}
}

func TestPlayerMovementHistory(t *testing.T) {
	w, a, b := twoRooms(t)
	p := w.Spawn(KindPlayer)
	w.Players.Set(p, &component.Player{})
	w.SetPlayer(p)
	w.SetPosition(p, a)

	w.MoveEntity(p, b)
	w.MoveEntity(p, a)

	pc, _ := w.Players.Get(p)
	if len(pc.MovementHistory) != 2 || pc.MovementHistory[0] != b || pc.MovementHistory[1] != a {
		t.Fatalf("history = %v", pc.MovementHistory)
	}

	room, ok := w.PlayerRoom()
	if !ok || room != a {
		t.Fatalf("player room = %s, %v", room, ok)
	}
}

func TestEachEntityVisitsInIDOrder(t *testing.T) {
	w := New(1)
	for i := 0; i < 30; i++ {
		w.Spawn(KindNpc)
	}
	var prev ecs.EntityID
	first := true
	w.EachEntity(func(id ecs.EntityID, _ Meta) {
		if !first && !prev.Less(id) {
			t.Fatal("EachEntity out of order")
		}
		prev = id
		first = false
	})
	if w.EntityCount() != 30 {
		t.Fatalf("count = %d", w.EntityCount())
	}
}

func TestRoomDetails(t *testing.T) {
	w, a, b := twoRooms(t)
	w.Names.Set(a, &component.Name{Value: "Inn"})
	w.Descriptions.Set(a, &component.Description{Value: "Warm and loud."})

	d, ok := w.RoomDetailsOf(a)
	if !ok || d.Name != "Inn" || d.Description != "Warm and loud." {
		t.Fatalf("details = %+v", d)
	}
	if len(d.Exits) != 1 || d.Exits[0].Direction != "east" || d.Exits[0].TargetRoom != b {
		t.Fatalf("exits = %+v", d.Exits)
	}

	if _, ok := w.RoomDetailsOf(ecs.NewEntityID()); ok {
		t.Fatal("details for unknown room")
	}
}

func TestGraphRegionsAndAdjacency(t *testing.T) {
	g := NewRoomGraph()
	a, b, c := ecs.NewEntityID(), ecs.NewEntityID(), ecs.NewEntityID()
	region := ecs.NewEntityID()

	g.AddConnection(a, b)
	g.AddConnection(b, c)
	g.SetRegion(a, region)
	g.SetRegion(b, region)

	if !g.IsAdjacent(a, b) || !g.IsAdjacent(b, a) {
		t.Fatal("connection not bidirectional")
	}
	if g.IsAdjacent(a, c) {
		t.Fatal("a and c are not neighbors")
	}
	if !g.SameRegion(a, b) {
		t.Fatal("a and b share a region")
	}
	if g.SameRegion(a, c) {
		t.Fatal("c has no region")
	}
}

func TestNextHopShortestAndDeterministic(t *testing.T) {
	g := NewRoomGraph()
	a, b, c, d := ecs.NewEntityID(), ecs.NewEntityID(), ecs.NewEntityID(), ecs.NewEntityID()
	// Line: a - b - c, plus dead end a - d.
	g.AddConnection(a, b)
	g.AddConnection(b, c)
	g.AddConnection(a, d)

	hop, ok := g.NextHop(a, c)
	if !ok || hop != b {
		t.Fatalf("hop = %s, %v", hop, ok)
	}
	for i := 0; i < 20; i++ {
		again, _ := g.NextHop(a, c)
		if again != hop {
			t.Fatal("NextHop not deterministic")
		}
	}

	if hop, ok := g.NextHop(a, a); !ok || hop != a {
		t.Fatal("NextHop to self should be self")
	}
	if _, ok := g.NextHop(a, ecs.NewEntityID()); ok {
		t.Fatal("unreachable target reported reachable")
	}
}

func TestGameTimeRollovers(t *testing.T) {
	gt := GameTime{Hour: 23, Day: 30, Month: 12, Year: 2}
	gt.Advance(1)
	if gt.Hour != 0 || gt.Day != 1 || gt.Month != 1 || gt.Year != 3 {
		t.Fatalf("rollover = %+v", gt)
	}

	gt = NewGameTime()
	gt.Advance(48)
	if gt.Hour != 8 || gt.Day != 3 {
		t.Fatalf("advance 48h = %+v", gt)
	}
}

func TestSeasons(t *testing.T) {
	cases := map[int]Season{
		3: SeasonSpring, 7: SeasonSummer, 10: SeasonAutumn, 1: SeasonWinter, 12: SeasonWinter,
	}
	for month, want := range cases {
		gt := GameTime{Month: month}
		if got := gt.CurrentSeason(); got != want {
			t.Fatalf("month %d season = %s, want %s", month, got, want)
		}
	}
}

func TestResetWipesInPlace(t *testing.T) {
	w, a, b := twoRooms(t)
	graph := w.Graph
	npc := w.Spawn(KindNpc)
	w.SetPosition(npc, a)
	w.SetPlayer(npc)
	w.Tick = 50
	w.Weather = "storm"

	w.Reset(77)

	if w.Tick != 0 || w.Seed != 77 || w.Weather != "clear" {
		t.Fatalf("meta after reset: tick %d seed %d weather %q", w.Tick, w.Seed, w.Weather)
	}
	if w.EntityCount() != 0 {
		t.Fatalf("entities after reset: %d", w.EntityCount())
	}
	if w.Rooms.Len() != 0 || w.Positions.Len() != 0 {
		t.Fatal("component stores not cleared")
	}
	if w.Graph != graph {
		t.Fatal("reset replaced the graph instance")
	}
	if w.Graph.IsAdjacent(a, b) {
		t.Fatal("graph edges survived reset")
	}
	if _, ok := w.PlayerRoom(); ok {
		t.Fatal("player survived reset")
	}
	if len(w.EntitiesInRoom(a)) != 0 {
		t.Fatal("room index survived reset")
	}

	// The wiped world is fully usable again.
	room := w.Spawn(KindRoom)
	w.Rooms.Set(room, &component.Room{})
	if !w.Alive(room) {
		t.Fatal("reset world rejects new entities")
	}
}
