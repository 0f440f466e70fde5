package event

import (
	"reflect"
	"testing"

	"github.com/worldweaver/server/internal/core/ecs"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	player := ecs.NewEntityID()
	npc := ecs.NewEntityID()
	roomA := ecs.NewEntityID()
	roomB := ecs.NewEntityID()

	cases := []GameEvent{
		PlayerMoved{PlayerID: player, FromRoom: roomA, ToRoom: roomB, Direction: "north"},
		NpcMoved{NpcID: npc, FromRoom: roomB, ToRoom: roomA},
		PlayerTalkedToNpc{NpcID: npc, RoomID: roomA},
		SkillExercised{NpcID: npc, Skill: "smithing", Level: 3, RoomID: roomA},
		ItemPickedUp{Kind: "iron_sword", ByEntity: player, RoomID: roomA},
		CombatResolved{Winner: player, Loser: npc, Damage: 7},
		TimeAdvanced{OldHour: 8, NewHour: 9, Day: 3},
		WeatherChanged{OldWeather: "clear", NewWeather: "rain"},
		MarketShifted{RoomID: roomA, OldMod: 100, NewMod: 101},
		FactionRelationChanged{FactionA: npc, FactionB: player, OldValue: 10, NewValue: 9},
		EntitySpawned{EntityID: npc, Kind: "npc", RoomID: roomB},
		EntityDespawned{EntityID: npc, Kind: "npc", RoomID: roomB},
	}

	for _, ev := range cases {
		payload, err := Encode(ev)
		if err != nil {
			t.Fatalf("%s: encode: %v", ev.EventType(), err)
		}
		back, err := Decode(ev.EventType(), payload)
		if err != nil {
			t.Fatalf("%s: decode: %v", ev.EventType(), err)
		}
		if !reflect.DeepEqual(back, ev) {
			t.Fatalf("%s: round trip changed event:\n got %#v\nwant %#v", ev.EventType(), back, ev)
		}
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, err := Decode("never_heard_of_it", []byte(`{}`)); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestVariantTags(t *testing.T) {
	npc := ecs.NewEntityID()
	ev := NpcMoved{NpcID: npc}
	tags := ev.Tags()
	want := map[string]bool{"npc": true, "movement": true, "npc:" + npc.String(): true}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v", tags)
	}
	for _, tag := range tags {
		if !want[tag] {
			t.Fatalf("unexpected tag %q", tag)
		}
	}
}

func TestScopedInterfaces(t *testing.T) {
	npc := ecs.NewEntityID()
	room := ecs.NewEntityID()

	var ev GameEvent = NpcMoved{NpcID: npc, ToRoom: room}
	rs, ok := ev.(RoomScoped)
	if !ok || rs.Room() != room {
		t.Fatal("NpcMoved should be room-scoped to its destination")
	}
	es, ok := ev.(EntityScoped)
	if !ok || es.Entity() != npc {
		t.Fatal("NpcMoved should be entity-scoped to the npc")
	}

	if _, ok := GameEvent(TimeAdvanced{}).(RoomScoped); ok {
		t.Fatal("TimeAdvanced must not be room-scoped")
	}
}
