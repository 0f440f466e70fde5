package event

import (
	"encoding/json"
	"fmt"

	"github.com/worldweaver/server/internal/core/ecs"
)

// GameEvent is the closed set of state-change records. Every variant lives in
// this file next to its Tags method so tag derivation can never drift from
// the payload it describes. Adding a variant means adding a struct here, a
// case in Decode, and nothing else.
type GameEvent interface {
	EventType() string
	Tags() []string
	isGameEvent()
}

// RoomScoped is implemented by variants whose payload references a room,
// which makes them visible to QueryInRoom.
type RoomScoped interface {
	Room() ecs.EntityID
}

// EntityScoped is implemented by variants with a primary subject entity;
// persistence indexes the event row by it.
type EntityScoped interface {
	Entity() ecs.EntityID
}

// ── Movement ──────────────────────────────────────────────────────

type PlayerMoved struct {
	PlayerID  ecs.EntityID `json:"player_id"`
	FromRoom  ecs.EntityID `json:"from_room"`
	ToRoom    ecs.EntityID `json:"to_room"`
	Direction string       `json:"direction"`
}

func (PlayerMoved) EventType() string { return "player_moved" }
func (PlayerMoved) isGameEvent()      {}
func (e PlayerMoved) Tags() []string {
	return []string{"player", "movement"}
}
func (e PlayerMoved) Room() ecs.EntityID   { return e.ToRoom }
func (e PlayerMoved) Entity() ecs.EntityID { return e.PlayerID }

type NpcMoved struct {
	NpcID    ecs.EntityID `json:"npc_id"`
	FromRoom ecs.EntityID `json:"from_room"`
	ToRoom   ecs.EntityID `json:"to_room"`
}

func (NpcMoved) EventType() string { return "npc_moved" }
func (NpcMoved) isGameEvent()      {}
func (e NpcMoved) Tags() []string {
	return []string{"npc", "movement", "npc:" + e.NpcID.String()}
}
func (e NpcMoved) Room() ecs.EntityID   { return e.ToRoom }
func (e NpcMoved) Entity() ecs.EntityID { return e.NpcID }

// ── Interaction ───────────────────────────────────────────────────

type PlayerTalkedToNpc struct {
	NpcID  ecs.EntityID `json:"npc_id"`
	RoomID ecs.EntityID `json:"room_id"`
}

func (PlayerTalkedToNpc) EventType() string { return "player_talked_to_npc" }
func (PlayerTalkedToNpc) isGameEvent()      {}
func (e PlayerTalkedToNpc) Tags() []string {
	return []string{"player", "dialogue", "npc:" + e.NpcID.String()}
}
func (e PlayerTalkedToNpc) Room() ecs.EntityID   { return e.RoomID }
func (e PlayerTalkedToNpc) Entity() ecs.EntityID { return e.NpcID }

type SkillExercised struct {
	NpcID  ecs.EntityID `json:"npc_id"`
	Skill  string       `json:"skill"`
	Level  int          `json:"level"`
	RoomID ecs.EntityID `json:"room_id"`
}

func (SkillExercised) EventType() string { return "skill_exercised" }
func (SkillExercised) isGameEvent()      {}
func (e SkillExercised) Tags() []string {
	return []string{"npc", "skill", "npc:" + e.NpcID.String()}
}
func (e SkillExercised) Room() ecs.EntityID   { return e.RoomID }
func (e SkillExercised) Entity() ecs.EntityID { return e.NpcID }

type ItemPickedUp struct {
	Kind     string       `json:"kind"`
	ByEntity ecs.EntityID `json:"by_entity"`
	RoomID   ecs.EntityID `json:"room_id"`
}

func (ItemPickedUp) EventType() string { return "item_picked_up" }
func (ItemPickedUp) isGameEvent()      {}
func (e ItemPickedUp) Tags() []string {
	return []string{"item", "entity:" + e.ByEntity.String()}
}
func (e ItemPickedUp) Room() ecs.EntityID   { return e.RoomID }
func (e ItemPickedUp) Entity() ecs.EntityID { return e.ByEntity }

type ItemDropped struct {
	Kind     string       `json:"kind"`
	ByEntity ecs.EntityID `json:"by_entity"`
	RoomID   ecs.EntityID `json:"room_id"`
}

func (ItemDropped) EventType() string { return "item_dropped" }
func (ItemDropped) isGameEvent()      {}
func (e ItemDropped) Tags() []string {
	return []string{"item", "entity:" + e.ByEntity.String()}
}
func (e ItemDropped) Room() ecs.EntityID   { return e.RoomID }
func (e ItemDropped) Entity() ecs.EntityID { return e.ByEntity }

// ── Combat ────────────────────────────────────────────────────────

type CombatStarted struct {
	Attacker ecs.EntityID `json:"attacker"`
	Defender ecs.EntityID `json:"defender"`
}

func (CombatStarted) EventType() string { return "combat_started" }
func (CombatStarted) isGameEvent()      {}
func (e CombatStarted) Tags() []string {
	return []string{"combat", "entity:" + e.Attacker.String(), "entity:" + e.Defender.String()}
}
func (e CombatStarted) Entity() ecs.EntityID { return e.Attacker }

type CombatResolved struct {
	Winner ecs.EntityID `json:"winner"`
	Loser  ecs.EntityID `json:"loser"`
	Damage int          `json:"damage"`
}

func (CombatResolved) EventType() string { return "combat_resolved" }
func (CombatResolved) isGameEvent()      {}
func (e CombatResolved) Tags() []string {
	return []string{"combat", "entity:" + e.Winner.String(), "entity:" + e.Loser.String()}
}
func (e CombatResolved) Entity() ecs.EntityID { return e.Winner }

// ── World / time ──────────────────────────────────────────────────

type TimeAdvanced struct {
	OldHour int `json:"old_hour"`
	NewHour int `json:"new_hour"`
	Day     int `json:"day"`
}

func (TimeAdvanced) EventType() string { return "time_advanced" }
func (TimeAdvanced) isGameEvent()      {}
func (e TimeAdvanced) Tags() []string {
	return []string{"world", "time"}
}

type WeatherChanged struct {
	OldWeather string `json:"old_weather"`
	NewWeather string `json:"new_weather"`
}

func (WeatherChanged) EventType() string { return "weather_changed" }
func (WeatherChanged) isGameEvent()      {}
func (e WeatherChanged) Tags() []string {
	return []string{"world", "weather"}
}

// ── Economy ───────────────────────────────────────────────────────

type ItemCrafted struct {
	Crafter ecs.EntityID `json:"crafter"`
	Kind    string       `json:"kind"`
	Recipe  string       `json:"recipe"`
}

func (ItemCrafted) EventType() string { return "item_crafted" }
func (ItemCrafted) isGameEvent()      {}
func (e ItemCrafted) Tags() []string {
	return []string{"crafting", "economy", "entity:" + e.Crafter.String()}
}
func (e ItemCrafted) Entity() ecs.EntityID { return e.Crafter }

type ItemSold struct {
	Seller ecs.EntityID `json:"seller"`
	Buyer  ecs.EntityID `json:"buyer"`
	Kind   string       `json:"kind"`
	Price  int          `json:"price"`
}

func (ItemSold) EventType() string { return "item_sold" }
func (ItemSold) isGameEvent()      {}
func (e ItemSold) Tags() []string {
	return []string{"economy", "trade", "entity:" + e.Seller.String(), "entity:" + e.Buyer.String()}
}
func (e ItemSold) Entity() ecs.EntityID { return e.Seller }

type MarketShifted struct {
	RoomID ecs.EntityID `json:"room_id"`
	OldMod int          `json:"old_mod"`
	NewMod int          `json:"new_mod"`
}

func (MarketShifted) EventType() string { return "market_shifted" }
func (MarketShifted) isGameEvent()      {}
func (e MarketShifted) Tags() []string {
	return []string{"economy", "market"}
}
func (e MarketShifted) Room() ecs.EntityID { return e.RoomID }

// ── Factions ──────────────────────────────────────────────────────

type FactionRelationChanged struct {
	FactionA ecs.EntityID `json:"faction_a"`
	FactionB ecs.EntityID `json:"faction_b"`
	OldValue int          `json:"old_value"`
	NewValue int          `json:"new_value"`
}

func (FactionRelationChanged) EventType() string { return "faction_relation_changed" }
func (FactionRelationChanged) isGameEvent()      {}
func (e FactionRelationChanged) Tags() []string {
	return []string{"faction", "faction:" + e.FactionA.String(), "faction:" + e.FactionB.String()}
}
func (e FactionRelationChanged) Entity() ecs.EntityID { return e.FactionA }

type PlayerReputationChanged struct {
	PlayerID ecs.EntityID `json:"player_id"`
	Faction  ecs.EntityID `json:"faction"`
	OldRep   int          `json:"old_rep"`
	NewRep   int          `json:"new_rep"`
}

func (PlayerReputationChanged) EventType() string { return "player_reputation_changed" }
func (PlayerReputationChanged) isGameEvent()      {}
func (e PlayerReputationChanged) Tags() []string {
	return []string{"player", "faction", "faction:" + e.Faction.String()}
}
func (e PlayerReputationChanged) Entity() ecs.EntityID { return e.PlayerID }

// ── Lifecycle ─────────────────────────────────────────────────────

type EntitySpawned struct {
	EntityID ecs.EntityID `json:"entity_id"`
	Kind     string       `json:"kind"`
	RoomID   ecs.EntityID `json:"room_id"`
}

func (EntitySpawned) EventType() string { return "entity_spawned" }
func (EntitySpawned) isGameEvent()      {}
func (e EntitySpawned) Tags() []string {
	return []string{"lifecycle", e.Kind, "entity:" + e.EntityID.String()}
}
func (e EntitySpawned) Room() ecs.EntityID   { return e.RoomID }
func (e EntitySpawned) Entity() ecs.EntityID { return e.EntityID }

type EntityDespawned struct {
	EntityID ecs.EntityID `json:"entity_id"`
	Kind     string       `json:"kind"`
	RoomID   ecs.EntityID `json:"room_id"`
}

func (EntityDespawned) EventType() string { return "entity_despawned" }
func (EntityDespawned) isGameEvent()      {}
func (e EntityDespawned) Tags() []string {
	return []string{"lifecycle", e.Kind, "entity:" + e.EntityID.String()}
}
func (e EntityDespawned) Room() ecs.EntityID   { return e.RoomID }
func (e EntityDespawned) Entity() ecs.EntityID { return e.EntityID }

// ── Codec ─────────────────────────────────────────────────────────

// Encode serializes a variant's payload for durable storage.
func Encode(ev GameEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// Decode reconstructs a variant from its type tag and stored payload.
// The switch is exhaustive over the closed set.
func Decode(eventType string, payload []byte) (GameEvent, error) {
	var ev GameEvent
	switch eventType {
	case "player_moved":
		ev = &PlayerMoved{}
	case "npc_moved":
		ev = &NpcMoved{}
	case "player_talked_to_npc":
		ev = &PlayerTalkedToNpc{}
	case "skill_exercised":
		ev = &SkillExercised{}
	case "item_picked_up":
		ev = &ItemPickedUp{}
	case "item_dropped":
		ev = &ItemDropped{}
	case "combat_started":
		ev = &CombatStarted{}
	case "combat_resolved":
		ev = &CombatResolved{}
	case "time_advanced":
		ev = &TimeAdvanced{}
	case "weather_changed":
		ev = &WeatherChanged{}
	case "item_crafted":
		ev = &ItemCrafted{}
	case "item_sold":
		ev = &ItemSold{}
	case "market_shifted":
		ev = &MarketShifted{}
	case "faction_relation_changed":
		ev = &FactionRelationChanged{}
	case "player_reputation_changed":
		ev = &PlayerReputationChanged{}
	case "entity_spawned":
		ev = &EntitySpawned{}
	case "entity_despawned":
		ev = &EntityDespawned{}
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
	if err := json.Unmarshal(payload, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventType, err)
	}
	return deref(ev), nil
}

// deref unwraps the pointer Decode unmarshals into, so decoded events compare
// equal to freshly recorded ones.
func deref(ev GameEvent) GameEvent {
	switch e := ev.(type) {
	case *PlayerMoved:
		return *e
	case *NpcMoved:
		return *e
	case *PlayerTalkedToNpc:
		return *e
	case *SkillExercised:
		return *e
	case *ItemPickedUp:
		return *e
	case *ItemDropped:
		return *e
	case *CombatStarted:
		return *e
	case *CombatResolved:
		return *e
	case *TimeAdvanced:
		return *e
	case *WeatherChanged:
		return *e
	case *ItemCrafted:
		return *e
	case *ItemSold:
		return *e
	case *MarketShifted:
		return *e
	case *FactionRelationChanged:
		return *e
	case *PlayerReputationChanged:
		return *e
	case *EntitySpawned:
		return *e
	case *EntityDespawned:
		return *e
	}
	return ev
}
