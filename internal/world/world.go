// Package world owns all entities and their component fragments. The World
// is never a package-level singleton: it is constructed by the caller and
// passed into systems explicitly, so tests can build isolated worlds.
package world

import (
	"fmt"
	"sort"

	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
)

// Kind tags what an entity fundamentally is; it doubles as the entity_type
// column in snapshots.
type Kind string

const (
	KindPlayer  Kind = "player"
	KindNpc     Kind = "npc"
	KindRoom    Kind = "room"
	KindRegion  Kind = "region"
	KindFaction Kind = "faction"
)

// Meta is the per-entity bookkeeping record.
type Meta struct {
	Kind         Kind
	CreatedTick  uint64
	ModifiedTick uint64
}

// World holds every entity and one typed store per component kind. All
// mutation funnels through the tick loop or the command interface; the World
// itself carries no locks.
type World struct {
	Tick    uint64
	Seed    int64
	Time    GameTime
	Weather string

	registry *ecs.Registry
	meta     map[ecs.EntityID]*Meta

	Names              *ecs.Store[component.Name]
	Descriptions       *ecs.Store[component.Description]
	Positions          *ecs.Store[component.Position]
	Rooms              *ecs.Store[component.Room]
	Npcs               *ecs.Store[component.Npc]
	Players            *ecs.Store[component.Player]
	Stats              *ecs.Store[component.Stats]
	Skills             *ecs.Store[component.Skills]
	Healths            *ecs.Store[component.Health]
	Schedules          *ecs.Store[component.Schedule]
	Inventories        *ecs.Store[component.Inventory]
	Relationships      *ecs.Store[component.Relationships]
	DialogueMemories   *ecs.Store[component.DialogueMemory]
	FactionMemberships *ecs.Store[component.FactionMembership]
	Factions           *ecs.Store[component.Faction]
	Markets            *ecs.Store[component.Market]

	Graph *RoomGraph

	// roomIndex keeps "who is in room X" O(1); maintained exclusively by
	// SetPosition / MoveEntity / Despawn.
	roomIndex map[ecs.EntityID]map[ecs.EntityID]struct{}
	playerID  ecs.EntityID
}

func New(seed int64) *World {
	w := &World{
		Seed:      seed,
		Time:      NewGameTime(),
		Weather:   "clear",
		registry:  ecs.NewRegistry(),
		meta:      make(map[ecs.EntityID]*Meta),
		Graph:     NewRoomGraph(),
		roomIndex: make(map[ecs.EntityID]map[ecs.EntityID]struct{}),
	}
	w.Names = registerStore[component.Name](w.registry)
	w.Descriptions = registerStore[component.Description](w.registry)
	w.Positions = registerStore[component.Position](w.registry)
	w.Rooms = registerStore[component.Room](w.registry)
	w.Npcs = registerStore[component.Npc](w.registry)
	w.Players = registerStore[component.Player](w.registry)
	w.Stats = registerStore[component.Stats](w.registry)
	w.Skills = registerStore[component.Skills](w.registry)
	w.Healths = registerStore[component.Health](w.registry)
	w.Schedules = registerStore[component.Schedule](w.registry)
	w.Inventories = registerStore[component.Inventory](w.registry)
	w.Relationships = registerStore[component.Relationships](w.registry)
	w.DialogueMemories = registerStore[component.DialogueMemory](w.registry)
	w.FactionMemberships = registerStore[component.FactionMembership](w.registry)
	w.Factions = registerStore[component.Faction](w.registry)
	w.Markets = registerStore[component.Market](w.registry)
	return w
}

func registerStore[T any](r *ecs.Registry) *ecs.Store[T] {
	s := ecs.NewStore[T]()
	r.Register(s)
	return s
}

// Reset wipes the world in place so a saved snapshot can be restored over a
// live instance. Systems and the LOD manager hold pointers to the World and
// its Graph; both stay valid across a reset.
func (w *World) Reset(seed int64) {
	w.Tick = 0
	w.Seed = seed
	w.Time = NewGameTime()
	w.Weather = "clear"
	w.registry.ClearAll()
	clear(w.meta)
	w.Graph.Reset()
	clear(w.roomIndex)
	w.playerID = ecs.ZeroEntity
}

// Spawn creates a fresh entity of the given kind. Components are attached by
// the caller afterwards. Ids are never recycled.
func (w *World) Spawn(kind Kind) ecs.EntityID {
	id := ecs.NewEntityID()
	w.meta[id] = &Meta{Kind: kind, CreatedTick: w.Tick, ModifiedTick: w.Tick}
	return id
}

// SpawnWithID installs an entity under a known id; used by the persistence
// layer when restoring snapshots.
func (w *World) SpawnWithID(id ecs.EntityID, kind Kind, created, modified uint64) error {
	if _, exists := w.meta[id]; exists {
		return fmt.Errorf("entity %s already exists", id)
	}
	w.meta[id] = &Meta{Kind: kind, CreatedTick: created, ModifiedTick: modified}
	return nil
}

// Despawn removes an entity and every component attached to it. This is the
// only way an entity dies; nothing despawns implicitly.
func (w *World) Despawn(id ecs.EntityID) {
	if pos, ok := w.Positions.Get(id); ok {
		w.removeFromRoom(id, pos.RoomID)
	}
	w.registry.RemoveAll(id)
	delete(w.meta, id)
}

func (w *World) Alive(id ecs.EntityID) bool {
	_, ok := w.meta[id]
	return ok
}

func (w *World) KindOf(id ecs.EntityID) (Kind, bool) {
	m, ok := w.meta[id]
	if !ok {
		return "", false
	}
	return m.Kind, true
}

func (w *World) MetaOf(id ecs.EntityID) (Meta, bool) {
	m, ok := w.meta[id]
	if !ok {
		return Meta{}, false
	}
	return *m, true
}

// Touch stamps an entity as modified this tick. Systems call it after any
// component mutation so incremental snapshot strategies stay possible.
func (w *World) Touch(id ecs.EntityID) {
	if m, ok := w.meta[id]; ok {
		m.ModifiedTick = w.Tick
	}
}

// EntityCount reports how many entities exist.
func (w *World) EntityCount() int {
	return len(w.meta)
}

// EachEntity visits every entity in id order.
func (w *World) EachEntity(fn func(ecs.EntityID, Meta)) {
	ids := make([]ecs.EntityID, 0, len(w.meta))
	for id := range w.meta {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	for _, id := range ids {
		fn(id, *w.meta[id])
	}
}

// SetPosition places an entity in a room, maintaining the occupancy index.
func (w *World) SetPosition(id, roomID ecs.EntityID) {
	if pos, ok := w.Positions.Get(id); ok {
		w.removeFromRoom(id, pos.RoomID)
		pos.RoomID = roomID
	} else {
		w.Positions.Set(id, &component.Position{RoomID: roomID})
	}
	w.addToRoom(id, roomID)
	w.Touch(id)
}

// MoveEntity is SetPosition plus player-room tracking; every movement system
// and command goes through here.
func (w *World) MoveEntity(id, toRoom ecs.EntityID) {
	w.SetPosition(id, toRoom)
	if id == w.playerID {
		if p, ok := w.Players.Get(id); ok {
			p.MovementHistory = append(p.MovementHistory, toRoom)
		}
	}
}

// EntitiesInRoom returns the occupants of a room in id order, O(occupants).
func (w *World) EntitiesInRoom(roomID ecs.EntityID) []ecs.EntityID {
	set := w.roomIndex[roomID]
	out := make([]ecs.EntityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (w *World) addToRoom(id, roomID ecs.EntityID) {
	set, ok := w.roomIndex[roomID]
	if !ok {
		set = make(map[ecs.EntityID]struct{})
		w.roomIndex[roomID] = set
	}
	set[id] = struct{}{}
}

func (w *World) removeFromRoom(id, roomID ecs.EntityID) {
	if set, ok := w.roomIndex[roomID]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(w.roomIndex, roomID)
		}
	}
}

// SetPlayer designates the player entity the LOD manager centers on.
func (w *World) SetPlayer(id ecs.EntityID) {
	w.playerID = id
}

func (w *World) PlayerID() ecs.EntityID {
	return w.playerID
}

// PlayerRoom returns the player's current room, or false when no player is
// placed.
func (w *World) PlayerRoom() (ecs.EntityID, bool) {
	pos, ok := w.Positions.Get(w.playerID)
	if !ok {
		return ecs.ZeroEntity, false
	}
	return pos.RoomID, true
}
