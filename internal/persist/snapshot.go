package persist

import (
	"encoding/json"
	"fmt"

	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/storylet"
	"github.com/worldweaver/server/internal/world"
)

// EntityBlob is the JSON shape of one entity's snapshot. Absent components
// marshal away entirely, so a room row carries no stats block and an npc row
// no exit list.
type EntityBlob struct {
	Name              *component.Name              `json:"name,omitempty"`
	Description       *component.Description       `json:"description,omitempty"`
	Position          *component.Position          `json:"position,omitempty"`
	Room              *component.Room              `json:"room,omitempty"`
	Npc               *component.Npc               `json:"npc,omitempty"`
	Player            *component.Player            `json:"player,omitempty"`
	Stats             *component.Stats             `json:"stats,omitempty"`
	Skills            *component.Skills            `json:"skills,omitempty"`
	Health            *component.Health            `json:"health,omitempty"`
	Schedule          *component.Schedule          `json:"schedule,omitempty"`
	Inventory         *component.Inventory         `json:"inventory,omitempty"`
	Relationships     *component.Relationships     `json:"relationships,omitempty"`
	DialogueMemory    *component.DialogueMemory    `json:"dialogue_memory,omitempty"`
	FactionMembership *component.FactionMembership `json:"faction_membership,omitempty"`
	Faction           *component.Faction           `json:"faction,omitempty"`
	Market            *component.Market            `json:"market,omitempty"`

	// Region records which region a room belongs to; the graph is rebuilt
	// from Room exits plus this field on restore.
	Region *ecs.EntityID `json:"region,omitempty"`

	Qualities map[string]int `json:"qualities,omitempty"`

	IsPlayer bool `json:"is_player,omitempty"`
}

// EntityRow is one row of the entities table.
type EntityRow struct {
	ID           ecs.EntityID
	Kind         world.Kind
	Data         []byte
	CreatedTick  uint64
	ModifiedTick uint64
}

// snapshotEntity captures every component attached to id into a row.
func snapshotEntity(w *world.World, sm *storylet.Manager, id ecs.EntityID, m world.Meta) (EntityRow, error) {
	var blob EntityBlob
	if c, ok := w.Names.Get(id); ok {
		blob.Name = c
	}
	if c, ok := w.Descriptions.Get(id); ok {
		blob.Description = c
	}
	if c, ok := w.Positions.Get(id); ok {
		blob.Position = c
	}
	if c, ok := w.Rooms.Get(id); ok {
		blob.Room = c
		if region, ok := w.Graph.Region(id); ok {
			blob.Region = &region
		}
	}
	if c, ok := w.Npcs.Get(id); ok {
		blob.Npc = c
	}
	if c, ok := w.Players.Get(id); ok {
		blob.Player = c
	}
	if c, ok := w.Stats.Get(id); ok {
		blob.Stats = c
	}
	if c, ok := w.Skills.Get(id); ok {
		blob.Skills = c
	}
	if c, ok := w.Healths.Get(id); ok {
		blob.Health = c
	}
	if c, ok := w.Schedules.Get(id); ok {
		blob.Schedule = c
	}
	if c, ok := w.Inventories.Get(id); ok {
		blob.Inventory = c
	}
	if c, ok := w.Relationships.Get(id); ok {
		blob.Relationships = c
	}
	if c, ok := w.DialogueMemories.Get(id); ok {
		blob.DialogueMemory = c
	}
	if c, ok := w.FactionMemberships.Get(id); ok {
		blob.FactionMembership = c
	}
	if c, ok := w.Factions.Get(id); ok {
		blob.Faction = c
	}
	if c, ok := w.Markets.Get(id); ok {
		blob.Market = c
	}
	if vals := sm.Snapshot(id); len(vals) > 0 {
		blob.Qualities = vals
	}
	blob.IsPlayer = id == w.PlayerID()

	data, err := json.Marshal(&blob)
	if err != nil {
		return EntityRow{}, fmt.Errorf("marshal entity %s: %w", id, err)
	}
	return EntityRow{
		ID:           id,
		Kind:         m.Kind,
		Data:         data,
		CreatedTick:  m.CreatedTick,
		ModifiedTick: m.ModifiedTick,
	}, nil
}

// decodeEntity parses a row's snapshot blob without touching the world, so a
// reload can validate every row before it starts overwriting live state.
func decodeEntity(row EntityRow) (EntityBlob, error) {
	var blob EntityBlob
	if err := json.Unmarshal(row.Data, &blob); err != nil {
		return EntityBlob{}, fmt.Errorf("unmarshal entity %s: %w", row.ID, err)
	}
	return blob, nil
}

// installEntity places a decoded snapshot into the world. The position goes
// in last so the room occupancy index is rebuilt as rows land.
func installEntity(w *world.World, sm *storylet.Manager, row EntityRow, blob EntityBlob) error {
	if err := w.SpawnWithID(row.ID, row.Kind, row.CreatedTick, row.ModifiedTick); err != nil {
		return err
	}

	if blob.Name != nil {
		w.Names.Set(row.ID, blob.Name)
	}
	if blob.Description != nil {
		w.Descriptions.Set(row.ID, blob.Description)
	}
	if blob.Room != nil {
		w.Rooms.Set(row.ID, blob.Room)
	}
	if blob.Npc != nil {
		w.Npcs.Set(row.ID, blob.Npc)
	}
	if blob.Player != nil {
		w.Players.Set(row.ID, blob.Player)
	}
	if blob.Stats != nil {
		w.Stats.Set(row.ID, blob.Stats)
	}
	if blob.Skills != nil {
		w.Skills.Set(row.ID, blob.Skills)
	}
	if blob.Health != nil {
		w.Healths.Set(row.ID, blob.Health)
	}
	if blob.Schedule != nil {
		w.Schedules.Set(row.ID, blob.Schedule)
	}
	if blob.Inventory != nil {
		w.Inventories.Set(row.ID, blob.Inventory)
	}
	if blob.Relationships != nil {
		w.Relationships.Set(row.ID, blob.Relationships)
	}
	if blob.DialogueMemory != nil {
		w.DialogueMemories.Set(row.ID, blob.DialogueMemory)
	}
	if blob.FactionMembership != nil {
		w.FactionMemberships.Set(row.ID, blob.FactionMembership)
	}
	if blob.Faction != nil {
		w.Factions.Set(row.ID, blob.Faction)
	}
	if blob.Market != nil {
		w.Markets.Set(row.ID, blob.Market)
	}
	if blob.Region != nil {
		w.Graph.SetRegion(row.ID, *blob.Region)
	}
	if len(blob.Qualities) > 0 {
		sm.Restore(row.ID, blob.Qualities)
	}
	if blob.IsPlayer {
		w.SetPlayer(row.ID)
	}
	if blob.Position != nil {
		w.SetPosition(row.ID, blob.Position.RoomID)
	}
	return nil
}
