package main

import (
	"fmt"

	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/config"
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/data"
	"github.com/worldweaver/server/internal/world"
)

// buildCounts reports what world generation produced.
type buildCounts struct {
	Regions  int
	Rooms    int
	Factions int
	Npcs     int
}

// buildWorld populates a fresh world from the content tables: regions, rooms
// and the graph first, then factions, NPCs and finally the player, who
// starts in the first authored room.
func buildWorld(w *world.World, cfg *config.Config, wc *data.WorldContent, nc *data.NpcContent) (buildCounts, error) {
	var counts buildCounts

	regionIDs := make(map[string]ecs.EntityID, len(wc.Regions))
	for _, r := range wc.Regions {
		id := w.Spawn(world.KindRegion)
		w.Names.Set(id, &component.Name{Value: r.Name})
		regionIDs[r.Key] = id
		counts.Regions++
	}

	roomIDs := make(map[string]ecs.EntityID, len(wc.Rooms))
	for _, r := range wc.Rooms {
		id := w.Spawn(world.KindRoom)
		w.Names.Set(id, &component.Name{Value: r.Name})
		w.Descriptions.Set(id, &component.Description{Value: r.Description})
		if r.Market {
			w.Markets.Set(id, component.NewMarket())
		}
		if r.Region != "" {
			w.Graph.SetRegion(id, regionIDs[r.Region])
		}
		roomIDs[r.Key] = id
		counts.Rooms++
	}

	// Exits resolve in a second pass so forward references work.
	for _, r := range wc.Rooms {
		id := roomIDs[r.Key]
		room := &component.Room{Exits: make([]component.Exit, 0, len(r.Exits))}
		for _, e := range r.Exits {
			target := roomIDs[e.To]
			room.Exits = append(room.Exits, component.Exit{
				Direction:   e.Direction,
				TargetRoom:  target,
				Description: e.Description,
			})
			w.Graph.AddConnection(id, target)
		}
		w.Rooms.Set(id, room)
	}

	factionIDs := make(map[string]ecs.EntityID, len(nc.Factions))
	for _, f := range nc.Factions {
		id := w.Spawn(world.KindFaction)
		w.Names.Set(id, &component.Name{Value: f.Name})
		w.Factions.Set(id, component.NewFaction(f.Name))
		factionIDs[f.Key] = id
		counts.Factions++
	}
	for _, f := range nc.Factions {
		fc, _ := w.Factions.Get(factionIDs[f.Key])
		for other, value := range f.Relations {
			fc.SetRelation(factionIDs[other], value)
		}
	}

	for _, n := range nc.Npcs {
		if err := spawnNpc(w, cfg, n, roomIDs, factionIDs); err != nil {
			return counts, fmt.Errorf("spawn npc %q: %w", n.Key, err)
		}
		counts.Npcs++
	}

	if len(wc.Rooms) > 0 {
		spawnPlayer(w, cfg, roomIDs[wc.Rooms[0].Key])
	}
	return counts, nil
}

func spawnNpc(w *world.World, cfg *config.Config, tpl data.NpcTemplate, roomIDs, factionIDs map[string]ecs.EntityID) error {
	id := w.Spawn(world.KindNpc)
	w.Names.Set(id, &component.Name{Value: tpl.Name})
	w.Descriptions.Set(id, &component.Description{Value: tpl.Description})
	w.Npcs.Set(id, &component.Npc{
		Personality: tpl.Personality,
		Greeting:    tpl.Greeting,
	})

	stats := component.DefaultStats()
	for name, v := range tpl.Stats {
		switch name {
		case "strength":
			stats.Strength = v
		case "dexterity":
			stats.Dexterity = v
		case "intelligence":
			stats.Intelligence = v
		case "charisma":
			stats.Charisma = v
		case "constitution":
			stats.Constitution = v
		default:
			return fmt.Errorf("unknown stat %q", name)
		}
	}
	stats.Clamp(cfg.Character.StatMin, cfg.Character.StatMax)
	w.Stats.Set(id, stats)

	skills := component.NewSkills()
	for skill, lvl := range tpl.Skills {
		skills.Improve(skill, lvl)
	}
	w.Skills.Set(id, skills)

	maxHealth := tpl.MaxHealth
	if maxHealth <= 0 {
		maxHealth = 20
	}
	w.Healths.Set(id, component.NewHealth(maxHealth))

	if len(tpl.Schedule) > 0 {
		sched := &component.Schedule{Packages: make([]component.Package, 0, len(tpl.Schedule))}
		for _, pkg := range tpl.Schedule {
			sched.Packages = append(sched.Packages, component.Package{
				Priority: pkg.Priority,
				Condition: component.Condition{
					Kind:      component.ConditionKind(pkg.Condition.Kind),
					StartHour: pkg.Condition.StartHour,
					EndHour:   pkg.Condition.EndHour,
				},
				Action: component.Action{
					Kind:     component.ActionKind(pkg.Action.Kind),
					RoomID:   roomIDs[pkg.Action.Room],
					Activity: pkg.Action.Activity,
				},
			})
		}
		w.Schedules.Set(id, sched)
	}

	w.Relationships.Set(id, component.NewRelationships())
	w.DialogueMemories.Set(id, component.NewDialogueMemory(cfg.Character.DialogueMemories))
	w.Inventories.Set(id, component.NewInventory(cfg.Character.InventorySlots))
	if tpl.Faction != "" {
		w.FactionMemberships.Set(id, &component.FactionMembership{
			FactionID: factionIDs[tpl.Faction],
			Rank:      "member",
		})
	}

	w.SetPosition(id, roomIDs[tpl.Room])
	return nil
}

func spawnPlayer(w *world.World, cfg *config.Config, roomID ecs.EntityID) ecs.EntityID {
	id := w.Spawn(world.KindPlayer)
	w.Names.Set(id, &component.Name{Value: "Traveler"})
	w.Players.Set(id, &component.Player{})

	stats := component.DefaultStats()
	stats.Clamp(cfg.Character.StatMin, cfg.Character.StatMax)
	w.Stats.Set(id, stats)
	w.Skills.Set(id, component.NewSkills())
	w.Healths.Set(id, component.NewHealth(20))
	w.Inventories.Set(id, component.NewInventory(cfg.Character.InventorySlots))
	w.Relationships.Set(id, component.NewRelationships())

	w.SetPlayer(id)
	w.SetPosition(id, roomID)
	return id
}
