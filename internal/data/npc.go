package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScheduleConditionTemplate mirrors component.Condition in YAML form.
type ScheduleConditionTemplate struct {
	Kind      string `yaml:"kind"` // time_range, always, player_nearby
	StartHour int    `yaml:"start_hour"`
	EndHour   int    `yaml:"end_hour"`
}

// ScheduleActionTemplate mirrors component.Action; Room references a room
// key from the world content table.
type ScheduleActionTemplate struct {
	Kind     string `yaml:"kind"` // stay_in_room, move_to_room, perform_activity
	Room     string `yaml:"room"`
	Activity string `yaml:"activity"`
}

// SchedulePackageTemplate is one authored priority package. File order is
// registration order, which is the schedule tie-break; do not sort.
type SchedulePackageTemplate struct {
	Priority  int                       `yaml:"priority"`
	Condition ScheduleConditionTemplate `yaml:"condition"`
	Action    ScheduleActionTemplate    `yaml:"action"`
}

// NpcTemplate holds one NPC as authored in YAML.
type NpcTemplate struct {
	Key         string                    `yaml:"key"`
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Personality string                    `yaml:"personality"`
	Greeting    string                    `yaml:"greeting"`
	Room        string                    `yaml:"room"`
	Faction     string                    `yaml:"faction"`
	MaxHealth   int                       `yaml:"max_health"`
	Stats       map[string]int            `yaml:"stats"`
	Skills      map[string]int            `yaml:"skills"`
	Schedule    []SchedulePackageTemplate `yaml:"schedule"`
}

// FactionTemplate declares a faction and its starting relations to other
// factions by key.
type FactionTemplate struct {
	Key       string         `yaml:"key"`
	Name      string         `yaml:"name"`
	Relations map[string]int `yaml:"relations"`
}

type npcFile struct {
	Factions []FactionTemplate `yaml:"factions"`
	Npcs     []NpcTemplate     `yaml:"npcs"`
}

// NpcContent is the loaded NPC and faction table.
type NpcContent struct {
	Factions []FactionTemplate
	Npcs     []NpcTemplate
}

var validConditionKinds = map[string]bool{"time_range": true, "always": true, "player_nearby": true}
var validActionKinds = map[string]bool{"stay_in_room": true, "move_to_room": true, "perform_activity": true}

// LoadNpcContent reads and validates the NPC/faction table. Room references
// are validated against the given world content.
func LoadNpcContent(path string, worldContent *WorldContent) (*NpcContent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc content: %w", err)
	}
	var f npcFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc content: %w", err)
	}

	rooms := make(map[string]bool, len(worldContent.Rooms))
	for _, r := range worldContent.Rooms {
		rooms[r.Key] = true
	}
	factions := make(map[string]bool, len(f.Factions))
	for _, fa := range f.Factions {
		if fa.Key == "" {
			return nil, fmt.Errorf("faction with empty key")
		}
		if factions[fa.Key] {
			return nil, fmt.Errorf("duplicate faction key %q", fa.Key)
		}
		factions[fa.Key] = true
	}
	for _, fa := range f.Factions {
		for other := range fa.Relations {
			if !factions[other] {
				return nil, fmt.Errorf("faction %q: relation to unknown faction %q", fa.Key, other)
			}
		}
	}

	seen := make(map[string]bool, len(f.Npcs))
	for _, n := range f.Npcs {
		if n.Key == "" {
			return nil, fmt.Errorf("npc with empty key")
		}
		if seen[n.Key] {
			return nil, fmt.Errorf("duplicate npc key %q", n.Key)
		}
		seen[n.Key] = true
		if !rooms[n.Room] {
			return nil, fmt.Errorf("npc %q: unknown room %q", n.Key, n.Room)
		}
		if n.Faction != "" && !factions[n.Faction] {
			return nil, fmt.Errorf("npc %q: unknown faction %q", n.Key, n.Faction)
		}
		for i, pkg := range n.Schedule {
			if !validConditionKinds[pkg.Condition.Kind] {
				return nil, fmt.Errorf("npc %q: schedule[%d]: unknown condition kind %q", n.Key, i, pkg.Condition.Kind)
			}
			if !validActionKinds[pkg.Action.Kind] {
				return nil, fmt.Errorf("npc %q: schedule[%d]: unknown action kind %q", n.Key, i, pkg.Action.Kind)
			}
			if pkg.Action.Room != "" && !rooms[pkg.Action.Room] {
				return nil, fmt.Errorf("npc %q: schedule[%d]: unknown room %q", n.Key, i, pkg.Action.Room)
			}
		}
	}
	return &NpcContent{Factions: f.Factions, Npcs: f.Npcs}, nil
}
