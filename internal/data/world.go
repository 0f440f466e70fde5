// Package data loads the static YAML content tables: rooms, regions, NPC
// templates, quality definitions, and storylets. Content is read once at
// startup and treated as immutable afterwards.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RegionTemplate names a cluster of rooms for the LOD manager.
type RegionTemplate struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// ExitTemplate is one outgoing connection, referencing rooms by key.
type ExitTemplate struct {
	Direction   string `yaml:"direction"`
	To          string `yaml:"to"`
	Description string `yaml:"description"`
}

// RoomTemplate is a room as authored in YAML. Keys are resolved to entity
// ids at spawn time.
type RoomTemplate struct {
	Key         string         `yaml:"key"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Region      string         `yaml:"region"`
	Market      bool           `yaml:"market"`
	Exits       []ExitTemplate `yaml:"exits"`
}

// WorldContent is the full static world layout.
type WorldContent struct {
	Regions []RegionTemplate `yaml:"regions"`
	Rooms   []RoomTemplate   `yaml:"rooms"`
}

// LoadWorldContent reads and validates the room/region table.
func LoadWorldContent(path string) (*WorldContent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world content: %w", err)
	}
	var c WorldContent
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse world content: %w", err)
	}

	regions := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		if r.Key == "" {
			return nil, fmt.Errorf("region with empty key")
		}
		if regions[r.Key] {
			return nil, fmt.Errorf("duplicate region key %q", r.Key)
		}
		regions[r.Key] = true
	}

	rooms := make(map[string]bool, len(c.Rooms))
	for _, r := range c.Rooms {
		if r.Key == "" {
			return nil, fmt.Errorf("room with empty key")
		}
		if rooms[r.Key] {
			return nil, fmt.Errorf("duplicate room key %q", r.Key)
		}
		rooms[r.Key] = true
		if r.Region != "" && !regions[r.Region] {
			return nil, fmt.Errorf("room %q: unknown region %q", r.Key, r.Region)
		}
	}
	for _, r := range c.Rooms {
		for _, e := range r.Exits {
			if !rooms[e.To] {
				return nil, fmt.Errorf("room %q: exit %q targets unknown room %q", r.Key, e.Direction, e.To)
			}
		}
	}
	return &c, nil
}
