package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/worldweaver/server/internal/world"
)

// ErrNoSnapshot is returned by LoadWorld when the database holds no saved
// world yet.
var ErrNoSnapshot = errors.New("no world snapshot in database")

// WorldMeta is the scalar world state stored in the world_meta table.
type WorldMeta struct {
	Tick    uint64         `json:"tick"`
	Seed    int64          `json:"seed"`
	Time    world.GameTime `json:"time"`
	Weather string         `json:"weather"`
}

// worldRepo persists the world_meta key/value table.
type worldRepo struct{}

func (worldRepo) save(ctx context.Context, tx pgx.Tx, meta WorldMeta) error {
	value, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal world meta: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO world_meta (key, value) VALUES ('world', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, value)
	if err != nil {
		return fmt.Errorf("save world meta: %w", err)
	}
	return nil
}

func (worldRepo) load(ctx context.Context, db *DB) (WorldMeta, error) {
	var value []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT value FROM world_meta WHERE key = 'world'`).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorldMeta{}, ErrNoSnapshot
	}
	if err != nil {
		return WorldMeta{}, fmt.Errorf("load world meta: %w", err)
	}
	var meta WorldMeta
	if err := json.Unmarshal(value, &meta); err != nil {
		return WorldMeta{}, fmt.Errorf("unmarshal world meta: %w", err)
	}
	return meta, nil
}
