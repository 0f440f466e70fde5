package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/world"
)

// entityRepo persists full entity snapshots. Saves replace the whole table
// so despawned entities disappear without tombstone bookkeeping.
type entityRepo struct{}

func (entityRepo) saveAll(ctx context.Context, tx pgx.Tx, rows []EntityRow) error {
	if _, err := tx.Exec(ctx, `DELETE FROM entities`); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO entities (id, entity_type, data, created_tick, modified_tick)
			VALUES ($1, $2, $3, $4, $5)`,
			row.ID.String(), string(row.Kind), row.Data,
			int64(row.CreatedTick), int64(row.ModifiedTick))
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}
	}
	return results.Close()
}

func (entityRepo) loadAll(ctx context.Context, db *DB) ([]EntityRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, entity_type, data, created_tick, modified_tick
		FROM entities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var out []EntityRow
	for rows.Next() {
		var (
			idStr            string
			kind             string
			data             []byte
			created, updated int64
		)
		if err := rows.Scan(&idStr, &kind, &data, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan entity row: %w", err)
		}
		id, err := ecs.ParseEntityID(idStr)
		if err != nil {
			return nil, fmt.Errorf("entity id %q: %w", idStr, err)
		}
		out = append(out, EntityRow{
			ID:           id,
			Kind:         world.Kind(kind),
			Data:         data,
			CreatedTick:  uint64(created),
			ModifiedTick: uint64(updated),
		})
	}
	return out, rows.Err()
}
