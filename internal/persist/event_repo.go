package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/worldweaver/server/internal/core/event"
)

// eventRepo appends event records to the durable log. Rows are written once
// and never updated; compaction is the only delete path.
type eventRepo struct{}

func (eventRepo) appendBatch(ctx context.Context, tx pgx.Tx, records []event.Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		payload, err := event.Encode(rec.Event)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", rec.ID, err)
		}

		var entityID, roomID *string
		if scoped, ok := rec.Event.(event.EntityScoped); ok {
			s := scoped.Entity().String()
			entityID = &s
		}
		if scoped, ok := rec.Event.(event.RoomScoped); ok {
			s := scoped.Room().String()
			roomID = &s
		}

		batch.Queue(`
			INSERT INTO event_log (event_uid, tick, event_type, entity_id, room_id, tags, payload, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID.String(), int64(rec.Tick), rec.Event.EventType(),
			entityID, roomID, rec.Tags, payload, rec.Timestamp)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return results.Close()
}

func (eventRepo) deleteBefore(ctx context.Context, tx pgx.Tx, tick uint64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM event_log WHERE tick < $1`, int64(tick))
	if err != nil {
		return 0, fmt.Errorf("compact event log: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (eventRepo) count(ctx context.Context, db *DB) (int64, error) {
	var n int64
	err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM event_log`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
