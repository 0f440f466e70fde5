package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/worldweaver/server/internal/component"
	"github.com/worldweaver/server/internal/core/ecs"
	"github.com/worldweaver/server/internal/core/event"
	"github.com/worldweaver/server/internal/storylet"
	"github.com/worldweaver/server/internal/world"
)

// Manager coordinates hybrid persistence: full entity snapshots plus the
// delta of event records appended since the previous successful save, all
// written in one transaction.
type Manager struct {
	db  *DB
	log *zap.Logger

	worldRepo  worldRepo
	entityRepo entityRepo
	eventRepo  eventRepo

	saveInterval uint64
	saveTimeout  time.Duration

	// lastAttemptTick schedules saves; lastSavedSeq tracks the event delta.
	// A failed save advances the schedule but not the delta cursor, so the
	// next attempt re-sends the unsaved events.
	lastAttemptTick uint64
	lastSavedTick   uint64
	lastSavedSeq    uint64
}

// Stats summarizes what persistence currently holds.
type Stats struct {
	EntityRows   int64
	EventRows    int64
	DatabaseSize int64
	LastSaveTick uint64
}

func NewManager(db *DB, log *zap.Logger, saveInterval uint64, saveTimeout time.Duration) *Manager {
	if saveTimeout <= 0 {
		saveTimeout = 5 * time.Second
	}
	return &Manager{
		db:           db,
		log:          log,
		saveInterval: saveInterval,
		saveTimeout:  saveTimeout,
	}
}

// ShouldSave reports whether a save is due at the given tick.
func (m *Manager) ShouldSave(tick uint64) bool {
	if m.saveInterval == 0 {
		return false
	}
	return tick-m.lastAttemptTick >= m.saveInterval
}

// SaveWorld writes the world meta, every entity snapshot, and all event
// records appended since the last successful save. Either everything commits
// or nothing does.
func (m *Manager) SaveWorld(ctx context.Context, w *world.World, elog *event.Log, sm *storylet.Manager) error {
	ctx, cancel := context.WithTimeout(ctx, m.saveTimeout)
	defer cancel()

	m.lastAttemptTick = w.Tick

	rows := make([]EntityRow, 0, w.EntityCount())
	var snapErr error
	w.EachEntity(func(id ecs.EntityID, meta world.Meta) {
		if snapErr != nil {
			return
		}
		row, err := snapshotEntity(w, sm, id, meta)
		if err != nil {
			snapErr = err
			return
		}
		rows = append(rows, row)
	})
	if snapErr != nil {
		return snapErr
	}

	delta := elog.AppendedSince(m.lastSavedSeq)
	newSeq := elog.NextSeq()

	meta := WorldMeta{Tick: w.Tick, Seed: w.Seed, Time: w.Time, Weather: w.Weather}
	err := m.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := m.worldRepo.save(ctx, tx, meta); err != nil {
			return err
		}
		if err := m.entityRepo.saveAll(ctx, tx, rows); err != nil {
			return err
		}
		return m.eventRepo.appendBatch(ctx, tx, delta)
	})
	if err != nil {
		return fmt.Errorf("save world at tick %d: %w", w.Tick, err)
	}

	m.lastSavedTick = w.Tick
	m.lastSavedSeq = newSeq
	m.log.Info("world saved",
		zap.Uint64("tick", w.Tick),
		zap.Int("entities", len(rows)),
		zap.Int("events", len(delta)))
	return nil
}

// LoadWorld rebuilds a world from the most recent snapshot. No event replay
// happens; the snapshot is the authoritative state and the event log exists
// for queries, not recovery.
func (m *Manager) LoadWorld(ctx context.Context, sm *storylet.Manager) (*world.World, error) {
	meta, err := m.worldRepo.load(ctx, m.db)
	if err != nil {
		return nil, err
	}
	rows, err := m.entityRepo.loadAll(ctx, m.db)
	if err != nil {
		return nil, err
	}

	w := world.New(meta.Seed)
	if err := m.restore(w, sm, meta, rows); err != nil {
		return nil, err
	}
	return w, nil
}

// ReloadWorld restores the latest snapshot over a live world. All live
// entities, components and quality values are replaced; the in-memory event
// log restarts empty because the snapshot is the authoritative state. Rows
// are decoded up front, so a corrupt snapshot fails before the first write.
func (m *Manager) ReloadWorld(ctx context.Context, w *world.World, elog *event.Log, sm *storylet.Manager) error {
	meta, err := m.worldRepo.load(ctx, m.db)
	if err != nil {
		return err
	}
	rows, err := m.entityRepo.loadAll(ctx, m.db)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := decodeEntity(row); err != nil {
			return err
		}
	}

	w.Reset(meta.Seed)
	sm.ForgetAll()
	elog.Reset()
	if err := m.restore(w, sm, meta, rows); err != nil {
		return err
	}
	m.log.Info("world reloaded",
		zap.Uint64("tick", meta.Tick),
		zap.Int("entities", len(rows)))
	return nil
}

func (m *Manager) restore(w *world.World, sm *storylet.Manager, meta WorldMeta, rows []EntityRow) error {
	w.Tick = meta.Tick
	w.Time = meta.Time
	w.Weather = meta.Weather

	for _, row := range rows {
		blob, err := decodeEntity(row)
		if err != nil {
			return err
		}
		if err := installEntity(w, sm, row, blob); err != nil {
			return err
		}
	}
	rebuildGraph(w)

	m.lastAttemptTick = meta.Tick
	m.lastSavedTick = meta.Tick
	m.lastSavedSeq = 0
	return nil
}

// rebuildGraph reconnects the room graph from restored exit components.
// Region assignments were already installed per-room during restore.
func rebuildGraph(w *world.World) {
	w.Rooms.EachSorted(func(roomID ecs.EntityID, room *component.Room) {
		for _, exit := range room.Exits {
			w.Graph.AddConnection(roomID, exit.TargetRoom)
		}
	})
}

// CompactEvents trims both the in-memory log and the durable one, keeping
// records from the last keepTicks ticks.
func (m *Manager) CompactEvents(ctx context.Context, elog *event.Log, currentTick, keepTicks uint64) (int, error) {
	dropped := elog.Compact(currentTick, keepTicks)

	if currentTick > keepTicks {
		cutoff := currentTick - keepTicks
		err := m.db.WithTx(ctx, func(tx pgx.Tx) error {
			_, err := m.eventRepo.deleteBefore(ctx, tx, cutoff)
			return err
		})
		if err != nil {
			return dropped, err
		}
	}
	return dropped, nil
}

// DBStats reports row counts and database size for operator visibility.
func (m *Manager) DBStats(ctx context.Context) (Stats, error) {
	stats := Stats{LastSaveTick: m.lastSavedTick}

	if err := m.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM entities`).Scan(&stats.EntityRows); err != nil {
		return Stats{}, fmt.Errorf("count entities: %w", err)
	}
	n, err := m.eventRepo.count(ctx, m.db)
	if err != nil {
		return Stats{}, err
	}
	stats.EventRows = n

	if err := m.db.Pool.QueryRow(ctx,
		`SELECT pg_database_size(current_database())`).Scan(&stats.DatabaseSize); err != nil {
		return Stats{}, fmt.Errorf("database size: %w", err)
	}
	return stats, nil
}
