package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/persist"
)

// CompactSystem trims event records older than the retention window, both
// in memory and in the database. With keepTicks zero the log grows without
// bound and this system never fires.
type CompactSystem struct {
	events  *event.Log
	manager *persist.Manager
	log     *zap.Logger

	keepTicks uint64
	interval  uint64
}

func NewCompactSystem(events *event.Log, pm *persist.Manager, log *zap.Logger, keepTicks, interval uint64) *CompactSystem {
	if interval == 0 {
		interval = 10000
	}
	return &CompactSystem{
		events:    events,
		manager:   pm,
		log:       log,
		keepTicks: keepTicks,
		interval:  interval,
	}
}

func (s *CompactSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CompactSystem) Update(tick uint64) {
	if s.keepTicks == 0 || tick == 0 || tick%s.interval != 0 {
		return
	}

	dropped, err := s.manager.CompactEvents(context.Background(), s.events, tick, s.keepTicks)
	if err != nil {
		s.log.Error("event compaction failed", zap.Uint64("tick", tick), zap.Error(err))
		return
	}
	if dropped > 0 {
		s.log.Info("event log compacted",
			zap.Uint64("tick", tick),
			zap.Int("dropped", dropped),
			zap.Int("remaining", s.events.Len()))
	}
}
