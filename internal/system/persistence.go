package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/persist"
	"github.com/worldweaver/server/internal/storylet"
	"github.com/worldweaver/server/internal/world"
)

// PersistSystem saves the world on the configured interval. A failed save is
// logged and the next interval retries; the manager keeps the unsaved event
// delta queued until a save commits.
type PersistSystem struct {
	world     *world.World
	events    *event.Log
	storylets *storylet.Manager
	manager   *persist.Manager
	log       *zap.Logger
}

func NewPersistSystem(w *world.World, events *event.Log, sm *storylet.Manager, pm *persist.Manager, log *zap.Logger) *PersistSystem {
	return &PersistSystem{world: w, events: events, storylets: sm, manager: pm, log: log}
}

func (s *PersistSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistSystem) Update(tick uint64) {
	if !s.manager.ShouldSave(tick) {
		return
	}
	if err := s.manager.SaveWorld(context.Background(), s.world, s.events, s.storylets); err != nil {
		s.log.Error("world save failed", zap.Uint64("tick", tick), zap.Error(err))
	}
}
