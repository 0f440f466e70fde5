// Package engine owns the tick loop and the command surface. Every external
// interaction with the simulation, whether a tick or a command, goes through
// one mutex, so systems and command handlers never observe a half-applied
// world.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/lod"
	"github.com/worldweaver/server/internal/persist"
	"github.com/worldweaver/server/internal/storylet"
	"github.com/worldweaver/server/internal/world"
)

// Engine drives the simulation. Construct it with New, register systems on
// the runner beforehand, then call Run or step it manually with Tick.
type Engine struct {
	mu sync.Mutex

	world     *world.World
	events    *event.Log
	runner    *coresys.Runner
	lod       *lod.Manager
	storylets *storylet.Manager
	saver     *persist.Manager
	log       *zap.Logger

	ticksPerHour uint64
	tickRate     time.Duration
	paused       bool
}

func New(w *world.World, events *event.Log, runner *coresys.Runner, lodMgr *lod.Manager, sm *storylet.Manager, saver *persist.Manager, log *zap.Logger, tickRate time.Duration, ticksPerHour uint64) *Engine {
	if tickRate <= 0 {
		tickRate = time.Second
	}
	if ticksPerHour == 0 {
		ticksPerHour = 1
	}
	return &Engine{
		world:        w,
		events:       events,
		runner:       runner,
		lod:          lodMgr,
		storylets:    sm,
		saver:        saver,
		log:          log,
		ticksPerHour: ticksPerHour,
		tickRate:     tickRate,
	}
}

// Tick advances the world by exactly one tick. Paused engines skip the
// advance entirely; the tick counter does not move while paused.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked()
}

func (e *Engine) tickLocked() {
	if e.paused {
		return
	}
	e.world.Tick++
	e.runner.Tick(e.world.Tick)
}

// Run ticks the engine at the configured rate until ctx is canceled. Rate
// changes via SetTickRate take effect on the next tick.
func (e *Engine) Run(ctx context.Context) {
	timer := time.NewTimer(e.TickRate())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			e.Tick()
			timer.Reset(e.TickRate())
		}
	}
}

// CurrentTick returns the tick counter.
func (e *Engine) CurrentTick() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.Tick
}

// Pause stops ticks from advancing; commands still work against the frozen
// world.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetTickRate changes the wall-clock interval between ticks.
func (e *Engine) SetTickRate(d time.Duration) {
	if d <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickRate = d
}

func (e *Engine) TickRate() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickRate
}

// ForceSave persists the world immediately, outside the save schedule.
func (e *Engine) ForceSave(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saver.SaveWorld(ctx, e.world, e.events, e.storylets)
}

// ForceLoad discards the live world and restores the latest snapshot in its
// place. Systems keep working untouched: they hold the same World pointer,
// which now carries the restored state. The in-memory event log restarts
// empty.
func (e *Engine) ForceLoad(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.saver.ReloadWorld(ctx, e.world, e.events, e.storylets); err != nil {
		return err
	}
	if room, ok := e.world.PlayerRoom(); ok {
		e.lod.SetPlayerRoom(room)
	}
	return nil
}

// World exposes the underlying world for boot-time assembly. It must not be
// touched once Run has started; all steady-state access goes through the
// command methods.
func (e *Engine) World() *world.World {
	return e.world
}
