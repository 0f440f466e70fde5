package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/worldweaver/server/internal/config"
	"github.com/worldweaver/server/internal/core/event"
	coresys "github.com/worldweaver/server/internal/core/system"
	"github.com/worldweaver/server/internal/data"
	"github.com/worldweaver/server/internal/engine"
	"github.com/worldweaver/server/internal/lod"
	"github.com/worldweaver/server/internal/persist"
	"github.com/worldweaver/server/internal/storylet"
	"github.com/worldweaver/server/internal/system"
	"github.com/worldweaver/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, seed int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m          WorldWeaver  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      persistent world simulation          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s \033[90m(seed: %d)\033[0m\n\n", serverName, seed)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("WW_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.Seed)

	// 3. Connect to PostgreSQL and run migrations
	printSection("Database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime.Duration)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL connected")

	if err := persist.Migrate(db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	// 4. Load content tables
	printSection("Content")

	dir := cfg.Data.Dir
	worldContent, err := data.LoadWorldContent(dir + "/world.yaml")
	if err != nil {
		return fmt.Errorf("load world content: %w", err)
	}
	printStat("regions", len(worldContent.Regions))
	printStat("rooms", len(worldContent.Rooms))

	npcContent, err := data.LoadNpcContent(dir+"/npcs.yaml", worldContent)
	if err != nil {
		return fmt.Errorf("load npc content: %w", err)
	}
	printStat("factions", len(npcContent.Factions))
	printStat("npc templates", len(npcContent.Npcs))

	qualities, storylets, err := data.LoadStorylets(dir + "/storylets.yaml")
	if err != nil {
		return fmt.Errorf("load storylets: %w", err)
	}
	printStat("qualities", len(qualities))
	printStat("storylets", len(storylets))

	storyletMgr, err := storylet.NewManager(qualities, storylets)
	if err != nil {
		return fmt.Errorf("storylet manager: %w", err)
	}
	fmt.Println()

	// 5. Restore the saved world, or generate a fresh one
	printSection("World")

	saver := persist.NewManager(db, log, cfg.Simulation.SaveIntervalTicks, cfg.Database.SaveTimeout.Duration)

	w, err := saver.LoadWorld(ctx, storyletMgr)
	switch {
	case err == nil:
		printOK(fmt.Sprintf("world restored at tick %d", w.Tick))
	case errors.Is(err, persist.ErrNoSnapshot):
		w = world.New(cfg.Server.Seed)
		counts, err := buildWorld(w, cfg, worldContent, npcContent)
		if err != nil {
			return fmt.Errorf("build world: %w", err)
		}
		printOK("fresh world generated")
		printStat("rooms spawned", counts.Rooms)
		printStat("npcs spawned", counts.Npcs)
	default:
		return fmt.Errorf("load world: %w", err)
	}
	printStat("entities", w.EntityCount())
	fmt.Println()

	// 6. Assemble the event log, LOD manager and systems
	events := event.NewLog()

	playerRoom, _ := w.PlayerRoom()
	lodMgr := lod.NewManager(w.Graph, playerRoom)

	ticksPerHour := uint64(cfg.Simulation.TicksPerHour)

	runner := coresys.NewRunner()
	runner.Register(system.NewClockSystem(w, events, ticksPerHour))
	runner.Register(system.NewScheduleSystem(w, events, lodMgr))
	runner.Register(system.NewEconomySystem(w, events, lodMgr))
	runner.Register(system.NewFactionSystem(w, events, ticksPerHour))
	runner.Register(system.NewPersistSystem(w, events, storyletMgr, saver, log))
	runner.Register(system.NewCompactSystem(events, saver, log,
		cfg.Simulation.EventKeepTicks, cfg.Simulation.CompactIntervalTicks))

	eng := engine.New(w, events, runner, lodMgr, storyletMgr, saver, log,
		cfg.Simulation.TickRate.Duration, ticksPerHour)

	// 7. Run until signaled, then save and exit
	printSection("Ready")
	printReady(fmt.Sprintf("simulation loop started (tick: %s)", cfg.Simulation.TickRate.Duration))
	fmt.Println()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng.Run(runCtx)

	log.Info("shutdown signal received")
	saveCtx, cancelSave := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSave()
	if err := eng.ForceSave(saveCtx); err != nil {
		log.Error("final save failed", zap.Error(err))
	} else {
		log.Info("final save complete", zap.Uint64("tick", eng.CurrentTick()))
	}
	log.Info("server stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
