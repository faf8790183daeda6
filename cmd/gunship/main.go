package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gunship/engine/internal/collision"
	"github.com/gunship/engine/internal/component"
	"github.com/gunship/engine/internal/config"
	"github.com/gunship/engine/internal/core/ecs"
	"github.com/gunship/engine/internal/core/event"
	coresys "github.com/gunship/engine/internal/core/system"
	"github.com/gunship/engine/internal/data"
	"github.com/gunship/engine/internal/grid"
	"github.com/gunship/engine/internal/resource"
	"github.com/gunship/engine/internal/scripting"
	"github.com/gunship/engine/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultConfigPath = "config/engine.toml"
	expireCallback    = "expire"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("GUNSHIP_CONFIG")
	}
	if path == "" {
		return config.LoadOrDefault(defaultConfigPath)
	}
	return config.Load(path)
}

func run(args []string) error {
	fs := flag.NewFlagSet("gunship", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to engine.toml (default $GUNSHIP_CONFIG or "+defaultConfigPath+")")
	frames := fs.Uint64("frames", 0, "stop after this many frames (0 runs until interrupted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// 1. Load config
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Scene and systems
	printSection("Scene")
	scene := ecs.NewScene(cfg.Engine.MinRecycledEntities)
	component.RegisterAll(scene)
	bus := event.NewBus()

	hash, err := grid.HasherByName(cfg.Collision.Hash)
	if err != nil {
		return fmt.Errorf("collision: %w", err)
	}
	colCfg := collision.Config{
		CellSize: cfg.Collision.CellSize,
		Workers:  cfg.Collision.Workers,
		Hash:     hash,
	}
	if cfg.Collision.EmitEvents {
		colCfg.Events = bus
	}
	colSys := collision.New(scene, colCfg, log.Named("collision"))

	loader := resource.NewLoader(ctx, resource.FileLoader(cfg.Resources.Root), cfg.Resources.Workers, log.Named("resource"))
	meshSys := system.NewMeshSystem(loader, bus, log.Named("mesh"))

	event.Subscribe(bus, func(ev event.ResourceFailed) {
		log.Warn("resource unavailable", zap.Uint32("entity", uint32(ev.Entity)), zap.String("path", ev.Path))
	})

	// 4. Scene content
	var spawns []data.Spawn
	if cfg.Scene.File != "" {
		fixture, err := data.LoadSceneFile(cfg.Scene.File)
		if err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		spawns = append(spawns, fixture...)
	}
	if n := cfg.Scene.RandomEntities; n > 0 {
		spawns = append(spawns, data.RandomSpawns(n, cfg.Scene.Extent, cfg.Scene.Radius, cfg.Scene.Seed)...)
	}

	if cfg.Scripting.Dir != "" {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		if err := bindCallbacks(colSys, engine, spawns); err != nil {
			return err
		}
	} else {
		for _, sp := range spawns {
			if sp.Callback != "" {
				return fmt.Errorf("scene: callback %q needs scripting.dir", sp.Callback)
			}
		}
	}

	alarmSys := system.NewAlarmSystem()
	alarmSys.RegisterCallback(expireCallback, func(scene *ecs.Scene, e ecs.EntityID) {
		if scene.IsAlive(e) {
			scene.DestroyEntity(e)
		}
	})

	ids := data.Populate(scene, spawns, colSys, meshSys)
	for i, sp := range spawns {
		if sp.Lifetime > 0 {
			alarmSys.Assign(scene, ids[i], sp.Lifetime, expireCallback)
		}
	}
	printStat("entities", len(ids))
	printStat("alarms", alarmSys.Pending())

	runner := coresys.NewRunner(log.Named("frame"))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(alarmSys)
	runner.Register(meshSys)
	runner.Register(system.NewMovementSystem())
	if cfg.Scene.ChurnPerFrame > 0 {
		runner.Register(system.NewSpawnerSystem(system.SpawnerConfig{
			PerFrame: cfg.Scene.ChurnPerFrame,
			Lifetime: cfg.Scene.ChurnLifetime,
			Extent:   cfg.Scene.Extent,
			Radius:   cfg.Scene.Radius,
			Seed:     cfg.Scene.Seed,
		}))
	}
	runner.Register(colSys)
	if cfg.Engine.ReportInterval > 0 {
		runner.Register(system.NewReportSystem(uint64(cfg.Engine.ReportInterval), colSys, log))
	}
	printStat("systems", len(runner.Systems()))
	fmt.Println()

	// 5. Frame loop
	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()
	dt := float32(cfg.Engine.TickRate.Seconds())

	printReady(fmt.Sprintf("frame loop started (tick: %s)", cfg.Engine.TickRate))
	fmt.Println()

	start := time.Now()
loop:
	for *frames == 0 || runner.Frames() < *frames {
		select {
		case <-ticker.C:
			runner.RunFrame(scene, dt)
		case <-ctx.Done():
			log.Info("shutdown signal received")
			break loop
		}
	}

	st := colSys.Stats()
	log.Info("engine stopped",
		zap.Uint64("frames", runner.Frames()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("entities", scene.Entities().Len()),
		zap.Int("pairs", st.Pairs),
		zap.Int("cells", st.Cells),
		zap.Int("pending_loads", loader.Pending()),
		zap.Uint64("alarms_fired", alarmSys.Fired()),
	)
	return nil
}

// bindCallbacks registers a Lua callback for every callback name the scene
// fixture refers to.
func bindCallbacks(cs *collision.System, engine *scripting.Engine, spawns []data.Spawn) error {
	seen := make(map[string]bool)
	for _, sp := range spawns {
		if sp.Callback == "" || seen[sp.Callback] {
			continue
		}
		seen[sp.Callback] = true
		cb, err := engine.Callback(sp.Callback)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		cs.RegisterCallback(sp.Callback, cb)
	}
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
