package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kurolab/kuro/internal/behavior"
	"github.com/kurolab/kuro/internal/config"
	"github.com/kurolab/kuro/internal/core/event"
	coresys "github.com/kurolab/kuro/internal/core/system"
	"github.com/kurolab/kuro/internal/cue"
	"github.com/kurolab/kuro/internal/debug"
	"github.com/kurolab/kuro/internal/geom"
	"github.com/kurolab/kuro/internal/nav"
	"github.com/kurolab/kuro/internal/room"
	"github.com/kurolab/kuro/internal/scripting"
	"github.com/kurolab/kuro/internal/sensor"
	"github.com/kurolab/kuro/internal/sim"
)

// companionAgent is the single steered agent on the navigation grid.
const companionAgent nav.AgentID = 1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/kuro.toml"
	if p := os.Getenv("KURO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		// No config file: run the demo room on defaults.
		cfg = config.Defaults()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Agent.Name)

	// 3. Load the scanned room and bake the navigation surface
	scan, err := room.LoadScan(cfg.Sim.RoomFile)
	if err != nil {
		return fmt.Errorf("room: %w", err)
	}
	grid := nav.BuildGrid(scan, log)
	grid.SetSampleRetries(cfg.Behavior.SampleRetries)

	bus := event.NewBus()
	watcher := room.NewWatcher(bus, scan.Name)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// 4. Simulated host environment (player, hand, ball physics)
	world := sim.NewWorld(scan, grid, bus, rng, log)

	minX, maxX, minZ, maxZ := scan.Bounds()
	center := geom.Vec3{X: (minX + maxX) / 2, Z: (minZ + maxZ) / 2}
	spawn, ok := grid.Snap(center, (maxX-minX)/2)
	if !ok {
		return fmt.Errorf("room %s has no walkable spawn", scan.Name)
	}
	grid.AddAgent(companionAgent, spawn, cfg.Agent.WalkSpeed)

	player := sim.NewScriptedPlayer(routeFor(grid, rng, spawn), cfg.Sim.PlayerSpeed, 5*time.Second)
	hand := sim.NewHandDriver(grid, companionAgent, cfg.Sim.HandEvery)

	// 5. Sensors and cue sinks
	playerMon := sensor.NewPlayerMonitor(player, cfg.Behavior.PlayerMoveEpsilon)
	proximity := sensor.NewProximity(hand, bus,
		cfg.Behavior.DetectionRadius, cfg.Behavior.PetRadius, cfg.Behavior.PetCooldown, log)

	anim := cue.NewLogSink(log)
	var audio cue.AudioSink = anim
	if cfg.Audio.Enabled {
		synth := cue.NewSynth(cfg.Audio.Volume, log)
		defer synth.Close()
		audio = synth
	}

	// 6. Behavior scripts
	engine, err := scripting.NewEngine(cfg.Sim.ScriptsDir, anim, audio, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	// 7. The companion machine
	machine := behavior.NewMachine(companionAgent, grid, anim, audio, bus, engine, rng,
		cfg.Agent, cfg.Behavior, log)

	// 8. Register systems in phase order
	runner := coresys.NewRunner()
	runner.Register(event.NewDispatchSystem(bus))
	runner.Register(sim.NewSenseSystem(player, hand, watcher, world, cfg.Sim.ScanDelay, cfg.Sim.ThrowEvery))
	runner.Register(sim.NewBehaviorSystem(machine, playerMon, proximity, grid, companionAgent, bus, world))
	runner.Register(sim.NewActSystem(world, log))

	if cfg.Debug.Enabled {
		server := debug.NewServer(cfg.Debug.BindAddress, log)
		server.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		}()
		runner.Register(debug.NewStreamSystem(server, cfg.Debug.StreamEvery, func(tick uint64) debug.Snapshot {
			return snapshot(tick, machine, grid, player, world)
		}))
	}

	// 9. Run the behavior loop until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coresys.NewScheduler(runner, cfg.Tick.Rate, log).Run(ctx)
	return nil
}

// routeFor builds a small patrol loop of navigable points around the spawn.
func routeFor(grid *nav.Grid, rng *rand.Rand, spawn geom.Vec3) []geom.Vec3 {
	route := []geom.Vec3{spawn}
	for i := 0; i < 3; i++ {
		if p, ok := grid.SampleNear(rng, spawn, 2.5); ok {
			route = append(route, p)
		}
	}
	return route
}

func snapshot(tick uint64, machine *behavior.Machine, grid *nav.Grid, player *sim.ScriptedPlayer, world *sim.World) debug.Snapshot {
	snap := debug.Snapshot{
		Tick:      tick,
		State:     machine.CurrentState().String(),
		Suspended: machine.Suspended(),
		Held:      machine.HeldObject() != nil,
	}
	a := grid.Position(companionAgent)
	snap.Agent = [3]float64{a.X, a.Y, a.Z}
	if p, ok := player.Position(); ok {
		snap.Player = [3]float64{p.X, p.Y, p.Z}
		snap.PlayerOK = true
	}
	if b, ok := world.Ball().Position(); ok {
		snap.Ball = [3]float64{b.X, b.Y, b.Z}
		snap.BallLive = true
	}
	return snap
}

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              kuro  v0.1.0                 \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      AR companion behavior runtime        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mcompanion:\033[0m %s\n\n", name)
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
