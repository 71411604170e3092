package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/sim"
	"github.com/pthm-cable/sprout/tui"
	"github.com/pthm-cable/sprout/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	console := flag.Bool("console", false, "Drive the simulation from a line-based console")
	terminal := flag.Bool("tui", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging).
	// The terminal view owns stdout, so it logs to stderr.
	logOut := os.Stdout
	if *terminal {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	opts := sim.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		StatsWindow:    *statsWindow,
		// Interactive modes wait for a start command.
		StartPaused: *console || *terminal,
	}

	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *headless:
		runHeadless(ctx, s, *maxTicks)
	case *console:
		err = runConsole(ctx, s, cfg, *maxTicks)
	case *terminal:
		err = runTUI(ctx, s, cfg, *maxTicks)
	default:
		runWindow(s, cfg, *maxTicks)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation stopped", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps as fast as possible until max ticks or interrupt.
func runHeadless(ctx context.Context, s *sim.Sim, maxTicks int) {
	slog.Info("starting headless simulation",
		"seed", s.Seed(),
		"max_ticks", maxTicks,
		"steps_per_update", s.StepsPerUpdate(),
	)
	for ctx.Err() == nil {
		s.Step()
		if maxTicks > 0 && s.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick(), "nodes", len(s.Snapshot().Nodes))
			return
		}
	}
}

func newController(s *sim.Sim, cfg *config.Config, maxTicks int) *sim.Controller {
	ctl := sim.NewController(s, time.Duration(cfg.Runner.TickIntervalMs)*time.Millisecond)
	ctl.SetMaxTicks(maxTicks)
	return ctl
}

// runConsole reads commands from stdin while the controller ticks.
func runConsole(ctx context.Context, s *sim.Sim, cfg *config.Config, maxTicks int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctl := newController(s, cfg, maxTicks)
	errc := make(chan error, 1)
	go func() { errc <- ctl.Run(ctx) }()

	if err := sim.RunConsole(ctx, ctl, os.Stdin, os.Stdout); err != nil {
		return err
	}
	cancel()
	<-errc
	return nil
}

// runTUI renders in the terminal while the controller ticks.
func runTUI(ctx context.Context, s *sim.Sim, cfg *config.Config, maxTicks int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctl := newController(s, cfg, maxTicks)
	errc := make(chan error, 1)
	go func() { errc <- ctl.Run(ctx) }()

	if err := tui.New(screen, ctl).Run(ctx); err != nil {
		return err
	}
	cancel()
	<-errc
	return nil
}

// runWindow opens the raylib viewer and drives the simulation once per frame.
func runWindow(s *sim.Sim, cfg *config.Config, maxTicks int) {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(w, h, "Sprout")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := ui.NewViewer(s, w, h)
	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if maxTicks > 0 && s.Tick() >= maxTicks {
			break
		}
	}
}
