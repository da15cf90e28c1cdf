package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/demnuts/autopilot"
	"github.com/pthm-cable/demnuts/config"
	"github.com/pthm-cable/demnuts/game"
	"github.com/pthm-cable/demnuts/telemetry"
	"github.com/pthm-cable/demnuts/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapPath := flag.String("map", "", "Path to a map file (empty = config or embedded meadow)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based); run N uses seed+N-1")
	runs := flag.Int("runs", 1, "Number of sessions to play")
	maxSim := flag.Duration("max-sim", 0, "Stop each run after this much simulated time (0 = until game over)")
	frame := flag.Duration("frame", time.Second/30, "Simulated time per frame")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	journalPath := flag.String("journal", "", "Write a zstd-compressed JSONL event journal to this path")
	ledgerPath := flag.String("ledger", "", "Record run summaries in this sqlite database")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *mapPath, *seed, *runs, *maxSim, *frame, *outputDir, *journalPath, *ledgerPath, *logStats); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, mapPath string, seed int64, runs int, maxSim, frame time.Duration,
	outputDir, journalPath, ledgerPath string, logStats bool) error {
	// Initialize config before anything else
	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	if mapPath == "" {
		mapPath = cfg.World.MapPath
	}
	m, err := world.LoadMap(mapPath)
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	opts := game.RunnerOptions{
		Frame:    frame,
		MaxSim:   maxSim,
		LogStats: logStats,
		Output:   out,
	}
	if journalPath != "" {
		j, err := telemetry.NewJournal(journalPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := j.Close(); err != nil {
				slog.Error("failed to close journal", "error", err)
			}
		}()
		opts.Journal = j
	}
	if ledgerPath != "" {
		l, err := telemetry.OpenLedger(ledgerPath)
		if err != nil {
			return err
		}
		defer l.Close()
		opts.Ledger = l
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless runs",
		"seed", seed,
		"runs", runs,
		"max_sim", maxSim,
		"frame", frame,
		"map_width", m.Width(),
		"map_height", m.Height(),
	)

	runner := game.NewRunner(opts)
	ids := game.NewIDAllocator()
	for i := 1; i <= runs; i++ {
		s := game.NewSessionWithIDs(cfg, m, seed+int64(i-1), ids)
		if _, err := runner.Run(ctx, i, s, autopilot.New(cfg)); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("interrupted", "run", i)
				return nil
			}
			return err
		}
	}
	return nil
}
