package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapPath := flag.String("map", "", "Path to a map file (overrides config)")
	deployPath := flag.String("deploy", "", "Path to a YAML deployment list placed before the run")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	years := flag.Float64("years", -1, "Years to simulate (negative = use config)")
	interval := flag.Int("snapshot-interval", 0, "Years between stats flushes (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *mapPath != "" {
		cfg.Map.File = *mapPath
		cfg.Map.Layout = ""
	}
	if *interval > 0 {
		cfg.Simulation.SnapshotInterval = *interval
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Simulation.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	yearsValue := cfg.Simulation.Years
	if *years >= 0 {
		yearsValue = *years
	}
	runYears, err := game.YearsFromFloat(yearsValue)
	if err != nil {
		slog.Error("invalid number of years", "error", err)
		os.Exit(1)
	}

	sim, err := game.New(game.Options{
		Seed:        rngSeed,
		Config:      cfg,
		Logger:      logger,
		LogStats:    *logStats || cfg.Telemetry.LogStats,
		OutputDir:   firstNonEmpty(*outputDir, cfg.Telemetry.OutputDir),
		SnapshotDir: firstNonEmpty(*snapshotDir, cfg.Telemetry.SnapshotDir),
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer sim.Close()

	if *deployPath != "" {
		if err := deployFile(sim, *deployPath); err != nil {
			slog.Error("failed to deploy animals", "path", *deployPath, "error", err)
			sim.Close()
			os.Exit(1)
		}
	}

	start := time.Now()
	if err := sim.Run(runYears); err != nil {
		slog.Error("run failed", "error", err)
		sim.Close()
		os.Exit(1)
	}

	counts := sim.CountBySpecies()
	slog.Info("run complete",
		"year", sim.Year(),
		"seed", sim.Seed(),
		"animals", sim.AnimalCount(),
		"herbivores", counts[components.Herbivore],
		"carnivores", counts[components.Carnivore],
		"elapsed", time.Since(start).String(),
	)
}

func deployFile(sim *game.Simulation, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	deployments, err := game.ParseDeployments(data)
	if err != nil {
		return err
	}
	return sim.Deploy(deployments)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
