package game

import (
	"log/slog"

	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/rng"
	"github.com/danhje/population-dynamics-simulator/telemetry"
)

// Options configures a Simulation.
type Options struct {
	// Seed for the random source. Ignored when RNG is set.
	Seed int64

	// Config supplies parameters, map settings, deployments and bookmark
	// thresholds. Nil uses the embedded defaults.
	Config *config.Config

	// Map is the map text. Empty uses the configured layout or file, or
	// generates a map when neither is set.
	Map string

	// RNG overrides the seeded source, mainly for tests.
	RNG rng.Source

	// Logger receives run events. Nil uses slog.Default().
	Logger *slog.Logger

	// StatsCallback is called with the stats of every snapshot interval.
	StatsCallback func(telemetry.YearStats)

	LogStats    bool   // log stats and perf every snapshot interval
	OutputDir   string // CSV output directory (empty = disabled)
	SnapshotDir string // JSON snapshot directory (empty = disabled)
}
