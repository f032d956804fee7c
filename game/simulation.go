// Package game drives the year loop of the population simulation.
package game

import (
	"fmt"
	"log/slog"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/rng"
	"github.com/danhje/population-dynamics-simulator/systems"
	"github.com/danhje/population-dynamics-simulator/telemetry"
)

// Simulation holds the complete state of one simulated island.
type Simulation struct {
	cfg     *config.Config
	params  *config.Params
	terrain *systems.Terrain
	rng     rng.Source
	seed    int64
	logger  *slog.Logger

	year             int
	snapshotInterval int
	stopOnExtinction bool

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	snapshotDir   string
	logStats      bool
	statsCallback func(telemetry.YearStats)
}

// New builds a simulation from opts and places the configured deployments.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mapText, err := resolveMap(opts.Map, cfg)
	if err != nil {
		return nil, err
	}
	params := &cfg.Params
	terrain, err := systems.ParseMap(mapText, params)
	if err != nil {
		return nil, err
	}

	src := opts.RNG
	if src == nil {
		src = rng.New(opts.Seed)
	}

	interval := cfg.Simulation.SnapshotInterval
	if interval < 1 {
		interval = 1
	}

	s := &Simulation{
		cfg:              cfg,
		params:           params,
		terrain:          terrain,
		rng:              src,
		seed:             opts.Seed,
		logger:           logger,
		snapshotInterval: interval,
		stopOnExtinction: cfg.Simulation.StopOnExtinction,
		collector:        telemetry.NewCollector(0),
		perf:             telemetry.NewPerfCollector(interval),
		bookmarks:        telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	if err := s.Deploy(cfg.Deployments); err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	return s, nil
}

// resolveMap picks the map text: explicit text, then configured layout or
// file, then a generated map.
func resolveMap(text string, cfg *config.Config) (string, error) {
	if text != "" {
		return text, nil
	}
	text, err := cfg.MapText()
	if err != nil || text != "" {
		return text, err
	}
	return systems.GenerateMap(cfg.Map.Rows, cfg.Map.Cols, cfg.Map.Seed)
}

// Close flushes and closes telemetry output.
func (s *Simulation) Close() error {
	return s.output.Close()
}

// Year returns the last completed year.
func (s *Simulation) Year() int { return s.year }

// Seed returns the seed the simulation was created with.
func (s *Simulation) Seed() int64 { return s.seed }

// Terrain returns the grid of regions.
func (s *Simulation) Terrain() *systems.Terrain { return s.terrain }

// Params returns the parameter sets used by this simulation.
func (s *Simulation) Params() *config.Params { return s.params }

// AnimalCount returns the total number of animals on the island.
func (s *Simulation) AnimalCount() int {
	h, c := s.terrain.Counts()
	return h + c
}

// CountBySpecies returns the number of animals of each species.
func (s *Simulation) CountBySpecies() map[components.Species]int {
	h, c := s.terrain.Counts()
	return map[components.Species]int{
		components.Herbivore: h,
		components.Carnivore: c,
	}
}

// CountByCell returns per-cell herbivore and carnivore counts indexed by
// 0-based row and column.
func (s *Simulation) CountByCell() (herbivores, carnivores [][]int) {
	return s.terrain.CountsByCell()
}

// SnapshotInterval returns the number of years between telemetry flushes.
func (s *Simulation) SnapshotInterval() int { return s.snapshotInterval }

// SetSnapshotInterval sets the number of years between telemetry flushes.
func (s *Simulation) SetSnapshotInterval(years int) error {
	if years < 1 {
		return &RunError{Years: float64(years), Err: ErrInvalidInterval}
	}
	s.snapshotInterval = years
	return nil
}

// SetStopOnExtinction controls whether Run halts once both species are gone.
func (s *Simulation) SetStopOnExtinction(stop bool) { s.stopOnExtinction = stop }

// SetHerbivoreParameters updates herbivore parameters for every animal.
func (s *Simulation) SetHerbivoreParameters(values map[string]float64) error {
	return s.params.Herbivore.Update(values)
}

// SetCarnivoreParameters updates carnivore parameters for every animal.
func (s *Simulation) SetCarnivoreParameters(values map[string]float64) error {
	return s.params.Carnivore.Update(values)
}

// SetJungleParameters updates jungle parameters for every jungle region.
func (s *Simulation) SetJungleParameters(values map[string]float64) error {
	return s.params.Jungle.Update(values)
}

// SetSavannahParameters updates savannah parameters for every savannah region.
func (s *Simulation) SetSavannahParameters(values map[string]float64) error {
	return s.params.Savannah.Update(values)
}

// Run simulates years more years, continuing from the last completed year.
// It stops early once both species are extinct if stop-on-extinction is set.
func (s *Simulation) Run(years int) error {
	if years < 0 {
		return &RunError{Years: float64(years), Err: ErrNegativeYears}
	}
	if s.snapshotInterval > years {
		return &RunError{Years: float64(years), Err: fmt.Errorf("%w (%d)", ErrIntervalExceedsRun, s.snapshotInterval)}
	}

	target := s.year + years
	s.logger.Info("simulation started", "from_year", s.year, "to_year", target, "seed", s.seed)

	for s.year < target {
		s.Step()
		if s.stopOnExtinction && s.AnimalCount() == 0 {
			s.logger.Info("all animals extinct, stopping", "year", s.year)
			// close the partial window so the extinction is recorded
			if s.year%s.snapshotInterval != 0 {
				s.flushTelemetry()
			}
			break
		}
	}

	h, c := s.terrain.Counts()
	s.logger.Info("simulation stopped", "year", s.year, "herbivores", h, "carnivores", c)
	return nil
}

// Step simulates one year: growth, then migration, then decay.
func (s *Simulation) Step() {
	s.year++

	s.perf.StartYear()
	s.perf.StartPhase(telemetry.PhaseGrowth)
	s.terrain.Growth(s.rng, s.collector)

	s.perf.StartPhase(telemetry.PhaseMigration)
	s.terrain.Migrate(s.year, s.rng, s.collector)

	s.perf.StartPhase(telemetry.PhaseDecay)
	s.terrain.Decay(s.rng, s.collector)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	if s.year%s.snapshotInterval == 0 {
		s.flushTelemetry()
	}
	s.perf.EndYear()
}
