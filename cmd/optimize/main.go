// Package main searches species and landscape parameters under which
// herbivores and carnivores coexist, using gonum's CMA-ES.
//
// Usage: go run ./cmd/optimize -output results/ [-config base.yaml]
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/danhje/population-dynamics-simulator/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxYears := flag.Int("max-years", 500, "Simulated years per run (cap)")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Evaluation budget")
	population := flag.Int("population", 0, "CMA-ES population size (0 = gonum default)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if *outputDir == "" {
		slog.Error("-output is required")
		os.Exit(2)
	}
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	s := &search{
		params:   NewParamVector(),
		base:     config.Cfg(),
		maxEvals: *maxEvals,
	}
	s.evaluator = NewFitnessEvaluator(s.params, *maxYears, evalSeeds, s.base)

	if err := s.run(*outputDir, *population); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

// search drives one CMA-ES run and keeps the best parameters seen.
type search struct {
	params    *ParamVector
	base      *config.Config
	evaluator *FitnessEvaluator
	maxEvals  int

	log     *csv.Writer
	evals   int
	best    float64
	bestRaw []float64
	started time.Time
}

func (s *search) run(dir string, population int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	logFile, err := os.Create(filepath.Join(dir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating evaluation log: %w", err)
	}
	defer logFile.Close()

	s.log = csv.NewWriter(logFile)
	header := []string{"eval", "fitness", "quality"}
	for _, spec := range s.params.Specs {
		header = append(header, spec.Name())
	}
	if err := s.log.Write(header); err != nil {
		return err
	}

	s.best = 0
	s.started = time.Now()
	slog.Info("optimization started",
		"parameters", s.params.Dim(),
		"max_evals", s.maxEvals,
		"seeds", len(s.evaluator.seeds),
		"max_years", s.evaluator.maxYears,
	)

	problem := optimize.Problem{Func: s.objective}
	settings := &optimize.Settings{FuncEvaluations: s.maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}
	x0 := s.params.Normalize(s.params.ExtractFromConfig(s.base))

	if _, err := optimize.Minimize(problem, x0, settings, method); err != nil {
		// budget exhaustion ends the search with an error status
		slog.Info("optimization ended", "reason", err)
	}
	s.log.Flush()
	if err := s.log.Error(); err != nil {
		return fmt.Errorf("writing evaluation log: %w", err)
	}

	slog.Info("optimization complete",
		"evals", s.evals,
		"best_fitness", s.best,
		"elapsed", time.Since(s.started).Round(time.Second).String(),
	)
	return s.writeResults(dir)
}

// objective evaluates a normalized point and records it.
func (s *search) objective(x []float64) float64 {
	raw := s.params.Clamp(s.params.Denormalize(x))
	fitness := s.evaluator.Evaluate(raw)
	quality := s.evaluator.LastQuality()
	s.evals++

	if s.bestRaw == nil || fitness < s.best {
		s.best = fitness
		s.bestRaw = raw
	}

	row := []string{strconv.Itoa(s.evals), strconv.FormatFloat(fitness, 'f', 6, 64), strconv.FormatFloat(quality, 'f', 4, 64)}
	for _, v := range raw {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	s.log.Write(row)
	s.log.Flush()

	perEval := time.Since(s.started) / time.Duration(s.evals)
	slog.Info("evaluation",
		"eval", s.evals,
		"coexist_years", -fitness/(1+0.2*quality),
		"quality", quality,
		"best_fitness", s.best,
		"eta", (time.Duration(s.maxEvals-s.evals) * perEval).Round(time.Second).String(),
	)
	return fitness
}

// writeResults saves the best configuration and the population history of
// its best seed.
func (s *search) writeResults(dir string) error {
	if s.bestRaw == nil {
		return fmt.Errorf("no evaluations completed")
	}
	for i, spec := range s.params.Specs {
		slog.Info("best parameter", "section", spec.Section, "key", spec.Key, "value", s.bestRaw[i])
	}

	best := s.base.Clone()
	if err := s.params.ApplyToConfig(best, s.bestRaw); err != nil {
		return err
	}
	configPath := filepath.Join(dir, "best_config.yaml")
	if err := best.WriteYAML(configPath); err != nil {
		return err
	}
	slog.Info("best config saved", "path", configPath)

	stats := s.evaluator.BestStats()
	if len(stats) == 0 {
		return nil
	}
	statsPath := filepath.Join(dir, "best_population.csv")
	f, err := os.Create(statsPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&stats, f); err != nil {
		return fmt.Errorf("writing best population: %w", err)
	}
	slog.Info("best population saved", "path", statsPath)
	return nil
}
