package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/game"
	"github.com/danhje/population-dynamics-simulator/systems"
	"github.com/danhje/population-dynamics-simulator/telemetry"
)

// FitnessEvaluator runs simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxYears   int
	seeds      []int64
	baseConfig *config.Config
	herbivores int // initial population used when the base config deploys nothing
	carnivores int

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestStats   []telemetry.YearStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxYears int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxYears:    maxYears,
		seeds:       seeds,
		baseConfig:  baseCfg,
		herbivores:  150,
		carnivores:  40,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the yearly stats of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestStats() []telemetry.YearStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A species below minViablePop for extinctionGraceYears consecutive years
// counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceYears = 5
)

// runResult holds the results from a single simulation run.
type runResult struct {
	coexistYears int                   // years before functional extinction (or maxYears)
	yearStats    []telemetry.YearStats // collected via StatsCallback each year
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness   float64
	quality   float64
	yearStats []telemetry.YearStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative coexistence years: longer coexistence = lower fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				slog.Warn("evaluation failed", "seed", s, "error", err)
				results[idx] = seedResult{}
				return
			}
			quality := computeQuality(result.yearStats)
			results[idx] = seedResult{
				fitness:   computeFitness(result.coexistYears, quality),
				quality:   quality,
				yearStats: result.yearStats,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedStats []telemetry.YearStats

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedStats = r.yearStats
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestStats = bestSeedStats
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single run until functional extinction or
// maxYears, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return nil, err
	}
	cfg.Simulation.SnapshotInterval = 1

	result := &runResult{}
	sim, err := game.New(game.Options{
		Seed:   seed,
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		StatsCallback: func(stats telemetry.YearStats) {
			result.yearStats = append(result.yearStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer sim.Close()
	sim.SetStopOnExtinction(false)

	if len(cfg.Deployments) == 0 {
		if err := sim.Deploy(fe.defaultDeployment(sim.Terrain())); err != nil {
			return nil, err
		}
	}

	var herbBelow, carnBelow int
	for sim.Year() < fe.maxYears {
		if err := sim.Run(1); err != nil {
			return nil, err
		}

		counts := sim.CountBySpecies()
		herbs, carns := counts[components.Herbivore], counts[components.Carnivore]

		// Hard extinction: either species completely gone
		if herbs == 0 || carns == 0 {
			result.coexistYears = sim.Year()
			return result, nil
		}

		herbBelow = belowCount(herbs, herbBelow)
		carnBelow = belowCount(carns, carnBelow)
		if herbBelow >= extinctionGraceYears || carnBelow >= extinctionGraceYears {
			result.coexistYears = sim.Year()
			return result, nil
		}
	}

	result.coexistYears = fe.maxYears
	return result, nil
}

func belowCount(count, years int) int {
	if count < minViablePop {
		return years + 1
	}
	return 0
}

// defaultDeployment places the evaluator's starting population on the
// habitable cell nearest the middle of the map, preferring jungle.
func (fe *FitnessEvaluator) defaultDeployment(t *systems.Terrain) []config.Deployment {
	rows, cols := t.Dimensions()
	midR, midC := float64(rows-1)/2, float64(cols-1)/2

	bestRow, bestCol := -1, -1
	bestScore := math.Inf(1)
	t.Each(func(row, col int, r *systems.Region) {
		if !r.Habitable() {
			return
		}
		score := math.Hypot(float64(row)-midR, float64(col)-midC)
		if r.Kind() != components.Jungle {
			score += float64(rows + cols)
		}
		if score < bestScore {
			bestScore, bestRow, bestCol = score, row, col
		}
	})
	if bestRow < 0 {
		return nil
	}

	pop := make([]config.AnimalSpec, 0, fe.herbivores+fe.carnivores)
	for range fe.herbivores {
		pop = append(pop, config.AnimalSpec{Species: "Herbivore", Age: 5, Weight: 20})
	}
	for range fe.carnivores {
		pop = append(pop, config.AnimalSpec{Species: "Carnivore", Age: 5, Weight: 20})
	}
	return []config.Deployment{{Loc: []int{bestRow + 1, bestCol + 1}, Pop: pop}}
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(coexistYears × (1.0 + 0.2 × quality))
func computeFitness(coexistYears int, quality float64) float64 {
	return -(float64(coexistYears) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.25

	qualityWarmupYears = 10 // skip first N years
	qualityMinPop      = 3  // exclude years where either species < this
	targetRatio        = 5.0
)

// computeQuality computes ecosystem quality ∈ [0, 1] from yearly stats.
func computeQuality(years []telemetry.YearStats) float64 {
	if len(years) <= qualityWarmupYears {
		return 0
	}

	var ratioSum, huntSum float64
	var herbCounts, carnCounts []float64

	for _, y := range years[qualityWarmupYears:] {
		if y.Herbivores < qualityMinPop || y.Carnivores < qualityMinPop {
			continue
		}
		herbCounts = append(herbCounts, float64(y.Herbivores))
		carnCounts = append(carnCounts, float64(y.Carnivores))

		// Population ratio score
		logErr := math.Log(float64(y.Herbivores) / float64(y.Carnivores) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		// Share of carnivores that made at least one kill
		huntSum += math.Min(1, float64(y.Kills)/float64(y.Carnivores))
	}

	n := float64(len(herbCounts))
	if n == 0 {
		return 0
	}

	stabilityScore := 0.0
	if len(herbCounts) >= 2 {
		cvHerb, cvCarn := cv(herbCounts), cv(carnCounts)
		stabilityScore = math.Exp(-(cvHerb*cvHerb + cvCarn*cvCarn))
	}

	quality := qualityWeightRatio*(ratioSum/n) +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*(huntSum/n)

	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
