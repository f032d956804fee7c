// Package telemetry provides per-year population statistics, bookmarks,
// CSV output and snapshots.
package telemetry

import "github.com/danhje/population-dynamics-simulator/components"

// Collector accumulates life-cycle events between flushes and produces
// YearStats. A nil *Collector ignores all events.
type Collector struct {
	windowStartYear int

	// Event counters for current window
	herbBirths     int
	carnBirths     int
	herbDeaths     int
	carnDeaths     int
	herbStarved    int
	carnStarved    int
	herbMigrations int
	carnMigrations int
	kills          int
	preyEaten      float64
	foodGrazed     float64
}

// NewCollector creates a collector whose first window starts after startYear.
func NewCollector(startYear int) *Collector {
	return &Collector{windowStartYear: startYear}
}

// RecordBirth records a birth.
func (c *Collector) RecordBirth(species components.Species) {
	if c == nil {
		return
	}
	if species == components.Herbivore {
		c.herbBirths++
	} else {
		c.carnBirths++
	}
}

// RecordDeath records a death. starved marks deaths below the minimum weight.
func (c *Collector) RecordDeath(species components.Species, starved bool) {
	if c == nil {
		return
	}
	if species == components.Herbivore {
		c.herbDeaths++
		if starved {
			c.herbStarved++
		}
	} else {
		c.carnDeaths++
		if starved {
			c.carnStarved++
		}
	}
}

// RecordKill records one carnivore's successful hunt and the prey weight it ate.
func (c *Collector) RecordKill(eaten float64) {
	if c == nil {
		return
	}
	c.kills++
	c.preyEaten += eaten
}

// RecordMigration records a successful move between regions.
func (c *Collector) RecordMigration(species components.Species) {
	if c == nil {
		return
	}
	if species == components.Herbivore {
		c.herbMigrations++
	} else {
		c.carnMigrations++
	}
}

// RecordGrazed records food eaten by herbivores.
func (c *Collector) RecordGrazed(amount float64) {
	if c == nil {
		return
	}
	c.foodGrazed += amount
}

// Population is the state sampled at the end of a window.
type Population struct {
	Herbivores []*components.Animal
	Carnivores []*components.Animal
	Food       float64 // food left in all regions
}

// Flush produces YearStats for the window ending at year and resets the
// counters for the next window.
func (c *Collector) Flush(year int, pop Population) YearStats {
	if c == nil {
		return YearStats{}
	}

	herbWeights, herbFitness := sample(pop.Herbivores)
	carnWeights, carnFitness := sample(pop.Carnivores)

	stats := YearStats{
		WindowStartYear: c.windowStartYear,
		Year:            year,

		Herbivores: len(pop.Herbivores),
		Carnivores: len(pop.Carnivores),

		HerbBirths:     c.herbBirths,
		CarnBirths:     c.carnBirths,
		HerbDeaths:     c.herbDeaths,
		CarnDeaths:     c.carnDeaths,
		HerbStarved:    c.herbStarved,
		CarnStarved:    c.carnStarved,
		HerbMigrations: c.herbMigrations,
		CarnMigrations: c.carnMigrations,

		Kills:      c.kills,
		PreyEaten:  c.preyEaten,
		FoodGrazed: c.foodGrazed,
		FoodLeft:   pop.Food,
	}
	stats.HerbWeightMean, stats.HerbWeightP10, stats.HerbWeightP50, stats.HerbWeightP90 = ComputeWeightStats(herbWeights)
	stats.CarnWeightMean, stats.CarnWeightP10, stats.CarnWeightP50, stats.CarnWeightP90 = ComputeWeightStats(carnWeights)
	stats.HerbFitnessMean, stats.HerbFitnessStd = ComputeFitnessStats(herbFitness)
	stats.CarnFitnessMean, stats.CarnFitnessStd = ComputeFitnessStats(carnFitness)

	*c = Collector{windowStartYear: year}
	return stats
}

func sample(animals []*components.Animal) (weights, fitness []float64) {
	weights = make([]float64, len(animals))
	fitness = make([]float64, len(animals))
	for i, a := range animals {
		weights[i] = a.Weight()
		fitness[i] = a.Fitness()
	}
	return weights, fitness
}
