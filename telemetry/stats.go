package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// YearStats holds aggregated statistics for a window of years.
type YearStats struct {
	WindowStartYear int `csv:"-"`
	Year            int `csv:"year"`

	// Population counts at window end
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`

	// Events during window
	HerbBirths     int `csv:"herb_births"`
	CarnBirths     int `csv:"carn_births"`
	HerbDeaths     int `csv:"herb_deaths"`
	CarnDeaths     int `csv:"carn_deaths"`
	HerbStarved    int `csv:"herb_starved"`
	CarnStarved    int `csv:"carn_starved"`
	HerbMigrations int `csv:"herb_migrations"`
	CarnMigrations int `csv:"carn_migrations"`

	// Nutrition
	Kills      int     `csv:"kills"` // carnivores that killed at least once
	PreyEaten  float64 `csv:"prey_eaten"`
	FoodGrazed float64 `csv:"food_grazed"`
	FoodLeft   float64 `csv:"food_left"`

	// Weight distribution (sampled at window end)
	HerbWeightMean float64 `csv:"herb_weight_mean"`
	HerbWeightP10  float64 `csv:"herb_weight_p10"`
	HerbWeightP50  float64 `csv:"herb_weight_p50"`
	HerbWeightP90  float64 `csv:"herb_weight_p90"`

	CarnWeightMean float64 `csv:"carn_weight_mean"`
	CarnWeightP10  float64 `csv:"carn_weight_p10"`
	CarnWeightP50  float64 `csv:"carn_weight_p50"`
	CarnWeightP90  float64 `csv:"carn_weight_p90"`

	// Fitness distribution
	HerbFitnessMean float64 `csv:"herb_fitness_mean"`
	HerbFitnessStd  float64 `csv:"herb_fitness_std"`
	CarnFitnessMean float64 `csv:"carn_fitness_mean"`
	CarnFitnessStd  float64 `csv:"carn_fitness_std"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeWeightStats calculates mean and percentiles from weight values.
func ComputeWeightStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeFitnessStats calculates the mean and population standard deviation
// of fitness values.
func ComputeFitnessStats(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s YearStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartYear),
		slog.Int("year", s.Year),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("herb_births", s.HerbBirths),
		slog.Int("carn_births", s.CarnBirths),
		slog.Int("herb_deaths", s.HerbDeaths),
		slog.Int("carn_deaths", s.CarnDeaths),
		slog.Int("herb_starved", s.HerbStarved),
		slog.Int("carn_starved", s.CarnStarved),
		slog.Int("herb_migrations", s.HerbMigrations),
		slog.Int("carn_migrations", s.CarnMigrations),
		slog.Int("kills", s.Kills),
		slog.Float64("prey_eaten", s.PreyEaten),
		slog.Float64("food_grazed", s.FoodGrazed),
		slog.Float64("food_left", s.FoodLeft),
		slog.Float64("herb_weight_mean", s.HerbWeightMean),
		slog.Float64("herb_weight_p50", s.HerbWeightP50),
		slog.Float64("carn_weight_mean", s.CarnWeightMean),
		slog.Float64("carn_weight_p50", s.CarnWeightP50),
		slog.Float64("herb_fitness_mean", s.HerbFitnessMean),
		slog.Float64("carn_fitness_mean", s.CarnFitnessMean),
	)
}

// LogStats logs the window stats using logger, or slog.Default if nil.
func (s YearStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"year", s.Year,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"herb_births", s.HerbBirths,
		"carn_births", s.CarnBirths,
		"herb_deaths", s.HerbDeaths,
		"carn_deaths", s.CarnDeaths,
		"herb_starved", s.HerbStarved,
		"carn_starved", s.CarnStarved,
		"herb_migrations", s.HerbMigrations,
		"carn_migrations", s.CarnMigrations,
		"kills", s.Kills,
		"prey_eaten", s.PreyEaten,
		"food_grazed", s.FoodGrazed,
		"food_left", s.FoodLeft,
		"herb_weight_mean", s.HerbWeightMean,
		"herb_weight_p10", s.HerbWeightP10,
		"herb_weight_p50", s.HerbWeightP50,
		"herb_weight_p90", s.HerbWeightP90,
		"carn_weight_mean", s.CarnWeightMean,
		"carn_weight_p10", s.CarnWeightP10,
		"carn_weight_p50", s.CarnWeightP50,
		"carn_weight_p90", s.CarnWeightP90,
		"herb_fitness_mean", s.HerbFitnessMean,
		"herb_fitness_std", s.HerbFitnessStd,
		"carn_fitness_mean", s.CarnFitnessMean,
		"carn_fitness_std", s.CarnFitnessStd,
	)
}
