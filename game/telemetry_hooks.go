package game

import (
	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/systems"
	"github.com/danhje/population-dynamics-simulator/telemetry"
)

// flushTelemetry closes the stats window ending this year and handles
// logging, CSV output, bookmarks and snapshots.
func (s *Simulation) flushTelemetry() {
	stats := s.collector.Flush(s.year, s.samplePopulation())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats(s.logger)
		perfStats.LogStats(s.logger)
	}

	if err := s.output.WriteStats(stats); err != nil {
		s.logger.Error("failed to write stats", "error", err)
	}
	if err := s.output.WritePerf(perfStats, s.year); err != nil {
		s.logger.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark(s.logger)
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}

	if s.snapshotDir != "" {
		s.saveSnapshot(nil)
	}
}

// samplePopulation collects every animal and the food left on the island.
func (s *Simulation) samplePopulation() telemetry.Population {
	var pop telemetry.Population
	s.terrain.Each(func(_, _ int, r *systems.Region) {
		pop.Herbivores = append(pop.Herbivores, r.Herbivores()...)
		pop.Carnivores = append(pop.Carnivores, r.Carnivores()...)
		pop.Food += r.Food()
	})
	return pop
}

// saveSnapshot writes the current per-cell state. Bookmark snapshots carry
// every animal's state.
func (s *Simulation) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := telemetry.NewSnapshot(s.terrain, s.seed, s.year, bookmark != nil)
	snapshot.Bookmark = bookmark

	path, err := telemetry.SaveSnapshot(snapshot, s.snapshotDir)
	if err != nil {
		s.logger.Error("failed to save snapshot", "error", err)
		return
	}
	s.logger.Debug("snapshot saved", "path", path, "year", s.year)
}

// Stats returns statistics for the current state without closing the stats
// window.
func (s *Simulation) Stats() telemetry.YearStats {
	pop := s.samplePopulation()
	var stats telemetry.YearStats
	stats.Year = s.year
	stats.Herbivores = len(pop.Herbivores)
	stats.Carnivores = len(pop.Carnivores)
	stats.FoodLeft = pop.Food
	stats.HerbWeightMean, stats.HerbWeightP10, stats.HerbWeightP50, stats.HerbWeightP90 = telemetry.ComputeWeightStats(weights(pop.Herbivores))
	stats.CarnWeightMean, stats.CarnWeightP10, stats.CarnWeightP50, stats.CarnWeightP90 = telemetry.ComputeWeightStats(weights(pop.Carnivores))
	return stats
}

func weights(animals []*components.Animal) []float64 {
	out := make([]float64, len(animals))
	for i, a := range animals {
		out[i] = a.Weight()
	}
	return out
}
