package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/danhje/population-dynamics-simulator/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSpeciesExtinct   BookmarkType = "species_extinct"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// stableLookback is the number of recent windows used for the variation check.
const stableLookback = 4

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Year        int          `csv:"year" json:"year"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using logger, or slog.Default if nil.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"year", b.Year,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the population history.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []YearStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum carnivore count in recent history
	recentPreyPeak     int // peak herbivore count in recent history
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < stableLookback+1 {
		historySize = stableLookback + 1
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]YearStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats YearStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Carnivores < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.Carnivores
	}
	if stats.Herbivores > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.Herbivores
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats YearStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []YearStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	n = min(n, size)
	out := make([]YearStats, n)
	for i := range n {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats YearStats) []Bookmark {
	last := bd.recent(1)[0]
	var out []Bookmark
	if last.Herbivores > 0 && stats.Herbivores == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkSpeciesExtinct,
			Year:        stats.Year,
			Description: fmt.Sprintf("Herbivores died out (%d in year %d)", last.Herbivores, last.Year),
		})
	}
	if last.Carnivores > 0 && stats.Carnivores == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkSpeciesExtinct,
			Year:        stats.Year,
			Description: fmt.Sprintf("Carnivores died out (%d in year %d)", last.Carnivores, last.Year),
		})
	}
	return out
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats YearStats) *Bookmark {
	cfg := bd.cfg.PredatorRecovery
	if bd.recentPredMin == 0 || bd.recentPredMin > cfg.MinPopulation {
		return nil
	}

	threshold := bd.recentPredMin * cfg.RecoveryMultiplier
	if stats.Carnivores >= threshold && stats.Carnivores >= cfg.MinFinal {
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Carnivores

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Year:        stats.Year,
			Description: fmt.Sprintf("Carnivore population recovered from %d to %d", oldMin, stats.Carnivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats YearStats) *Bookmark {
	cfg := bd.cfg.PreyCrash
	if bd.recentPreyPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Herbivores)/float64(bd.recentPreyPeak)
	if drop > cfg.DropPercent && stats.Herbivores < bd.recentPreyPeak-cfg.MinDrop {
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.Herbivores

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Year:        stats.Year,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Herbivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats YearStats) *Bookmark {
	cfg := bd.cfg.StableEcosystem
	if stats.Herbivores < cfg.MinPrey || stats.Carnivores < cfg.MinPred {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(stableLookback)
	if len(history) < stableLookback {
		return nil
	}

	prey := make([]float64, len(history))
	pred := make([]float64, len(history))
	for i, h := range history {
		prey[i] = float64(h.Herbivores)
		pred[i] = float64(h.Carnivores)
	}

	if coefficientOfVariation(prey) < cfg.CVThreshold && coefficientOfVariation(pred) < cfg.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	// trigger exactly once per stable stretch
	if bd.stableWindowsCount == cfg.StableWindows {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Year:        stats.Year,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d carnivores over %d+ windows", stats.Herbivores, stats.Carnivores, cfg.StableWindows),
		}
	}
	return nil
}

// coefficientOfVariation returns std/mean, or 0 when the mean is 0.
func coefficientOfVariation(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
