package systems

import (
	"cmp"
	"slices"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/rng"
)

// Feed runs the nutrition phase: herbivores graze, then carnivores hunt.
// Only Jungle and Savannah have a nutrition phase.
func (r *Region) Feed(src rng.Source, rec Recorder) {
	if !r.kind.HasNutrition() {
		return
	}
	rec = recorder(rec)
	r.graze(rec)
	r.hunt(src, rec)
}

// graze lets herbivores eat in descending fitness order. Each eats its
// appetite F if the store holds that much, otherwise whatever is left.
func (r *Region) graze(rec Recorder) {
	var grazed float64
	for _, h := range byFitness(r.herbivores, descending) {
		appetite := h.Params().F
		switch {
		case appetite <= r.food:
			grazed += h.Eat(appetite)
			r.food -= appetite
		case r.food > 0:
			grazed += h.Eat(r.food)
			r.food = 0
		}
	}
	if grazed > 0 {
		rec.RecordGrazed(grazed)
	}
}

// hunt lets carnivores hunt in descending fitness order. Killed herbivores
// leave the region before the next carnivore hunts.
func (r *Region) hunt(src rng.Source, rec Recorder) {
	dpm := r.params.Carnivore.DeltaPhiMax
	for _, c := range byFitness(r.carnivores, descending) {
		if len(r.herbivores) == 0 {
			return
		}
		killed, eaten := Hunt(c, r.herbivores, dpm, src)
		for _, h := range killed {
			r.remove(h)
		}
		if len(killed) > 0 {
			rec.RecordKill(eaten)
		}
	}
}

// Hunt lets carnivore c try each prey in ascending fitness order. It stops
// once c has eaten its appetite F or meets prey at least as fit as itself.
// A fitness gap below deltaPhiMax succeeds with probability gap/deltaPhiMax;
// a larger gap always succeeds. Each kill feeds c min(prey weight, F - eaten).
//
// prey is not modified; the killed animals and the total eaten are returned.
func Hunt(c *components.Animal, prey []*components.Animal, deltaPhiMax float64, src rng.Source) ([]*components.Animal, float64) {
	appetite := c.Params().F
	var (
		killed []*components.Animal
		eaten  float64
	)
	for _, h := range byFitness(prey, ascending) {
		if eaten >= appetite {
			break
		}
		gap := c.Fitness() - h.Fitness()
		if gap <= 0 {
			break
		}
		if gap < deltaPhiMax && src.Uniform() >= gap/deltaPhiMax {
			continue
		}
		eaten += c.Eat(min(h.Weight(), appetite-eaten))
		killed = append(killed, h)
	}
	return killed, eaten
}

type order int

const (
	ascending order = iota
	descending
)

// byFitness returns a stably sorted copy of animals.
func byFitness(animals []*components.Animal, o order) []*components.Animal {
	sorted := slices.Clone(animals)
	slices.SortStableFunc(sorted, func(a, b *components.Animal) int {
		if o == descending {
			return cmp.Compare(b.Fitness(), a.Fitness())
		}
		return cmp.Compare(a.Fitness(), b.Fitness())
	})
	return sorted
}

type nopRecorder struct{}

func (nopRecorder) RecordBirth(components.Species)       {}
func (nopRecorder) RecordDeath(components.Species, bool) {}
func (nopRecorder) RecordKill(float64)                   {}
func (nopRecorder) RecordMigration(components.Species)   {}
func (nopRecorder) RecordGrazed(float64)                 {}

func recorder(rec Recorder) Recorder {
	if rec == nil {
		return nopRecorder{}
	}
	return rec
}
