package systems

import (
	"slices"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/rng"
)

// Breed runs the birth phase, herbivores first. The number of mature animals
// of each species is counted once before any birth, and newborns do not get
// a birth roll in the year they are born.
func (r *Region) Breed(src rng.Source, rec Recorder) {
	rec = recorder(rec)
	for _, species := range []components.Species{components.Herbivore, components.Carnivore} {
		parents := slices.Clone(*r.list(species))
		mature := countMature(parents)
		for _, a := range parents {
			if child, ok := a.Birth(src, mature); ok {
				r.add(child)
				rec.RecordBirth(species)
			}
		}
	}
}

func countMature(animals []*components.Animal) int {
	n := 0
	for _, a := range animals {
		if a.Age() > 0 {
			n++
		}
	}
	return n
}
