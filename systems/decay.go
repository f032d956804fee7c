package systems

import (
	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/rng"
)

// Decay ages every animal, then applies weight loss to every animal, then
// removes the dead.
func (r *Region) Decay(src rng.Source, rec Recorder) {
	rec = recorder(rec)
	animals := r.Animals()
	for _, a := range animals {
		a.Aging()
	}
	for _, a := range animals {
		a.LoseWeight()
	}
	r.herbivores = r.survivors(r.herbivores, src, rec)
	r.carnivores = r.survivors(r.carnivores, src, rec)
}

func (r *Region) survivors(animals []*components.Animal, src rng.Source, rec Recorder) []*components.Animal {
	alive := animals[:0]
	for _, a := range animals {
		if a.Dies(src) {
			rec.RecordDeath(a.Species(), a.Starving())
			continue
		}
		alive = append(alive, a)
	}
	clear(animals[len(alive):])
	return alive
}
