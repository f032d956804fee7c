package systems

import (
	"errors"
	"fmt"
	"slices"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/config"
)

// ErrNotHabitable is returned when animals are placed on Ocean or Mountain.
var ErrNotHabitable = errors.New("region is not habitable")

// Recorder receives life-cycle events from the region cycles. A nil Recorder
// is allowed everywhere one is accepted.
type Recorder interface {
	RecordBirth(species components.Species)
	RecordDeath(species components.Species, starved bool)
	RecordKill(eaten float64)
	RecordMigration(species components.Species)
	RecordGrazed(amount float64)
}

// Region is one grid cell. It owns the animals located on it and its food
// store.
type Region struct {
	kind   components.Landscape
	params *config.Params
	food   float64

	herbivores []*components.Animal
	carnivores []*components.Animal
}

// NewRegion creates an empty region of the given kind. Jungle and Savannah
// start with a full food store.
func NewRegion(kind components.Landscape, params *config.Params) *Region {
	r := &Region{kind: kind, params: params}
	r.food = r.fmax()
	return r
}

// Kind returns the landscape type.
func (r *Region) Kind() components.Landscape { return r.kind }

// Habitable reports whether animals may live here.
func (r *Region) Habitable() bool { return r.kind.Habitable() }

// Food returns the current food store.
func (r *Region) Food() float64 { return r.food }

// Herbivores returns the herbivores in the region. The slice must not be modified.
func (r *Region) Herbivores() []*components.Animal { return r.herbivores }

// Carnivores returns the carnivores in the region. The slice must not be modified.
func (r *Region) Carnivores() []*components.Animal { return r.carnivores }

// Count returns the number of animals of species.
func (r *Region) Count(species components.Species) int {
	return len(*r.list(species))
}

// Population returns the total number of animals.
func (r *Region) Population() int {
	return len(r.herbivores) + len(r.carnivores)
}

// Animals returns herbivores followed by carnivores, as a new slice.
func (r *Region) Animals() []*components.Animal {
	out := make([]*components.Animal, 0, r.Population())
	out = append(out, r.herbivores...)
	return append(out, r.carnivores...)
}

// Deploy places animals in the region. Either all are placed or none.
func (r *Region) Deploy(animals ...*components.Animal) error {
	if !r.Habitable() {
		return fmt.Errorf("%w: %s", ErrNotHabitable, r.kind)
	}
	for _, a := range animals {
		r.add(a)
	}
	return nil
}

func (r *Region) list(species components.Species) *[]*components.Animal {
	if species == components.Carnivore {
		return &r.carnivores
	}
	return &r.herbivores
}

func (r *Region) add(a *components.Animal) {
	l := r.list(a.Species())
	*l = append(*l, a)
}

func (r *Region) remove(a *components.Animal) bool {
	l := r.list(a.Species())
	i := slices.Index(*l, a)
	if i < 0 {
		return false
	}
	*l = slices.Delete(*l, i, i+1)
	return true
}

func (r *Region) fmax() float64 {
	switch r.kind {
	case components.Jungle:
		return r.params.Jungle.FMax
	case components.Savannah:
		return r.params.Savannah.FMax
	default:
		return 0
	}
}
