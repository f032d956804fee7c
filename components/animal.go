package components

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/rng"
)

// Animal construction failures.
var (
	ErrNegativeAge   = errors.New("age must be non-negative")
	ErrUnderweight   = errors.New("weight is below the species minimum")
	ErrNegativeGain  = errors.New("weight gain cannot be negative")
	ErrMissingParams = errors.New("species parameters are required")
)

// Animal is one individual. Fitness is cached and recomputed on every change
// of age or weight.
type Animal struct {
	id      uuid.UUID
	species Species
	params  *config.SpeciesParams

	weight    float64
	age       int
	fitness   float64
	lastMoved int
}

// NewAnimal creates an animal of the given species. params is shared with
// every other animal of the species.
func NewAnimal(species Species, params *config.SpeciesParams, weight float64, age int) (*Animal, error) {
	if params == nil {
		return nil, ErrMissingParams
	}
	if age < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrNegativeAge, age)
	}
	// !(w >= min) also rejects NaN
	if !(weight >= params.WMin) {
		return nil, fmt.Errorf("%w (%v < %v)", ErrUnderweight, weight, params.WMin)
	}
	return newAnimal(species, params, weight, age), nil
}

// newAnimal skips validation; newborns are created at w_birth whatever w_min is
// and are culled by the death phase if too light.
func newAnimal(species Species, params *config.SpeciesParams, weight float64, age int) *Animal {
	a := &Animal{
		id:      uuid.New(),
		species: species,
		params:  params,
		weight:  weight,
		age:     age,
	}
	a.updateFitness()
	return a
}

func (a *Animal) String() string {
	return fmt.Sprintf("%s(%v, %d)", a.species, a.weight, a.age)
}

// ID returns the animal's identity.
func (a *Animal) ID() uuid.UUID { return a.id }

// Species returns the animal's species.
func (a *Animal) Species() Species { return a.species }

// Params returns the species parameter set the animal reads.
func (a *Animal) Params() *config.SpeciesParams { return a.params }

// Weight returns the current weight.
func (a *Animal) Weight() float64 { return a.weight }

// Age returns the age in years.
func (a *Animal) Age() int { return a.age }

// Fitness returns the cached fitness.
func (a *Animal) Fitness() float64 { return a.fitness }

// LastMoved returns the year of the animal's last successful migration (0 if never).
func (a *Animal) LastMoved() int { return a.lastMoved }

// MarkMoved records a successful migration in year.
func (a *Animal) MarkMoved(year int) { a.lastMoved = year }

func (a *Animal) updateFitness() {
	a.fitness = Fitness(a.age, a.weight, a.params)
}

func (a *Animal) setWeight(w float64) {
	a.weight = w
	a.updateFitness()
}

// Gain adds weight directly.
func (a *Animal) Gain(weight float64) error {
	if weight < 0 {
		return fmt.Errorf("%w, got %v", ErrNegativeGain, weight)
	}
	a.setWeight(a.weight + weight)
	return nil
}

// Eat consumes amount of food (or prey weight), gaining beta*amount.
// Returns the amount eaten.
func (a *Animal) Eat(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	a.setWeight(a.weight + a.params.Beta*amount)
	return amount
}

// CanBirth reports whether the animal passes the deterministic birth checks:
// it must be at least one year old and heavy enough to pay the birth cost.
func (a *Animal) CanBirth() bool {
	p := a.params
	return a.age > 0 && a.weight >= p.WMin+p.Zeta*p.WBirth
}

// BirthProbability returns gamma * fitness * (mature-1), the chance used when
// CanBirth passes. mature counts same-species animals older than 0 in the
// region, including a.
func (a *Animal) BirthProbability(mature int) float64 {
	return a.params.Gamma * a.fitness * float64(mature-1)
}

// Birth decides whether the animal gives birth this year. On success the
// parent pays the birth loss and the newborn is returned. No random draw is
// made when the deterministic checks fail.
func (a *Animal) Birth(src rng.Source, mature int) (*Animal, bool) {
	if !a.CanBirth() {
		return nil, false
	}
	if src.Uniform() >= a.BirthProbability(mature) {
		return nil, false
	}
	a.BirthLoss()
	return newAnimal(a.species, a.params, a.params.WBirth, 0), true
}

// BirthLoss removes zeta * w_birth from the animal's weight.
func (a *Animal) BirthLoss() {
	a.setWeight(a.weight - a.params.Zeta*a.params.WBirth)
}

// Aging adds one year.
func (a *Animal) Aging() {
	a.age++
	a.updateFitness()
}

// LoseWeight applies the yearly sigma * weight loss.
func (a *Animal) LoseWeight() {
	a.setWeight(a.weight - a.params.Sigma*a.weight)
}

// Starving reports whether the animal is below its species minimum weight.
func (a *Animal) Starving() bool {
	return a.weight < a.params.WMin
}

// Dies decides whether the animal dies this year. Starving animals always die
// without a random draw; others die with probability omega * (1 - fitness).
func (a *Animal) Dies(src rng.Source) bool {
	if a.Starving() {
		return true
	}
	return src.Uniform() < a.params.Omega*(1-a.fitness)
}

// WillMigrate decides whether the animal attempts to migrate, with
// probability mu * fitness.
func (a *Animal) WillMigrate(src rng.Source) bool {
	return src.Uniform() < a.params.Mu*a.fitness
}
