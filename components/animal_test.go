package components

import (
	"errors"
	"math"
	"testing"

	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/rng"
)

func defaultParams() *config.Params {
	p := config.Default().Params
	return &p
}

func mustAnimal(t *testing.T, species Species, p *config.Params, weight float64, age int) *Animal {
	t.Helper()
	sp := &p.Herbivore.SpeciesParams
	if species == Carnivore {
		sp = &p.Carnivore.SpeciesParams
	}
	a, err := NewAnimal(species, sp, weight, age)
	if err != nil {
		t.Fatalf("NewAnimal(%v, %v, %d) failed: %v", species, weight, age, err)
	}
	return a
}

func TestFitnessReferenceValues(t *testing.T) {
	p := defaultParams()

	carn := mustAnimal(t, Carnivore, p, 12, 10)
	if math.Abs(carn.Fitness()-0.800068298637) > 1e-5 {
		t.Errorf("carnivore(12, 10) fitness = %v, want 0.800068", carn.Fitness())
	}

	herb := mustAnimal(t, Herbivore, p, 15, 12)
	if math.Abs(herb.Fitness()-0.871058654557) > 1e-5 {
		t.Errorf("herbivore(15, 12) fitness = %v, want 0.871059", herb.Fitness())
	}
}

func TestFitnessZeroForNonPositiveWeight(t *testing.T) {
	p := defaultParams()
	for _, w := range []float64{0, -1, -100} {
		if got := Fitness(3, w, &p.Herbivore.SpeciesParams); got != 0 {
			t.Errorf("Fitness(3, %v) = %v, want 0", w, got)
		}
	}
}

func TestFitnessBounded(t *testing.T) {
	p := defaultParams()
	for age := 0; age <= 120; age += 5 {
		for w := 0.5; w < 300; w *= 1.7 {
			for _, sp := range []*config.SpeciesParams{&p.Herbivore.SpeciesParams, &p.Carnivore.SpeciesParams} {
				f := Fitness(age, w, sp)
				if f < 0 || f > 1 || math.IsNaN(f) {
					t.Fatalf("Fitness(%d, %v) = %v, want [0,1]", age, w, f)
				}
			}
		}
	}
}

func TestFitnessFavorsYoungAndHealthy(t *testing.T) {
	p := defaultParams()
	if Fitness(5, 30, &p.Herbivore.SpeciesParams) <= Fitness(80, 30, &p.Herbivore.SpeciesParams) {
		t.Error("younger animal should be fitter at equal weight")
	}
	if Fitness(5, 30, &p.Herbivore.SpeciesParams) <= Fitness(5, 6, &p.Herbivore.SpeciesParams) {
		t.Error("underweight animal should be less fit")
	}
}

func TestNewAnimalValidation(t *testing.T) {
	p := defaultParams()

	if _, err := NewAnimal(Herbivore, &p.Herbivore.SpeciesParams, 12.5, -10); !errors.Is(err, ErrNegativeAge) {
		t.Errorf("negative age error = %v, want ErrNegativeAge", err)
	}
	if _, err := NewAnimal(Herbivore, &p.Herbivore.SpeciesParams, -12.5, 10); !errors.Is(err, ErrUnderweight) {
		t.Errorf("negative weight error = %v, want ErrUnderweight", err)
	}
	if _, err := NewAnimal(Herbivore, &p.Herbivore.SpeciesParams, 4.9, 10); !errors.Is(err, ErrUnderweight) {
		t.Errorf("sub-minimum weight error = %v, want ErrUnderweight", err)
	}
	if _, err := NewAnimal(Herbivore, nil, 12.5, 10); !errors.Is(err, ErrMissingParams) {
		t.Errorf("nil params error = %v, want ErrMissingParams", err)
	}

	a := mustAnimal(t, Herbivore, p, 12.5, 10)
	if a.Weight() != 12.5 || a.Age() != 10 || a.LastMoved() != 0 {
		t.Errorf("unexpected animal state: %v last moved %d", a, a.LastMoved())
	}
	b := mustAnimal(t, Herbivore, p, 12.5, 10)
	if a.ID() == b.ID() {
		t.Error("animals should have distinct identities")
	}
}

func TestEat(t *testing.T) {
	p := defaultParams()
	a := mustAnimal(t, Herbivore, p, 10, 15)

	if got := a.Eat(50); got != 50 {
		t.Errorf("Eat(50) = %v, want 50", got)
	}
	want := 10 + p.Herbivore.Beta*50
	if math.Abs(a.Weight()-want) > 1e-9 {
		t.Errorf("weight = %v, want %v", a.Weight(), want)
	}
	if a.Fitness() != Fitness(a.Age(), a.Weight(), a.Params()) {
		t.Error("fitness not recomputed after eating")
	}
}

func TestGain(t *testing.T) {
	p := defaultParams()
	a := mustAnimal(t, Carnivore, p, 10, 5)

	if err := a.Gain(7); err != nil {
		t.Fatal(err)
	}
	if a.Weight() != 17 {
		t.Errorf("weight = %v, want 17", a.Weight())
	}
	if err := a.Gain(-10); !errors.Is(err, ErrNegativeGain) {
		t.Errorf("Gain(-10) error = %v, want ErrNegativeGain", err)
	}
	if a.Weight() != 17 {
		t.Error("rejected gain changed weight")
	}
}

func TestBirthProbabilityThreshold(t *testing.T) {
	p := defaultParams()

	for mature := 3; mature < 13; mature++ {
		parent := mustAnimal(t, Herbivore, p, 30, 5)
		prob := parent.BirthProbability(mature)

		for _, tc := range []struct {
			draw float64
			want bool
		}{
			{0.99 * prob, true},
			{1.01 * prob, false},
		} {
			a := mustAnimal(t, Herbivore, p, 30, 5)
			_, born := a.Birth(rng.Constant{Value: tc.draw}, mature)
			if born != tc.want {
				t.Errorf("mature=%d draw=%v: born = %v, want %v", mature, tc.draw, born, tc.want)
			}
		}
	}
}

func TestBirthDeterministicFailureSkipsDraw(t *testing.T) {
	p := defaultParams()

	tests := []struct {
		name   string
		weight float64
		age    int
	}{
		{"newborn", 30, 0},
		{"too light", 20.9, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustAnimal(t, Herbivore, p, tt.weight, tt.age)
			src := &rng.Script{Floats: []float64{0}}
			if _, born := a.Birth(src, 50); born {
				t.Error("expected no birth")
			}
			if src.UniformCalls != 0 {
				t.Errorf("made %d draws, want 0", src.UniformCalls)
			}
		})
	}
}

func TestBirthLoneAnimalNeverBreeds(t *testing.T) {
	p := defaultParams()
	a := mustAnimal(t, Herbivore, p, 40, 5)
	if _, born := a.Birth(rng.Constant{Value: 0}, 1); born {
		t.Error("an animal alone in its region should not give birth")
	}
}

func TestBirthNewborn(t *testing.T) {
	p := defaultParams()
	parent := mustAnimal(t, Carnivore, p, 40, 5)

	child, born := parent.Birth(rng.Constant{Value: 0}, 4)
	if !born {
		t.Fatal("expected birth with draw 0")
	}
	if child.Species() != Carnivore || child.Age() != 0 || child.Weight() != p.Carnivore.WBirth {
		t.Errorf("unexpected newborn %v", child)
	}
	wantParent := 40 - p.Carnivore.Zeta*p.Carnivore.WBirth
	if math.Abs(parent.Weight()-wantParent) > 1e-9 {
		t.Errorf("parent weight = %v, want %v", parent.Weight(), wantParent)
	}
	if child.Params() != parent.Params() {
		t.Error("newborn should share the species parameter set")
	}
}

func TestAgingAndWeightLoss(t *testing.T) {
	p := defaultParams()
	a := mustAnimal(t, Herbivore, p, 30, 10)
	before := a.Fitness()

	a.Aging()
	if a.Age() != 11 {
		t.Errorf("age = %d, want 11", a.Age())
	}
	if a.Fitness() >= before {
		t.Error("aging should lower fitness")
	}

	a.LoseWeight()
	want := 30 - 30*p.Herbivore.Sigma
	if math.Abs(a.Weight()-want) > 1e-9 {
		t.Errorf("weight = %v, want %v", a.Weight(), want)
	}
	if a.Fitness() != Fitness(a.Age(), a.Weight(), a.Params()) {
		t.Error("fitness not recomputed after weight loss")
	}

	a.BirthLoss()
	want -= p.Herbivore.Zeta * p.Herbivore.WBirth
	if math.Abs(a.Weight()-want) > 1e-9 {
		t.Errorf("weight after birth loss = %v, want %v", a.Weight(), want)
	}
}

func TestDies(t *testing.T) {
	p := defaultParams()

	starving := mustAnimal(t, Herbivore, p, 5, 3)
	starving.LoseWeight()
	src := &rng.Script{Floats: []float64{0.99}}
	if !starving.Dies(src) {
		t.Error("starving animal should die")
	}
	if src.UniformCalls != 0 {
		t.Error("starvation death should not draw")
	}

	healthy := mustAnimal(t, Herbivore, p, 30, 3)
	if !healthy.Dies(rng.Constant{Value: 0}) {
		t.Error("draw 0 should kill a non-perfect animal")
	}
	if healthy.Dies(rng.Constant{Value: 0.5}) {
		t.Error("draw 0.5 should not kill with omega 0.01")
	}
}

func TestWillMigrate(t *testing.T) {
	p := defaultParams()
	a := mustAnimal(t, Herbivore, p, 14, 14)

	for i := 0; i < 10; i++ {
		a.Aging()
		prob := p.Herbivore.Mu * a.Fitness()
		if !a.WillMigrate(rng.Constant{Value: 0.99 * prob}) {
			t.Errorf("year %d: draw below probability should migrate", i)
		}
		if a.WillMigrate(rng.Constant{Value: 1.01 * prob}) {
			t.Errorf("year %d: draw above probability should not migrate", i)
		}
	}
}

func TestParamChangesSeenByExistingAnimals(t *testing.T) {
	p := defaultParams()
	a := mustAnimal(t, Herbivore, p, 20, 3)

	if err := p.Herbivore.Update(map[string]float64{"beta": 1}); err != nil {
		t.Fatal(err)
	}
	a.Eat(5)
	if a.Weight() != 25 {
		t.Errorf("weight = %v, want 25 with updated beta", a.Weight())
	}
}
