package game

import (
	"errors"
	"testing"

	"github.com/danhje/population-dynamics-simulator/config"
)

func TestDeploy_ReadBack(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	err := sim.Deploy([]config.Deployment{{
		Loc: []int{2, 3},
		Pop: []config.AnimalSpec{{Species: "Herbivore", Age: 10, Weight: 12.5}},
	}})
	if err != nil {
		t.Fatal(err)
	}

	region, _ := sim.Terrain().At(1, 2)
	herbs := region.Herbivores()
	if len(herbs) != 1 {
		t.Fatalf("herbivores = %d, want 1", len(herbs))
	}
	if herbs[0].Age() != 10 || herbs[0].Weight() != 12.5 {
		t.Errorf("herbivore = %v, want age 10 weight 12.5", herbs[0])
	}
}

func TestDeploy_Errors(t *testing.T) {
	herb := []config.AnimalSpec{{Species: "Herbivore", Age: 10, Weight: 12.5}}
	tests := []struct {
		name string
		dep  config.Deployment
		want error
	}{
		{"ocean", config.Deployment{Loc: []int{1, 1}, Pop: herb}, ErrLocation},
		{"mountain", config.Deployment{Loc: []int{2, 6}, Pop: herb}, ErrLocation},
		{"outside", config.Deployment{Loc: []int{10, 10}, Pop: herb}, ErrLocation},
		{"zero based", config.Deployment{Loc: []int{0, 2}, Pop: herb}, ErrLocation},
		{"short loc", config.Deployment{Loc: []int{2}, Pop: herb}, ErrLocation},
		{"unknown species", config.Deployment{Loc: []int{2, 2}, Pop: []config.AnimalSpec{{Species: "Omnivore", Age: 1, Weight: 10}}}, ErrInvalidValue},
		{"negative age", config.Deployment{Loc: []int{2, 2}, Pop: []config.AnimalSpec{{Species: "Herbivore", Age: -1, Weight: 10}}}, ErrInvalidValue},
		{"negative weight", config.Deployment{Loc: []int{2, 2}, Pop: []config.AnimalSpec{{Species: "Carnivore", Age: 1, Weight: -10}}}, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t, Options{})
			err := sim.Deploy([]config.Deployment{tt.dep})
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var depErr *DeploymentError
			if !errors.As(err, &depErr) || depErr.Index != 0 {
				t.Errorf("error %v is not a DeploymentError for entry 0", err)
			}
			if sim.AnimalCount() != 0 {
				t.Error("failed deployment placed animals")
			}
		})
	}
}

func TestDeploy_AllOrNothing(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	err := sim.Deploy([]config.Deployment{
		{Loc: []int{2, 2}, Pop: []config.AnimalSpec{{Species: "Herbivore", Age: 1, Weight: 10}}},
		{Loc: []int{1, 1}, Pop: []config.AnimalSpec{{Species: "Herbivore", Age: 1, Weight: 10}}},
	})
	var depErr *DeploymentError
	if !errors.As(err, &depErr) || depErr.Index != 1 {
		t.Fatalf("error = %v, want DeploymentError for entry 1", err)
	}
	if sim.AnimalCount() != 0 {
		t.Errorf("AnimalCount() = %d, want 0", sim.AnimalCount())
	}
}

func TestParseDeployments(t *testing.T) {
	data := []byte(`
- loc: [2, 2]
  pop:
    - {species: Herbivore, age: 5, weight: 20}
    - {species: Herbivore, age: 5, weight: 20}
- loc: [3, 3]
  pop:
    - {species: Carnivore, age: 5, weight: 20}
`)
	deps, err := ParseDeployments(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 2 || len(deps[0].Pop) != 2 || deps[1].Pop[0].Species != "Carnivore" {
		t.Fatalf("deployments = %+v", deps)
	}

	sim := newTestSimulation(t, Options{})
	if err := sim.Deploy(deps); err != nil {
		t.Fatal(err)
	}
	if sim.AnimalCount() != 3 {
		t.Errorf("AnimalCount() = %d, want 3", sim.AnimalCount())
	}
}

func TestParseDeployments_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		want  error
		index int
	}{
		{"unknown entry key", "- loc: [2, 2]\n  where: here\n", ErrUnknownField, 0},
		{"unknown animal key", "- loc: [2, 2]\n  pop: []\n- loc: [2, 2]\n  pop:\n    - {species: Herbivore, age: 5, wieght: 20}\n", ErrUnknownField, 1},
		{"bad age", "- loc: [2, 2]\n  pop:\n    - {species: Herbivore, age: old, weight: 20}\n", ErrInvalidValue, 0},
		{"fractional age", "- loc: [2, 2]\n  pop:\n    - {species: Herbivore, age: 4.5, weight: 20}\n", ErrInvalidValue, 0},
		{"fractional age later entry", "- loc: [2, 2]\n  pop: []\n- loc: [2, 3]\n  pop:\n    - {species: Carnivore, age: 0.5, weight: 20}\n", ErrInvalidValue, 1},
		{"bad weight", "- loc: [2, 2]\n  pop:\n    - {species: Herbivore, age: 5, weight: heavy}\n", ErrInvalidValue, 0},
		{"unknown key beside bad value", "- loc: [2, 2]\n  size: 3\n  pop:\n    - {species: Herbivore, age: 4.5, weight: 20}\n", ErrUnknownField, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeployments([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var depErr *DeploymentError
			if !errors.As(err, &depErr) || depErr.Index != tt.index {
				t.Errorf("error = %v, want entry %d", err, tt.index)
			}
		})
	}
}

func TestParseDeployments_WholeFloatAge(t *testing.T) {
	deps, err := ParseDeployments([]byte("- loc: [2, 2]\n  pop:\n    - {species: Herbivore, age: 4.0, weight: 20}\n"))
	if err != nil {
		t.Fatal(err)
	}
	sim := newTestSimulation(t, Options{})
	if err := sim.Deploy(deps); err != nil {
		t.Fatal(err)
	}
	region, _ := sim.Terrain().At(1, 1)
	if herbs := region.Herbivores(); len(herbs) != 1 || herbs[0].Age() != 4 {
		t.Errorf("herbivores = %v, want one of age 4", herbs)
	}
}

func TestNew_ConfiguredFractionalAge(t *testing.T) {
	_, err := config.Parse([]byte("deployments:\n  - loc: [2, 2]\n    pop:\n      - {species: Herbivore, age: 4.5, weight: 20}\n"))
	if !errors.Is(err, config.ErrNonIntegerAge) {
		t.Fatalf("error = %v, want ErrNonIntegerAge", err)
	}
}
