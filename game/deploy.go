package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/systems"
)

// placement is a validated deployment entry.
type placement struct {
	region  *systems.Region
	animals []*components.Animal
}

// Deploy places populations on the island. Locations are 1-based (row,
// column). The whole request is validated before any animal is placed, so a
// failing request leaves the island unchanged.
func (s *Simulation) Deploy(deployments []config.Deployment) error {
	placements := make([]placement, 0, len(deployments))
	for i, d := range deployments {
		p, err := s.validateDeployment(d)
		if err != nil {
			var de *DeploymentError
			if errors.As(err, &de) {
				de.Index = i
				return de
			}
			return &DeploymentError{Index: i, Err: err}
		}
		placements = append(placements, p)
	}

	total := 0
	for _, p := range placements {
		if err := p.region.Deploy(p.animals...); err != nil {
			// validated above
			return err
		}
		total += len(p.animals)
	}
	if total > 0 {
		s.logger.Debug("animals deployed", "count", total, "year", s.year)
	}
	return nil
}

func (s *Simulation) validateDeployment(d config.Deployment) (placement, error) {
	if len(d.Loc) != 2 {
		return placement{}, &DeploymentError{Err: ErrLocation, Detail: fmt.Sprintf("loc must be (row, column), got %v", d.Loc)}
	}
	row, col := d.Loc[0], d.Loc[1]
	region, ok := s.terrain.At(row-1, col-1)
	if !ok {
		return placement{}, &DeploymentError{Err: ErrLocation, Detail: fmt.Sprintf("(%d, %d) is outside the map", row, col)}
	}
	if !region.Habitable() {
		return placement{}, &DeploymentError{Err: ErrLocation, Detail: fmt.Sprintf("(%d, %d) is %s", row, col, region.Kind())}
	}

	p := placement{region: region, animals: make([]*components.Animal, 0, len(d.Pop))}
	for _, spec := range d.Pop {
		a, err := s.newAnimal(spec)
		if err != nil {
			return placement{}, &DeploymentError{Err: ErrInvalidValue, Detail: err.Error()}
		}
		p.animals = append(p.animals, a)
	}
	return p, nil
}

func (s *Simulation) newAnimal(spec config.AnimalSpec) (*components.Animal, error) {
	species, err := components.ParseSpecies(spec.Species)
	if err != nil {
		return nil, err
	}
	params := &s.params.Herbivore.SpeciesParams
	if species == components.Carnivore {
		params = &s.params.Carnivore.SpeciesParams
	}
	return components.NewAnimal(species, params, spec.Weight, int(spec.Age))
}

// ParseDeployments decodes a YAML list of deployments, each with a 1-based
// loc pair and a pop list of {species, age, weight} entries. Unknown keys are
// rejected with ErrUnknownField and badly typed values, including fractional
// ages, with ErrInvalidValue.
func ParseDeployments(data []byte) ([]config.Deployment, error) {
	var entries []yaml.Node
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing deployments: %w", err)
	}

	out := make([]config.Deployment, len(entries))
	for i := range entries {
		if err := checkKeys(&entries[i]); err != nil {
			err.Index = i
			return nil, err
		}
		raw, err := yaml.Marshal(&entries[i])
		if err != nil {
			return nil, &DeploymentError{Index: i, Err: ErrInvalidValue, Detail: err.Error()}
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&out[i]); err != nil && !errors.Is(err, io.EOF) {
			return nil, &DeploymentError{Index: i, Err: ErrInvalidValue, Detail: err.Error()}
		}
	}
	return out, nil
}

var (
	deploymentKeys = yamlKeys(reflect.TypeFor[config.Deployment]())
	animalKeys     = yamlKeys(reflect.TypeFor[config.AnimalSpec]())
)

// yamlKeys returns the mapping keys a struct type decodes from.
func yamlKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		keys[name] = true
	}
	return keys
}

// checkKeys reports the first unknown key in a deployment entry or in one of
// its pop entries. Shape errors are left to the decoder.
func checkKeys(entry *yaml.Node) *DeploymentError {
	if entry.Kind != yaml.MappingNode {
		return nil
	}
	for k := 0; k+1 < len(entry.Content); k += 2 {
		key, value := entry.Content[k], entry.Content[k+1]
		if !deploymentKeys[key.Value] {
			return unknownKey(key)
		}
		if key.Value != "pop" || value.Kind != yaml.SequenceNode {
			continue
		}
		for _, animal := range value.Content {
			if animal.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(animal.Content); j += 2 {
				if !animalKeys[animal.Content[j].Value] {
					return unknownKey(animal.Content[j])
				}
			}
		}
	}
	return nil
}

func unknownKey(key *yaml.Node) *DeploymentError {
	return &DeploymentError{Err: ErrUnknownField, Detail: fmt.Sprintf("line %d: %q", key.Line, key.Value)}
}
