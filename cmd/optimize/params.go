package main

import (
	"fmt"

	"github.com/danhje/population-dynamics-simulator/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Section string  // Parameter set: herbivore, carnivore, jungle or savannah
	Key     string  // Parameter name within the set
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// Name returns the column name used in the evaluation log.
func (s ParamSpec) Name() string { return s.Section + "_" + s.Key }

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Herbivore
			{Section: "herbivore", Key: "F", Min: 4, Max: 20, Default: 10},
			{Section: "herbivore", Key: "beta", Min: 0.2, Max: 1.0, Default: 0.4},
			{Section: "herbivore", Key: "gamma", Min: 0.05, Max: 0.4, Default: 0.1},
			{Section: "herbivore", Key: "mu", Min: 0.0, Max: 0.5, Default: 0.15},
			{Section: "herbivore", Key: "omega", Min: 0.0, Max: 0.1, Default: 0.01},
			// Carnivore
			{Section: "carnivore", Key: "F", Min: 5, Max: 60, Default: 15},
			{Section: "carnivore", Key: "beta", Min: 0.3, Max: 1.0, Default: 0.75},
			{Section: "carnivore", Key: "gamma", Min: 0.05, Max: 0.8, Default: 0.25},
			{Section: "carnivore", Key: "mu", Min: 0.0, Max: 0.8, Default: 0.4},
			{Section: "carnivore", Key: "omega", Min: 0.0, Max: 0.1, Default: 0.01},
			{Section: "carnivore", Key: "DeltaPhiMax", Min: 0.5, Max: 15, Default: 0.75},
			// Landscape
			{Section: "jungle", Key: "fmax", Min: 100, Max: 1200, Default: 300},
			{Section: "savannah", Key: "fmax", Min: 50, Max: 600, Default: 150},
			{Section: "savannah", Key: "alpha", Min: 0.1, Max: 1.0, Default: 0.8},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// updates groups clamped values by parameter set.
func (pv *ParamVector) updates(values []float64) map[string]map[string]float64 {
	clamped := pv.Clamp(values)
	out := make(map[string]map[string]float64)
	for i, spec := range pv.Specs {
		if out[spec.Section] == nil {
			out[spec.Section] = make(map[string]float64)
		}
		out[spec.Section][spec.Key] = clamped[i]
	}
	return out
}

// ApplyToConfig writes clamped parameter values into cfg through the
// parameter sets' Update methods.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for section, vals := range pv.updates(values) {
		var err error
		switch section {
		case "herbivore":
			err = cfg.Herbivore.Update(vals)
		case "carnivore":
			err = cfg.Carnivore.Update(vals)
		case "jungle":
			err = cfg.Jungle.Update(vals)
		case "savannah":
			err = cfg.Savannah.Update(vals)
		default:
			err = fmt.Errorf("unknown parameter section %q", section)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	sections := map[string]map[string]float64{
		"herbivore": cfg.Herbivore.Values(),
		"carnivore": cfg.Carnivore.Values(),
		"jungle":    cfg.Jungle.Values(),
		"savannah":  cfg.Savannah.Values(),
	}
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = sections[spec.Section][spec.Key]
	}
	return out
}
