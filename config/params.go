package config

import (
	"errors"
	"fmt"
	"sort"
)

// Parameter validation failures.
var (
	ErrUnknownParameter  = errors.New("unknown parameter")
	ErrNegativeParameter = errors.New("parameter must be a non-negative number")
)

// ParameterError reports a rejected parameter update. A rejected update
// leaves the whole parameter set unchanged.
type ParameterError struct {
	Section string
	Key     string
	Value   float64
	Err     error
}

func (e *ParameterError) Error() string {
	if errors.Is(e.Err, ErrUnknownParameter) {
		return fmt.Sprintf("%s: %v %q", e.Section, e.Err, e.Key)
	}
	return fmt.Sprintf("%s.%s = %v: %v", e.Section, e.Key, e.Value, e.Err)
}

func (e *ParameterError) Unwrap() error { return e.Err }

// Params groups every species and landscape parameter set. Animals and regions
// hold pointers into one Params value, so an update is seen by every existing
// and future animal or region of that kind.
type Params struct {
	Herbivore HerbivoreParams `yaml:"herbivore"`
	Carnivore CarnivoreParams `yaml:"carnivore"`
	Jungle    JungleParams    `yaml:"jungle"`
	Savannah  SavannahParams  `yaml:"savannah"`
}

// SpeciesParams holds the life-cycle parameters shared by both species.
type SpeciesParams struct {
	WBirth    float64 `yaml:"w_birth"`     // Newborn weight
	Beta      float64 `yaml:"beta"`        // Weight gained per unit of food eaten
	Sigma     float64 `yaml:"sigma"`       // Fraction of weight lost each year
	WMin      float64 `yaml:"w_min"`       // Animals lighter than this die
	AHalf     float64 `yaml:"a_half"`      // Age at which the age gate is 0.5
	PhiAge    float64 `yaml:"phi_age"`     // Age gate steepness
	WHalfLow  float64 `yaml:"w_half_low"`  // Weight at which the underweight gate is 0.5
	WHalfHigh float64 `yaml:"w_half_high"` // Weight at which the overweight gate is 0.5
	PhiLow    float64 `yaml:"phi_low"`     // Underweight gate steepness
	PhiHigh   float64 `yaml:"phi_high"`    // Overweight gate steepness
	Mu        float64 `yaml:"mu"`          // Migration propensity
	Gamma     float64 `yaml:"gamma"`       // Birth propensity
	Zeta      float64 `yaml:"zeta"`        // Birth cost in multiples of w_birth
	Omega     float64 `yaml:"omega"`       // Random death propensity
	F         float64 `yaml:"F"`           // Appetite per year
}

// HerbivoreParams is the herbivore parameter set.
type HerbivoreParams struct {
	SpeciesParams `yaml:",inline"`
}

// CarnivoreParams extends SpeciesParams with the hunting threshold.
type CarnivoreParams struct {
	SpeciesParams `yaml:",inline"`
	DeltaPhiMax   float64 `yaml:"DeltaPhiMax"` // Fitness gap at which a hunt always succeeds
}

// JungleParams holds jungle food parameters.
type JungleParams struct {
	FMax float64 `yaml:"fmax"`
}

// SavannahParams holds savannah food parameters.
type SavannahParams struct {
	FMax  float64 `yaml:"fmax"`
	Alpha float64 `yaml:"alpha"` // Fraction of the gap to fmax regrown each year
}

func (p *SpeciesParams) fields() map[string]*float64 {
	return map[string]*float64{
		"w_birth":     &p.WBirth,
		"beta":        &p.Beta,
		"sigma":       &p.Sigma,
		"w_min":       &p.WMin,
		"a_half":      &p.AHalf,
		"phi_age":     &p.PhiAge,
		"w_half_low":  &p.WHalfLow,
		"w_half_high": &p.WHalfHigh,
		"phi_low":     &p.PhiLow,
		"phi_high":    &p.PhiHigh,
		"mu":          &p.Mu,
		"gamma":       &p.Gamma,
		"zeta":        &p.Zeta,
		"omega":       &p.Omega,
		"F":           &p.F,
	}
}

func (p *CarnivoreParams) fields() map[string]*float64 {
	f := p.SpeciesParams.fields()
	f["DeltaPhiMax"] = &p.DeltaPhiMax
	return f
}

func (p *JungleParams) fields() map[string]*float64 {
	return map[string]*float64{"fmax": &p.FMax}
}

func (p *SavannahParams) fields() map[string]*float64 {
	return map[string]*float64{"fmax": &p.FMax, "alpha": &p.Alpha}
}

// Update applies values to the herbivore parameter set. Either every value
// is applied or, on error, none is.
func (p *HerbivoreParams) Update(values map[string]float64) error {
	return apply("herbivore", p.fields(), values)
}

// Update applies values to the carnivore parameter set atomically.
func (p *CarnivoreParams) Update(values map[string]float64) error {
	return apply("carnivore", p.fields(), values)
}

// Update applies values to the jungle parameter set atomically.
func (p *JungleParams) Update(values map[string]float64) error {
	return apply("jungle", p.fields(), values)
}

// Update applies values to the savannah parameter set atomically.
func (p *SavannahParams) Update(values map[string]float64) error {
	return apply("savannah", p.fields(), values)
}

// Values returns the parameter set as a name -> value map.
func (p *HerbivoreParams) Values() map[string]float64 { return snapshot(p.fields()) }

// Values returns the parameter set as a name -> value map.
func (p *CarnivoreParams) Values() map[string]float64 { return snapshot(p.fields()) }

// Values returns the parameter set as a name -> value map.
func (p *JungleParams) Values() map[string]float64 { return snapshot(p.fields()) }

// Values returns the parameter set as a name -> value map.
func (p *SavannahParams) Values() map[string]float64 { return snapshot(p.fields()) }

// apply validates the whole batch before writing anything. Keys are checked
// in sorted order so the reported error does not depend on map iteration.
func apply(section string, fields map[string]*float64, values map[string]float64) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return &ParameterError{Section: section, Key: k, Value: values[k], Err: ErrUnknownParameter}
		}
	}
	for _, k := range keys {
		// !(v >= 0) also rejects NaN
		if v := values[k]; !(v >= 0) {
			return &ParameterError{Section: section, Key: k, Value: v, Err: ErrNegativeParameter}
		}
	}

	for _, k := range keys {
		*fields[k] = values[k]
	}
	return nil
}

func snapshot(fields map[string]*float64) map[string]float64 {
	out := make(map[string]float64, len(fields))
	for k, v := range fields {
		out[k] = *v
	}
	return out
}

func validate(section string, fields map[string]*float64) error {
	return apply(section, fields, snapshot(fields))
}

// Validate checks that every parameter in every set is non-negative.
func (p *Params) Validate() error {
	if err := validate("herbivore", p.Herbivore.fields()); err != nil {
		return err
	}
	if err := validate("carnivore", p.Carnivore.fields()); err != nil {
		return err
	}
	if err := validate("jungle", p.Jungle.fields()); err != nil {
		return err
	}
	return validate("savannah", p.Savannah.fields())
}

// Clone returns an independent copy of the parameter sets.
func (p *Params) Clone() *Params {
	c := *p
	return &c
}
