// Package rng provides the random source injected into the simulation.
//
// Every stochastic rule draws from a Source in a fixed order, so two runs with
// the same seed and the same call sequence produce identical results.
package rng

import "math/rand/v2"

// Source is the random source used by the simulation.
type Source interface {
	// Uniform returns a float in [0, 1).
	Uniform() float64
	// IntN returns an int in [0, n).
	IntN(n int) int
}

// PCG is a seedable Source backed by math/rand/v2.
type PCG struct {
	r *rand.Rand
}

// New creates a deterministic source from seed.
func New(seed int64) *PCG {
	p := &PCG{}
	p.Seed(seed)
	return p
}

// Seed resets the generator. Subsequent draws replay from the start of the
// sequence for this seed.
func (p *PCG) Seed(seed int64) {
	p.r = rand.New(rand.NewPCG(uint64(seed), 0))
}

// Uniform returns a float in [0, 1).
func (p *PCG) Uniform() float64 {
	return p.r.Float64()
}

// IntN returns an int in [0, n). Returns 0 if n <= 0.
func (p *PCG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return p.r.IntN(n)
}

// Constant always returns the same values. Useful for forcing every
// probabilistic rule to succeed (Value 0) or fail (Value 1).
type Constant struct {
	Value float64
	Int   int
}

// Uniform returns c.Value.
func (c Constant) Uniform() float64 { return c.Value }

// IntN returns c.Int clamped into [0, n).
func (c Constant) IntN(n int) int {
	if n <= 0 || c.Int < 0 {
		return 0
	}
	if c.Int >= n {
		return n - 1
	}
	return c.Int
}

// Script replays fixed sequences of draws and counts how many were made.
// When a sequence runs out its last value is repeated.
type Script struct {
	Floats []float64
	Ints   []int

	UniformCalls int
	IntCalls     int
}

// Uniform returns the next scripted float.
func (s *Script) Uniform() float64 {
	s.UniformCalls++
	if len(s.Floats) == 0 {
		return 0
	}
	i := s.UniformCalls - 1
	if i >= len(s.Floats) {
		i = len(s.Floats) - 1
	}
	return s.Floats[i]
}

// IntN returns the next scripted int clamped into [0, n).
func (s *Script) IntN(n int) int {
	s.IntCalls++
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	i := s.IntCalls - 1
	if i >= len(s.Ints) {
		i = len(s.Ints) - 1
	}
	v := s.Ints[i]
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
