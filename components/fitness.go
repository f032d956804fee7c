package components

import (
	"math"

	"github.com/danhje/population-dynamics-simulator/config"
)

// Fitness combines an age gate with underweight and overweight gates:
//
//	q(+1, a, a_half, phi_age) * q(-1, w, w_half_low, phi_low) * q(+1, w, w_half_high, phi_high)
//
// Young animals of moderate weight score close to 1. Weight <= 0 scores 0.
func Fitness(age int, weight float64, p *config.SpeciesParams) float64 {
	if weight <= 0 {
		return 0
	}
	return gate(+1, float64(age), p.AHalf, p.PhiAge) *
		gate(-1, weight, p.WHalfLow, p.PhiLow) *
		gate(+1, weight, p.WHalfHigh, p.PhiHigh)
}

// gate is the logistic 1 / (1 + e^(sign*phi*(x - half))).
func gate(sign, x, half, phi float64) float64 {
	return 1 / (1 + math.Exp(sign*phi*(x-half)))
}
