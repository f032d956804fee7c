package systems

import "github.com/danhje/population-dynamics-simulator/components"

// Regrow refills the food store. Jungle resets to fmax; Savannah closes
// alpha of the gap to fmax. Other landscapes carry no food.
func (r *Region) Regrow() {
	switch r.kind {
	case components.Jungle:
		r.food = r.params.Jungle.FMax
	case components.Savannah:
		r.food += r.params.Savannah.Alpha * (r.params.Savannah.FMax - r.food)
	default:
		r.food = 0
	}
}
