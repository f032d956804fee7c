package systems

import (
	"fmt"
	"math"
	"strings"

	"github.com/ojrac/opensimplex-go"

	"github.com/danhje/population-dynamics-simulator/components"
)

// Map generation constants
const (
	mapNoiseScale = 0.18 // Noise frequency per cell
	mapFalloff    = 0.55 // How strongly land sinks toward the edge
)

// GenerateMap returns the text of a random island map of the given size. The
// outer ring is always ocean and at least one interior cell is habitable, so
// the result is accepted by ParseMap.
func GenerateMap(rows, cols int, seed int64) (string, error) {
	if rows < MinMapSize || cols < MinMapSize {
		return "", &MapError{Err: ErrMapTooSmall, Detail: fmt.Sprintf("got %dx%d", rows, cols)}
	}
	noise := opensimplex.NewNormalized(seed)

	grid := make([][]components.Landscape, rows)
	habitable := false
	for i := range rows {
		grid[i] = make([]components.Landscape, cols)
		for j := range cols {
			if i == 0 || j == 0 || i == rows-1 || j == cols-1 {
				grid[i][j] = components.Ocean
				continue
			}
			// distance from center, 0 in the middle and 1 at the edge
			dy := 2*float64(i)/float64(rows-1) - 1
			dx := 2*float64(j)/float64(cols-1) - 1
			d := math.Min(1, math.Hypot(dx, dy)/math.Sqrt2)

			v := noise.Eval2(float64(j)*mapNoiseScale, float64(i)*mapNoiseScale) - mapFalloff*d*d
			grid[i][j] = landscapeForHeight(v)
			habitable = habitable || grid[i][j].Habitable()
		}
	}
	if !habitable {
		grid[rows/2][cols/2] = components.Jungle
	}

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, l := range row {
			b.WriteByte(l.Letter())
		}
	}
	return b.String(), nil
}

func landscapeForHeight(v float64) components.Landscape {
	switch {
	case v < 0.1:
		return components.Ocean
	case v < 0.25:
		return components.Desert
	case v < 0.45:
		return components.Savannah
	case v < 0.7:
		return components.Jungle
	default:
		return components.Mountain
	}
}
