package systems

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/rng"
)

// Map validation failures, wrapped in a MapError.
var (
	ErrEmptyMap      = errors.New("map is empty")
	ErrRaggedMap     = errors.New("map rows differ in length")
	ErrMapTooSmall   = errors.New("map must be at least 3x3")
	ErrUnknownLetter = errors.New("unknown landscape letter")
	ErrCoastline     = errors.New("map edge must be ocean")
)

// MinMapSize is the smallest accepted number of rows and columns.
const MinMapSize = 3

// MapError reports an invalid map.
type MapError struct {
	Err    error
	Detail string
}

func (e *MapError) Error() string {
	if e.Detail == "" {
		return "invalid map: " + e.Err.Error()
	}
	return fmt.Sprintf("invalid map: %v: %s", e.Err, e.Detail)
}

func (e *MapError) Unwrap() error { return e.Err }

// Terrain is the grid of regions. Its shape is fixed at construction and
// every phase visits cells in row-major order.
type Terrain struct {
	params *config.Params
	rows   int
	cols   int
	cells  [][]*Region
	ledger ledger
}

// ParseMap builds a Terrain from map text. Rows are separated by whitespace,
// so indentation is ignored. No Terrain is returned if the map is invalid.
func ParseMap(text string, params *config.Params) (*Terrain, error) {
	rows := strings.Fields(text)
	if len(rows) == 0 {
		return nil, &MapError{Err: ErrEmptyMap}
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return nil, &MapError{Err: ErrRaggedMap, Detail: fmt.Sprintf("row %d has %d cells, row 1 has %d", i+1, len(row), cols)}
		}
	}
	if len(rows) < MinMapSize || cols < MinMapSize {
		return nil, &MapError{Err: ErrMapTooSmall, Detail: fmt.Sprintf("got %dx%d", len(rows), cols)}
	}

	layout := make([][]components.Landscape, len(rows))
	for i, row := range rows {
		layout[i] = make([]components.Landscape, cols)
		for j := 0; j < cols; j++ {
			kind, ok := components.LandscapeFromLetter(row[j])
			if !ok {
				return nil, &MapError{Err: ErrUnknownLetter, Detail: fmt.Sprintf("%q at row %d, column %d", row[j], i+1, j+1)}
			}
			layout[i][j] = kind
		}
	}
	return NewTerrain(layout, params)
}

// NewTerrain builds a Terrain from a landscape grid.
func NewTerrain(layout [][]components.Landscape, params *config.Params) (*Terrain, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, &MapError{Err: ErrEmptyMap}
	}
	rows, cols := len(layout), len(layout[0])
	for i, row := range layout {
		if len(row) != cols {
			return nil, &MapError{Err: ErrRaggedMap, Detail: fmt.Sprintf("row %d has %d cells, row 1 has %d", i+1, len(row), cols)}
		}
	}
	if rows < MinMapSize || cols < MinMapSize {
		return nil, &MapError{Err: ErrMapTooSmall, Detail: fmt.Sprintf("got %dx%d", rows, cols)}
	}
	for i, row := range layout {
		for j, kind := range row {
			onEdge := i == 0 || j == 0 || i == rows-1 || j == cols-1
			if onEdge && kind != components.Ocean {
				return nil, &MapError{Err: ErrCoastline, Detail: fmt.Sprintf("%s at row %d, column %d", kind, i+1, j+1)}
			}
		}
	}

	t := &Terrain{params: params, rows: rows, cols: cols, cells: make([][]*Region, rows)}
	for i, row := range layout {
		t.cells[i] = make([]*Region, cols)
		for j, kind := range row {
			t.cells[i][j] = NewRegion(kind, params)
		}
	}
	return t, nil
}

// Dimensions returns the number of rows and columns.
func (t *Terrain) Dimensions() (rows, cols int) { return t.rows, t.cols }

// Params returns the parameter sets shared by every region and animal.
func (t *Terrain) Params() *config.Params { return t.params }

// At returns the region at a 0-based position.
func (t *Terrain) At(row, col int) (*Region, bool) {
	if row < 0 || col < 0 || row >= t.rows || col >= t.cols {
		return nil, false
	}
	return t.cells[row][col], true
}

// Each calls fn for every region in row-major order.
func (t *Terrain) Each(fn func(row, col int, r *Region)) {
	for i, row := range t.cells {
		for j, r := range row {
			fn(i, j, r)
		}
	}
}

// Growth runs regrowth, nutrition and breeding in every cell.
func (t *Terrain) Growth(src rng.Source, rec Recorder) {
	t.Each(func(_, _ int, r *Region) {
		if !r.Habitable() {
			return
		}
		r.Regrow()
		r.Feed(src, rec)
		r.Breed(src, rec)
	})
}

// Decay runs aging, weight loss and death in every cell.
func (t *Terrain) Decay(src rng.Source, rec Recorder) {
	t.Each(func(_, _ int, r *Region) {
		if r.Population() > 0 {
			r.Decay(src, rec)
		}
	})
}

// Counts returns the total numbers of herbivores and carnivores.
func (t *Terrain) Counts() (herbivores, carnivores int) {
	t.Each(func(_, _ int, r *Region) {
		herbivores += len(r.herbivores)
		carnivores += len(r.carnivores)
	})
	return herbivores, carnivores
}

// CountsByCell returns per-cell herbivore and carnivore counts.
func (t *Terrain) CountsByCell() (herbivores, carnivores [][]int) {
	herbivores = make([][]int, t.rows)
	carnivores = make([][]int, t.rows)
	for i := range t.rows {
		herbivores[i] = make([]int, t.cols)
		carnivores[i] = make([]int, t.cols)
	}
	t.Each(func(i, j int, r *Region) {
		herbivores[i][j] = len(r.herbivores)
		carnivores[i][j] = len(r.carnivores)
	})
	return herbivores, carnivores
}

// Animals returns every animal on the map in row-major order.
func (t *Terrain) Animals() []*components.Animal {
	var out []*components.Animal
	t.Each(func(_, _ int, r *Region) {
		out = append(out, r.herbivores...)
		out = append(out, r.carnivores...)
	})
	return out
}

// String renders the map in the letter grammar accepted by ParseMap.
func (t *Terrain) String() string {
	var b strings.Builder
	for i, row := range t.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			b.WriteByte(r.kind.Letter())
		}
	}
	return b.String()
}
