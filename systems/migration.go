package systems

import (
	"github.com/google/uuid"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/rng"
)

// directions are indexed by the IntN(4) draw: south, north, east, west.
var directions = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// ledger records which animals have moved in the current year. It is the
// only place consulted when deciding whether an animal may still move.
type ledger struct {
	year  int
	moved map[uuid.UUID]struct{}
}

func (l *ledger) begin(year int) {
	if l.moved == nil || l.year != year {
		l.year = year
		l.moved = make(map[uuid.UUID]struct{})
	}
}

func (l *ledger) hasMoved(id uuid.UUID) bool {
	_, ok := l.moved[id]
	return ok
}

// Migrate runs the migration phase for year. Every animal present in a cell
// when the cell is visited rolls for migration, including animals that
// already arrived this year; those are then refused by the ledger.
func (t *Terrain) Migrate(year int, src rng.Source, rec Recorder) {
	rec = recorder(rec)
	t.ledger.begin(year)
	t.Each(func(i, j int, from *Region) {
		for _, a := range from.Animals() {
			if !a.WillMigrate(src) {
				continue
			}
			d := directions[src.IntN(len(directions))]
			to, ok := t.At(i+d[0], j+d[1])
			if ok && t.Move(a, from, to, year) {
				rec.RecordMigration(a.Species())
			}
		}
	})
}

// Move transfers a from one region to another in year. It is refused when
// the target is not habitable, a is not in from, or a already moved this year.
func (t *Terrain) Move(a *components.Animal, from, to *Region, year int) bool {
	t.ledger.begin(year)
	if to == nil || !to.Habitable() || t.ledger.hasMoved(a.ID()) {
		return false
	}
	if !from.remove(a) {
		return false
	}
	to.add(a)
	a.MarkMoved(year)
	t.ledger.moved[a.ID()] = struct{}{}
	return true
}
