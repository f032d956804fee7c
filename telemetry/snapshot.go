package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danhje/population-dynamics-simulator/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the per-cell state of a simulation at the end of a year.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Year    int   `json:"year"`

	Map        string  `json:"map"`
	Herbivores [][]int `json:"herbivores"`
	Carnivores [][]int `json:"carnivores"`

	Animals []AnimalState `json:"animals,omitempty"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AnimalState holds one animal's state.
type AnimalState struct {
	ID        string  `json:"id"`
	Species   string  `json:"species"`
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Age       int     `json:"age"`
	Weight    float64 `json:"weight"`
	Fitness   float64 `json:"fitness"`
	LastMoved int     `json:"last_moved"`
}

// NewSnapshot captures the terrain's current state. withAnimals adds every
// animal's state in row-major order.
func NewSnapshot(t *systems.Terrain, seed int64, year int, withAnimals bool) *Snapshot {
	herbs, carns := t.CountsByCell()
	s := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    seed,
		Year:       year,
		Map:        t.String(),
		Herbivores: herbs,
		Carnivores: carns,
	}
	if !withAnimals {
		return s
	}
	t.Each(func(row, col int, r *systems.Region) {
		for _, a := range r.Animals() {
			s.Animals = append(s.Animals, AnimalState{
				ID:        a.ID().String(),
				Species:   a.Species().String(),
				Row:       row,
				Col:       col,
				Age:       a.Age(),
				Weight:    a.Weight(),
				Fitness:   a.Fitness(),
				LastMoved: a.LastMoved(),
			})
		}
	})
	return s
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%05d", snapshot.Year)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%05d_%s", snapshot.Year, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
