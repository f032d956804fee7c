package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danhje/population-dynamics-simulator/components"
	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/systems"
)

func testTerrain(t *testing.T) *systems.Terrain {
	t.Helper()
	p := config.Default().Params
	terrain, err := systems.ParseMap("OOOO\nOJSO\nOOOO", &p)
	if err != nil {
		t.Fatal(err)
	}
	jungle, _ := terrain.At(1, 1)
	savannah, _ := terrain.At(1, 2)

	h, err := components.NewAnimal(components.Herbivore, &p.Herbivore.SpeciesParams, 12.5, 10)
	if err != nil {
		t.Fatal(err)
	}
	c, err := components.NewAnimal(components.Carnivore, &p.Carnivore.SpeciesParams, 20, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := jungle.Deploy(h); err != nil {
		t.Fatal(err)
	}
	if err := savannah.Deploy(c); err != nil {
		t.Fatal(err)
	}
	return terrain
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := NewSnapshot(testTerrain(t), 42, 7, true)
	snapshot.Bookmark = &Bookmark{Type: BookmarkPreyCrash, Year: 7, Description: "Test bookmark"}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != SnapshotVersion || loaded.RNGSeed != 42 || loaded.Year != 7 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if loaded.Map != "OOOO\nOJSO\nOOOO" {
		t.Errorf("map = %q", loaded.Map)
	}
	if loaded.Herbivores[1][1] != 1 || loaded.Carnivores[1][2] != 1 || loaded.Herbivores[1][2] != 0 {
		t.Errorf("counts mismatch: %v %v", loaded.Herbivores, loaded.Carnivores)
	}
	if len(loaded.Animals) != 2 {
		t.Fatalf("animals = %d, want 2", len(loaded.Animals))
	}
	herb := loaded.Animals[0]
	if herb.Species != "Herbivore" || herb.Row != 1 || herb.Col != 1 || herb.Age != 10 || herb.Weight != 12.5 {
		t.Errorf("unexpected herbivore state %+v", herb)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkPreyCrash {
		t.Error("Bookmark not loaded")
	}
}

func TestSnapshotWithoutAnimals(t *testing.T) {
	snapshot := NewSnapshot(testTerrain(t), 1, 2, false)
	if len(snapshot.Animals) != 0 {
		t.Errorf("animals = %d, want 0", len(snapshot.Animals))
	}
	if snapshot.Herbivores[1][1] != 1 {
		t.Error("counts should still be captured")
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Year:     50,
		Bookmark: &Bookmark{Type: BookmarkPreyCrash, Year: 50},
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_00050_prey_crash.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Year: 3}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_00003.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
