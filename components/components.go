// Package components defines the species and landscape variants and the
// per-animal state of the simulation.
package components

import (
	"fmt"
	"image/color"
)

// Species identifies an animal kind.
type Species uint8

const (
	Herbivore Species = iota
	Carnivore
)

// String returns the species name as used in deployment requests.
func (s Species) String() string {
	switch s {
	case Herbivore:
		return "Herbivore"
	case Carnivore:
		return "Carnivore"
	default:
		return fmt.Sprintf("Species(%d)", uint8(s))
	}
}

// ParseSpecies maps a deployment species name to a Species.
func ParseSpecies(name string) (Species, error) {
	switch name {
	case "Herbivore":
		return Herbivore, nil
	case "Carnivore":
		return Carnivore, nil
	default:
		return 0, fmt.Errorf("no species called %q", name)
	}
}

// Landscape identifies the terrain type of a region.
type Landscape uint8

const (
	Ocean Landscape = iota
	Mountain
	Desert
	Savannah
	Jungle
)

// landscapeTraits is the per-type capability table.
type landscapeTraits struct {
	name      string
	letter    byte
	habitable bool
	nutrition bool // grazing and hunting happen here
	color     color.RGBA
}

var landscapes = [...]landscapeTraits{
	Ocean:    {"Ocean", 'O', false, false, color.RGBA{R: 26, G: 51, B: 204, A: 255}},
	Mountain: {"Mountain", 'M', false, false, color.RGBA{R: 128, G: 128, B: 128, A: 255}},
	Desert:   {"Desert", 'D', true, false, color.RGBA{R: 255, G: 230, B: 204, A: 255}},
	Savannah: {"Savannah", 'S', true, true, color.RGBA{R: 204, G: 255, B: 26, A: 255}},
	Jungle:   {"Jungle", 'J', true, true, color.RGBA{R: 0, G: 230, B: 51, A: 255}},
}

// LandscapeFromLetter maps a map letter to its Landscape.
func LandscapeFromLetter(b byte) (Landscape, bool) {
	for i, l := range landscapes {
		if l.letter == b {
			return Landscape(i), true
		}
	}
	return 0, false
}

func (l Landscape) traits() landscapeTraits {
	if int(l) < len(landscapes) {
		return landscapes[l]
	}
	return landscapeTraits{name: fmt.Sprintf("Landscape(%d)", uint8(l)), letter: '?'}
}

func (l Landscape) String() string { return l.traits().name }

// Letter returns the map letter for l.
func (l Landscape) Letter() byte { return l.traits().letter }

// Habitable reports whether animals may live on l.
func (l Landscape) Habitable() bool { return l.traits().habitable }

// HasNutrition reports whether grazing and hunting take place on l.
func (l Landscape) HasNutrition() bool { return l.traits().nutrition }

// Color returns the display color for l.
func (l Landscape) Color() color.RGBA { return l.traits().color }
