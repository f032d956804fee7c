package components

import "testing"

func TestLandscapeLetters(t *testing.T) {
	tests := []struct {
		letter    byte
		want      Landscape
		habitable bool
		nutrition bool
	}{
		{'O', Ocean, false, false},
		{'M', Mountain, false, false},
		{'D', Desert, true, false},
		{'S', Savannah, true, true},
		{'J', Jungle, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.letter), func(t *testing.T) {
			l, ok := LandscapeFromLetter(tt.letter)
			if !ok || l != tt.want {
				t.Fatalf("LandscapeFromLetter(%q) = %v, %v", tt.letter, l, ok)
			}
			if l.Habitable() != tt.habitable {
				t.Errorf("%v.Habitable() = %v", l, l.Habitable())
			}
			if l.HasNutrition() != tt.nutrition {
				t.Errorf("%v.HasNutrition() = %v", l, l.HasNutrition())
			}
			if l.Letter() != tt.letter {
				t.Errorf("%v.Letter() = %q", l, l.Letter())
			}
		})
	}

	for _, b := range []byte{'o', 'B', 'X', ' '} {
		if _, ok := LandscapeFromLetter(b); ok {
			t.Errorf("LandscapeFromLetter(%q) should fail", b)
		}
	}
}

func TestParseSpecies(t *testing.T) {
	for _, s := range []Species{Herbivore, Carnivore} {
		got, err := ParseSpecies(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSpecies(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSpecies("Omnivore"); err == nil {
		t.Error("expected error for unknown species")
	}
}
