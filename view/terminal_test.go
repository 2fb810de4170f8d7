package view

import (
	"strings"
	"testing"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/game"
)

func TestGlyph(t *testing.T) {
	term := NewTerminal(nil, false)

	tests := []struct {
		name string
		cell game.CellView
		want string
	}{
		{"empty", game.CellView{}, ". "},
		{"grass", game.CellView{Kind: game.CellGrass, Quantity: 2}, ",,"},
		{"thick", game.CellView{Kind: game.CellThick, Quantity: 7}, "##"},
		{"warren", game.CellView{Kind: game.CellShelter, ShelterSpecies: components.SpeciesPrey}, "()"},
		{"den", game.CellView{Kind: game.CellShelter, ShelterSpecies: components.SpeciesPredator}, "[]"},
		{"adult doe", game.CellView{HasAnimal: true, Alive: true, Species: components.SpeciesPrey, Age: components.AgeAdult, Sex: components.SexFemale}, "R+"},
		{"kit", game.CellView{HasAnimal: true, Alive: true, Species: components.SpeciesPrey, Age: components.AgeChild, Sex: components.SexMale}, "r "},
		{"dead fox", game.CellView{HasAnimal: true, Species: components.SpeciesPredator, Age: components.AgeSenior, Sex: components.SexMale}, "x "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := term.glyph(tt.cell); got != tt.want {
				t.Errorf("glyph = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldText(t *testing.T) {
	term := NewTerminal(nil, false)
	snap := &game.Snapshot{Size: 3, Cells: make([]game.CellView, 9)}
	snap.Cells[4] = game.CellView{Kind: game.CellGrass, Quantity: 1}

	got := term.fieldText(snap, 10, 10)
	want := ". . . \n. ,,. \n. . . "
	if got != want {
		t.Errorf("fieldText =\n%q\nwant\n%q", got, want)
	}

	cropped := term.fieldText(snap, 4, 2)
	lines := strings.Split(cropped, "\n")
	if len(lines) != 2 || lines[0] != ". . " || !strings.Contains(lines[1], "larger than the viewing area") {
		t.Errorf("cropped field = %q", cropped)
	}
}

func TestStatusText(t *testing.T) {
	term := NewTerminal(nil, false)
	text := term.statusText(game.Status{Tick: 12, Prey: 30, Predators: 4, Vegetation: 500, RunningMode: game.RunningStateFinished})
	for _, want := range []string{"Tick: 12", "Rabbits: 30", "Foxes: 4", "Vegetation: 500", "Mode: finished"} {
		if !strings.Contains(text, want) {
			t.Errorf("status text missing %q:\n%s", want, text)
		}
	}
}
