package systems

import (
	"testing"

	"github.com/pthm-cable/warren/components"
)

func TestDecay(t *testing.T) {
	tests := []struct {
		name        string
		satiety     int
		after       int
		wantSatiety int
		wantAfter   int
		wantDied    bool
	}{
		{"interval elapsed", 5, 10, 4, 0, false},
		{"interval elapsed at zero starves", 0, 10, 0, 10, true},
		{"interval running", 5, 3, 5, 4, false},
		{"zero satiety mid interval", 0, 3, 0, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := components.Animal{Alive: true, Satiety: tt.satiety, MaxSatiety: 10, StepsBeforeDecay: 10, StepsAfterDecay: tt.after}
			died := Decay(&a)
			if died != tt.wantDied || a.Alive == tt.wantDied {
				t.Errorf("died = %v, alive = %v; want died %v", died, a.Alive, tt.wantDied)
			}
			if a.Satiety != tt.wantSatiety {
				t.Errorf("Satiety = %d, want %d", a.Satiety, tt.wantSatiety)
			}
			if a.StepsAfterDecay != tt.wantAfter {
				t.Errorf("StepsAfterDecay = %d, want %d", a.StepsAfterDecay, tt.wantAfter)
			}
		})
	}
}

func TestGrow(t *testing.T) {
	tests := []struct {
		name     string
		age      components.Age
		after    int
		wantAge  components.Age
		wantDied bool
	}{
		{"child becomes adult", components.AgeChild, 10, components.AgeAdult, false},
		{"adult becomes senior", components.AgeAdult, 10, components.AgeSenior, false},
		{"senior dies", components.AgeSenior, 10, components.AgeSenior, true},
		{"interval running", components.AgeChild, 9, components.AgeChild, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := components.Animal{Alive: true, Age: tt.age, StepsBeforeGrow: 10, StepsAfterGrow: tt.after}
			died := Grow(&a)
			if died != tt.wantDied || a.Alive == tt.wantDied {
				t.Errorf("died = %v, alive = %v; want died %v", died, a.Alive, tt.wantDied)
			}
			if a.Age != tt.wantAge {
				t.Errorf("Age = %v, want %v", a.Age, tt.wantAge)
			}
		})
	}
}

func TestAgeNeverRegresses(t *testing.T) {
	a := components.NewAnimal(components.SpeciesPrey, components.SexFemale, components.AgeChild, components.DefaultPreyTable())
	a.StepsBeforeGrow = 2

	prev := a.Age
	for i := 0; i < 20 && a.Alive; i++ {
		Grow(&a)
		if a.Age < prev {
			t.Fatalf("age regressed from %v to %v", prev, a.Age)
		}
		prev = a.Age
	}
	if a.Alive {
		t.Error("senior survived past its growth event")
	}
}
