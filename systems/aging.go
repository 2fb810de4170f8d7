package systems

import "github.com/pthm-cable/warren/components"

// Decay applies one tick of satiety decay. When the decay interval has
// elapsed satiety drops by one; an animal already at zero starves instead.
// Reports whether the animal died.
func Decay(a *components.Animal) bool {
	if a.StepsAfterDecay != a.StepsBeforeDecay {
		a.StepsAfterDecay++
		return false
	}
	if a.Satiety == 0 {
		a.Alive = false
		return true
	}
	a.Satiety--
	a.StepsAfterDecay = 0
	return false
}

// Grow applies one tick of aging. When the growth interval has elapsed the
// animal advances one tier; a Senior dies of old age instead.
// Reports whether the animal died.
func Grow(a *components.Animal) bool {
	if a.StepsAfterGrow != a.StepsBeforeGrow {
		a.StepsAfterGrow++
		return false
	}
	if a.Age == components.AgeSenior {
		a.Alive = false
		return true
	}
	a.Age++
	a.StepsAfterGrow = 0
	return false
}
