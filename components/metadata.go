// Package components defines the ECS components and value types of the simulation.
package components

// String returns the species name used in logs and CSV output.
func (s Species) String() string {
	switch s {
	case SpeciesPrey:
		return "rabbit"
	case SpeciesPredator:
		return "fox"
	}
	return "unknown"
}

// String returns "female" or "male".
func (s Sex) String() string {
	if s == SexMale {
		return "male"
	}
	return "female"
}

// String returns the age tier name.
func (a Age) String() string {
	switch a {
	case AgeChild:
		return "child"
	case AgeAdult:
		return "adult"
	case AgeSenior:
		return "senior"
	}
	return "unknown"
}

// Glyph returns a one-letter marker for compact renderings:
// r/R for prey, f/F for predators, lower case for children.
func (a *Animal) Glyph() rune {
	var g rune = 'R'
	if a.Species == SpeciesPredator {
		g = 'F'
	}
	if a.Age == AgeChild {
		g += 'a' - 'A'
	}
	if !a.Alive {
		g = 'x'
	}
	return g
}
