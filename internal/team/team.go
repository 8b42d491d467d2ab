// Package team identifies the two sides of a match.
package team

// Team is one side of a match.
type Team int

const (
	Light Team = iota
	Dark
)

// All lists both teams in seat order.
var All = [2]Team{Light, Dark}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == Light {
		return Dark
	}
	return Light
}

// Valid reports whether t is one of the defined teams.
func (t Team) Valid() bool {
	return t == Light || t == Dark
}

func (t Team) String() string {
	switch t {
	case Light:
		return "Light"
	case Dark:
		return "Dark"
	default:
		return "Unknown"
	}
}
