// Package territory aggregates light/dark ownership of the arena's lamps.
package territory

import (
	"fmt"
	"math"

	"github.com/theowiik/photon-phight/internal/team"
)

// State is the ownership of a single tile.
type State int

const (
	Neutral State = iota
	Light
	Dark
)

func (s State) String() string {
	switch s {
	case Neutral:
		return "Neutral"
	case Light:
		return "Light"
	case Dark:
		return "Dark"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StateOf returns the tile state owned by t.
func StateOf(t team.Team) State {
	if t == team.Dark {
		return Dark
	}
	return Light
}

// Tile is anything that reports an ownership state.
type Tile interface {
	State() State
}

// DataIntegrityError reports a tile whose state is outside the defined enum.
// It means the arena is wired wrong; the match must not continue on a miscount.
type DataIntegrityError struct {
	Index int
	State State
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("territory: tile %d reports undefined state %d", e.Index, int(e.State))
}

// Result is the outcome of a tally.
type Result struct {
	Light   int
	Dark    int
	Neutral int
}

// Total returns the number of tiles counted.
func (r Result) Total() int {
	return r.Light + r.Dark + r.Neutral
}

// Tied reports whether both sides own the same number of tiles.
func (r Result) Tied() bool {
	return r.Light == r.Dark
}

// Winner returns the side owning more tiles. ok is false on a tie.
func (r Result) Winner() (winner team.Team, ok bool) {
	switch {
	case r.Light > r.Dark:
		return team.Light, true
	case r.Dark > r.Light:
		return team.Dark, true
	default:
		return team.Light, false
	}
}

// Losing returns the side owning fewer tiles. Ties report Light.
func (r Result) Losing() team.Team {
	if r.Dark < r.Light {
		return team.Dark
	}
	return team.Light
}

// Count returns the tally for a given team.
func (r Result) Count(t team.Team) int {
	if t == team.Dark {
		return r.Dark
	}
	return r.Light
}

// Tally counts tiles per state. It has no side effects.
func Tally(tiles []Tile) (Result, error) {
	var r Result
	for i, tile := range tiles {
		switch s := tile.State(); s {
		case Light:
			r.Light++
		case Dark:
			r.Dark++
		case Neutral:
			r.Neutral++
		default:
			return Result{}, &DataIntegrityError{Index: i, State: s}
		}
	}
	return r, nil
}

// Percentages formats the share of claimed tiles for the scoreboard.
// Before anything is claimed it shows "Go!".
func Percentages(r Result) string {
	claimed := r.Light + r.Dark
	if claimed == 0 {
		return "Go!"
	}
	on := round2(float64(r.Light) / float64(claimed) * 100)
	off := round2(float64(r.Dark) / float64(claimed) * 100)
	return fmt.Sprintf("Lightness: %g%%, Darkness: %g%%", on, off)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
