package arena

import (
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

// Layout geometry.
const (
	PlatformThickness = 4.0
	lampSpacing       = territory.LampRadius*2 + 6
	killMargin        = 40.0 // How far past the arena edge a fighter may drift before dying
)

// Layout is the static geometry of a map.
type Layout struct {
	Width, Height float64
	Platforms     []physics.Rect
	Spawns        [2]physics.Vec
	Lamps         []physics.Vec
}

// Bounds is the region a fighter must stay inside. The top is open so high
// jumps are never lethal.
func (l Layout) Bounds() physics.Rect {
	return physics.Rect{
		Min: physics.Vec{X: -killMargin, Y: -l.Height},
		Max: physics.Vec{X: l.Width + killMargin, Y: l.Height + killMargin},
	}
}

// Spawn returns the spawn point for t.
func (l Layout) Spawn(t team.Team) physics.Vec {
	return l.Spawns[t]
}

// DefaultLayout builds the standard symmetric map for an arena of w x h:
// two floor islands with a gap in the middle, a central bridge and three
// floating ledges, with lamps filling the open air.
func DefaultLayout(w, h float64) Layout {
	plat := func(x1, x2, y float64) physics.Rect {
		return physics.Rect{
			Min: physics.Vec{X: x1 * w, Y: y * h},
			Max: physics.Vec{X: x2 * w, Y: y*h + PlatformThickness},
		}
	}

	l := Layout{
		Width:  w,
		Height: h,
		Platforms: []physics.Rect{
			plat(0.04, 0.40, 0.86),
			plat(0.60, 0.96, 0.86),
			plat(0.36, 0.64, 0.66),
			plat(0.10, 0.30, 0.48),
			plat(0.70, 0.90, 0.48),
			plat(0.42, 0.58, 0.30),
		},
	}

	floor := 0.86*h - player.Radius - 1
	l.Spawns[team.Light] = physics.Vec{X: 0.15 * w, Y: floor}
	l.Spawns[team.Dark] = physics.Vec{X: 0.85 * w, Y: floor}

	for y := 0.12 * h; y < 0.82*h; y += lampSpacing {
		for x := lampSpacing; x < w-lampSpacing/2; x += lampSpacing {
			pos := physics.Vec{X: x, Y: y}
			if l.blocked(pos) {
				continue
			}
			l.Lamps = append(l.Lamps, pos)
		}
	}
	return l
}

// blocked reports whether a lamp at p would overlap a platform.
func (l Layout) blocked(p physics.Vec) bool {
	for _, r := range l.Platforms {
		grown := physics.Rect{
			Min: physics.Vec{X: r.Min.X - territory.LampRadius, Y: r.Min.Y - territory.LampRadius},
			Max: physics.Vec{X: r.Max.X + territory.LampRadius, Y: r.Max.Y + territory.LampRadius},
		}
		if grown.Contains(p) {
			return true
		}
	}
	return false
}
