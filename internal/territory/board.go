package territory

import "github.com/theowiik/photon-phight/internal/physics"

// LampRadius is the hit radius of a lamp.
const LampRadius = 6.0

// Lamp is a fixed territory tile in the arena.
type Lamp struct {
	Position physics.Vec
	state    State
}

// State implements Tile.
func (l *Lamp) State() State {
	return l.state
}

// Board owns the arena's lamps and finds them by position.
type Board struct {
	lamps []*Lamp
	tiles []Tile
	grid  *physics.SpatialGrid
}

// NewBoard places lamps at the given positions inside an arena of width x height.
func NewBoard(width, height float64, positions []physics.Vec) *Board {
	b := &Board{
		lamps: make([]*Lamp, len(positions)),
		tiles: make([]Tile, len(positions)),
		grid:  physics.NewSpatialGrid(width, height, LampRadius*2),
	}
	for i, pos := range positions {
		l := &Lamp{Position: pos}
		b.lamps[i] = l
		b.tiles[i] = l
		b.grid.Insert(pos, i)
	}
	return b
}

// Tiles returns every lamp as a Tile. The slice is shared; callers must not modify it.
func (b *Board) Tiles() []Tile {
	return b.tiles
}

// Lamps returns every lamp. The slice is shared; callers must not modify it.
func (b *Board) Lamps() []*Lamp {
	return b.lamps
}

// LampAt returns the lamp whose hit radius contains p, if any.
func (b *Board) LampAt(p physics.Vec) (*Lamp, bool) {
	var hit *Lamp
	b.grid.QueryAround(p, func(i int) bool {
		if physics.PointInCircle(p, b.lamps[i].Position, LampRadius) {
			hit = b.lamps[i]
			return true
		}
		return false
	})
	return hit, hit != nil
}

// Paint sets the owner of one lamp.
func (b *Board) Paint(l *Lamp, s State) {
	l.state = s
}

// PaintArea claims every lamp within radius of center and returns how many changed.
func (b *Board) PaintArea(center physics.Vec, radius float64, s State) int {
	changed := 0
	for _, l := range b.lamps {
		if l.state != s && physics.PointInCircle(l.Position, center, radius) {
			l.state = s
			changed++
		}
	}
	return changed
}

// ResetAll returns every lamp to Neutral.
func (b *Board) ResetAll() {
	for _, l := range b.lamps {
		l.state = Neutral
	}
}
