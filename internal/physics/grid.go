package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase lookups in a bounded arena.
// Items are inserted by position and index, then nearby items can be queried
// via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between a query point
// and an item so that every hit is found within the 3x3 neighborhood.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
}

// NewSpatialGrid creates a spatial grid covering the given arena dimensions.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p Vec, index int) {
	col, row := g.posToCell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around p. Cells outside the arena are skipped.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p Vec, fn func(index int) bool) {
	col, row := g.posToCell(p)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[r*g.cols+c] {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts a position to grid cell coordinates, clamped to the grid.
func (g *SpatialGrid) posToCell(p Vec) (col, row int) {
	col = min(max(int(p.X*g.invCellSize), 0), g.cols-1)
	row = min(max(int(p.Y*g.invCellSize), 0), g.rows-1)
	return col, row
}
