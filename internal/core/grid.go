// Package core defines the grid, token, agent, and task model shared by
// the search and planner packages.
package core

// Cell is a row-major index into a Grid. A Grid always carries a
// one-cell blocked border, so valid interior cells never touch index 0.
type Cell int

// Grid is a rectangular map with a blocked border and a passability mask.
// Passability never changes after construction.
type Grid struct {
	Cols, Rows int // full dimensions, border included
	Passable   []bool
}

// NewGrid creates an all-blocked grid of the given outer dimensions.
func NewGrid(cols, rows int) *Grid {
	return &Grid{
		Cols:     cols,
		Rows:     rows,
		Passable: make([]bool, cols*rows),
	}
}

// At returns the cell at interior (x, y), 0-indexed, border excluded.
func (g *Grid) At(x, y int) Cell {
	return Cell((y+1)*g.Cols + (x + 1))
}

// XY returns the interior (x, y) coordinates of a cell, border excluded.
func (g *Grid) XY(c Cell) (x, y int) {
	return int(c)%g.Cols - 1, int(c)/g.Cols - 1
}

// InBounds reports whether c is a valid index into the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c >= 0 && int(c) < len(g.Passable)
}

// IsPassable reports whether c is passable. Out-of-bounds cells are not.
func (g *Grid) IsPassable(c Cell) bool {
	return g.InBounds(c) && g.Passable[c]
}

// Offsets for the five actions: [WAIT, NORTH, EAST, SOUTH, WEST].
func (g *Grid) actionOffsets() [5]int {
	return [5]int{0, -g.Cols, 1, g.Cols, -1}
}

// Neighbors returns the up-to-four passable four-connected neighbors of c
// (wait is not included; callers add it explicitly where needed).
func (g *Grid) Neighbors(c Cell) []Cell {
	offs := g.actionOffsets()
	out := make([]Cell, 0, 4)
	for _, off := range offs[1:] {
		n := Cell(int(c) + off)
		if g.IsPassable(n) {
			out = append(out, n)
		}
	}
	return out
}

// Successors returns the cells reachable from c via all five actions
// (wait first, then north/east/south/west), skipping impassable targets.
func (g *Grid) Successors(c Cell) []Cell {
	offs := g.actionOffsets()
	out := make([]Cell, 0, 5)
	for _, off := range offs {
		n := Cell(int(c) + off)
		if g.IsPassable(n) {
			out = append(out, n)
		}
	}
	return out
}
