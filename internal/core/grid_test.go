package core

import "testing"

func openGrid(cols, rows int) *Grid {
	g := NewGrid(cols, rows)
	for y := 0; y < rows-2; y++ {
		for x := 0; x < cols-2; x++ {
			g.Passable[g.At(x, y)] = true
		}
	}
	return g
}

func TestGridBorderBlocked(t *testing.T) {
	g := openGrid(5, 5)
	for i := 0; i < g.Cols; i++ {
		if g.IsPassable(Cell(i)) {
			t.Errorf("top border cell %d should be blocked", i)
		}
	}
}

func TestGridNeighborsFourConnected(t *testing.T) {
	g := openGrid(5, 5)
	center := g.At(1, 1)
	neighbors := g.Neighbors(center)
	if len(neighbors) != 4 {
		t.Fatalf("expected 4 neighbors in open interior, got %d", len(neighbors))
	}
}

func TestGridSuccessorsIncludesWait(t *testing.T) {
	g := openGrid(5, 5)
	c := g.At(1, 1)
	succ := g.Successors(c)
	found := false
	for _, s := range succ {
		if s == c {
			found = true
		}
	}
	if !found {
		t.Errorf("Successors should include the wait action (c itself)")
	}
	if len(succ) != 5 {
		t.Errorf("expected 5 successors (wait + 4 moves) in open interior, got %d", len(succ))
	}
}

func TestBuildHeuristicTableMatchesManhattan(t *testing.T) {
	g := openGrid(5, 5)
	loc := g.At(0, 0)
	h := BuildHeuristicTable(g, loc)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			c := g.At(x, y)
			want := x + y
			if h[c] != want {
				t.Errorf("h[(%d,%d)] = %d, want Manhattan distance %d", x, y, h[c], want)
			}
		}
	}
}

func TestBuildHeuristicTableUnreachable(t *testing.T) {
	// 5x3 interior grid split by a vertical wall, with no gap.
	g := NewGrid(7, 5)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			g.Passable[g.At(x, y)] = true
		}
	}
	// Block column x=2 entirely to split the grid in two.
	for y := 0; y < 3; y++ {
		g.Passable[g.At(2, y)] = false
	}

	h := BuildHeuristicTable(g, g.At(0, 0))
	if h[g.At(4, 0)] != Unreachable {
		t.Errorf("cell beyond the wall should be Unreachable, got %d", h[g.At(4, 0)])
	}
	if h[g.At(1, 0)] == Unreachable {
		t.Errorf("cell before the wall should be reachable")
	}
}

func TestHeuristicSymmetric(t *testing.T) {
	g := openGrid(5, 5)
	a := g.At(0, 0)
	b := g.At(2, 2)
	hA := BuildHeuristicTable(g, a)
	hB := BuildHeuristicTable(g, b)
	if hA[b] != hB[a] {
		t.Errorf("heuristic should be symmetric: h_a[b]=%d, h_b[a]=%d", hA[b], hB[a])
	}
}
