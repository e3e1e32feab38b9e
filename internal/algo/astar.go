// Package algo implements the token-constrained single-agent space-time
// search and the TOTP/TPTR agent planning policies built on top of it.
package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

// node is an arena-allocated search node. Parent is an index into the
// owning search's arena rather than a pointer, so the whole arena can be
// dropped in one step when the search returns.
type node struct {
	cell   core.Cell
	g      int // steps so far; g == relative timestep in this unit-cost model
	h      int
	parent int // arena index, -1 for the start node

	// numInternalConf stays 0 in this core — nothing upstream feeds
	// internal conflict counts into this search. It is kept as a
	// distinct sort key (rather than folded away) so the focal
	// comparator matches the shape a conflict-aware extension would
	// need, without changing any plumbing around it.
	numInternalConf int

	openIndex  int
	focalIndex int
	inOpen     bool
	inFocal    bool
}

func (n *node) f() int { return n.g + n.h }

type closedKey struct {
	cell core.Cell
	g    int
}

// search holds one invocation's arena and closed-list index. It is never
// reused across calls.
type search struct {
	arena []node
	// closed maps (cell, g) -> arena index, since g equals timestep
	// along any path in this unit-cost model.
	closed map[closedKey]int
}

func newSearch() *search {
	return &search{closed: make(map[closedKey]int)}
}

// openList orders by (f asc, g desc) — prefer deeper nodes at equal f to
// reduce re-expansions.
type openList struct {
	arena *[]node
	items []int
}

func (h openList) Len() int { return len(h.items) }
func (h openList) Less(i, j int) bool {
	a, b := (*h.arena)[h.items[i]], (*h.arena)[h.items[j]]
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	return a.g > b.g // tie-break toward larger g (deeper nodes)
}
func (h *openList) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	(*h.arena)[h.items[i]].openIndex = i
	(*h.arena)[h.items[j]].openIndex = j
}
func (h *openList) Push(x any) {
	idx := x.(int)
	(*h.arena)[idx].openIndex = len(h.items)
	h.items = append(h.items, idx)
}
func (h *openList) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// focalList orders by (numInternalConf asc, f asc, g desc). With the
// focal weight fixed at 1.0, the bound equals the minimum f-value, so in
// practice this degenerates to the open-list order restricted to the
// current f-frontier.
type focalList struct {
	arena *[]node
	items []int
}

func (h focalList) Len() int { return len(h.items) }
func (h focalList) Less(i, j int) bool {
	a, b := (*h.arena)[h.items[i]], (*h.arena)[h.items[j]]
	if a.numInternalConf != b.numInternalConf {
		return a.numInternalConf < b.numInternalConf
	}
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	return a.g > b.g
}
func (h *focalList) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	(*h.arena)[h.items[i]].focalIndex = i
	(*h.arena)[h.items[j]].focalIndex = j
}
func (h *focalList) Push(x any) {
	idx := x.(int)
	(*h.arena)[idx].focalIndex = len(h.items)
	h.items = append(h.items, idx)
}
func (h *focalList) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// Result is the outcome of one SpaceTime search call.
type Result struct {
	Path []core.Cell // Path[0] = start cell, Path[len-1] = goal cell
	OK   bool
}

// SpaceTime finds the shortest collision-free path from start at
// absolute time startTime to goal, subject to every other agent's
// committed path in tok. Whatever mustHold says, the goal is accepted
// only at a time after the last time any constraint path occupies it,
// so even a pickup leg searched with mustHold false never arrives
// before another agent's later visit to the goal cell. When mustHold is
// true, it additionally runs an explicit check that no constraint path
// revisits the goal through the rest of the horizon. Returns failure if
// no such path exists within the horizon.
func SpaceTime(tok *core.Token, agentID core.AgentID, start core.Cell, startTime int, goal *core.Endpoint, mustHold bool) Result {
	if startTime >= tok.Horizon {
		return Result{OK: false}
	}

	cons := tok.ConstraintPaths(agentID)
	grid := tok.Grid
	horizon := tok.Horizon
	goalLoc := goal.Loc

	lastGoalConsTime := lastConstraintTimeAt(cons, goalLoc)

	s := newSearch()
	arenaRef := &s.arena
	open := &openList{arena: arenaRef}
	focal := &focalList{arena: arenaRef}

	startNode := node{cell: start, g: 0, h: goal.Dist(start), parent: -1}
	s.arena = append(s.arena, startNode)
	open.items = append(open.items, 0)
	focal.items = append(focal.items, 0)
	s.arena[0].inOpen = true
	s.arena[0].inFocal = true
	heap.Init(open)

	minF := s.arena[0].f()

	for len(focal.items) > 0 {
		curIdx := heap.Pop(focal).(int)
		removeFromOpen(open, curIdx)
		s.arena[curIdx].inOpen = false
		s.arena[curIdx].inFocal = false
		cur := s.arena[curIdx]

		if cur.cell == goalLoc && cur.g > lastGoalConsTime-startTime {
			if !mustHold || canHold(cons, goalLoc, startTime+cur.g, horizon) {
				return Result{Path: reconstruct(s.arena, curIdx), OK: true}
			}
		}

		for _, nextCell := range grid.Successors(cur.cell) {
			nextTimestep := cur.g + 1
			if nextTimestep+startTime >= horizon {
				continue
			}
			if violatesConstraint(cons, cur.cell, nextCell, startTime+nextTimestep) {
				continue
			}

			// g equals the absolute timestep offset along every path
			// through this search, so any two routes reaching nextCell
			// at nextTimestep share the same g, h, and therefore f —
			// whichever arrives first is as good as any other, and the
			// closed set just needs to remember it was seen.
			key := closedKey{cell: nextCell, g: nextTimestep}
			if _, ok := s.closed[key]; ok {
				continue
			}

			next := node{cell: nextCell, g: nextTimestep, h: goal.Dist(nextCell), parent: curIdx}
			s.arena = append(s.arena, next)
			nextIdx := len(s.arena) - 1
			s.closed[key] = nextIdx
			s.arena[nextIdx].inOpen = true
			heap.Push(open, nextIdx)
			if s.arena[nextIdx].f() <= minF {
				s.arena[nextIdx].inFocal = true
				heap.Push(focal, nextIdx)
			}
		}

		if len(open.items) == 0 {
			break
		}
		newMinF := s.arena[open.items[0]].f()
		if newMinF > minF {
			promoteToFocal(open, focal, s.arena, minF, newMinF)
			minF = newMinF
		}
	}

	return Result{OK: false}
}

// promoteToFocal adds every open node whose f-value newly falls within
// the updated focal bound (still just minF, since the weight is 1.0).
func promoteToFocal(open *openList, focal *focalList, arena []node, oldMin, newMin int) {
	for _, idx := range open.items {
		n := &arena[idx]
		if !n.inFocal && n.f() <= newMin {
			n.inFocal = true
			heap.Push(focal, idx)
		}
	}
}

func removeFromOpen(open *openList, idx int) {
	for i, v := range open.items {
		if v == idx {
			heap.Remove(open, i)
			return
		}
	}
}

func reconstruct(arena []node, goalIdx int) []core.Cell {
	var path []core.Cell
	for idx := goalIdx; idx != -1; idx = arena[idx].parent {
		path = append([]core.Cell{arena[idx].cell}, path...)
	}
	return path
}

// violatesConstraint reports whether moving from fromCell to toCell,
// arriving at absolute time atTime, collides with any constraint path —
// a vertex collision (someone occupies toCell at atTime) or an edge
// collision (someone swaps fromCell/toCell with us between atTime-1 and
// atTime).
func violatesConstraint(cons [][]core.Cell, fromCell, toCell core.Cell, atTime int) bool {
	for _, path := range cons {
		if atTime < 0 || atTime >= len(path) {
			continue
		}
		if path[atTime] == toCell {
			return true
		}
		if atTime > 0 && path[atTime-1] == toCell && path[atTime] == fromCell {
			return true
		}
	}
	return false
}

// lastConstraintTimeAt returns the latest absolute time any constraint
// path visits cell, or -1 if none ever does.
func lastConstraintTimeAt(cons [][]core.Cell, cell core.Cell) int {
	last := -1
	for _, path := range cons {
		for t := len(path) - 1; t > last; t-- {
			if path[t] == cell {
				last = t
				break
			}
		}
	}
	return last
}

// canHold reports whether cell can be held indefinitely by the planning
// agent from arriveAt (exclusive) through the end of the horizon,
// without any constraint path ever revisiting it.
func canHold(cons [][]core.Cell, cell core.Cell, arriveAt, horizon int) bool {
	for _, path := range cons {
		for t := arriveAt + 1; t < len(path) && t < horizon; t++ {
			if path[t] == cell {
				return false
			}
		}
	}
	return true
}
