package algo

import (
	"testing"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

func openGrid(cols, rows int) *core.Grid {
	g := core.NewGrid(cols, rows)
	for y := 1; y < rows-1; y++ {
		for x := 1; x < cols-1; x++ {
			g.Passable[g.At(x, y)] = true
		}
	}
	return g
}

func buildToken(g *core.Grid, horizon int, agents []*core.Agent, endpoints []*core.Endpoint, tasks []*core.Task) *core.Token {
	return core.NewToken(g, endpoints, agents, horizon, tasks)
}

func TestSpaceTimeFindsDirectPath(t *testing.T) {
	g := openGrid(6, 6)
	goal := &core.Endpoint{ID: 0, Loc: g.At(4, 1)}
	goal.HVal = core.BuildHeuristicTable(g, goal.Loc)
	agent := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	tok := buildToken(g, 20, []*core.Agent{agent}, []*core.Endpoint{goal}, nil)

	res := SpaceTime(tok, agent.ID, agent.Loc, 0, goal, true)
	if !res.OK {
		t.Fatalf("expected a feasible path in an open grid")
	}
	if res.Path[0] != agent.Loc {
		t.Errorf("path should start at the agent's location")
	}
	if res.Path[len(res.Path)-1] != goal.Loc {
		t.Errorf("path should end at the goal")
	}
	wantSteps := goal.Dist(agent.Loc)
	if len(res.Path)-1 != wantSteps {
		t.Errorf("expected shortest path of %d steps, got %d", wantSteps, len(res.Path)-1)
	}
}

func TestSpaceTimeAvoidsVertexCollision(t *testing.T) {
	g := openGrid(6, 3)
	goal := &core.Endpoint{ID: 0, Loc: g.At(4, 1)}
	goal.HVal = core.BuildHeuristicTable(g, goal.Loc)

	blocker := &core.Agent{ID: 1, Loc: g.At(4, 1)}
	mover := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	tok := buildToken(g, 10, []*core.Agent{mover, blocker}, []*core.Endpoint{goal}, nil)
	// Blocker sits on the goal cell for the whole horizon.
	for t := range tok.Path[1] {
		tok.Path[1][t] = goal.Loc
	}

	res := SpaceTime(tok, mover.ID, mover.Loc, 0, goal, true)
	if res.OK {
		t.Fatalf("expected no feasible path when the goal cell is permanently occupied")
	}
}

func TestSpaceTimeAvoidsEdgeSwap(t *testing.T) {
	g := openGrid(6, 3)
	a := g.At(2, 1)
	b := g.At(3, 1)
	goal := &core.Endpoint{ID: 0, Loc: b}
	goal.HVal = core.BuildHeuristicTable(g, b)

	mover := &core.Agent{ID: 0, Loc: a}
	other := &core.Agent{ID: 1, Loc: b}
	tok := buildToken(g, 10, []*core.Agent{mover, other}, []*core.Endpoint{goal}, nil)
	// other swaps a<-b at t=1, which would collide head-on with mover
	// trying to swap b<-a in the same step.
	tok.Path[1][0] = b
	tok.Path[1][1] = a
	for t := 2; t < tok.Horizon; t++ {
		tok.Path[1][t] = a
	}

	res := SpaceTime(tok, mover.ID, mover.Loc, 0, goal, true)
	if res.OK && len(res.Path) == 2 {
		t.Fatalf("direct single-step swap into the goal should have been rejected")
	}
}

func TestSpaceTimeWaitsForGoalToClear(t *testing.T) {
	g := openGrid(4, 3)
	goalLoc := g.At(2, 1)
	goal := &core.Endpoint{ID: 0, Loc: goalLoc}
	goal.HVal = core.BuildHeuristicTable(g, goalLoc)

	mover := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	occupant := &core.Agent{ID: 1, Loc: goalLoc}
	tok := buildToken(g, 10, []*core.Agent{mover, occupant}, []*core.Endpoint{goal}, nil)
	// occupant vacates the goal cell after t=2.
	for t := 0; t <= 2; t++ {
		tok.Path[1][t] = goalLoc
	}
	for t := 3; t < tok.Horizon; t++ {
		tok.Path[1][t] = g.At(3, 1)
	}

	res := SpaceTime(tok, mover.ID, mover.Loc, 0, goal, true)
	if !res.OK {
		t.Fatalf("expected a feasible path once the goal cell clears")
	}
	arriveT := len(res.Path) - 1
	if arriveT <= 2 {
		t.Errorf("agent should not arrive at the goal while it is still occupied, arrived at relative t=%d", arriveT)
	}
}

func TestSpaceTimeNoMustHoldAllowsTransientGoal(t *testing.T) {
	g := openGrid(4, 3)
	goalLoc := g.At(2, 1)
	goal := &core.Endpoint{ID: 0, Loc: goalLoc}
	goal.HVal = core.BuildHeuristicTable(g, goalLoc)

	mover := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	other := &core.Agent{ID: 1, Loc: g.At(3, 1)}
	tok := buildToken(g, 10, []*core.Agent{mover, other}, []*core.Endpoint{goal}, nil)
	// other passes through the goal cell at t=5. Without mustHold the
	// search still finds a path; it arrives after that visit, since the
	// goal is only accepted once no constraint path occupies it later.
	for t := range tok.Path[1] {
		tok.Path[1][t] = other.Loc
	}
	tok.Path[1][5] = goalLoc

	res := SpaceTime(tok, mover.ID, mover.Loc, 0, goal, false)
	if !res.OK {
		t.Fatalf("expected a feasible non-holding path to the goal")
	}
}

func TestSpaceTimeFailsBeyondHorizon(t *testing.T) {
	g := openGrid(6, 6)
	goal := &core.Endpoint{ID: 0, Loc: g.At(4, 4)}
	goal.HVal = core.BuildHeuristicTable(g, goal.Loc)
	agent := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	tok := buildToken(g, 20, []*core.Agent{agent}, []*core.Endpoint{goal}, nil)

	res := SpaceTime(tok, agent.ID, agent.Loc, 25, goal, true)
	if res.OK {
		t.Fatalf("a start time at or past the horizon can never produce a path")
	}
}
