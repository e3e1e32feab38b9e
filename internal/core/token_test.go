package core

import "testing"

func buildTestToken(t *testing.T) (*Token, *Grid, []*Endpoint) {
	t.Helper()
	g := openGrid(5, 5)
	home := &Endpoint{ID: 0, Loc: g.At(0, 0), Kind: Home}
	home.HVal = BuildHeuristicTable(g, home.Loc)
	work := &Endpoint{ID: 1, Loc: g.At(2, 2), Kind: Workpoint}
	work.HVal = BuildHeuristicTable(g, work.Loc)
	endpoints := []*Endpoint{home, work}

	agents := []*Agent{{ID: 0, Loc: home.Loc, FinishTime: 0}}
	task := &Task{ID: 0, Start: work, Goal: home, ReleaseTime: 3}
	tok := NewToken(g, endpoints, agents, 20, []*Task{task})
	return tok, g, endpoints
}

func TestPublishTasksOnlyPastRelease(t *testing.T) {
	tok, _, _ := buildTestToken(t)
	tok.PublishTasks(2)
	if len(tok.Tasks) != 0 {
		t.Fatalf("task with ReleaseTime=3 should not publish at t=2")
	}
	tok.PublishTasks(3)
	if len(tok.Tasks) != 1 {
		t.Fatalf("task with ReleaseTime=3 should publish at t=3")
	}
	// Publishing again at a later time must not duplicate.
	tok.PublishTasks(10)
	if len(tok.Tasks) != 1 {
		t.Fatalf("task should only be published once, got %d entries", len(tok.Tasks))
	}
}

func TestExpireTasksDropsTakenPastArrival(t *testing.T) {
	tok, _, _ := buildTestToken(t)
	tok.PublishTasks(3)
	task := tok.Tasks[0]
	task.Assign(0, 5, 9)
	tok.Timestep = 5
	tok.ExpireTasks()
	if len(tok.Tasks) != 0 {
		t.Errorf("taken task with ArriveStart<=timestep should expire")
	}
}

func TestExpireTasksKeepsTakenBeforeArrival(t *testing.T) {
	tok, _, _ := buildTestToken(t)
	tok.PublishTasks(3)
	task := tok.Tasks[0]
	task.Assign(0, 5, 9)
	tok.Timestep = 4
	tok.ExpireTasks()
	if len(tok.Tasks) != 1 {
		t.Errorf("taken task should remain open until ArriveStart reached")
	}
}

func TestWritePathHoldsAtEnd(t *testing.T) {
	tok, g, _ := buildTestToken(t)
	cells := []Cell{g.At(0, 0), g.At(1, 0), g.At(2, 0)}
	tok.WritePath(0, 0, cells)
	row := tok.Path[0]
	for i := 3; i < len(row); i++ {
		if row[i] != g.At(2, 0) {
			t.Fatalf("expected hold at final cell from t=3, got %v at t=%d", row[i], i)
		}
	}
}

func TestConstraintPathsExcludesSelf(t *testing.T) {
	tok, _, _ := buildTestToken(t)
	agents := append(tok.Agents, &Agent{ID: 1, Loc: tok.Agents[0].Loc})
	tok.Agents = agents
	tok.Path = append(tok.Path, make([]Cell, tok.Horizon))

	cp := tok.ConstraintPaths(0)
	if len(cp) != 1 {
		t.Fatalf("expected 1 constraint path excluding self, got %d", len(cp))
	}
}

func TestMaxReleaseTimeAcrossAllTasks(t *testing.T) {
	g := openGrid(5, 5)
	e := &Endpoint{ID: 0, Loc: g.At(0, 0)}
	tasks := []*Task{
		{ID: 0, Start: e, Goal: e, ReleaseTime: 7},
		{ID: 1, Start: e, Goal: e, ReleaseTime: 12},
		{ID: 2, Start: e, Goal: e, ReleaseTime: 3},
	}
	tok := NewToken(g, []*Endpoint{e}, []*Agent{{ID: 0, Loc: e.Loc}}, 20, tasks)
	if got := tok.MaxReleaseTime(); got != 12 {
		t.Errorf("MaxReleaseTime() = %d, want 12 (the maximum, not the last task's 3)", got)
	}
}
