package algo

import (
	"testing"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

func endpoint(id int, loc core.Cell, g *core.Grid) *core.Endpoint {
	e := &core.Endpoint{ID: id, Loc: loc}
	e.HVal = core.BuildHeuristicTable(g, loc)
	return e
}

func TestPlanAgentTakesNearestFreeTask(t *testing.T) {
	g := openGrid(8, 8)
	start := endpoint(0, g.At(1, 1), g)
	goal := endpoint(1, g.At(5, 1), g)
	far := endpoint(2, g.At(6, 6), g)

	agent := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	near := &core.Task{ID: 0, Start: start, Goal: goal, ReleaseTime: 0}
	farTask := &core.Task{ID: 1, Start: far, Goal: goal, ReleaseTime: 0}
	tok := core.NewToken(g, []*core.Endpoint{start, goal, far}, []*core.Agent{agent}, 30, []*core.Task{near, farTask})
	tok.PublishTasks(0)

	took, err := PlanAgent(tok, agent, TOTPPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !took {
		t.Fatalf("expected agent to take a task")
	}
	if agent.Task == nil || agent.Task.ID != near.ID {
		t.Fatalf("expected nearest task %d to be taken, got %v", near.ID, agent.Task)
	}
	if near.State != core.Taken {
		t.Errorf("task should be marked Taken")
	}
}

func TestPlanAgentWaitsWhenNoTasksOpen(t *testing.T) {
	g := openGrid(6, 6)
	agent := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	tok := core.NewToken(g, nil, []*core.Agent{agent}, 10, nil)

	took, err := PlanAgent(tok, agent, TOTPPolicy)
	if err != nil {
		t.Fatalf("no open tasks should not be a fatal error, got %v", err)
	}
	if took {
		t.Fatalf("expected agent to stay idle with no tasks open")
	}
	if agent.FinishTime != tok.Timestep+1 {
		t.Errorf("idle agent should be rechecked next tick, FinishTime=%d", agent.FinishTime)
	}
}

func TestPlanAgentFatalWhenEveryTaskUnreachable(t *testing.T) {
	g := core.NewGrid(7, 5)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			g.Passable[g.At(x, y)] = true
		}
	}
	for y := 0; y < 3; y++ {
		g.Passable[g.At(2, y)] = false // wall splitting the grid
	}

	start := endpoint(0, g.At(4, 0), g) // unreachable from x<2 side
	goal := endpoint(1, g.At(3, 0), g)
	agent := &core.Agent{ID: 0, Loc: g.At(0, 0)}
	task := &core.Task{ID: 0, Start: start, Goal: goal, ReleaseTime: 0}
	tok := core.NewToken(g, []*core.Endpoint{start, goal}, []*core.Agent{agent}, 20, []*core.Task{task})
	tok.PublishTasks(0)

	_, err := PlanAgent(tok, agent, TOTPPolicy)
	if err == nil {
		t.Fatalf("expected a fatal planning error when every candidate task is unreachable")
	}
}

func TestTPTRStealsCloserPickup(t *testing.T) {
	g := openGrid(10, 4)
	start := endpoint(0, g.At(5, 1), g)
	goal := endpoint(1, g.At(8, 1), g)

	agentA := &core.Agent{ID: 0, Loc: g.At(1, 1)} // far from pickup
	agentB := &core.Agent{ID: 1, Loc: g.At(4, 1)} // close to pickup
	task := &core.Task{ID: 0, Start: start, Goal: goal, ReleaseTime: 0}
	tok := core.NewToken(g, []*core.Endpoint{start, goal}, []*core.Agent{agentA, agentB}, 30, []*core.Task{task})
	tok.PublishTasks(0)

	took, err := PlanAgent(tok, agentA, TPTRPolicy)
	if err != nil || !took {
		t.Fatalf("agent A should take the only task: took=%v err=%v", took, err)
	}
	if task.AgentID != agentA.ID {
		t.Fatalf("expected task assigned to A first, got agent %d", task.AgentID)
	}

	took, err = PlanAgent(tok, agentB, TPTRPolicy)
	if err != nil || !took {
		t.Fatalf("agent B should steal the task: took=%v err=%v", took, err)
	}
	if task.AgentID != agentB.ID {
		t.Errorf("expected task stolen by closer agent B, still assigned to %d", task.AgentID)
	}
	if !agentA.Idle() {
		t.Errorf("agent A should be freed back to idle after losing its task")
	}
}

func TestTPTRDoesNotStealAfterPickup(t *testing.T) {
	g := openGrid(10, 4)
	start := endpoint(0, g.At(5, 1), g)
	goal := endpoint(1, g.At(8, 1), g)

	agentA := &core.Agent{ID: 0, Loc: start.Loc} // already there
	agentB := &core.Agent{ID: 1, Loc: start.Loc}
	task := &core.Task{ID: 0, Start: start, Goal: goal, ReleaseTime: 0}
	task.Assign(agentA.ID, 0, 3) // already picked up at t=0
	tok := core.NewToken(g, []*core.Endpoint{start, goal}, []*core.Agent{agentA, agentB}, 30, []*core.Task{task})
	tok.Tasks = []*core.Task{task}

	stolen := bestSteal(tok, agentB)
	if stolen != nil {
		t.Errorf("task already picked up should not be stealable, got %v", stolen)
	}
}

func TestTPTRReleasesAgentAtPickupNotDelivery(t *testing.T) {
	g := openGrid(12, 4)
	start := endpoint(0, g.At(3, 1), g)
	goal := endpoint(1, g.At(9, 1), g)
	agent := &core.Agent{ID: 0, Loc: g.At(1, 1)}
	task := &core.Task{ID: 0, Start: start, Goal: goal, ReleaseTime: 0}
	tok := core.NewToken(g, []*core.Endpoint{start, goal}, []*core.Agent{agent}, 30, []*core.Task{task})
	tok.PublishTasks(0)

	took, err := PlanAgent(tok, agent, TPTRPolicy)
	if err != nil || !took {
		t.Fatalf("expected agent to take the task: took=%v err=%v", took, err)
	}
	if task.ArriveStart >= task.ArriveGoal {
		t.Fatalf("test setup needs a nonzero delivery leg, got ArriveStart=%d ArriveGoal=%d", task.ArriveStart, task.ArriveGoal)
	}
	if agent.FinishTime != task.ArriveStart {
		t.Errorf("TPTR should set FinishTime to pickup completion (%d), got %d", task.ArriveStart, agent.FinishTime)
	}
	if agent.Phase != core.ToStart {
		t.Errorf("expected Phase ToStart, marking FinishTime as a pickup release rather than a delivery")
	}

	// Advance the clock only to pickup completion, well before ArriveGoal,
	// and confirm the agent is released even though its delivery is still
	// in flight along the already-committed second leg of its path.
	tok.Timestep = task.ArriveStart
	delivered := CompleteIfDue(tok, agent)
	if delivered {
		t.Errorf("a TPTR pickup release should not be reported as a delivery")
	}
	if !agent.Idle() {
		t.Errorf("agent should be idle again at pickup completion under TPTR")
	}
}

func TestSortedFreeTasksScoresFullTrip(t *testing.T) {
	g := openGrid(12, 12)
	agent := &core.Agent{ID: 0, Loc: g.At(1, 1)}

	// closeTask has the nearer pickup but a far longer delivery leg;
	// farTask has a farther pickup but a much shorter delivery leg and
	// should win once both legs are scored together.
	closeStart := endpoint(0, g.At(2, 1), g)
	closeGoal := endpoint(1, g.At(10, 10), g)
	farStart := endpoint(2, g.At(4, 1), g)
	farGoal := endpoint(3, g.At(5, 1), g)

	closeTask := &core.Task{ID: 0, Start: closeStart, Goal: closeGoal, ReleaseTime: 0}
	farTask := &core.Task{ID: 1, Start: farStart, Goal: farGoal, ReleaseTime: 0}
	tok := core.NewToken(g, []*core.Endpoint{closeStart, closeGoal, farStart, farGoal}, []*core.Agent{agent}, 40,
		[]*core.Task{closeTask, farTask})
	tok.PublishTasks(0)

	out := sortedFreeTasks(tok, agent)
	if len(out) != 2 || out[0].ID != farTask.ID {
		t.Fatalf("expected the shorter total-trip task first, got order [%d %d]", out[0].ID, out[1].ID)
	}
}

func TestCompleteIfDueReleasesAgent(t *testing.T) {
	g := openGrid(6, 6)
	agent := &core.Agent{ID: 0, Loc: g.At(1, 1), FinishTime: 5}
	task := &core.Task{ID: 0}
	agent.Task = task
	tok := core.NewToken(g, nil, []*core.Agent{agent}, 20, nil)

	tok.Timestep = 4
	CompleteIfDue(tok, agent)
	if agent.Idle() {
		t.Fatalf("agent should still be busy before its FinishTime")
	}

	tok.Timestep = 5
	CompleteIfDue(tok, agent)
	if !agent.Idle() {
		t.Fatalf("agent should be released once its FinishTime is reached")
	}
}
