package algo

import (
	"fmt"
	"sort"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

// Policy selects which agent decision rule the dispatcher runs each turn.
type Policy int

const (
	// TOTPPolicy assigns an idle agent the free task with the lowest
	// pickup-plus-delivery travel estimate and never revisits that
	// assignment once made.
	TOTPPolicy Policy = iota
	// TPTRPolicy additionally lets an idle agent steal an
	// already-assigned-but-not-yet-picked-up task from whichever agent
	// currently holds it, if this agent can reach the pickup sooner.
	TPTRPolicy
)

// PlanAgent runs one agent's turn under the given policy: if idle, it
// tries to take on a task (and, under TPTRPolicy, first tries to steal a
// pending pickup that it can reach sooner than the agent holding it);
// either way it advances the agent's FinishTime. It returns (false, nil)
// if the agent stayed idle because no task is open yet — that is normal
// lifelong-MAPF idling. It returns a non-nil error if open tasks
// existed but every one of them was infeasible from the agent's current
// position within the horizon.
func PlanAgent(tok *core.Token, agent *core.Agent, policy Policy) (bool, error) {
	if !agent.Idle() {
		return true, nil
	}

	if policy == TPTRPolicy {
		if task := bestSteal(tok, agent); task != nil {
			prior := findAgent(tok, task.AgentID)
			origAgent, origStart, origGoal := task.AgentID, task.ArriveStart, task.ArriveGoal
			priorIdx := tok.AgentIndex(task.AgentID)
			var priorState core.Agent
			var priorRow []core.Cell
			if prior != nil && priorIdx >= 0 {
				priorState, priorRow = *prior, append([]core.Cell(nil), tok.Path[priorIdx]...)
				releaseToRest(tok, prior)
			}
			task.Unassign()
			if assignTask(tok, agent, task, policy) {
				return true, nil
			}
			task.Assign(origAgent, origStart, origGoal)
			if priorRow != nil {
				*prior = priorState
				copy(tok.Path[priorIdx], priorRow)
			}
		}
	}

	candidates := sortedFreeTasks(tok, agent)
	if len(candidates) == 0 {
		agent.FinishTime = tok.Timestep + 1
		return false, nil
	}
	for _, task := range candidates {
		if assignTask(tok, agent, task, policy) {
			return true, nil
		}
	}
	return false, fmt.Errorf("agent %d: no feasible pickup-and-delivery path among %d open task(s) at t=%d",
		agent.ID, len(candidates), tok.Timestep)
}

// sortedFreeTasks returns every open, unassigned task, scored by the
// admissible lower bound on total travel from the agent's current
// location through pickup to delivery (pickup leg plus delivery leg,
// not pickup distance alone — the same score TOTP and TPTR both use),
// lowest first. Unreachable legs sort last, since Unreachable is a
// large sentinel; ties are broken by TaskID so the search order is
// deterministic across runs. Unreachable tasks are still included:
// PlanAgent needs to see them fail so it can tell "nothing is open
// yet" (wait) apart from "everything open is infeasible" (fatal).
func sortedFreeTasks(tok *core.Token, agent *core.Agent) []*core.Task {
	free := tok.FreeTasks()
	out := make([]*core.Task, len(free))
	copy(out, free)
	score := func(t *core.Task) int {
		pickup := t.Start.Dist(agent.Loc)
		if pickup == core.Unreachable {
			return core.Unreachable
		}
		delivery := t.Goal.Dist(t.Start.Loc)
		if delivery == core.Unreachable {
			return core.Unreachable
		}
		return pickup + delivery
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := score(out[i]), score(out[j])
		if si != sj {
			return si < sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// bestSteal looks for a task already assigned to some other agent, not
// yet picked up, that this agent could reach sooner than the holder's
// already-committed pickup time. It returns nil if no such task exists.
func bestSteal(tok *core.Token, agent *core.Agent) *core.Task {
	var best *core.Task
	bestGain := 0
	for _, t := range tok.Tasks {
		if t.IsFree() || t.AgentID == agent.ID {
			continue
		}
		if t.ArriveStart <= tok.Timestep {
			continue // already picked up, can't be stolen
		}
		myDist := t.Start.Dist(agent.Loc)
		if myDist == core.Unreachable {
			continue
		}
		myArrival := tok.Timestep + myDist
		gain := t.ArriveStart - myArrival
		if gain > bestGain || (gain == bestGain && gain > 0 && (best == nil || t.ID < best.ID)) {
			best = t
			bestGain = gain
		}
	}
	return best
}

func findAgent(tok *core.Token, id core.AgentID) *core.Agent {
	for _, a := range tok.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// releaseToRest frees an agent that just lost its task to a steal before
// reaching pickup: its current location is pinned down from the path
// table at the moment of the steal, its now-abandoned future path (the
// pickup route it never finished) is cleared back to a hold at that
// cell, and it is scheduled for replanning on the dispatcher's next
// visit.
func releaseToRest(tok *core.Token, agent *core.Agent) {
	if idx := tok.AgentIndex(agent.ID); idx >= 0 {
		agent.Loc = tok.Path[idx][tok.Timestep]
		tok.WritePath(agent.ID, tok.Timestep, []core.Cell{agent.Loc})
	}
	agent.Task = nil
	agent.FinishTime = tok.Timestep
}

// assignTask plans the full pickup-then-delivery trip for task starting
// at the agent's current location and time and commits both legs into
// tok's path table, regardless of policy — both searches must succeed
// before either is written. It marks the task Taken and the agent busy.
// The two policies differ only in what a.finish_time becomes: TOTP
// advances it to delivery completion, so the agent stays busy for the
// whole trip; TPTR advances it to pickup completion, releasing the
// agent to plan again while its already-committed delivery leg plays
// out untouched in the token. agent.Phase records which leg the new
// FinishTime marks the end of, so CompleteIfDue can tell a real
// delivery apart from an early TPTR release. It returns false (leaving
// tok and agent untouched) if either leg has no feasible path within
// the horizon.
func assignTask(tok *core.Token, agent *core.Agent, task *core.Task, policy Policy) bool {
	toStart := SpaceTime(tok, agent.ID, agent.Loc, tok.Timestep, task.Start, false)
	if !toStart.OK {
		return false
	}
	arriveStart := tok.Timestep + len(toStart.Path) - 1

	toGoal := SpaceTime(tok, agent.ID, task.Start.Loc, arriveStart, task.Goal, true)
	if !toGoal.OK {
		return false
	}
	arriveGoal := arriveStart + len(toGoal.Path) - 1

	tok.WritePath(agent.ID, tok.Timestep, toStart.Path)
	tok.WritePath(agent.ID, arriveStart, toGoal.Path)

	task.Assign(agent.ID, arriveStart, arriveGoal)
	agent.Task = task
	if policy == TPTRPolicy {
		agent.Phase = core.ToStart
		agent.FinishTime = arriveStart
	} else {
		agent.Phase = core.ToGoal
		agent.FinishTime = arriveGoal
	}
	return true
}

// CompleteIfDue releases an agent whose current commitment has reached
// its FinishTime, returning it to idle so the dispatcher can plan it
// again on its next turn. It reports whether the release was a true
// delivery (agent.Phase == ToGoal) as opposed to a TPTR release after
// pickup, whose delivery leg remains committed in the token but hasn't
// played out yet. It is a no-op if the agent hasn't reached its
// FinishTime yet.
func CompleteIfDue(tok *core.Token, agent *core.Agent) bool {
	if agent.Task == nil || tok.Timestep < agent.FinishTime {
		return false
	}
	delivered := agent.Phase == core.ToGoal
	agent.Task = nil
	return delivered
}
