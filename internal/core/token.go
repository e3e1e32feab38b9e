package core

import "sort"

// Token is the shared planning state: the current global timestep, the
// open task list, every agent's complete future path, and references to
// the map and endpoints. It is a single-writer structure — only the
// dispatcher mutates Timestep and the task list; only the agent planner
// (under dispatcher control) mutates Path[a] for agent a. No concurrent
// mutation is required.
type Token struct {
	Timestep  int
	Horizon   int
	Grid      *Grid
	Endpoints []*Endpoint
	Agents    []*Agent

	// Path[a][t] = cell occupied by agent a at time t, t in [0, Horizon).
	Path [][]Cell

	// Tasks is the open task list: published, not-yet-expired tasks.
	Tasks []*Task

	allTasks     []*Task // every task from the load file, sorted by ReleaseTime
	publishedIdx int     // index into allTasks of the next unpublished task
}

// NewToken builds a token for the given map, endpoints, and agents,
// preloading every agent's path row with its home cell so that an agent
// never planned for holds there for the whole horizon.
func NewToken(grid *Grid, endpoints []*Endpoint, agents []*Agent, horizon int, allTasks []*Task) *Token {
	sorted := make([]*Task, len(allTasks))
	copy(sorted, allTasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReleaseTime < sorted[j].ReleaseTime
	})

	path := make([][]Cell, len(agents))
	for i, a := range agents {
		row := make([]Cell, horizon)
		for t := range row {
			row[t] = a.Loc
		}
		path[i] = row
	}

	return &Token{
		Horizon:   horizon,
		Grid:      grid,
		Endpoints: endpoints,
		Agents:    agents,
		Path:      path,
		allTasks:  sorted,
	}
}

// MaxReleaseTime returns the maximum ReleaseTime across every task ever
// loaded. It scans the full task list rather than trusting whatever the
// last-parsed line happened to report.
func (tok *Token) MaxReleaseTime() int {
	max := 0
	for _, t := range tok.allTasks {
		if t.ReleaseTime > max {
			max = t.ReleaseTime
		}
	}
	return max
}

// PublishTasks appends every task with ReleaseTime <= upToT that has not
// already been published to the open task list.
func (tok *Token) PublishTasks(upToT int) {
	for tok.publishedIdx < len(tok.allTasks) && tok.allTasks[tok.publishedIdx].ReleaseTime <= upToT {
		tok.Tasks = append(tok.Tasks, tok.allTasks[tok.publishedIdx])
		tok.publishedIdx++
	}
}

// ExpireTasks drops every TAKEN task whose ArriveStart is at or before
// the current Timestep from the open list (TPTR only).
func (tok *Token) ExpireTasks() {
	kept := tok.Tasks[:0]
	for _, t := range tok.Tasks {
		if t.State == Taken && t.ArriveStart <= tok.Timestep {
			continue
		}
		kept = append(kept, t)
	}
	tok.Tasks = kept
}

// TotalTasks returns the number of tasks ever loaded, published or not.
func (tok *Token) TotalTasks() int {
	return len(tok.allTasks)
}

// AllPublished reports whether every loaded task has been published.
func (tok *Token) AllPublished() bool {
	return tok.publishedIdx >= len(tok.allTasks)
}

// DeliveredTasks returns the number of tasks whose assigned agent has
// already reached the goal as of the current timestep.
func (tok *Token) DeliveredTasks() int {
	n := 0
	for _, t := range tok.allTasks {
		if t.State == Taken && t.ArriveGoal <= tok.Timestep {
			n++
		}
	}
	return n
}

// FreeTasks returns every currently-open task still in the FREE state.
func (tok *Token) FreeTasks() []*Task {
	var out []*Task
	for _, t := range tok.Tasks {
		if t.IsFree() {
			out = append(out, t)
		}
	}
	return out
}

// ConstraintPaths returns a read-only view of every other agent's
// committed path, used by the search to avoid collisions.
func (tok *Token) ConstraintPaths(agentID AgentID) [][]Cell {
	out := make([][]Cell, 0, len(tok.Agents))
	for i, a := range tok.Agents {
		if a.ID == agentID {
			continue
		}
		out = append(out, tok.Path[i])
	}
	return out
}

// AgentIndex returns the index of the agent with the given ID into
// tok.Agents/tok.Path, or -1 if not found.
func (tok *Token) AgentIndex(id AgentID) int {
	for i, a := range tok.Agents {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// WritePath commits cells[0..] into agent a's path row starting at
// startT, then fills the remainder of the horizon with the final cell so
// the agent holds there rather than leaving the row stale.
func (tok *Token) WritePath(agentID AgentID, startT int, cells []Cell) {
	idx := tok.AgentIndex(agentID)
	if idx < 0 || len(cells) == 0 {
		return
	}
	row := tok.Path[idx]
	t := startT
	for _, c := range cells {
		if t >= len(row) {
			break
		}
		row[t] = c
		t++
	}
	last := cells[len(cells)-1]
	for ; t < len(row); t++ {
		row[t] = last
	}
}
