package core

// TaskID is a unique task identifier.
type TaskID int

// TaskState is a two-variant state tag: a task is either free or taken
// by a specific agent with fixed arrival times.
type TaskState int

const (
	Free TaskState = iota
	Taken
)

// Task is an immutable (start, goal) pair with a release time. The
// mutable fields (State, AgentID, ArriveStart, ArriveGoal) are written
// exactly once per commitment, by whichever planner assigns the task.
type Task struct {
	ID          TaskID
	Start       *Endpoint
	Goal        *Endpoint
	ReleaseTime int // first timestep the task is visible

	// InputArriveStart and InputArriveGoal are the ag_arrive_start and
	// ag_arrive_goal fields read from the task file. They are reporting
	// metadata from whatever run produced the file and are never
	// consulted by the planner, which always recomputes ArriveStart and
	// ArriveGoal itself.
	InputArriveStart int
	InputArriveGoal  int

	State       TaskState
	AgentID     AgentID
	ArriveStart int // timestep the assigned agent reaches Start
	ArriveGoal  int // timestep the assigned agent reaches Goal
}

// IsFree reports whether the task is still unassigned.
func (t *Task) IsFree() bool {
	return t.State == Free
}

// Assign commits the task to agent a with the given pickup/delivery
// timestamps.
func (t *Task) Assign(a AgentID, arriveStart, arriveGoal int) {
	t.State = Taken
	t.AgentID = a
	t.ArriveStart = arriveStart
	t.ArriveGoal = arriveGoal
}

// Unassign reverts a TPTR reassignment candidate back to FREE so a
// different agent can take it. Only valid before the prior assignee has
// reached the pickup.
func (t *Task) Unassign() {
	t.State = Free
	t.AgentID = 0
	t.ArriveStart = 0
	t.ArriveGoal = 0
}
