package algo

import "github.com/elektrokombinacija/mapf-het-research/internal/core"

// Violation describes one collision found by SelfTest.
type Violation struct {
	TimeStep int
	AgentA   core.AgentID
	AgentB   core.AgentID
	Cell     core.Cell
	Kind     string // "vertex" or "edge"
}

// SelfTest scans every committed path in tok for vertex and edge
// collisions between distinct agents, the same two checks the search
// already enforces while planning. It exists so a finished run can be
// independently audited rather than trusted blindly.
func SelfTest(tok *core.Token) []Violation {
	var violations []Violation
	agents := tok.Agents
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			pi, pj := tok.Path[i], tok.Path[j]
			for t := 0; t < tok.Horizon; t++ {
				if pi[t] == pj[t] {
					violations = append(violations, Violation{
						TimeStep: t, AgentA: agents[i].ID, AgentB: agents[j].ID,
						Cell: pi[t], Kind: "vertex",
					})
					continue
				}
				if t > 0 && pi[t-1] == pj[t] && pi[t] == pj[t-1] {
					violations = append(violations, Violation{
						TimeStep: t, AgentA: agents[i].ID, AgentB: agents[j].ID,
						Cell: pi[t], Kind: "edge",
					})
				}
			}
		}
	}
	return violations
}
