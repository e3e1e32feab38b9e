package gridio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

// Map is the result of parsing a map file: the bordered grid, every
// endpoint (workpoints first, then one home per agent, in scan order),
// the agents seeded at their home endpoints, and the horizon.
type Map struct {
	Grid      *core.Grid
	Endpoints []*core.Endpoint
	Agents    []*core.Agent
	Horizon   int
}

// LoadMap reads a map file: cols,rows / W / A / H, then rows lines of
// cols characters (@ blocked, . open, e workpoint, r agent home). A
// one-cell blocked border is added around the parsed interior, as
// inner-grid coordinates; all Cell values elsewhere in the model are
// relative to the bordered grid.
func LoadMap(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gridio: open map file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	nextLine := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return sc.Text(), true
	}
	fail := func(msg string) error {
		return &ParseError{File: path, Line: lineNo, Msg: msg}
	}

	dimsLine, ok := nextLine()
	if !ok {
		return nil, fail("expected cols,rows line")
	}
	parts := strings.Split(strings.TrimSpace(dimsLine), ",")
	if len(parts) != 2 {
		return nil, fail("expected \"cols,rows\"")
	}
	cols, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fail("cols is not an integer: " + parts[0])
	}
	rows, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fail("rows is not an integer: " + parts[1])
	}

	workpointNum, err := parseIntLine(nextLine, fail, "W")
	if err != nil {
		return nil, err
	}
	agentNum, err := parseIntLine(nextLine, fail, "A")
	if err != nil {
		return nil, err
	}
	horizon, err := parseIntLine(nextLine, fail, "H")
	if err != nil {
		return nil, err
	}

	grid := core.NewGrid(cols+2, rows+2)
	endpoints := make([]*core.Endpoint, workpointNum+agentNum)
	agents := make([]*core.Agent, 0, agentNum)

	epIdx, agIdx := 0, 0
	for i := 0; i < rows; i++ {
		row, ok := nextLine()
		if !ok {
			return nil, fail(fmt.Sprintf("expected %d map rows, got %d", rows, i))
		}
		if len(row) < cols {
			return nil, fail(fmt.Sprintf("row has %d characters, want %d", len(row), cols))
		}
		for j := 0; j < cols; j++ {
			cell := grid.At(j, i)
			ch := row[j]
			switch ch {
			case '@':
				// blocked, Passable defaults to false
			case '.':
				grid.Passable[cell] = true
			case 'e':
				grid.Passable[cell] = true
				if epIdx >= workpointNum {
					return nil, fail("more workpoint cells than W declares")
				}
				endpoints[epIdx] = &core.Endpoint{ID: epIdx, Loc: cell, Kind: core.Workpoint}
				epIdx++
			case 'r':
				grid.Passable[cell] = true
				if agIdx >= agentNum {
					return nil, fail("more agent homes than A declares")
				}
				homeID := workpointNum + agIdx
				home := &core.Endpoint{ID: homeID, Loc: cell, Kind: core.Home}
				endpoints[homeID] = home
				agents = append(agents, &core.Agent{ID: core.AgentID(agIdx), Loc: cell})
				agIdx++
			default:
				return nil, fail(fmt.Sprintf("unrecognized map character %q", ch))
			}
		}
	}
	if epIdx != workpointNum {
		return nil, fail(fmt.Sprintf("found %d workpoint cells, W declared %d", epIdx, workpointNum))
	}
	if agIdx != agentNum {
		return nil, fail(fmt.Sprintf("found %d agent homes, A declared %d", agIdx, agentNum))
	}

	for _, e := range endpoints {
		e.HVal = core.BuildHeuristicTable(grid, e.Loc)
	}

	return &Map{Grid: grid, Endpoints: endpoints, Agents: agents, Horizon: horizon}, nil
}

func parseIntLine(next func() (string, bool), fail func(string) error, name string) (int, error) {
	line, ok := next()
	if !ok {
		return 0, fail("expected " + name + " line")
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fail(name + " is not an integer: " + line)
	}
	return n, nil
}
