package gridio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

// LoadTasks reads a task file: N, then N lines of
// "release_time start_ep_index goal_ep_index ag_arrive_start ag_arrive_goal".
// Each line is split with strings.Fields independently of every other
// line, so a short or malformed line can never leak state into the next.
func LoadTasks(path string, endpoints []*core.Endpoint) ([]*core.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gridio: open task file: %w", err)
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

	countLine, ok := nextLine()
	if !ok {
		return nil, fail("expected N line")
	}
	n, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil {
		return nil, fail("N is not an integer: " + countLine)
	}

	tasks := make([]*core.Task, 0, n)
	for i := 0; i < n; i++ {
		line, ok := nextLine()
		if !ok {
			return nil, fail(fmt.Sprintf("expected %d task lines, got %d", n, i))
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fail(fmt.Sprintf("expected 5 fields, got %d", len(fields)))
		}
		vals := make([]int, 5)
		for k, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fail("field is not an integer: " + f)
			}
			vals[k] = v
		}
		releaseTime, startIdx, goalIdx, arriveStart, arriveGoal := vals[0], vals[1], vals[2], vals[3], vals[4]
		if startIdx < 0 || startIdx >= len(endpoints) {
			return nil, fail(fmt.Sprintf("start endpoint index %d out of range", startIdx))
		}
		if goalIdx < 0 || goalIdx >= len(endpoints) {
			return nil, fail(fmt.Sprintf("goal endpoint index %d out of range", goalIdx))
		}
		tasks = append(tasks, &core.Task{
			ID:               core.TaskID(i),
			Start:            endpoints[startIdx],
			Goal:             endpoints[goalIdx],
			ReleaseTime:      releaseTime,
			InputArriveStart: arriveStart,
			InputArriveGoal:  arriveGoal,
		})
	}

	return tasks, nil
}
