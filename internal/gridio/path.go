package gridio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

// WritePathTable writes one path-table file: for each agent in id
// order, a line with the horizon H followed by H lines of "x\ty" giving
// path[a][t] in inner-grid coordinates.
func WritePathTable(path string, tok *core.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gridio: create path file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	for _, row := range tok.Path {
		if _, err := fmt.Fprintln(w, tok.Horizon); err != nil {
			return err
		}
		for t := 0; t < tok.Horizon; t++ {
			c := row[t]
			x, y := tok.Grid.XY(c)
			if _, err := fmt.Fprintf(w, "%d\t%d\n", x, y); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadPathTable reads a path-table file written by WritePathTable back
// into per-agent cell sequences, in inner-grid coordinates converted to
// Cells via grid. Used by the playback viewer, which never re-derives a
// path itself.
func ReadPathTable(path string, grid *core.Grid) ([][]core.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gridio: open path file: %w", err)
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

	var rows [][]core.Cell
	for {
		hLine, ok := nextLine()
		if !ok {
			break
		}
		h, err := strconv.Atoi(strings.TrimSpace(hLine))
		if err != nil {
			return nil, fail("expected horizon integer: " + hLine)
		}
		row := make([]core.Cell, h)
		for t := 0; t < h; t++ {
			line, ok := nextLine()
			if !ok {
				return nil, fail(fmt.Sprintf("expected %d coordinate lines, got %d", h, t))
			}
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, fail("expected \"x\\ty\"")
			}
			x, errX := strconv.Atoi(fields[0])
			y, errY := strconv.Atoi(fields[1])
			if errX != nil || errY != nil {
				return nil, fail("coordinates are not integers: " + line)
			}
			row[t] = grid.At(x, y)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TaskSummary reports the same two aggregate numbers the original
// simulator prints after a run: the latest planned delivery time and
// the total task waiting time (planned delivery time minus release
// time, summed over every assigned task).
type TaskSummary struct {
	LastFinish  int
	WaitingTime int
}

// SummarizeTasks computes TaskSummary over every task that was ever
// assigned (State == Taken), regardless of whether the run has
// finished delivering all of them.
func SummarizeTasks(tasks []*core.Task) TaskSummary {
	var s TaskSummary
	for _, t := range tasks {
		if t.State != core.Taken {
			continue
		}
		wait := t.ArriveGoal - t.ReleaseTime
		s.WaitingTime += wait
		if t.ArriveGoal > s.LastFinish {
			s.LastFinish = t.ArriveGoal
		}
	}
	return s
}

// WriteThroughput writes a "<path>.throughput" file: one line per
// timestep, "deliveries_active in_progress_active", where each
// delivered task contributes to a 100-timestep window starting at its
// ArriveGoal, and each released task contributes to a 100-timestep
// window starting at its ReleaseTime. This mirrors the original
// simulator's rolling delivery/backlog histogram.
func WriteThroughput(path string, tasks []*core.Task, horizon int) error {
	const window = 100
	size := horizon + window
	delivered := make([]int, size)
	inProgress := make([]int, size)

	for _, t := range tasks {
		if t.State == core.Taken {
			for d := 0; d < window; d++ {
				idx := t.ArriveGoal + d
				if idx < size {
					delivered[idx]++
				}
			}
		}
		for d := 0; d < window; d++ {
			idx := t.ReleaseTime + d
			if idx < size {
				inProgress[idx]++
			}
		}
	}

	f, err := os.Create(path + ".throughput")
	if err != nil {
		return fmt.Errorf("gridio: create throughput file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for i := 0; i < size; i++ {
		if _, err := fmt.Fprintf(w, "%d %d\n", delivered[i], inProgress[i]); err != nil {
			return err
		}
	}
	return nil
}
