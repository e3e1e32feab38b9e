// Command gen_instances generates a deterministic map file and a
// matching task file in the formats internal/gridio reads, for
// exercising cmd/mapfsim without hand-authoring a scenario.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
)

type params struct {
	seed            int64
	cols, rows      int
	agents          int
	workpoints      int
	horizon         int
	obstacleDensity float64
	taskCount       int
	maxReleaseTime  int
}

// generateGrid generates a blocked/open mask plus a list of open cell indices
// (row-major, inner coordinates), guaranteeing enough open cells for
// the requested workpoints and agent homes.
func generateGrid(p params, rng *rand.Rand) ([]bool, []int) {
	passable := make([]bool, p.cols*p.rows)
	var open []int
	for i := range passable {
		blocked := rng.Float64() < p.obstacleDensity
		passable[i] = !blocked
		if !blocked {
			open = append(open, i)
		}
	}
	needed := p.workpoints + p.agents
	for len(open) < needed {
		idx := rng.Intn(len(passable))
		if !passable[idx] {
			passable[idx] = true
			open = append(open, idx)
		}
	}
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	return passable, open
}

func writeMap(path string, p params, passable []bool, endpointCells map[int]rune) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "%d,%d\n", p.cols, p.rows)
	fmt.Fprintf(w, "%d\n", p.workpoints)
	fmt.Fprintf(w, "%d\n", p.agents)
	fmt.Fprintf(w, "%d\n", p.horizon)

	for y := 0; y < p.rows; y++ {
		for x := 0; x < p.cols; x++ {
			idx := y*p.cols + x
			if ch, ok := endpointCells[idx]; ok {
				w.WriteRune(ch)
				continue
			}
			if passable[idx] {
				w.WriteByte('.')
			} else {
				w.WriteByte('@')
			}
		}
		w.WriteByte('\n')
	}
	return nil
}

func writeTasks(path string, p params, workpointSlots []int, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "%d\n", p.taskCount)
	for i := 0; i < p.taskCount; i++ {
		release := rng.Intn(p.maxReleaseTime + 1)
		start := workpointSlots[rng.Intn(len(workpointSlots))]
		goal := start
		for goal == start {
			goal = workpointSlots[rng.Intn(len(workpointSlots))]
		}
		fmt.Fprintf(w, "%d %d %d 0 0\n", release, start, goal)
	}
	return nil
}

func main() {
	seed := flag.Int64("seed", 42, "random seed for deterministic generation")
	cols := flag.Int("cols", 20, "grid inner width")
	rows := flag.Int("rows", 20, "grid inner height")
	agents := flag.Int("agents", 10, "number of agents")
	workpoints := flag.Int("workpoints", 8, "number of workpoint endpoints")
	horizon := flag.Int("horizon", 500, "path table horizon")
	obstacleDensity := flag.Float64("obstacles", 0.1, "fraction of cells blocked")
	taskCount := flag.Int("tasks", 30, "number of tasks")
	maxReleaseTime := flag.Int("max-release", 200, "maximum task release timestep")
	outputDir := flag.String("output", "testdata", "output directory")
	name := flag.String("name", "scenario", "base filename for the generated map and task files")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "gen_instances: %v\n", err)
		os.Exit(1)
	}

	p := params{
		seed:            *seed,
		cols:            *cols,
		rows:            *rows,
		agents:          *agents,
		workpoints:      *workpoints,
		horizon:         *horizon,
		obstacleDensity: *obstacleDensity,
		taskCount:       *taskCount,
		maxReleaseTime:  *maxReleaseTime,
	}
	rng := rand.New(rand.NewSource(p.seed))

	passable, open := generateGrid(p, rng)
	if len(open) < p.workpoints+p.agents {
		fmt.Fprintln(os.Stderr, "gen_instances: grid too small or too dense for requested workpoints/agents")
		os.Exit(1)
	}

	// LoadMap assigns endpoint indices by row-major scan order, so the
	// workpoint and home cells must each be sorted ascending by cell
	// index before index 0..W-1 / W..W+A-1 can be assigned to them here.
	workpointCells := append([]int(nil), open[:p.workpoints]...)
	homeCells := append([]int(nil), open[p.workpoints:p.workpoints+p.agents]...)
	sort.Ints(workpointCells)
	sort.Ints(homeCells)

	endpointCells := make(map[int]rune, p.workpoints+p.agents)
	workpointSlots := make([]int, p.workpoints)
	for i, cell := range workpointCells {
		endpointCells[cell] = 'e'
		workpointSlots[i] = i
	}
	for _, cell := range homeCells {
		endpointCells[cell] = 'r'
	}

	mapPath := filepath.Join(*outputDir, *name+".map")
	taskPath := filepath.Join(*outputDir, *name+".task")

	if err := writeMap(mapPath, p, passable, endpointCells); err != nil {
		fmt.Fprintf(os.Stderr, "gen_instances: writing map: %v\n", err)
		os.Exit(1)
	}
	if err := writeTasks(taskPath, p, workpointSlots, rng); err != nil {
		fmt.Fprintf(os.Stderr, "gen_instances: writing tasks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("generated %s and %s (%d agents, %d workpoints, %d tasks, %dx%d grid)\n",
		mapPath, taskPath, p.agents, p.workpoints, p.taskCount, p.cols, p.rows)
}
