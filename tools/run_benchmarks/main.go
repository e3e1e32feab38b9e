// Command run_benchmarks drives cmd/mapfsim over every map/task pair
// in a directory and collects per-run metrics into a CSV file.
package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult stores one dispatcher-policy run's reported metrics.
type BenchmarkResult struct {
	Timestamp   string
	CommitHash  string
	GoVersion   string
	OS          string
	Arch        string
	Scenario    string
	Policy      string
	RuntimeMs   float64
	Success     bool
	LastFinish  int
	WaitingTime int
	Turns       int
	Assigned    int
	Delivered   int
	Violations  int
}

var summaryLine = regexp.MustCompile(`^(\S+): finish=(\d+) waiting=(\d+) turns=(\d+) assigned=(\d+) delivered=(\d+) violations=(\d+)$`)

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// runScenario invokes the mapfsim binary on one map/task pair and
// parses its per-policy summary lines. mapfsim itself runs both TOTP
// and TPTR in one process, so a single invocation yields two results.
func runScenario(mapfsimPath, mapFile, taskFile, scenario string, timeout time.Duration) []*BenchmarkResult {
	ctxResults := []*BenchmarkResult{}
	commit := getGitCommit()
	start := time.Now()

	cmd := exec.Command(mapfsimPath, mapFile, taskFile)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return []*BenchmarkResult{{Scenario: scenario, Success: false}}
	}
	if err := cmd.Start(); err != nil {
		return []*BenchmarkResult{{Scenario: scenario, Success: false}}
	}

	done := make(chan error, 1)
	var lines []string
	go func() {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		done <- cmd.Wait()
	}()

	select {
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		return []*BenchmarkResult{{Scenario: scenario, Success: false}}
	case err := <-done:
		elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0
		if err != nil {
			return []*BenchmarkResult{{Scenario: scenario, Success: false, RuntimeMs: elapsedMs}}
		}
		for _, line := range lines {
			m := summaryLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			r := &BenchmarkResult{
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
				CommitHash: commit,
				GoVersion:  runtime.Version(),
				OS:         runtime.GOOS,
				Arch:       runtime.GOARCH,
				Scenario:   scenario,
				Policy:     strings.TrimPrefix(m[1], "_"),
				RuntimeMs:  elapsedMs,
				Success:    true,
			}
			r.LastFinish, _ = strconv.Atoi(m[2])
			r.WaitingTime, _ = strconv.Atoi(m[3])
			r.Turns, _ = strconv.Atoi(m[4])
			r.Assigned, _ = strconv.Atoi(m[5])
			r.Delivered, _ = strconv.Atoi(m[6])
			r.Violations, _ = strconv.Atoi(m[7])
			ctxResults = append(ctxResults, r)
		}
	}
	return ctxResults
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"scenario", "policy", "runtime_ms", "success",
		"last_finish", "waiting_time", "turns", "assigned", "delivered", "violations",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Scenario, r.Policy,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%t", r.Success),
			fmt.Sprintf("%d", r.LastFinish), fmt.Sprintf("%d", r.WaitingTime),
			fmt.Sprintf("%d", r.Turns), fmt.Sprintf("%d", r.Assigned),
			fmt.Sprintf("%d", r.Delivered), fmt.Sprintf("%d", r.Violations),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

type policyMetrics struct {
	name           string
	runs           int
	successes      int
	totalRuntimeMs float64
	totalWaiting   int
	totalViolated  int
}

func printSummary(results []*BenchmarkResult) {
	metrics := make(map[string]*policyMetrics)
	for _, r := range results {
		m, ok := metrics[r.Policy]
		if !ok {
			m = &policyMetrics{name: r.Policy}
			metrics[r.Policy] = m
		}
		m.runs++
		if r.Success {
			m.successes++
			m.totalRuntimeMs += r.RuntimeMs
			m.totalWaiting += r.WaitingTime
			m.totalViolated += r.Violations
		}
	}

	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-10s %6s %8s %12s %12s %10s\n",
		"Policy", "Runs", "Success", "AvgTime(ms)", "AvgWaiting", "Violations")
	fmt.Println(strings.Repeat("-", 62))

	var names []string
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := metrics[name]
		avgTime, avgWaiting := 0.0, 0.0
		if m.successes > 0 {
			avgTime = m.totalRuntimeMs / float64(m.successes)
			avgWaiting = float64(m.totalWaiting) / float64(m.successes)
		}
		fmt.Printf("%-10s %6d %8d %12.2f %12.2f %10d\n",
			m.name, m.runs, m.successes, avgTime, avgWaiting, m.totalViolated)
	}
}

func main() {
	inputDir := flag.String("input", "testdata", "directory containing .map/.task scenario pairs")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "output CSV file")
	mapfsimPath := flag.String("mapfsim", "mapfsim", "path to the built mapfsim binary")
	timeout := flag.Duration("timeout", 5*time.Minute, "timeout per scenario run")

	flag.Parse()

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "run_benchmarks: creating output directory: %v\n", err)
		os.Exit(1)
	}

	mapFiles, err := filepath.Glob(filepath.Join(*inputDir, "*.map"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "run_benchmarks: finding scenarios: %v\n", err)
		os.Exit(1)
	}
	if len(mapFiles) == 0 {
		fmt.Fprintf(os.Stderr, "no .map files found in %s; run gen_instances first\n", *inputDir)
		os.Exit(1)
	}
	sort.Strings(mapFiles)

	var results []*BenchmarkResult
	for i, mapFile := range mapFiles {
		scenario := strings.TrimSuffix(filepath.Base(mapFile), ".map")
		taskFile := filepath.Join(*inputDir, scenario+".task")
		if _, err := os.Stat(taskFile); err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: no matching task file\n", scenario)
			continue
		}

		fmt.Printf("[%d/%d] %s ... ", i+1, len(mapFiles), scenario)
		runResults := runScenario(*mapfsimPath, mapFile, taskFile, scenario, *timeout)
		results = append(results, runResults...)

		ok := len(runResults) > 0 && runResults[0].Success
		if ok {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
		}
	}

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "run_benchmarks: writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
