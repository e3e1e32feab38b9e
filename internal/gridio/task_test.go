package gridio

import (
	"path/filepath"
	"testing"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

func testEndpoints() []*core.Endpoint {
	return []*core.Endpoint{
		{ID: 0, Loc: 1, Kind: core.Workpoint},
		{ID: 1, Loc: 2, Kind: core.Home},
	}
}

func TestLoadTasksParsesFields(t *testing.T) {
	dir := t.TempDir()
	content := "2\n0 0 1 5 9\n3 1 0 8 12\n"
	p := writeFile(t, dir, "tasks.txt", content)

	tasks, err := LoadTasks(p, testEndpoints())
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ReleaseTime != 0 || tasks[0].Start.ID != 0 || tasks[0].Goal.ID != 1 {
		t.Errorf("task 0 parsed wrong: %+v", tasks[0])
	}
	if tasks[0].InputArriveStart != 5 || tasks[0].InputArriveGoal != 9 {
		t.Errorf("task 0 passthrough fields wrong: %+v", tasks[0])
	}
	if tasks[1].ReleaseTime != 3 || tasks[1].Start.ID != 1 || tasks[1].Goal.ID != 0 {
		t.Errorf("task 1 parsed wrong: %+v", tasks[1])
	}
}

func TestLoadTasksRejectsOutOfRangeEndpoint(t *testing.T) {
	dir := t.TempDir()
	content := "1\n0 0 5 0 0\n"
	p := writeFile(t, dir, "tasks.txt", content)

	if _, err := LoadTasks(p, testEndpoints()); err == nil {
		t.Fatalf("expected error for goal endpoint index out of range")
	}
}

func TestLoadTasksRejectsShortLine(t *testing.T) {
	dir := t.TempDir()
	content := "1\n0 0 1\n"
	p := writeFile(t, dir, "tasks.txt", content)

	if _, err := LoadTasks(p, testEndpoints()); err == nil {
		t.Fatalf("expected error for a task line missing fields")
	}
}

func TestLoadTasksMissingFile(t *testing.T) {
	if _, err := LoadTasks(filepath.Join(t.TempDir(), "missing.txt"), testEndpoints()); err == nil {
		t.Fatalf("expected error for missing task file")
	}
}
