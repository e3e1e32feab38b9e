package gridio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	return p
}

func TestLoadMapParsesDimensionsAndEndpoints(t *testing.T) {
	dir := t.TempDir()
	content := "3,2\n1\n1\n50\n" +
		"e..\n" +
		"..r\n"
	p := writeFile(t, dir, "map.txt", content)

	m, err := LoadMap(p)
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if m.Horizon != 50 {
		t.Errorf("Horizon = %d, want 50", m.Horizon)
	}
	if m.Grid.Cols != 5 || m.Grid.Rows != 4 {
		t.Errorf("bordered grid = %dx%d, want 5x4", m.Grid.Cols, m.Grid.Rows)
	}
	if len(m.Endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(m.Endpoints))
	}
	if m.Endpoints[0].Kind != core.Workpoint {
		t.Errorf("endpoint 0 should be the workpoint")
	}
	if m.Endpoints[1].Kind != core.Home {
		t.Errorf("endpoint 1 should be the agent home")
	}
	if len(m.Agents) != 1 {
		t.Fatalf("expected 1 agent, got %d", len(m.Agents))
	}
	if m.Agents[0].Loc != m.Endpoints[1].Loc {
		t.Errorf("agent should start at its home endpoint's cell")
	}
	open := m.Grid.At(1, 0)
	if !m.Grid.IsPassable(open) {
		t.Errorf("cell (1,0) should be open")
	}
}

func TestLoadMapRejectsMismatchedWorkpointCount(t *testing.T) {
	dir := t.TempDir()
	content := "2,1\n2\n0\n10\n" + "e.\n"
	p := writeFile(t, dir, "map.txt", content)

	_, err := LoadMap(p)
	if err == nil {
		t.Fatalf("expected error when W declares more workpoints than the grid has")
	}
	var pe *ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestLoadMapRejectsBadCharacter(t *testing.T) {
	dir := t.TempDir()
	content := "2,1\n0\n0\n10\n" + "x.\n"
	p := writeFile(t, dir, "map.txt", content)

	if _, err := LoadMap(p); err == nil {
		t.Fatalf("expected error for unrecognized map character")
	}
}

func TestLoadMapMissingFile(t *testing.T) {
	if _, err := LoadMap(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing map file")
	}
}

func asParseError(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if ok {
		*target = pe
	}
	return ok
}
