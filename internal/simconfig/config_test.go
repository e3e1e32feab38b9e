package simconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Trace || cfg.Throughput || cfg.OutputDir != "" || cfg.HorizonOverride != 0 {
		t.Errorf("expected zero-value defaults, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "run.yaml")
	content := "horizon_override: 500\ntrace: true\nthroughput: true\noutput_dir: /tmp/out\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HorizonOverride != 500 || !cfg.Trace || !cfg.Throughput || cfg.OutputDir != "/tmp/out" {
		t.Errorf("parsed config wrong: %+v", cfg)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
