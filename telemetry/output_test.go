package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oddscape/oddscape/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// A nil manager is safe to use.
	if err := om.WritePerf(FrameStats{}, 0); err != nil {
		t.Errorf("nil WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWritesPerfCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	pc := NewPerfCollector(4)
	for i := 0; i < 4; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseDraw)
		pc.EndFrame()
	}

	if err := om.WritePerf(pc.Stats(), 120); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WritePerf(pc.Stats(), 240); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	// One header plus one row per window.
	if len(lines) != 3 {
		t.Fatalf("perf.csv has %d lines, want 3:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "window_end_frame") {
		t.Errorf("missing header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "120,") || !strings.HasPrefix(lines[2], "240,") {
		t.Errorf("unexpected window rows: %q %q", lines[1], lines[2])
	}
}

func TestOutputManagerWritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
