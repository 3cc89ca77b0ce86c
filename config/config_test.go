package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hydroseq/penstock/core/factory"
)

const sampleYAML = `
reservoir:
  type: pools
  conf:
    name: folsom
    storage: 0.45
    capacity: 1.0
    pools:
      names: [dead, conservation, flood, surcharge]
      tops: [0.1, 0.5, 0.8, 1.0]
operations:
  type: pools
  conf:
    max_flood_release: 0.1
scenario:
  steps:
    - {inflow: 0.05, demand: 0.2}
    - {inflow: 0.10, demand: 0.0}
metrics:
  prometheus_enabled: false
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeTemp(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reservoir.Type != "pools" {
		t.Fatalf("reservoir type = %q", cfg.Reservoir.Type)
	}
	if cfg.Operations.Type != "pools" {
		t.Fatalf("operations type = %q", cfg.Operations.Type)
	}
	if len(cfg.Scenario.Steps) != 2 {
		t.Fatalf("expected 2 inline steps, got %d", len(cfg.Scenario.Steps))
	}
	if cfg.Scenario.IntervalHours != 24 {
		t.Fatalf("expected default interval of 24h, got %g", cfg.Scenario.IntervalHours)
	}
	if cfg.Scenario.Start == "" {
		t.Fatalf("expected default scenario start")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PENSTOCK_OPERATIONS__TYPE", "passive")
	cfg, err := Load(writeTemp(t, "config.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Operations.Type != "passive" {
		t.Fatalf("env override ignored, operations type = %q", cfg.Operations.Type)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	if _, err := Load(writeTemp(t, "config.toml", "x = 1")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Reservoir:  factory.ModuleConfig{Type: "basic"},
			Operations: factory.ModuleConfig{Type: "passive"},
			Scenario:   ScenarioConfig{Steps: []StepConfig{{Inflow: 1}}},
		}
	}

	cfg := base()
	cfg.Reservoir.Type = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "reservoir.type") {
		t.Fatalf("expected reservoir.type error, got %v", err)
	}

	cfg = base()
	cfg.Operations.Type = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "operations.type") {
		t.Fatalf("expected operations.type error, got %v", err)
	}

	cfg = base()
	cfg.Scenario = ScenarioConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected scenario source error")
	}

	cfg = base()
	cfg.Scenario.Path = "series.yaml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected mutual exclusion error for path and inline steps")
	}
}

func TestLoadSeriesSynthesizesTimestamps(t *testing.T) {
	s := ScenarioConfig{Steps: []StepConfig{
		{Inflow: 0.05, Demand: 0.2},
		{Inflow: 0.10},
		{Inflow: 0.02, Evaporation: 0.01},
	}}
	s.SetDefaults()
	series, err := s.LoadSeries()
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(series))
	}
	start, _ := time.Parse(time.RFC3339, s.Start)
	for i, in := range series {
		want := start.Add(time.Duration(i) * 24 * time.Hour)
		if !in.Timestamp.Equal(want) {
			t.Fatalf("step %d: timestamp %s, want %s", i, in.Timestamp, want)
		}
	}
	if series[0].Demand != 0.2 || series[2].Evaporation != 0.01 {
		t.Fatalf("values not carried through: %+v", series)
	}
}

func TestLoadSeriesRejectsNegative(t *testing.T) {
	s := ScenarioConfig{Steps: []StepConfig{{Inflow: -0.1}}}
	s.SetDefaults()
	if _, err := s.LoadSeries(); err == nil {
		t.Fatal("expected negative inflow rejection")
	}
}

func TestLoadSeriesRejectsNonIncreasingTimestamps(t *testing.T) {
	s := ScenarioConfig{Steps: []StepConfig{
		{Timestamp: "2024-01-02T00:00:00Z", Inflow: 0.1},
		{Timestamp: "2024-01-02T00:00:00Z", Inflow: 0.1},
	}}
	s.SetDefaults()
	if _, err := s.LoadSeries(); err == nil {
		t.Fatal("expected non-increasing timestamp rejection")
	}
}

func TestLoadSeriesFromFile(t *testing.T) {
	path := writeTemp(t, "series.yaml", `
steps:
  - {timestamp: "2024-01-01T00:00:00Z", inflow: 0.3, demand: 0.1}
  - {timestamp: "2024-01-02T00:00:00Z", inflow: 0.2, demand: 0.1, evaporation: 0.05}
`)
	s := ScenarioConfig{Path: path}
	s.SetDefaults()
	series, err := s.LoadSeries()
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(series))
	}
	if series[1].Evaporation != 0.05 {
		t.Fatalf("evaporation not parsed: %+v", series[1])
	}
}
