package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hydroseq/penstock/core/model"
)

// StepConfig is one raw record of the driving series as it appears in a
// configuration or scenario file. Timestamps are RFC3339; when omitted the
// loader assigns sequential intervals from the scenario start.
type StepConfig struct {
	Timestamp   string  `json:"timestamp"`
	Inflow      float64 `json:"inflow"`
	Demand      float64 `json:"demand"`
	Evaporation float64 `json:"evaporation"`
}

// ScenarioConfig selects the driving series: either an inline list of steps or
// a separate yaml/json file with a top-level "steps" key.
type ScenarioConfig struct {
	Path string `json:"path"`
	// Start anchors synthesized timestamps when the records carry none.
	Start string `json:"start"`
	// IntervalHours spaces synthesized timestamps. Defaults to 24.
	IntervalHours float64      `json:"interval_hours"`
	Steps         []StepConfig `json:"steps"`
}

// SetDefaults fills the timestamp synthesis defaults.
func (s *ScenarioConfig) SetDefaults() {
	if s.Start == "" {
		s.Start = "2000-01-01T00:00:00Z"
	}
	if s.IntervalHours <= 0 {
		s.IntervalHours = 24
	}
}

// Validate ensures exactly one series source is configured.
func (s *ScenarioConfig) Validate() error {
	if s.Path == "" && len(s.Steps) == 0 {
		return fmt.Errorf("scenario needs either a path or inline steps")
	}
	if s.Path != "" && len(s.Steps) > 0 {
		return fmt.Errorf("scenario path and inline steps are mutually exclusive")
	}
	return nil
}

// LoadSeries produces the validated input series the core consumes. This is
// the upstream cleansing boundary: it rejects negative values and
// non-increasing timestamps so the simulation never sees them.
func (s *ScenarioConfig) LoadSeries() ([]model.StepInput, error) {
	steps := s.Steps
	if s.Path != "" {
		loaded, err := loadScenarioFile(s.Path)
		if err != nil {
			return nil, err
		}
		steps = loaded
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}

	start, err := time.Parse(time.RFC3339, s.Start)
	if err != nil {
		return nil, fmt.Errorf("scenario start: %w", err)
	}
	interval := time.Duration(s.IntervalHours * float64(time.Hour))

	series := make([]model.StepInput, len(steps))
	var prev time.Time
	for i, raw := range steps {
		if raw.Inflow < 0 || raw.Demand < 0 || raw.Evaporation < 0 {
			return nil, fmt.Errorf("step %d: negative values are not allowed", i)
		}
		ts := start.Add(time.Duration(i) * interval)
		if raw.Timestamp != "" {
			ts, err = time.Parse(time.RFC3339, raw.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
		}
		if i > 0 && !ts.After(prev) {
			return nil, fmt.Errorf("step %d: timestamp %s not after previous %s", i, ts, prev)
		}
		prev = ts
		series[i] = model.StepInput{
			Timestamp:   ts,
			Inflow:      raw.Inflow,
			Demand:      raw.Demand,
			Evaporation: raw.Evaporation,
		}
	}
	return series, nil
}

func loadScenarioFile(path string) ([]StepConfig, error) {
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	var out struct {
		Steps []StepConfig `json:"steps"`
	}
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	return out.Steps, nil
}
