package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hydroseq/penstock/core/factory"
	"github.com/hydroseq/penstock/core/metrics"
)

// Config is the top-level simulation configuration. The reservoir, its
// operations policy and its outlets are pluggable components identified by
// type name; the raw conf maps are decoded by the plugins themselves.
type Config struct {
	Reservoir  factory.ModuleConfig   `json:"reservoir"`
	Operations factory.ModuleConfig   `json:"operations"`
	Outlets    []factory.ModuleConfig `json:"outlets"`
	Scenario   ScenarioConfig         `json:"scenario"`
	Metrics    metrics.Config         `json:"metrics"`
}

// Load reads a yaml or json configuration file, applies PENSTOCK_ environment
// overrides (double underscore separating nested keys) and validates the
// result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("PENSTOCK_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "penstock_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Scenario.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every pluggable slot names a type and the scenario has
// exactly one source.
func (c *Config) Validate() error {
	if c.Reservoir.Type == "" {
		return fmt.Errorf("reservoir.type is required")
	}
	if c.Operations.Type == "" {
		return fmt.Errorf("operations.type is required")
	}
	for i, o := range c.Outlets {
		if o.Type == "" {
			return fmt.Errorf("outlets[%d].type is required", i)
		}
	}
	return c.Scenario.Validate()
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}
