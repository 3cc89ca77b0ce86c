package metrics

import "github.com/hydroseq/penstock/core/model"

// Sink records simulation step results for observability purposes.
type Sink interface {
	// RecordStep records one step of a run. Labels name the slots of the
	// releases vector and are constant for the life of a run.
	RecordStep(runID string, labels []string, out model.StepOutput) error
	Close() error
}

// Config selects and configures the enabled exporters.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordStep(string, []string, model.StepOutput) error { return nil }
func (NopSink) Close() error                                        { return nil }
