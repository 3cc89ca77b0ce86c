package metrics

import (
	coremetrics "github.com/hydroseq/penstock/core/metrics"
	"github.com/hydroseq/penstock/core/model"
)

// MultiSink fans a step record out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStep forwards the record to all sinks, returning the first error.
func (m *MultiSink) RecordStep(runID string, labels []string, out model.StepOutput) error {
	for _, s := range m.Sinks {
		if err := s.RecordStep(runID, labels, out); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
