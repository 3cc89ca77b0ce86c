package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/hydroseq/penstock/core/metrics"
	"github.com/hydroseq/penstock/core/model"
)

// PromSink exposes simulation state as Prometheus metrics.
type PromSink struct {
	storage  *prometheus.GaugeVec
	releases *prometheus.CounterVec
	steps    *prometheus.CounterVec
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The metrics endpoint is served separately on cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	storage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reservoir_storage_volume",
		Help: "Reservoir storage after the most recent simulated step",
	}, []string{"run"})
	releases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservoir_release_volume_total",
		Help: "Cumulative released volume by output slot",
	}, []string{"run", "slot"})
	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_steps_total",
		Help: "Number of simulated steps",
	}, []string{"run"})

	if err := reg.Register(storage); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			storage = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(releases); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			releases = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(steps); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			steps = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{storage: storage, releases: releases, steps: steps}, nil
}

// RecordStep updates the storage gauge and release counters for the run.
func (s *PromSink) RecordStep(runID string, labels []string, out model.StepOutput) error {
	s.storage.WithLabelValues(runID).Set(out.Storage)
	for i, rel := range out.Releases {
		s.releases.WithLabelValues(runID, labels[i]).Add(rel)
	}
	s.steps.WithLabelValues(runID).Inc()
	return nil
}

func (s *PromSink) Close() error { return nil }
