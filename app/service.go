package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hydroseq/penstock/app/plugins"
	"github.com/hydroseq/penstock/config"
	coremetrics "github.com/hydroseq/penstock/core/metrics"
	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/outlet"
	"github.com/hydroseq/penstock/core/simulation"
	"github.com/hydroseq/penstock/infra/logger"
	"github.com/hydroseq/penstock/infra/metrics"
)

// Service wires configuration, plugins and sinks into a runnable simulation.
type Service struct {
	runner      *simulation.Runner
	series      []model.StepInput
	sink        coremetrics.Sink
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	ops, err := plugins.NewOperations(cfg.Operations)
	if err != nil {
		return nil, fmt.Errorf("operations plugin: %w", err)
	}
	var outs []outlet.Outlet
	for i, oc := range cfg.Outlets {
		o, err := plugins.NewOutlet(oc)
		if err != nil {
			return nil, fmt.Errorf("outlet plugin %d: %w", i, err)
		}
		outs = append(outs, o)
	}
	res, err := plugins.NewReservoir(cfg.Reservoir, ops, outs)
	if err != nil {
		return nil, fmt.Errorf("reservoir plugin: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	series, err := cfg.Scenario.LoadSeries()
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	return &Service{
		runner:      simulation.NewRunner(res, sink, logger.New("runner")),
		series:      series,
		sink:        sink,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run executes the scenario and returns its result. When Prometheus is
// enabled the metrics endpoint is served for the duration of the run.
func (s *Service) Run(ctx context.Context) (*simulation.Result, error) {
	if s.promEnabled && s.promPort != "" {
		srv := &http.Server{Addr: ":" + s.promPort, Handler: promhttp.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.log.Errorf("metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	result, err := s.runner.Run(ctx, s.series)
	if err != nil {
		return result, err
	}
	s.log.Infof("run %s complete: %d steps, final storage %g, total release %g",
		result.RunID, result.Summary.Steps, result.Summary.FinalStorage, result.Summary.TotalRelease)
	return result, nil
}

// Close releases the metric sinks.
func (s *Service) Close() error { return s.sink.Close() }
