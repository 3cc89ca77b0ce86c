package simulation

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hydroseq/penstock/core/logger"
	"github.com/hydroseq/penstock/core/metrics"
	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/reservoir"
)

// Summary aggregates the storage and release trajectory of a run.
type Summary struct {
	Steps            int     `json:"steps"`
	MeanStorage      float64 `json:"mean_storage"`
	MinStorage       float64 `json:"min_storage"`
	MaxStorage       float64 `json:"max_storage"`
	FinalStorage     float64 `json:"final_storage"`
	TotalInflow      float64 `json:"total_inflow"`
	TotalRelease     float64 `json:"total_release"`
	TotalEvaporation float64 `json:"total_evaporation"`
}

// Result carries the per-step outputs of a run. Labels name the slots of each
// releases vector and stay constant for the whole run.
type Result struct {
	RunID   string             `json:"run_id"`
	Labels  []string           `json:"labels"`
	Steps   []model.StepOutput `json:"steps"`
	Summary Summary            `json:"summary"`
}

// Runner drives a reservoir through an input series one step at a time. The
// runner owns its reservoir exclusively; parallel simulations each need their
// own Runner and Reservoir.
type Runner struct {
	res  reservoir.Reservoir
	sink metrics.Sink
	log  logger.Logger
}

// NewRunner builds a runner. A nil sink or logger defaults to no-ops.
func NewRunner(res reservoir.Reservoir, sink metrics.Sink, log logger.Logger) *Runner {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Runner{res: res, sink: sink, log: log}
}

// Run feeds the series to the reservoir step by step. Cancellation is checked
// between steps only, so an aborted run returns the completed prefix and the
// reservoir storage equals the value of the last fully completed step. The
// conservation identity is verified for every step; a violation surfaces as a
// MassBalanceError and is never corrected.
func (r *Runner) Run(ctx context.Context, series []model.StepInput) (*Result, error) {
	res := &Result{
		RunID:  uuid.NewString(),
		Labels: r.res.OutputLabels(),
		Steps:  make([]model.StepOutput, 0, len(series)),
	}
	r.log.Infof("run %s: %d steps for reservoir %q", res.RunID, len(series), r.res.Name())

	storages := make([]float64, 0, len(series))
	for _, in := range series {
		if err := ctx.Err(); err != nil {
			r.log.Warnf("run %s aborted after %d steps: %v", res.RunID, len(res.Steps), err)
			r.summarize(res, storages, series)
			return res, err
		}
		prev := r.res.Storage()
		out, err := r.res.Operate(in)
		if err != nil {
			r.summarize(res, storages, series)
			return res, err
		}
		expected := prev + in.Inflow - out.TotalRelease() - in.Evaporation
		if expected < 0 {
			expected = 0
		}
		if math.Abs(expected-out.Storage) > reservoir.Tolerance {
			r.summarize(res, storages, series)
			return res, &reservoir.MassBalanceError{
				Reservoir: r.res.Name(), Storage: prev,
				Inflow: in.Inflow, Evaporation: in.Evaporation, Releases: out.Releases,
			}
		}
		if err := r.sink.RecordStep(res.RunID, res.Labels, out); err != nil {
			r.log.Warnf("run %s: record step: %v", res.RunID, err)
		}
		r.log.Debugw("step", map[string]any{
			"run":      res.RunID,
			"time":     in.Timestamp,
			"inflow":   in.Inflow,
			"demand":   in.Demand,
			"storage":  out.Storage,
			"released": out.TotalRelease(),
		})
		res.Steps = append(res.Steps, out)
		storages = append(storages, out.Storage)
	}
	r.summarize(res, storages, series)
	return res, nil
}

func (r *Runner) summarize(res *Result, storages []float64, series []model.StepInput) {
	if len(storages) == 0 {
		return
	}
	s := Summary{
		Steps:        len(storages),
		MeanStorage:  stat.Mean(storages, nil),
		MinStorage:   floats.Min(storages),
		MaxStorage:   floats.Max(storages),
		FinalStorage: storages[len(storages)-1],
	}
	for i := range storages {
		s.TotalInflow += series[i].Inflow
		s.TotalEvaporation += series[i].Evaporation
		s.TotalRelease += res.Steps[i].TotalRelease()
	}
	res.Summary = s
}
