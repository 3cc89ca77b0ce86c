package operations

import (
	"errors"
	"math"
	"testing"

	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/outlet"
	"github.com/hydroseq/penstock/core/reservoir"
)

func TestPassiveNoSpillBelowCapacity(t *testing.T) {
	r, err := reservoir.New("r", 0.5, 1.0, Passive{})
	if err != nil {
		t.Fatalf("reservoir: %v", err)
	}
	out, err := r.Operate(model.StepInput{Inflow: 0.2})
	if err != nil {
		t.Fatalf("operate: %v", err)
	}
	if out.Releases[0] != 0 {
		t.Fatalf("no spill expected, got %g", out.Releases[0])
	}
	if math.Abs(out.Storage-0.7) > 1e-12 {
		t.Fatalf("expected storage 0.7, got %g", out.Storage)
	}
}

func TestPassiveSpillsAboveCapacity(t *testing.T) {
	r, _ := reservoir.New("r", 0.9, 1.0, Passive{})
	out, err := r.Operate(model.StepInput{Inflow: 0.3})
	if err != nil {
		t.Fatalf("operate: %v", err)
	}
	if math.Abs(out.Releases[0]-0.2) > 1e-12 {
		t.Fatalf("expected spill 0.2, got %g", out.Releases[0])
	}
	if math.Abs(out.Storage-1.0) > 1e-12 {
		t.Fatalf("expected storage at capacity, got %g", out.Storage)
	}
}

func TestPassiveOutletsReleases(t *testing.T) {
	base, _ := reservoir.New("r", 0.8, 1.0, PassiveOutlets{})
	r, err := base.WithOutlets([]outlet.Outlet{
		outlet.NewFixed("low", 0.1, outlet.ReleaseRange{Max: 0.2}),
		outlet.NewFixed("high", 0.6, outlet.ReleaseRange{Max: 0.5}),
	}, nil)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	out, err := r.Operate(model.StepInput{Inflow: 0.1})
	if err != nil {
		t.Fatalf("operate: %v", err)
	}
	labels := r.OutputLabels()
	if len(labels) != 3 || labels[0] != "low" || labels[1] != "high" || labels[2] != "spill" {
		t.Fatalf("unexpected labels %v", labels)
	}
	// volume 0.9: low releases its full 0.2, leaving 0.7; high releases
	// min(0.5, 0.7-0.6) = 0.1; nothing above capacity remains.
	if math.Abs(out.Releases[0]-0.2) > 1e-12 {
		t.Fatalf("expected low release 0.2, got %g", out.Releases[0])
	}
	if math.Abs(out.Releases[1]-0.1) > 1e-12 {
		t.Fatalf("expected high release 0.1, got %g", out.Releases[1])
	}
	if out.Releases[2] != 0 {
		t.Fatalf("expected no spill, got %g", out.Releases[2])
	}
	if math.Abs(out.Storage-0.6) > 1e-12 {
		t.Fatalf("expected storage 0.6, got %g", out.Storage)
	}
}

func TestPassiveOutletsRequiresOutlets(t *testing.T) {
	r, _ := reservoir.New("r", 0.5, 1.0, PassiveOutlets{})
	var perr *reservoir.PolicyError
	if _, err := r.Operate(model.StepInput{}); !errors.As(err, &perr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}
}

// Mass conservation over a multi-step sequence.
func TestPassiveOutletsConservation(t *testing.T) {
	base, _ := reservoir.New("r", 0.5, 1.0, PassiveOutlets{})
	r, err := base.WithOutlets([]outlet.Outlet{
		outlet.NewFixed("gate", 0.2, outlet.ReleaseRange{Max: 0.15}),
	}, nil)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	inputs := []model.StepInput{
		{Inflow: 0.2, Evaporation: 0.01},
		{Inflow: 0.0, Evaporation: 0.02},
		{Inflow: 0.4, Evaporation: 0.0},
	}
	prev := r.Storage()
	for i, in := range inputs {
		out, err := r.Operate(in)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		want := prev + in.Inflow - out.TotalRelease() - in.Evaporation
		if math.Abs(out.Storage-want) > reservoir.Tolerance {
			t.Fatalf("step %d: storage %g breaks identity, want %g", i, out.Storage, want)
		}
		prev = out.Storage
	}
}
