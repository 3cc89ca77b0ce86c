package reservoir

import (
	"errors"
	"math"
	"testing"

	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/outlet"
	"github.com/hydroseq/penstock/core/pool"
)

// fixedPolicy returns a constant releases vector; used to drive the
// mass-balance wrapper directly.
type fixedPolicy struct {
	releases []float64
	labels   []string
}

func (p fixedPolicy) Operate(Reservoir, model.StepInput) ([]float64, error) {
	return append([]float64(nil), p.releases...), nil
}
func (p fixedPolicy) OutputLabels(Reservoir) []string { return p.labels }

func TestNewValidation(t *testing.T) {
	ops := fixedPolicy{labels: []string{"out"}, releases: []float64{0}}
	if _, err := New("r", 0, 0, ops); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
	if _, err := New("r", 2, 1, ops); err == nil {
		t.Fatalf("expected error for storage above capacity")
	}
	if _, err := New("r", 0.5, 1, nil); err == nil {
		t.Fatalf("expected error for nil policy")
	}
	var cerr *pool.ConfigurationError
	_, err := New("r", -1, 1, ops)
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestOperateMassBalance(t *testing.T) {
	r, err := New("r", 0.4, 1, fixedPolicy{releases: []float64{0.1}, labels: []string{"out"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := r.Operate(model.StepInput{Inflow: 0.2, Evaporation: 0.05})
	if err != nil {
		t.Fatalf("operate: %v", err)
	}
	want := 0.4 + 0.2 - 0.1 - 0.05
	if math.Abs(out.Storage-want) > Tolerance {
		t.Fatalf("expected storage %g, got %g", want, out.Storage)
	}
	if r.Storage() != out.Storage {
		t.Fatalf("reservoir storage %g not committed to %g", r.Storage(), out.Storage)
	}
}

func TestOperateOverRelease(t *testing.T) {
	r, _ := New("r", 0.1, 1, fixedPolicy{releases: []float64{0.5}, labels: []string{"out"}})
	_, err := r.Operate(model.StepInput{Inflow: 0.1})
	var merr *MassBalanceError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MassBalanceError, got %v", err)
	}
	// Storage keeps the pre-step value.
	if r.Storage() != 0.1 {
		t.Fatalf("storage modified on failed step: %g", r.Storage())
	}
}

func TestOperateNegativeRelease(t *testing.T) {
	r, _ := New("r", 0.5, 1, fixedPolicy{releases: []float64{-0.1}, labels: []string{"out"}})
	var merr *MassBalanceError
	if _, err := r.Operate(model.StepInput{}); !errors.As(err, &merr) {
		t.Fatalf("expected MassBalanceError for negative release, got %v", err)
	}
}

func TestOperateArityMismatch(t *testing.T) {
	r, _ := New("r", 0.5, 1, fixedPolicy{releases: []float64{0, 0}, labels: []string{"out"}})
	var perr *PolicyError
	if _, err := r.Operate(model.StepInput{}); !errors.As(err, &perr) {
		t.Fatalf("expected PolicyError for arity mismatch, got %v", err)
	}
}

func TestWithOutletsNonMutating(t *testing.T) {
	base, _ := New("r", 0.5, 1, fixedPolicy{releases: []float64{0}, labels: []string{"out"}})
	outs := []outlet.Outlet{
		outlet.NewFixed("high", 0.8, outlet.ReleaseRange{Max: 0.1}),
		outlet.NewFixed("low", 0.1, outlet.ReleaseRange{Max: 0.2}),
	}
	withOuts, err := base.WithOutlets(outs, nil)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, ok := any(base).(HasOutlets); ok {
		t.Fatalf("base reservoir must not expose the outlets capability")
	}
	got := withOuts.Outlets()
	if len(got) != 2 {
		t.Fatalf("expected 2 outlets, got %d", len(got))
	}
	// Default order is ascending by location.
	if got[0].Name() != "low" || got[1].Name() != "high" {
		t.Fatalf("unexpected order: %s, %s", got[0].Name(), got[1].Name())
	}
	// Stepping the new value leaves the original untouched.
	if _, err := withOuts.Operate(model.StepInput{Inflow: 0.1}); err != nil {
		t.Fatalf("operate: %v", err)
	}
	if base.Storage() != 0.5 {
		t.Fatalf("original reservoir mutated: %g", base.Storage())
	}
}

func TestWithPoolsCapacityValidation(t *testing.T) {
	part, err := pool.NewPartition([]string{"a", "b", "c"}, []float64{0.5, 1.1, 2})
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	ops := fixedPolicy{releases: []float64{0, 0, 0}, labels: []string{"a", "b", "c"}}
	if _, err := NewWithPools("r", 0.5, 1, ops, part); err == nil {
		t.Fatalf("expected error: boundary 1.1 above capacity 1")
	}
	// The last boundary may exceed capacity.
	part2, _ := pool.NewPartition([]string{"a", "b"}, []float64{0.5, 1.2})
	ops2 := fixedPolicy{releases: []float64{0, 0}, labels: []string{"a", "b"}}
	r, err := NewWithPools("r", 0.5, 1, ops2, part2)
	if err != nil {
		t.Fatalf("top boundary above capacity should be allowed: %v", err)
	}
	var hp HasPools = r
	if z := hp.ActivePool(0.7); z.Name != "b" {
		t.Fatalf("expected pool b, got %q", z.Name)
	}
}
