package operations

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/reservoir"
)

// ErrInfeasible indicates no allocation of outlet releases can meet the
// demanded total within the feasible ranges.
var ErrInfeasible = errors.New("release allocation infeasible")

// LPAllocator splits the demanded release across attached outlets by linear
// programming: maximize a location-weighted preference for low outlets subject
// to each outlet's feasible range and an exact total equal to the demand
// (clamped to the available volume).
type LPAllocator struct{}

func (LPAllocator) Operate(r reservoir.Reservoir, in model.StepInput) ([]float64, error) {
	ho, ok := r.(reservoir.HasOutlets)
	if !ok {
		return nil, &reservoir.PolicyError{Policy: "lp", Reason: "reservoir has no outlets"}
	}
	outs := ho.Outlets()
	if len(outs) == 0 {
		return nil, &reservoir.PolicyError{Policy: "lp", Reason: "no outlets attached"}
	}

	volume := r.Storage() + in.Inflow - in.Evaporation
	target := math.Min(in.Demand, math.Max(volume, 0))
	if target == 0 {
		return make([]float64, len(outs)), nil
	}

	caps := make([]float64, len(outs))
	weights := make([]float64, len(outs))
	var maxLoc, available float64
	for _, o := range outs {
		maxLoc = math.Max(maxLoc, o.Location())
	}
	for i, o := range outs {
		rng := o.FeasibleRange(volume)
		caps[i] = rng.Max
		available += rng.Max
		weights[i] = maxLoc - o.Location() + 1
	}
	if available+reservoir.Tolerance < target {
		return nil, ErrInfeasible
	}

	sol, err := lpSolve(weights, caps, target)
	if err != nil {
		return nil, errors.Join(ErrInfeasible, err)
	}
	releases := make([]float64, len(outs))
	var sum float64
	for i := range outs {
		rel := sol[i]
		if rel < 0 {
			rel = 0
		}
		if rel > caps[i] {
			rel = caps[i]
		}
		releases[i] = rel
		sum += rel
	}
	if math.Abs(sum-target) > 1e-6 {
		return nil, ErrInfeasible
	}
	return releases, nil
}

func (LPAllocator) OutputLabels(r reservoir.Reservoir) []string {
	ho, ok := r.(reservoir.HasOutlets)
	if !ok {
		return nil
	}
	outs := ho.Outlets()
	labels := make([]string, len(outs))
	for i, o := range outs {
		labels[i] = o.Name()
	}
	return labels
}

// solveLP runs the simplex algorithm to maximise the weighted release subject
// to per-outlet capacity constraints, non-negativity and an exact total.
func solveLP(weights, caps []float64, target float64) ([]float64, error) {
	n := len(weights)
	c := make([]float64, n)
	for i, w := range weights {
		c[i] = -w
	}

	// Rows 0..n-1 cap each release; rows n..2n-1 keep it non-negative.
	// Convert splits every variable into a positive and a negative part, so
	// the sign constraint must be stated explicitly or the optimum can borrow
	// negative releases from low-weight outlets.
	g := mat.NewDense(2*n, n, nil)
	h := make([]float64, 2*n)
	for i, cp := range caps {
		g.Set(i, i, 1)
		h[i] = cp
		g.Set(n+i, i, -1)
	}

	a := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		a.Set(0, i, 1)
	}
	b := []float64{target}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	if err != nil {
		return nil, err
	}
	// Standard-form variables are ordered [x+, x-, slacks].
	x := make([]float64, n)
	for i := range x {
		x[i] = sol[i] - sol[n+i]
	}
	return x, nil
}

// lpSolve points to the function used to solve the LP. Tests override it to
// simulate solver failures.
var lpSolve = solveLP
