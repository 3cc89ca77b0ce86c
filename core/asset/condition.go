package asset

import "github.com/hydroseq/penstock/core/outlet"

// FailureState describes the operability of an outlet structure.
type FailureState int

const (
	Normal FailureState = iota
	FailedOpen
	FailedClosed
)

func (s FailureState) String() string {
	switch s {
	case FailedOpen:
		return "failed-open"
	case FailedClosed:
		return "failed-closed"
	default:
		return "normal"
	}
}

// ConditionedOutlet wraps an outlet with a structural failure state. A failed
// gate pins the feasible range: closed releases nothing, open releases its
// maximum regardless of what operations ask for.
type ConditionedOutlet struct {
	outlet.Outlet
	State FailureState
}

func (c ConditionedOutlet) FeasibleRange(fillState float64) outlet.ReleaseRange {
	rng := c.Outlet.FeasibleRange(fillState)
	switch c.State {
	case FailedClosed:
		return outlet.ReleaseRange{}
	case FailedOpen:
		return outlet.ReleaseRange{Min: rng.Max, Max: rng.Max}
	default:
		return rng
	}
}
