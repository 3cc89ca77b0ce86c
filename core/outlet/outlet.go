package outlet

import (
	"fmt"
	"sort"

	"github.com/hydroseq/penstock/core/pool"
)

// ReleaseRange bounds the feasible release of an outlet for one step.
type ReleaseRange struct {
	Min float64
	Max float64
}

// NewReleaseRange validates the pair: both bounds non-negative, Min <= Max.
func NewReleaseRange(min, max float64) (ReleaseRange, error) {
	if min < 0 || max < 0 {
		return ReleaseRange{}, &pool.ConfigurationError{Reason: fmt.Sprintf(
			"release range bounds must be non-negative, got (%g, %g)", min, max)}
	}
	if min > max {
		return ReleaseRange{}, &pool.ConfigurationError{Reason: fmt.Sprintf(
			"release range min %g exceeds max %g", min, max)}
	}
	return ReleaseRange{Min: min, Max: max}, nil
}

// Outlet is a named, located discharge point. FeasibleRange must be a pure
// function of the supplied fill state and never return a negative bound.
type Outlet interface {
	Name() string
	Location() float64
	FeasibleRange(fillState float64) ReleaseRange
}

// Sorter orders a set of outlets for attachment to a reservoir.
type Sorter func([]Outlet) []Outlet

// SortByLocation returns a copy ordered ascending by physical location. The
// sort is stable: outlets at the same location keep their original order.
func SortByLocation(outlets []Outlet) []Outlet {
	out := append([]Outlet(nil), outlets...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location() < out[j].Location()
	})
	return out
}
