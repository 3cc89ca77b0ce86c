package outlet

import "math"

// Fixed is a gate at a fixed location with a design release range. No release
// is possible until the fill state rises above the gate; above it the design
// range is clamped to the head over the gate.
type Fixed struct {
	name     string
	location float64
	design   ReleaseRange
}

// NewFixed builds a fixed outlet. An empty name is allowed; attachment assigns
// a unique one.
func NewFixed(name string, location float64, design ReleaseRange) Fixed {
	return Fixed{name: name, location: location, design: design}
}

func (f Fixed) Name() string      { return f.name }
func (f Fixed) Location() float64 { return f.location }

func (f Fixed) FeasibleRange(fillState float64) ReleaseRange {
	head := fillState - f.location
	if head <= 0 {
		return ReleaseRange{}
	}
	return ReleaseRange{
		Min: math.Min(f.design.Min, head),
		Max: math.Min(f.design.Max, head),
	}
}

// Gated is a fixed outlet whose maximum release scales with a gate opening
// fraction in [0, 1].
type Gated struct {
	Fixed
	opening float64
}

// NewGated builds a gated outlet. The opening is clamped to [0, 1].
func NewGated(name string, location float64, design ReleaseRange, opening float64) Gated {
	if opening < 0 {
		opening = 0
	}
	if opening > 1 {
		opening = 1
	}
	return Gated{Fixed: NewFixed(name, location, design), opening: opening}
}

// Opening reports the gate opening fraction.
func (g Gated) Opening() float64 { return g.opening }

func (g Gated) FeasibleRange(fillState float64) ReleaseRange {
	rng := g.Fixed.FeasibleRange(fillState)
	rng.Max *= g.opening
	if rng.Min > rng.Max {
		rng.Min = rng.Max
	}
	return rng
}
