package asset

import (
	"fmt"
	"math"

	"github.com/hydroseq/penstock/core/pool"
)

// Parameters control the shape of a depreciation schedule.
type Parameters struct {
	// K controls the schedule shape: 1 is linear in time, below 1 convex
	// (slower than linear), above 1 concave (faster than linear).
	K float64 `json:"k"`
	// N is the number of periods in the schedule.
	N int `json:"n"`
	// MaintenanceRequirement is the maintenance owed per period.
	MaintenanceRequirement float64 `json:"maintenance_requirement"`
	// Acceleration speeds deterioration when maintenance is deferred; must be
	// at least 1 (no acceleration).
	Acceleration float64 `json:"acceleration"`
}

// DefaultParameters is a linear 100-period schedule with unit maintenance.
func DefaultParameters() Parameters {
	return Parameters{K: 1, N: 100, MaintenanceRequirement: 1, Acceleration: 1}
}

func (p Parameters) validate() error {
	if p.K <= 0 {
		return &pool.ConfigurationError{Reason: fmt.Sprintf("depreciation shape k %g must be positive", p.K)}
	}
	if p.N < 1 {
		return &pool.ConfigurationError{Reason: fmt.Sprintf("schedule length n %d must be positive", p.N)}
	}
	if p.Acceleration < 1 {
		return &pool.ConfigurationError{Reason: fmt.Sprintf("acceleration %g must be at least 1", p.Acceleration)}
	}
	return nil
}

// portionAt returns the portion of depreciable value remaining at time t.
func (p Parameters) portionAt(t float64) float64 {
	if t >= float64(p.N) {
		return 0
	}
	return math.Pow(1-t/float64(p.N), p.K)
}

// timeAt returns the schedule time corresponding to a remaining portion.
func (p Parameters) timeAt(portion float64) (float64, error) {
	if portion < 0 || portion > 1 {
		return 0, fmt.Errorf("portion %g must be between 0 and 1", portion)
	}
	return float64(p.N) * math.Pow(1-portion, 1/p.K), nil
}

// periods returns the schedule time consumed by one period given the
// maintenance actually performed. Full maintenance consumes exactly one
// period; deferred maintenance accelerates deterioration.
func (p Parameters) periods(maintenance float64) (float64, error) {
	if maintenance > p.MaintenanceRequirement {
		return 0, fmt.Errorf("maintenance %g exceeds requirement %g", maintenance, p.MaintenanceRequirement)
	}
	deferred := (p.MaintenanceRequirement - maintenance) / p.MaintenanceRequirement
	return 1 + deferred*p.Acceleration, nil
}

// Asset is a depreciable structure. Depreciate returns a new value; assets are
// never mutated in place.
type Asset struct {
	Value            float64
	SalvageValue     float64
	ReplacementValue float64
	Params           Parameters
}

// New validates salvage <= value <= replacement and the schedule parameters.
func New(value, salvage, replacement float64, params Parameters) (Asset, error) {
	if err := params.validate(); err != nil {
		return Asset{}, err
	}
	if !(salvage <= value && value <= replacement) {
		return Asset{}, &pool.ConfigurationError{Reason: fmt.Sprintf(
			"asset values must satisfy salvage <= value <= replacement, got %g, %g, %g",
			salvage, value, replacement)}
	}
	return Asset{Value: value, SalvageValue: salvage, ReplacementValue: replacement, Params: params}, nil
}

// PortionRemaining is the depreciable portion of the asset still standing.
func (a Asset) PortionRemaining() float64 {
	return (a.Value - a.SalvageValue) / (a.ReplacementValue - a.SalvageValue)
}

// RemainingLife is the schedule periods left before full depreciation.
func (a Asset) RemainingLife() (float64, error) {
	t, err := a.Params.timeAt(a.PortionRemaining())
	if err != nil {
		return 0, err
	}
	return float64(a.Params.N) - t, nil
}

// Depreciate advances the asset by one period under the given maintenance and
// returns the resulting asset. The receiver is unchanged.
func (a Asset) Depreciate(maintenance float64) (Asset, error) {
	consumed, err := a.Params.periods(maintenance)
	if err != nil {
		return Asset{}, err
	}
	t, err := a.Params.timeAt(a.PortionRemaining())
	if err != nil {
		return Asset{}, err
	}
	portion := a.Params.portionAt(t + consumed)
	next := a
	next.Value = a.SalvageValue + portion*(a.ReplacementValue-a.SalvageValue)
	return next, nil
}
