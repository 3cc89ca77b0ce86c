package operations

import (
	"fmt"
	"math"

	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/pool"
	"github.com/hydroseq/penstock/core/reservoir"
)

// Canonical pool names understood by the pool-based policy, bottom to top.
const (
	PoolDead         = "dead"
	PoolConservation = "conservation"
	PoolFlood        = "flood"
	PoolSurcharge    = "surcharge"
	PoolSpill        = "spill"
)

// PoolBased implements the canonical decision table over the active pool of
// (storage + inflow). The releases vector has one slot per named pool,
// zero-filled for pools not releasing.
type PoolBased struct {
	// MaxFloodRelease bounds releases made from the flood pool, typically set
	// by downstream channel capacity.
	MaxFloodRelease float64 `json:"max_flood_release"`
}

func (p PoolBased) Operate(r reservoir.Reservoir, in model.StepInput) ([]float64, error) {
	hp, ok := r.(reservoir.HasPools)
	if !ok {
		return nil, &reservoir.PolicyError{Policy: "pools", Reason: "reservoir has no pool partition"}
	}
	part := hp.Pools()
	volume := r.Storage() + in.Inflow
	zone := hp.ActivePool(volume)
	if zone.Above {
		return nil, &reservoir.PolicyError{Policy: "pools", Reason: fmt.Sprintf(
			"volume %g above all named pools", volume)}
	}

	releases := make([]float64, part.Len())
	idx := part.Index(zone.Name)
	switch zone.Name {
	case PoolDead:
		// No releases from dead storage.
	case PoolConservation:
		releases[idx] = math.Min(in.Demand, zone.Volume)
	case PoolFlood:
		releases[idx] = math.Min(zone.Volume, p.MaxFloodRelease)
	case PoolSurcharge:
		flood, err := p.slot(part, PoolFlood)
		if err != nil {
			return nil, err
		}
		releases[flood] = math.Min(part.Span(flood), p.MaxFloodRelease)
		releases[idx] = zone.Volume
	case PoolSpill:
		flood, err := p.slot(part, PoolFlood)
		if err != nil {
			return nil, err
		}
		surcharge, err := p.slot(part, PoolSurcharge)
		if err != nil {
			return nil, err
		}
		releases[flood] = math.Min(part.Span(flood), p.MaxFloodRelease)
		releases[surcharge] = part.Span(surcharge)
		releases[idx] = zone.Volume
	default:
		return nil, &reservoir.PolicyError{Policy: "pools", Reason: fmt.Sprintf(
			"unexpected pool name %q", zone.Name)}
	}
	return releases, nil
}

func (p PoolBased) slot(part pool.Partition, name string) (int, error) {
	i := part.Index(name)
	if i < 0 {
		return 0, &reservoir.PolicyError{Policy: "pools", Reason: fmt.Sprintf(
			"partition has no %q pool", name)}
	}
	return i, nil
}

func (p PoolBased) OutputLabels(r reservoir.Reservoir) []string {
	hp, ok := r.(reservoir.HasPools)
	if !ok {
		return nil
	}
	return hp.Pools().Names()
}
