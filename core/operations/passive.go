package operations

import (
	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/reservoir"
)

// Passive spills whatever volume exceeds capacity and makes no other release.
type Passive struct{}

func (Passive) Operate(r reservoir.Reservoir, in model.StepInput) ([]float64, error) {
	spill := r.Storage() + in.Inflow - in.Evaporation - r.Capacity()
	if spill < 0 {
		spill = 0
	}
	return []float64{spill}, nil
}

func (Passive) OutputLabels(reservoir.Reservoir) []string { return []string{"spill"} }

// PassiveOutlets releases the maximum feasible volume from each attached
// outlet in order, then spills anything still above capacity.
type PassiveOutlets struct{}

func (PassiveOutlets) Operate(r reservoir.Reservoir, in model.StepInput) ([]float64, error) {
	ho, ok := r.(reservoir.HasOutlets)
	if !ok {
		return nil, &reservoir.PolicyError{Policy: "passive_outlets", Reason: "reservoir has no outlets"}
	}
	volume := r.Storage() + in.Inflow - in.Evaporation
	outs := ho.Outlets()
	releases := make([]float64, 0, len(outs)+1)
	for _, o := range outs {
		rel := o.FeasibleRange(volume).Max
		if rel > volume {
			rel = volume
		}
		if rel < 0 {
			rel = 0
		}
		releases = append(releases, rel)
		volume -= rel
	}
	spill := volume - r.Capacity()
	if spill < 0 {
		spill = 0
	}
	releases = append(releases, spill)
	return releases, nil
}

func (PassiveOutlets) OutputLabels(r reservoir.Reservoir) []string {
	ho, ok := r.(reservoir.HasOutlets)
	if !ok {
		return []string{"spill"}
	}
	outs := ho.Outlets()
	labels := make([]string, 0, len(outs)+1)
	for _, o := range outs {
		labels = append(labels, o.Name())
	}
	return append(labels, "spill")
}
