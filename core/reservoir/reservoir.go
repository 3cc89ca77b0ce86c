package reservoir

import (
	"fmt"

	"github.com/hydroseq/penstock/core/model"
	"github.com/hydroseq/penstock/core/outlet"
	"github.com/hydroseq/penstock/core/pool"
)

// Tolerance bounds the numeric slack allowed in the conservation identity.
const Tolerance = 1e-9

// Operations decides per-step releases for the reservoir it is bound to.
// Implementations must be deterministic and clamp their releases so the mass
// balance holds. Declared beside Reservoir so policy implementations can
// depend on the reservoir types without an import cycle.
type Operations interface {
	// Operate returns the releases for one step. The slice must have one slot
	// per label reported by OutputLabels for the same reservoir.
	Operate(r Reservoir, in model.StepInput) ([]float64, error)
	// OutputLabels names each slot of the releases vector, in order.
	OutputLabels(r Reservoir) []string
}

// Reservoir is the base capability set: identity, storage state and the
// delegated operate step. Pools and outlets are optional capabilities declared
// through HasPools and HasOutlets; callers needing them must type-assert.
type Reservoir interface {
	Name() string
	Storage() float64
	Capacity() float64
	// Operate runs the bound operations policy for one step and commits the
	// mass balance: storage' = storage + inflow - sum(releases) - evaporation.
	Operate(in model.StepInput) (model.StepOutput, error)
	// OutputLabels reports the semantic labels of the releases vector.
	OutputLabels() []string
}

// HasOutlets is implemented by reservoirs carrying attached outlets.
type HasOutlets interface {
	Reservoir
	Outlets() []outlet.Outlet
}

// HasPools is implemented by reservoirs with a named pool partition.
type HasPools interface {
	Reservoir
	Pools() pool.Partition
	ActivePool(volume float64) pool.Zone
}

// Basic implements the base Reservoir capability set.
type Basic struct {
	name     string
	storage  float64
	capacity float64
	ops      Operations
}

// New builds a basic reservoir with initial storage, capacity and a bound
// operations policy.
func New(name string, storage, capacity float64, ops Operations) (*Basic, error) {
	if capacity <= 0 {
		return nil, &pool.ConfigurationError{Reason: fmt.Sprintf(
			"reservoir %q capacity must be positive, got %g", name, capacity)}
	}
	if storage < 0 || storage > capacity {
		return nil, &pool.ConfigurationError{Reason: fmt.Sprintf(
			"reservoir %q initial storage %g outside [0, %g]", name, storage, capacity)}
	}
	if ops == nil {
		return nil, &pool.ConfigurationError{Reason: fmt.Sprintf(
			"reservoir %q has no operations policy", name)}
	}
	return &Basic{name: name, storage: storage, capacity: capacity, ops: ops}, nil
}

func (b *Basic) Name() string      { return b.name }
func (b *Basic) Storage() float64  { return b.storage }
func (b *Basic) Capacity() float64 { return b.capacity }

func (b *Basic) OutputLabels() []string { return b.ops.OutputLabels(b) }

func (b *Basic) Operate(in model.StepInput) (model.StepOutput, error) {
	return step(b, &b.storage, b.ops, in)
}

// WithOutlets returns a new reservoir value carrying the given outlets; the
// receiver is left unchanged. Outlet names are made unique and the set is
// ordered by the sorter, ascending by location when nil.
func (b *Basic) WithOutlets(outs []outlet.Outlet, sorter outlet.Sorter) (*WithOutlets, error) {
	formatted, err := outlet.FormatNames(outs)
	if err != nil {
		return nil, err
	}
	if sorter == nil {
		sorter = outlet.SortByLocation
	}
	return &WithOutlets{Basic: *b, outlets: sorter(formatted)}, nil
}

// WithPools returns a new reservoir value carrying the partition; the receiver
// is left unchanged. Every boundary except the last must fit inside capacity.
func (b *Basic) WithPools(partition pool.Partition) (*WithPools, error) {
	if err := partition.ValidateCapacity(b.capacity); err != nil {
		return nil, err
	}
	return &WithPools{Basic: *b, partition: partition}, nil
}

// step runs the bound policy, verifies the shape of its releases and commits
// the mass balance. Storage is untouched when an error is returned, so an
// aborted run keeps the value of the last completed step.
func step(r Reservoir, storage *float64, ops Operations, in model.StepInput) (model.StepOutput, error) {
	releases, err := ops.Operate(r, in)
	if err != nil {
		return model.StepOutput{}, err
	}
	labels := ops.OutputLabels(r)
	if len(releases) != len(labels) {
		return model.StepOutput{}, &PolicyError{
			Policy: fmt.Sprintf("%T", ops),
			Reason: fmt.Sprintf("%d releases returned for %d output labels", len(releases), len(labels)),
		}
	}
	var total float64
	for _, rel := range releases {
		if rel < 0 {
			return model.StepOutput{}, &MassBalanceError{
				Reservoir: r.Name(), Storage: *storage,
				Inflow: in.Inflow, Evaporation: in.Evaporation, Releases: releases,
			}
		}
		total += rel
	}
	next := *storage + in.Inflow - total - in.Evaporation
	if next < -Tolerance {
		return model.StepOutput{}, &MassBalanceError{
			Reservoir: r.Name(), Storage: *storage,
			Inflow: in.Inflow, Evaporation: in.Evaporation, Releases: releases,
		}
	}
	if next < 0 {
		next = 0
	}
	*storage = next
	return model.StepOutput{Timestamp: in.Timestamp, Releases: releases, Storage: next}, nil
}

// WithOutlets extends Basic with an ordered set of attached outlets. Outlets
// belong to exactly one reservoir value; attachment copies the base state so
// the pre-attachment reservoir is never aliased.
type WithOutlets struct {
	Basic
	outlets []outlet.Outlet
}

// Outlets returns the attached outlets in their sorted order.
func (w *WithOutlets) Outlets() []outlet.Outlet {
	return append([]outlet.Outlet(nil), w.outlets...)
}

func (w *WithOutlets) Operate(in model.StepInput) (model.StepOutput, error) {
	return step(w, &w.storage, w.ops, in)
}

func (w *WithOutlets) OutputLabels() []string { return w.ops.OutputLabels(w) }

// WithPools extends Basic with a named pool partition.
type WithPools struct {
	Basic
	partition pool.Partition
}

// NewWithPools builds a pooled reservoir in one call.
func NewWithPools(name string, storage, capacity float64, ops Operations, partition pool.Partition) (*WithPools, error) {
	b, err := New(name, storage, capacity, ops)
	if err != nil {
		return nil, err
	}
	return b.WithPools(partition)
}

// Pools returns the partition.
func (w *WithPools) Pools() pool.Partition { return w.partition }

// ActivePool locates the pool holding the given volume.
func (w *WithPools) ActivePool(volume float64) pool.Zone { return w.partition.Active(volume) }

func (w *WithPools) Operate(in model.StepInput) (model.StepOutput, error) {
	return step(w, &w.storage, w.ops, in)
}

func (w *WithPools) OutputLabels() []string { return w.ops.OutputLabels(w) }
