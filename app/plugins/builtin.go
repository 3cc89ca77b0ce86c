package plugins

import (
	"github.com/hydroseq/penstock/core/factory"
	"github.com/hydroseq/penstock/core/operations"
	"github.com/hydroseq/penstock/core/outlet"
	"github.com/hydroseq/penstock/core/pool"
	"github.com/hydroseq/penstock/core/reservoir"
)

type outletConf struct {
	Name     string  `json:"name"`
	Location float64 `json:"location"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Opening  float64 `json:"opening"`
}

type reservoirConf struct {
	Name     string  `json:"name"`
	Storage  float64 `json:"storage"`
	Capacity float64 `json:"capacity"`
	Pools    struct {
		Names []string  `json:"names"`
		Tops  []float64 `json:"tops"`
	} `json:"pools"`
}

func init() {
	Outlets.MustRegister("fixed", func(conf map[string]any) (outlet.Outlet, error) {
		var oc outletConf
		if err := factory.Decode(conf, &oc); err != nil {
			return nil, err
		}
		rng, err := outlet.NewReleaseRange(oc.Min, oc.Max)
		if err != nil {
			return nil, err
		}
		return outlet.NewFixed(oc.Name, oc.Location, rng), nil
	})
	Outlets.MustRegister("gated", func(conf map[string]any) (outlet.Outlet, error) {
		var oc outletConf
		if err := factory.Decode(conf, &oc); err != nil {
			return nil, err
		}
		rng, err := outlet.NewReleaseRange(oc.Min, oc.Max)
		if err != nil {
			return nil, err
		}
		return outlet.NewGated(oc.Name, oc.Location, rng, oc.Opening), nil
	})

	Operations.MustRegister("passive", func(_ map[string]any) (reservoir.Operations, error) {
		return operations.Passive{}, nil
	})
	Operations.MustRegister("passive_outlets", func(_ map[string]any) (reservoir.Operations, error) {
		return operations.PassiveOutlets{}, nil
	})
	Operations.MustRegister("pools", func(conf map[string]any) (reservoir.Operations, error) {
		var p operations.PoolBased
		if err := factory.Decode(conf, &p); err != nil {
			return nil, err
		}
		return p, nil
	})
	Operations.MustRegister("lp", func(_ map[string]any) (reservoir.Operations, error) {
		return operations.LPAllocator{}, nil
	})

	Reservoirs.MustRegister("basic", func(conf map[string]any, ops reservoir.Operations, outs []outlet.Outlet) (reservoir.Reservoir, error) {
		var rc reservoirConf
		if err := factory.Decode(conf, &rc); err != nil {
			return nil, err
		}
		b, err := reservoir.New(rc.Name, rc.Storage, rc.Capacity, ops)
		if err != nil {
			return nil, err
		}
		if len(outs) == 0 {
			return b, nil
		}
		return b.WithOutlets(outs, nil)
	})
	Reservoirs.MustRegister("pools", func(conf map[string]any, ops reservoir.Operations, outs []outlet.Outlet) (reservoir.Reservoir, error) {
		var rc reservoirConf
		if err := factory.Decode(conf, &rc); err != nil {
			return nil, err
		}
		if len(outs) > 0 {
			return nil, &pool.ConfigurationError{Reason: "pools reservoir does not take outlets"}
		}
		partition, err := pool.NewPartition(rc.Pools.Names, rc.Pools.Tops)
		if err != nil {
			return nil, err
		}
		return reservoir.NewWithPools(rc.Name, rc.Storage, rc.Capacity, ops, partition)
	})
}
