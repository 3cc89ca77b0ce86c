package plugins

import (
	"github.com/hydroseq/penstock/core/factory"
	"github.com/hydroseq/penstock/core/outlet"
	"github.com/hydroseq/penstock/core/reservoir"
)

// ReservoirFactory builds a reservoir from its raw configuration, the bound
// operations policy and any configured outlets.
type ReservoirFactory func(conf map[string]any, ops reservoir.Operations, outlets []outlet.Outlet) (reservoir.Reservoir, error)

// Capability registries. Explicit registration at process start replaces
// filesystem plugin discovery; identifiers stay unique per capability.
var (
	Reservoirs = factory.NewRegistry[ReservoirFactory]("reservoirs")
	Outlets    = factory.NewRegistry[factory.Factory[outlet.Outlet]]("outlets")
	Operations = factory.NewRegistry[factory.Factory[reservoir.Operations]]("operations")
)

// NewOutlet constructs an outlet from its plugin configuration.
func NewOutlet(cfg factory.ModuleConfig) (outlet.Outlet, error) {
	return factory.Create(Outlets, cfg)
}

// NewOperations constructs an operations policy from its plugin configuration.
func NewOperations(cfg factory.ModuleConfig) (reservoir.Operations, error) {
	return factory.Create(Operations, cfg)
}

// NewReservoir constructs a reservoir, binding the policy and outlets.
func NewReservoir(cfg factory.ModuleConfig, ops reservoir.Operations, outlets []outlet.Outlet) (reservoir.Reservoir, error) {
	f, err := Reservoirs.Resolve(cfg.Type)
	if err != nil {
		return nil, err
	}
	return f(cfg.Conf, ops, outlets)
}
