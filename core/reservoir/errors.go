package reservoir

import "fmt"

// MassBalanceError reports releases that would drive storage negative or
// otherwise break the conservation identity beyond the numeric tolerance.
type MassBalanceError struct {
	Reservoir   string
	Storage     float64
	Inflow      float64
	Evaporation float64
	Releases    []float64
}

func (e *MassBalanceError) Error() string {
	var total float64
	for _, r := range e.Releases {
		total += r
	}
	return fmt.Sprintf(
		"mass balance: reservoir %q releases total %g exceed available volume (storage %g + inflow %g - evaporation %g)",
		e.Reservoir, total, e.Storage, e.Inflow, e.Evaporation)
}

// PolicyError reports an operations policy that met state it does not
// recognize, or returned a releases vector of the wrong shape.
type PolicyError struct {
	Policy string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("policy %s: %s", e.Policy, e.Reason)
}
