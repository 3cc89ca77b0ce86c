package model

import "time"

// StepInput is one validated record of the driving time series. Cleansing and
// gap filling happen upstream; the core assumes non-negative values.
type StepInput struct {
	Timestamp   time.Time `json:"timestamp"`
	Inflow      float64   `json:"inflow"`
	Demand      float64   `json:"demand"`
	Evaporation float64   `json:"evaporation"`
}

// StepOutput is the per-step result of operating a reservoir. Releases are
// ordered to match the labels declared by the bound operations policy.
type StepOutput struct {
	Timestamp time.Time `json:"timestamp"`
	Releases  []float64 `json:"releases"`
	Storage   float64   `json:"storage"`
}

// TotalRelease sums the releases of the step.
func (o StepOutput) TotalRelease() float64 {
	var total float64
	for _, r := range o.Releases {
		total += r
	}
	return total
}
