package pool

import (
	"fmt"
	"iter"
)

// ConfigurationError reports a malformed partition or reservoir definition.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Reason }

// Zone names the pool holding a given volume. When the volume sits above the
// top boundary of every pool, Above is set and Volume carries the excess over
// the last boundary.
type Zone struct {
	Name   string
	Volume float64
	Above  bool
}

// Partition is an ordered set of named storage bands. Each pool spans from the
// previous boundary (zero for the bottom pool) up to and including its own top
// boundary. A partition is immutable after construction.
type Partition struct {
	names []string
	tops  []float64
}

// NewPartition builds a partition from pool names and their top boundaries.
// Boundaries must be strictly increasing and names unique.
func NewPartition(names []string, tops []float64) (Partition, error) {
	if len(names) != len(tops) {
		return Partition{}, &ConfigurationError{Reason: fmt.Sprintf(
			"%d pools named, %d boundaries given", len(names), len(tops))}
	}
	if len(names) == 0 {
		return Partition{}, &ConfigurationError{Reason: "a partition needs at least one pool"}
	}
	if tops[0] <= 0 {
		return Partition{}, &ConfigurationError{Reason: fmt.Sprintf(
			"bottom pool %q must have a positive top boundary, got %g", names[0], tops[0])}
	}
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if n == "" {
			return Partition{}, &ConfigurationError{Reason: fmt.Sprintf("pool %d has no name", i)}
		}
		if seen[n] {
			return Partition{}, &ConfigurationError{Reason: fmt.Sprintf("duplicate pool name %q", n)}
		}
		seen[n] = true
		if i > 0 && tops[i] <= tops[i-1] {
			return Partition{}, &ConfigurationError{Reason: fmt.Sprintf(
				"pool boundaries must be strictly increasing, %q top %g follows %g",
				n, tops[i], tops[i-1])}
		}
	}
	return Partition{
		names: append([]string(nil), names...),
		tops:  append([]float64(nil), tops...),
	}, nil
}

// Len returns the number of pools.
func (p Partition) Len() int { return len(p.names) }

// Names returns the pool names, bottom to top.
func (p Partition) Names() []string { return append([]string(nil), p.names...) }

// Top returns the top boundary of pool i.
func (p Partition) Top(i int) float64 { return p.tops[i] }

// Index returns the position of the named pool, or -1 when absent.
func (p Partition) Index(name string) int {
	for i, n := range p.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Span returns the volume held by pool i between its bottom and top boundary.
func (p Partition) Span(i int) float64 {
	if i == 0 {
		return p.tops[0]
	}
	return p.tops[i] - p.tops[i-1]
}

// Active locates the pool holding volume. A volume exactly at a top boundary
// belongs to that pool, not the next one. Volumes above every boundary return
// a Zone with Above set and the excess over the last boundary.
func (p Partition) Active(volume float64) Zone {
	for i, top := range p.tops {
		if volume <= top {
			if i == 0 {
				return Zone{Name: p.names[0], Volume: volume}
			}
			return Zone{Name: p.names[i], Volume: volume - p.tops[i-1]}
		}
	}
	return Zone{Volume: volume - p.tops[len(p.tops)-1], Above: true}
}

// Zones yields (name, top boundary) pairs bottom to top. Every call returns an
// independent traversal, so nested or concurrent iterations do not interfere.
func (p Partition) Zones() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for i, n := range p.names {
			if !yield(n, p.tops[i]) {
				return
			}
		}
	}
}

// ValidateCapacity checks that every boundary except the last fits inside the
// given capacity. The top pool may extend above design capacity so surcharge
// and spill volumes can be accounted for.
func (p Partition) ValidateCapacity(capacity float64) error {
	for i := 0; i < len(p.tops)-1; i++ {
		if p.tops[i] > capacity {
			return &ConfigurationError{Reason: fmt.Sprintf(
				"bottom of %q pool at %g not in reservoir with capacity %g",
				p.names[i+1], p.tops[i], capacity)}
		}
	}
	return nil
}
