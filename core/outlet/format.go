package outlet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hydroseq/penstock/core/pool"
)

// renamed wraps an outlet with a replacement name, leaving the wrapped value
// untouched.
type renamed struct {
	Outlet
	name string
}

func (r renamed) Name() string { return r.name }

func formatLocation(loc float64) string {
	if loc == math.Trunc(loc) {
		return strconv.Itoa(int(loc))
	}
	return strconv.FormatFloat(math.Round(loc*10)/10, 'f', -1, 64)
}

// FormatNames returns a copy of the outlets with unique names. Empty names
// become "outlet"; duplicates are suffixed with "@<location>" and, when that
// still collides, an ordinal before the suffix. The inputs are not modified.
func FormatNames(outlets []Outlet) ([]Outlet, error) {
	names := make([]string, len(outlets))
	for i, o := range outlets {
		n := o.Name()
		if n == "" {
			n = "outlet"
		} else if strings.Contains(n, "@") {
			parts := strings.Split(n, "@")
			if len(parts) != 2 {
				return nil, &pool.ConfigurationError{Reason: fmt.Sprintf("invalid outlet name %q", n)}
			}
			if parts[1] != formatLocation(o.Location()) {
				return nil, &pool.ConfigurationError{Reason: fmt.Sprintf(
					"outlet name %q does not match location %s", n, formatLocation(o.Location()))}
			}
		}
		names[i] = n
	}

	// First pass: tack the location onto duplicated names.
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	for i, n := range names {
		if counts[n] > 1 && !strings.Contains(n, "@") {
			names[i] = n + "@" + formatLocation(outlets[i].Location())
		}
	}

	// Second pass: outlets sharing a name and a location get an ordinal.
	counts = make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	ordinal := make(map[string]int, len(names))
	for i, n := range names {
		if counts[n] > 1 {
			ordinal[n]++
			at := strings.Index(n, "@")
			if at < 0 {
				names[i] = n + strconv.Itoa(ordinal[n])
			} else {
				names[i] = n[:at] + strconv.Itoa(ordinal[n]) + n[at:]
			}
		}
	}

	unique := make(map[string]bool, len(names))
	for _, n := range names {
		if unique[n] {
			return nil, &pool.ConfigurationError{Reason: fmt.Sprintf(
				"failed to create unique outlet names: %v", names)}
		}
		unique[n] = true
	}

	out := make([]Outlet, len(outlets))
	for i, o := range outlets {
		if names[i] == o.Name() {
			out[i] = o
		} else {
			out[i] = renamed{Outlet: o, name: names[i]}
		}
	}
	return out, nil
}
