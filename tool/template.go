// Package tool defines the per-tool workload descriptor (Template) and
// its runtime projection for a single request (Instance).
package tool

import (
	"errors"
	"fmt"

	"github.com/agentic-fairsim/agentic-fairsim/resource"
)

// ErrUnknownResource is returned when a template references a resource
// kind outside the closed set in package resource.
var ErrUnknownResource = errors.New("tool: unknown resource kind")

// Epsilon is the tolerance used throughout the kernel for comparisons
// against zero remaining work. Defined here since tool.Instance owns
// the remaining-work vector the comparisons apply to.
const Epsilon = 1e-9

// Template is an immutable descriptor of a tool's total workload, one
// non-negative load value per resource kind. A zero value means the
// tool never consumes that resource.
type Template struct {
	loads [resource.NumKinds]float64
}

// NewTemplate builds a Template from a partial map of per-kind loads.
// Kinds absent from loads default to zero. Negative loads and unknown
// kinds are rejected.
func NewTemplate(loads map[resource.Kind]float64) (Template, error) {
	var t Template
	for k, v := range loads {
		if k < 0 || int(k) >= int(resource.NumKinds) {
			return Template{}, fmt.Errorf("%w: %v", ErrUnknownResource, k)
		}
		if v < 0 {
			return Template{}, fmt.Errorf("tool: negative load %v for %s", v, k)
		}
		t.loads[k] = v
	}
	return t, nil
}

// Loads returns the template's load vector, one value per resource kind.
func (t Template) Loads() [resource.NumKinds]float64 {
	return t.loads
}

// Load returns the template's load for a single resource kind.
func (t Template) Load(k resource.Kind) float64 {
	if k < 0 || int(k) >= int(resource.NumKinds) {
		return 0
	}
	return t.loads[k]
}
