package workload

import (
	"fmt"

	"github.com/agentic-fairsim/agentic-fairsim/dag"
)

// Spec names one request type in a mixed workload: its DAG template
// and its Poisson arrival rate in requests per minute.
type Spec struct {
	RequestType    string
	DAGTemplate    *dag.Template
	ArrivalRateRPM float64
}

// validate checks a single spec before generation, so a malformed
// mixed workload fails fast rather than silently generating zero
// arrivals for one of its request types.
func (s Spec) validate() error {
	if s.RequestType == "" {
		return fmt.Errorf("workload: request type must not be empty")
	}
	if s.DAGTemplate == nil {
		return fmt.Errorf("workload: spec %q has no DAG template", s.RequestType)
	}
	if err := dag.Validate(s.DAGTemplate); err != nil {
		return fmt.Errorf("workload: spec %q: %w", s.RequestType, err)
	}
	if s.ArrivalRateRPM <= 0 {
		return fmt.Errorf("workload: spec %q has non-positive arrival rate %v", s.RequestType, s.ArrivalRateRPM)
	}
	return nil
}
