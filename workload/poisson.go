package workload

import (
	"fmt"
	"math"
	"sort"

	"github.com/agentic-fairsim/agentic-fairsim/request"
)

// Generate draws Poisson arrivals for every spec independently over
// [0, durationSeconds) and returns the resulting requests sorted by
// arrival time, ready to hand one at a time to kernel.Simulator.Schedule
// (which wraps each into the event queue's unified arrival/start-event
// stream; see eventqueue.Event).
//
// Each spec's inter-arrival times are drawn i.i.d.
// Exponential(lambda_per_sec), lambda_per_sec = rpm/60, and a Request
// is created per draw from that spec's DAG template. rng's
// SubsystemWorkload stream supplies the draws, so a fixed master seed
// reproduces an identical arrival sequence regardless of how many
// other subsystems draw randomness elsewhere.
func Generate(specs []Spec, durationSeconds float64, rng *PartitionedRNG) ([]*request.Request, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("workload: duration must be positive, got %v", durationSeconds)
	}
	for _, s := range specs {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}

	source := rng.ForSubsystem(SubsystemWorkload)

	var out []*request.Request
	for _, spec := range specs {
		lambdaPerSec := spec.ArrivalRateRPM / 60.0
		t := 0.0
		for {
			interArrival := -math.Log(1-source.Float64()) / lambdaPerSec
			t += interArrival
			if t >= durationSeconds {
				break
			}
			req, err := request.New(spec.RequestType, t, spec.DAGTemplate)
			if err != nil {
				return nil, fmt.Errorf("workload: spec %q: %w", spec.RequestType, err)
			}
			out = append(out, req)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ArrivalTime < out[j].ArrivalTime
	})
	return out, nil
}
