package kernel

import (
	"context"
	"testing"

	"github.com/agentic-fairsim/agentic-fairsim/dag"
	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"github.com/agentic-fairsim/agentic-fairsim/workload"
)

// TestScenario6_MixedPoissonWorkload exercises a mixed workload over a
// 60 second horizon with two request types at different arrival rates.
// It does not assert exact completion counts (those depend on
// workload's RNG stream), only that the run completes cleanly, every
// admitted request eventually finishes, and a fixed seed reproduces an
// identical completed-request count across two independent simulator
// instances, exercising determinism end to end through the workload
// generator.
func TestScenario6_MixedPoissonWorkload(t *testing.T) {
	webSearch := dag.NewTemplate()
	if err := webSearch.AddNode("search", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 20, resource.Network: 15})); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	deepResearch := dag.NewTemplate()
	if err := deepResearch.AddNode("plan", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 40})); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := deepResearch.AddNode("synthesize", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 105}), "plan"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	specs := []workload.Spec{
		{RequestType: "web-search", DAGTemplate: webSearch, ArrivalRateRPM: 30},
		{RequestType: "deep-research", DAGTemplate: deepResearch, ArrivalRateRPM: 10},
	}

	runOnce := func() int {
		sim := newSim(t)
		reqs, err := workload.Generate(specs, 60, workload.NewPartitionedRNG(7))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		for _, req := range reqs {
			if err := sim.Schedule(req); err != nil {
				t.Fatalf("Schedule: %v", err)
			}
		}
		if _, err := sim.Run(context.Background(), 1000, -1); err != nil {
			t.Fatalf("Run: %v", err)
		}
		for _, req := range reqs {
			if !req.Finished() {
				t.Errorf("request %s (%s) never finished", req.Type, req.ID)
			}
		}
		return len(sim.Completed)
	}

	first := runOnce()
	second := runOnce()
	if first == 0 {
		t.Errorf("expected at least one completed request over 60s at 40 req/min combined")
	}
	if first != second {
		t.Errorf("completed count not reproducible: %d vs %d for the same seed", first, second)
	}
}
