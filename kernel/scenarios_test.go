package kernel

import (
	"context"
	"testing"

	"github.com/agentic-fairsim/agentic-fairsim/dag"
	"github.com/agentic-fairsim/agentic-fairsim/resource"
)

// These tests reproduce the six concrete numeric scenarios: every
// capacity is 100 except memory (1000), epsilon is 1e-9.

func TestScenario1_SingleTool(t *testing.T) {
	sim := newSim(t)
	req := newRequest(t, "solo", 0, singleNodeDAG(t, map[resource.Kind]float64{resource.CPU: 100}))
	if err := sim.Admit(req); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if _, err := sim.Run(context.Background(), 10, -1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !almostEqual(req.FinishTime, 1.0) {
		t.Errorf("FinishTime = %v, want 1.0", req.FinishTime)
	}
	lat, ok := req.Latency()
	if !ok || !almostEqual(lat, 1.0) {
		t.Errorf("Latency = (%v, %v), want (1.0, true)", lat, ok)
	}
	util := sim.Metrics.Utilisation()
	if !almostEqual(util[resource.CPU], 1.0) {
		t.Errorf("Utilisation(CPU) = %v, want 1.0", util[resource.CPU])
	}
}

func TestScenario2_SequentialAThenB(t *testing.T) {
	sim := newSim(t)
	g := dag.NewTemplate()
	g.AddNode("A", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 50}))
	g.AddNode("B", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 30}), "A")
	req := newRequest(t, "seq", 0, g)

	if err := sim.Admit(req); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if _, err := sim.Run(context.Background(), 10, -1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !almostEqual(req.Tools["A"].FinishTime, 0.5) {
		t.Errorf("A.FinishTime = %v, want 0.5", req.Tools["A"].FinishTime)
	}
	if !almostEqual(req.Tools["B"].FinishTime, 0.8) {
		t.Errorf("B.FinishTime = %v, want 0.8", req.Tools["B"].FinishTime)
	}
	lat, _ := req.Latency()
	if !almostEqual(lat, 0.8) {
		t.Errorf("Latency = %v, want 0.8", lat)
	}
}

func TestScenario3_TwoRootsSharingCPU(t *testing.T) {
	sim := newSim(t)
	reqA := newRequest(t, "a", 0, singleNodeDAG(t, map[resource.Kind]float64{
		resource.CPU: 100, resource.Network: 50,
	}))
	reqB := newRequest(t, "b", 0, singleNodeDAG(t, map[resource.Kind]float64{
		resource.CPU: 80,
	}))
	if err := sim.Admit(reqA); err != nil {
		t.Fatalf("Admit A: %v", err)
	}
	if err := sim.Admit(reqB); err != nil {
		t.Fatalf("Admit B: %v", err)
	}
	if _, err := sim.Run(context.Background(), 10, -1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !almostEqual(reqB.Tools["A"].FinishTime, 1.6) {
		t.Errorf("B.FinishTime = %v, want 1.6", reqB.Tools["A"].FinishTime)
	}
	if !almostEqual(reqA.Tools["A"].FinishTime, 1.8) {
		t.Errorf("A.FinishTime = %v, want 1.8", reqA.Tools["A"].FinishTime)
	}
	latA, _ := reqA.Latency()
	if !almostEqual(latA, 1.8) {
		t.Errorf("A.Latency = %v, want 1.8", latA)
	}
}

func TestScenario4_Diamond(t *testing.T) {
	sim := newSim(t)
	g := dag.NewTemplate()
	g.AddNode("A", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 1}))
	g.AddNode("B", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 50}), "A")
	g.AddNode("C", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 50}), "A")
	g.AddNode("D", loadTemplate(t, map[resource.Kind]float64{resource.CPU: 40}), "B", "C")
	req := newRequest(t, "diamond", 0, g)

	if err := sim.Admit(req); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if _, err := sim.Run(context.Background(), 10, -1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !almostEqual(req.Tools["A"].FinishTime, 0.01) {
		t.Errorf("A.FinishTime = %v, want 0.01", req.Tools["A"].FinishTime)
	}
	if !almostEqual(req.Tools["B"].FinishTime, 1.01) {
		t.Errorf("B.FinishTime = %v, want 1.01", req.Tools["B"].FinishTime)
	}
	if !almostEqual(req.Tools["C"].FinishTime, 1.01) {
		t.Errorf("C.FinishTime = %v, want 1.01", req.Tools["C"].FinishTime)
	}
	if !almostEqual(req.Tools["D"].FinishTime, 1.41) {
		t.Errorf("D.FinishTime = %v, want 1.41", req.Tools["D"].FinishTime)
	}
}

// TestScenario5_StaggeredArrivals exercises staggered arrivals: two
// independent single-tool CPU=100 requests arrive at t=0 and t=0.25.
// request 1 runs solo for the first 0.25s (25 done, 75 remaining),
// then the two share 50/50 from t=0.25, so request 1 finishes at
// 0.25 + 75/50 = 1.75. At that instant request 2's share jumps back
// to 100 (a departing consumer's capacity is redistributed to the
// survivors, the same reallocation the two-roots scenario exercises),
// leaving 100 - 50*1.5 = 25 units that finish at 1.75 + 25/100 = 2.0,
// not the 2.25 a static 50/50 split held for request 2's entire
// remaining duration would give.
func TestScenario5_StaggeredArrivals(t *testing.T) {
	sim := newSim(t)
	req1 := newRequest(t, "x", 0, singleNodeDAG(t, map[resource.Kind]float64{resource.CPU: 100}))
	req2 := newRequest(t, "x", 0.25, singleNodeDAG(t, map[resource.Kind]float64{resource.CPU: 100}))

	if err := sim.Admit(req1); err != nil {
		t.Fatalf("Admit req1: %v", err)
	}
	if err := sim.Schedule(req2); err != nil {
		t.Fatalf("Schedule req2: %v", err)
	}
	if _, err := sim.Run(context.Background(), 10, -1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !almostEqual(req1.FinishTime, 1.75) {
		t.Errorf("req1.FinishTime = %v, want 1.75", req1.FinishTime)
	}
	if !almostEqual(req2.FinishTime, 2.0) {
		t.Errorf("req2.FinishTime = %v, want 2.0", req2.FinishTime)
	}

	th := sim.Metrics.Throughput("")
	want := 2.0 / 2.0
	if !almostEqual(th.PerSecond, want) {
		t.Errorf("Throughput.PerSecond = %v, want %v", th.PerSecond, want)
	}
}
