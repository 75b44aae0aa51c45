package request

import (
	"math"
	"testing"

	"github.com/agentic-fairsim/agentic-fairsim/dag"
	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"github.com/agentic-fairsim/agentic-fairsim/tool"
)

func diamondDAG(t *testing.T) *dag.Template {
	t.Helper()
	g := dag.NewTemplate()
	cpu := func(n float64) tool.Template {
		tmpl, err := tool.NewTemplate(map[resource.Kind]float64{resource.CPU: n})
		if err != nil {
			t.Fatalf("NewTemplate: %v", err)
		}
		return tmpl
	}
	g.AddNode("A", cpu(1))
	g.AddNode("B", cpu(50), "A")
	g.AddNode("C", cpu(50), "A")
	g.AddNode("D", cpu(40), "B", "C")
	return g
}

func TestNew_CreatesOneInstancePerNode(t *testing.T) {
	r, err := New("deep-research", 0, diamondDAG(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(r.Tools) != 4 {
		t.Errorf("len(Tools) = %d, want 4", len(r.Tools))
	}
	if got := r.Roots(); len(got) != 1 || got[0] != "A" {
		t.Errorf("Roots() = %v, want [A]", got)
	}
}

func TestNew_RejectsMalformedGraph(t *testing.T) {
	g := dag.NewTemplate()
	tmpl, _ := tool.NewTemplate(nil)
	g.AddNode("A", tmpl)
	g.AddNode("B", tmpl)
	if _, err := New("x", 0, g); err == nil {
		t.Errorf("New() with two-root graph should error")
	}
}

func TestCanStart_RespectsDependencies(t *testing.T) {
	r, err := New("x", 0, diamondDAG(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !r.CanStart("A") {
		t.Errorf("CanStart(A) = false, want true (no predecessors)")
	}
	if r.CanStart("B") {
		t.Errorf("CanStart(B) = true before A completes")
	}
	r.Tools["A"].Status = tool.Completed
	if !r.CanStart("B") || !r.CanStart("C") {
		t.Errorf("CanStart(B)/(C) should be true once A completes")
	}
	if r.CanStart("D") {
		t.Errorf("CanStart(D) = true before B and C complete")
	}
}

func TestIsCompleted_AndFinishTime_TakesMaxOfTools(t *testing.T) {
	r, err := New("x", 10, diamondDAG(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.IsCompleted() {
		t.Errorf("IsCompleted() = true before any tool finishes")
	}
	for name, finish := range map[string]float64{"A": 10.01, "B": 11.01, "C": 11.01, "D": 11.41} {
		r.Tools[name].Status = tool.Completed
		r.Tools[name].FinishTime = finish
	}
	if !r.IsCompleted() {
		t.Errorf("IsCompleted() = false after every tool completed")
	}
	r.MarkFinished()
	if r.FinishTime != 11.41 {
		t.Errorf("FinishTime = %v, want 11.41 (max across tools)", r.FinishTime)
	}
	lat, ok := r.Latency()
	if !ok || math.Abs(lat-1.41) > 1e-9 {
		t.Errorf("Latency() = (%v, %v), want (1.41, true)", lat, ok)
	}
}

func TestLatency_BeforeFinish_ReturnsFalse(t *testing.T) {
	r, _ := New("x", 0, diamondDAG(t))
	if _, ok := r.Latency(); ok {
		t.Errorf("Latency() ok = true before finish")
	}
}
