// Package request holds the Request aggregate: a DAG template bound to
// one concrete tool-instance table, owned by the kernel for the
// duration of a run.
package request

import (
	"fmt"

	"github.com/agentic-fairsim/agentic-fairsim/dag"
	"github.com/agentic-fairsim/agentic-fairsim/tool"
	"github.com/google/uuid"
)

// Request is a unique identifier, a request-type tag used for metric
// grouping, an arrival timestamp, a reference to a validated DAG
// template, and a mapping from node name to tool instance (one per
// node, created at request creation).
//
// Invariant: the request is completed iff every one of its tool
// instances is completed; its finish timestamp equals the maximum
// finish timestamp across its tools.
type Request struct {
	ID          uuid.UUID
	Type        string
	ArrivalTime float64
	DAG         *dag.Template
	Tools       map[string]*tool.Instance

	StartTime  float64
	FinishTime float64
	started    bool
	finished   bool
}

// New creates a Request over dagTemplate, which must already have
// passed dag.Validate. A tool.Instance is created for every node.
func New(requestType string, arrivalTime float64, dagTemplate *dag.Template) (*Request, error) {
	if dagTemplate == nil || len(dagTemplate.Nodes) == 0 {
		return nil, fmt.Errorf("request: dag template must not be empty")
	}
	if err := dag.Validate(dagTemplate); err != nil {
		return nil, err
	}

	id := uuid.New()
	r := &Request{
		ID:          id,
		Type:        requestType,
		ArrivalTime: arrivalTime,
		DAG:         dagTemplate,
		Tools:       make(map[string]*tool.Instance, len(dagTemplate.Nodes)),
	}
	for _, name := range dagTemplate.NodeNames() {
		node := dagTemplate.Nodes[name]
		r.Tools[name] = tool.NewInstance(id, name, node.Template)
	}
	return r, nil
}

// Roots returns the node names with no predecessors (entry tools).
func (r *Request) Roots() []string {
	return r.DAG.Roots()
}

// Dependents returns the node names that directly depend on node.
func (r *Request) Dependents(node string) []string {
	return r.DAG.Dependents(node)
}

// CanStart reports whether every predecessor of node is Completed.
func (r *Request) CanStart(node string) bool {
	for _, p := range r.DAG.Predecessors(node) {
		if r.Tools[p].Status != tool.Completed {
			return false
		}
	}
	return true
}

// MarkStarted records the request's start time on first admission.
// Subsequent calls are no-ops.
func (r *Request) MarkStarted(now float64) {
	if r.started {
		return
	}
	r.StartTime = now
	r.started = true
}

// IsCompleted reports whether every tool instance has completed.
func (r *Request) IsCompleted() bool {
	for _, t := range r.Tools {
		if t.Status != tool.Completed {
			return false
		}
	}
	return true
}

// MarkFinished sets the request's finish time to the maximum finish
// timestamp across its tools and marks it finished. Callers must only
// call this once IsCompleted() holds.
func (r *Request) MarkFinished() {
	var max float64
	for _, t := range r.Tools {
		if t.FinishTime > max {
			max = t.FinishTime
		}
	}
	r.FinishTime = max
	r.finished = true
}

// Finished reports whether MarkFinished has been called.
func (r *Request) Finished() bool { return r.finished }

// Latency returns FinishTime - ArrivalTime and true, or (0, false) if
// the request has not finished yet.
func (r *Request) Latency() (float64, bool) {
	if !r.finished {
		return 0, false
	}
	return r.FinishTime - r.ArrivalTime, true
}
