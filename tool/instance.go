package tool

import (
	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"github.com/google/uuid"
)

// Status is a tool instance's position in its lifecycle.
type Status int

const (
	Pending Status = iota
	Running
	Completed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Instance is the runtime projection of a Template for one request.
// It holds a stable identifier, a back-reference to the owning request
// by id (not by pointer, to avoid an ownership cycle between Request
// and Instance), a lifecycle status, optional start/finish timestamps,
// a remaining-work vector, and the allocator's most recent share
// assignment.
//
// Invariants: remaining-work components are monotonically
// non-increasing once Running; once every component reaches zero
// (within Epsilon) Status transitions to Completed atomically with
// the resource release performed by the kernel.
type Instance struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	NodeName  string

	Template Template
	Status   Status

	StartTime  float64
	FinishTime float64
	started    bool
	finished   bool

	Remaining    [resource.NumKinds]float64
	CurrentShare [resource.NumKinds]float64
}

// NewInstance creates a Pending tool instance for nodeName within
// requestID, carrying tmpl's workload. Remaining work is not
// initialised until InitializeWork is called at schedule time.
func NewInstance(requestID uuid.UUID, nodeName string, tmpl Template) *Instance {
	return &Instance{
		ID:        uuid.New(),
		RequestID: requestID,
		NodeName:  nodeName,
		Template:  tmpl,
		Status:    Pending,
	}
}

// InitializeWork copies the template's load values into the
// remaining-work vector. Required before the instance is first
// scheduled (entered into the active set).
func (i *Instance) InitializeWork() {
	i.Remaining = i.Template.Loads()
}

// HasWorkOn reports whether the instance still has work to do on kind,
// i.e. remaining[kind] > Epsilon.
func (i *Instance) HasWorkOn(k resource.Kind) bool {
	if k < 0 || int(k) >= int(resource.NumKinds) {
		return false
	}
	return i.Remaining[k] > Epsilon
}

// IsCompleted reports whether remaining work is exhausted (within
// Epsilon) on every resource kind.
func (i *Instance) IsCompleted() bool {
	for k := range i.Remaining {
		if i.Remaining[k] > Epsilon {
			return false
		}
	}
	return true
}

// Start marks the instance Running, records its start timestamp, and
// initialises its remaining-work vector from its template. Callers
// must not call Start twice.
func (i *Instance) Start(now float64) {
	i.Status = Running
	i.StartTime = now
	i.started = true
	i.InitializeWork()
}

// Finish marks the instance Completed and records its finish timestamp.
func (i *Instance) Finish(now float64) {
	i.Status = Completed
	i.FinishTime = now
	i.finished = true
}

// Started reports whether Start has been called.
func (i *Instance) Started() bool { return i.started }

// Finished reports whether Finish has been called.
func (i *Instance) Finished() bool { return i.finished }
