package kernel

import (
	"fmt"

	"github.com/agentic-fairsim/agentic-fairsim/eventqueue"
	"github.com/agentic-fairsim/agentic-fairsim/request"
	"github.com/sirupsen/logrus"
)

// Schedule enqueues req's arrival as an event in the kernel's own
// event queue, to be admitted when the simulation clock reaches
// req.ArrivalTime. This is how a workload generator hands off a batch
// of requests known up front (or generated incrementally) without
// having to interleave explicit Run/Admit calls per arrival.
func (s *Simulator) Schedule(req *request.Request) error {
	if req == nil {
		return fmt.Errorf("kernel: cannot schedule a nil request")
	}
	s.queue.Push(&eventqueue.Event{
		Timestamp: req.ArrivalTime,
		Priority:  -1, // arrivals sort before tool-start events at an equal timestamp
		Request:   req,
	})
	return nil
}

// Admit registers req with the kernel and enqueues start events for
// its entry tools immediately, using the simulator's current clock as
// both the request's arrival and start time. Use this for requests
// that are already present at the start of a run; use Schedule for
// requests with a future arrival time.
func (s *Simulator) Admit(req *request.Request) error {
	if req == nil {
		return fmt.Errorf("kernel: cannot admit a nil request")
	}
	req.ArrivalTime = s.Clock
	return s.admitRequest(req, s.Clock)
}

// admitRequest registers the request with the kernel, sets its start
// time to now, and enqueues a start event at now for every root
// (entry) tool in its DAG.
func (s *Simulator) admitRequest(req *request.Request, now float64) error {
	if _, exists := s.requests[req.ID]; exists {
		return fmt.Errorf("kernel: request %s already admitted", req.ID)
	}

	s.requests[req.ID] = req
	req.MarkStarted(now)

	roots := req.Roots()
	if len(roots) == 0 {
		return fmt.Errorf("kernel: request %s has no entry tools", req.ID)
	}
	for _, name := range roots {
		s.queue.Push(&eventqueue.Event{
			Timestamp: now,
			Priority:  0,
			NodeName:  name,
			Tool:      req.Tools[name],
		})
	}
	logrus.Debugf("kernel: request %s (%s) admitted at t=%v with %d root tool(s)",
		req.Type, req.ID, now, len(roots))
	return nil
}

// Requests returns every request admitted so far, keyed by ID string.
// The returned map is a copy; callers must not rely on it reflecting
// later admissions.
func (s *Simulator) Requests() map[string]*request.Request {
	out := make(map[string]*request.Request, len(s.requests))
	for id, r := range s.requests {
		out[id.String()] = r
	}
	return out
}
