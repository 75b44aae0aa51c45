package kernel

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/agentic-fairsim/agentic-fairsim/allocator"
	"github.com/agentic-fairsim/agentic-fairsim/eventqueue"
	"github.com/agentic-fairsim/agentic-fairsim/metrics"
	"github.com/agentic-fairsim/agentic-fairsim/request"
	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"github.com/agentic-fairsim/agentic-fairsim/tool"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Simulator is the discrete-event simulation loop. It owns the event
// queue, the active set, the set of completed requests, the step
// counter, and the metrics collector for the duration of a run;
// nothing else mutates them while Run is in flight.
type Simulator struct {
	Resources *resource.Table
	Metrics   *metrics.Collector

	alloc  *allocator.Allocator
	queue  *eventqueue.Queue
	active map[uuid.UUID]*tool.Instance

	requests  map[uuid.UUID]*request.Request
	Completed []*request.Request

	Clock float64
	Steps int
}

// New creates a Simulator over the given resource capacities, backed
// by collector for metrics.
func New(capacities *resource.Table, collector *metrics.Collector) *Simulator {
	return &Simulator{
		Resources: capacities,
		Metrics:   collector,
		alloc:     allocator.New(capacities),
		queue:     eventqueue.New(),
		active:    make(map[uuid.UUID]*tool.Instance),
		requests:  make(map[uuid.UUID]*request.Request),
	}
}

// activeSlice snapshots the active set as a slice sorted by tool ID,
// so that iteration order never depends on Go's randomised map
// iteration order. Required for bit-for-bit reproducible runs, since
// the active set is stored as a map for O(1) removal.
func (s *Simulator) activeSlice() []*tool.Instance {
	out := make([]*tool.Instance, 0, len(s.active))
	for _, t := range s.active {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// recomputeAndTrack recomputes fair shares over the current active set
// and records the resulting allocation as a new timeline interval.
// Called on every active-set mutation (a tool starts or fully
// completes) and on every completion-branch step, since a resource
// axis crossing epsilon changes that kind's consumer count even when
// the owning tool stays active on other axes. The interval stream is
// refreshed on the same trigger so recorded allocations always match
// the shares actually in force.
func (s *Simulator) recomputeAndTrack() {
	active := s.activeSlice()
	s.alloc.Recompute(active)
	s.Metrics.NotifyActiveSetChanged(s.Clock, active)
}

// startTool handles a popped tool-start event: mark the tool Running,
// initialise its work, add it to the active set, and recompute shares.
// It then checks the zero-load boundary case: a tool with all-zero
// loads completes at its start time and releases dependents
// immediately in the same step, since the completion oracle would
// never otherwise discover it (it has no resource axis with positive
// remaining work).
func (s *Simulator) startTool(ev *eventqueue.Event) {
	t := ev.Tool
	req := s.requests[t.RequestID]
	if req == nil || !req.CanStart(t.NodeName) {
		panic(fmt.Errorf("%w: tool %q cannot start, predecessors unfinished", ErrDependencyViolation, t.NodeName))
	}

	t.Start(s.Clock)
	s.active[t.ID] = t
	logrus.Debugf("kernel: tool %s (%s) started at t=%v", t.NodeName, t.ID, s.Clock)

	s.recomputeAndTrack()
	s.finalizeAndRelease([]*tool.Instance{t})
}

// advanceAndFinalize credits elapsed progress: subtract share*dt from
// every active tool's remaining work (clamped at zero),
// recompute shares (an axis may have crossed epsilon even if no tool
// fully completed), then finalise every tool whose IsCompleted() now
// holds. dt is the elapsed time since the active set's shares were
// last valid; a no-op when the active set is empty.
func (s *Simulator) advanceAndFinalize(dt float64) {
	completed := allocator.Advance(s.activeSlice(), dt)
	s.recomputeAndTrack()
	s.finalizeAndRelease(completed)
}

// finalizeAndRelease marks every IsCompleted() candidate Completed,
// removes it from the active set, and once every candidate in this
// batch has been finalised, releases their dependents. Finalising the
// whole batch before releasing any dependent keeps simultaneous
// completions a single atomic transition, so ordering among
// zero-duration chains stays deterministic.
func (s *Simulator) finalizeAndRelease(candidates []*tool.Instance) {
	var justCompleted []*tool.Instance
	for _, t := range candidates {
		if !t.IsCompleted() {
			continue
		}
		t.Finish(s.Clock)
		delete(s.active, t.ID)
		justCompleted = append(justCompleted, t)
		logrus.Debugf("kernel: tool %s (%s) completed at t=%v", t.NodeName, t.ID, s.Clock)
	}
	if len(justCompleted) == 0 {
		return
	}
	s.releaseDependents(justCompleted)
}

// releaseDependents is the DAG dependency gate: for every just
// completed tool, enqueue a start event for every successor whose
// predecessors are all completed and whose status is pending; and for
// every request that is now fully completed, record its finish time
// and notify the metrics collector.
//
// A dependent with more than one predecessor (e.g. the diamond's D,
// fed by both B and C) can appear once per predecessor in
// justCompleted within the same batch; releasedNode dedupes so it is
// only enqueued once.
func (s *Simulator) releaseDependents(justCompleted []*tool.Instance) {
	type releasedNode struct {
		request uuid.UUID
		node    string
	}
	pushed := make(map[releasedNode]bool)
	touchedRequests := make(map[uuid.UUID]*request.Request, len(justCompleted))

	for _, t := range justCompleted {
		req := s.requests[t.RequestID]
		touchedRequests[t.RequestID] = req

		for _, depName := range req.Dependents(t.NodeName) {
			key := releasedNode{t.RequestID, depName}
			if pushed[key] {
				continue
			}
			dep := req.Tools[depName]
			if dep.Status == tool.Pending && req.CanStart(depName) {
				pushed[key] = true
				s.queue.Push(&eventqueue.Event{
					Timestamp: s.Clock,
					Priority:  0,
					NodeName:  depName,
					Tool:      dep,
				})
			}
		}
	}

	orderedIDs := make([]uuid.UUID, 0, len(touchedRequests))
	for id := range touchedRequests {
		orderedIDs = append(orderedIDs, id)
	}
	sort.Slice(orderedIDs, func(i, j int) bool {
		return orderedIDs[i].String() < orderedIDs[j].String()
	})

	for _, id := range orderedIDs {
		req := touchedRequests[id]
		if req.IsCompleted() && !req.Finished() {
			req.MarkFinished()
			s.Completed = append(s.Completed, req)
			s.Metrics.RecordCompletion(req.Type, req.ArrivalTime, req.FinishTime)
			logrus.Debugf("kernel: request %s (%s) completed at t=%v latency=%v",
				req.Type, req.ID, req.FinishTime, req.FinishTime-req.ArrivalTime)
		}
	}
}

// Run advances the simulator until the event queue empties with no
// active tools, the step counter reaches maxSteps (a negative maxSteps
// means unlimited), or current time exceeds until. ctx is checked once
// per iteration for cooperative cancellation of the outer goroutine;
// it may be nil. Run never panics on workload shape, only on the
// programmer-misuse error classes (DependencyViolation, EmptyQueue).
func (s *Simulator) Run(ctx context.Context, until float64, maxSteps int) (*metrics.Summary, error) {
	s.Metrics.MarkStart(s.Clock)
	logrus.Infof("kernel: run starting at t=%v until=%v maxSteps=%v", s.Clock, until, maxSteps)

	for {
		if maxSteps >= 0 && s.Steps >= maxSteps {
			break
		}
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				logrus.Warnf("kernel: run cancelled: %v", err)
				summary := s.Metrics.Summarize()
				return &summary, err
			}
		}
		if s.Clock > until && len(s.active) == 0 {
			break
		}

		tNextStart := math.Inf(1)
		if peek := s.queue.Peek(); peek != nil {
			tNextStart = peek.Timestamp
		}
		tNextDone := s.alloc.NextCompletion(s.Clock, s.activeSlice())

		tNext := math.Min(tNextStart, tNextDone)
		if math.IsInf(tNext, 1) || tNext > until {
			break
		}

		prevTime := s.Clock
		s.Clock = tNext
		dt := s.Clock - prevTime

		// Credit every active tool with the work done over [prevTime,
		// Clock] before handling whatever defines this instant. A
		// request arrival or tool start can itself be the event that
		// advances time (tNext == tNextStart < tNextDone), and the
		// active set's remaining work must stay reconciled to the
		// current clock regardless of which branch triggered the
		// advance.
		if dt > 0 {
			s.advanceAndFinalize(dt)
		}

		if tNext == tNextStart {
			ev, err := s.queue.Pop()
			if err != nil {
				panic(fmt.Errorf("kernel: %w", err))
			}
			if ev.Request != nil {
				if err := s.admitRequest(ev.Request, s.Clock); err != nil {
					panic(fmt.Errorf("kernel: %w", err))
				}
			} else {
				s.startTool(ev)
			}
		}

		s.Metrics.Snapshot(s.Clock, s.activeSlice())
		s.Steps++
	}

	s.Metrics.Finalize(s.Clock)
	logrus.Infof("kernel: run stopped at t=%v steps=%v completed=%d", s.Clock, s.Steps, len(s.Completed))
	summary := s.Metrics.Summarize()
	return &summary, nil
}
