// Package metrics collects the three observed streams of a simulation
// run (completed requests, per-step snapshots, allocation intervals)
// and derives latency, throughput, and utilisation statistics plus a
// per-resource timeline export from them.
package metrics

import (
	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"github.com/agentic-fairsim/agentic-fairsim/tool"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type completionRecord struct {
	requestType string
	arrival     float64
	finish      float64
}

// Snapshot is one entry in the per-step snapshot stream: the current
// time, per-kind utilisation, and per-kind consumer count.
type Snapshot struct {
	Time        float64
	Utilisation [resource.NumKinds]float64
	Consumers   [resource.NumKinds]int
}

// Interval is one closed (or still-open, if End has not been set)
// allocation interval for a single resource kind.
type Interval struct {
	Start       float64
	End         float64
	open        bool
	Allocations map[uuid.UUID]float64
}

// Collector accumulates the completed-request, snapshot, and
// allocation-interval streams and derives statistics and a timeline
// export from them. It is a per-run object, passed explicitly by the
// kernel; there is no global collector.
type Collector struct {
	capacities *resource.Table

	snapshotEvery int
	stepsSeen     int

	completions    []completionRecord
	latencyByType  map[string][]float64
	latencyOverall []float64

	snapshots []Snapshot

	intervals [resource.NumKinds][]Interval

	simStart      float64
	simEnd        float64
	started       bool
	ended         bool
	lastSnapshotT float64
	haveSnapshot  bool
}

// NewCollector creates a Collector over capacities, the resource table
// snapshots report utilisation against.
func NewCollector(capacities *resource.Table) *Collector {
	return &Collector{
		capacities:    capacities,
		snapshotEvery: 1,
		latencyByType: make(map[string][]float64),
	}
}

// SnapshotEvery sets the sampling stride for the snapshot stream: a
// snapshot is recorded only on every nth step. Default is 1 (every
// step); callers running long horizons may widen this to reduce
// snapshot volume.
func (c *Collector) SnapshotEvery(n int) {
	if n < 1 {
		n = 1
	}
	c.snapshotEvery = n
}

// MarkStart records the simulation's start time exactly once, used as
// the denominator anchor for throughput.
func (c *Collector) MarkStart(now float64) {
	if c.started {
		return
	}
	c.simStart = now
	c.started = true
}

// Finalize closes every still-open allocation interval at now and
// records the simulation's end time. Safe to call after a cancelled
// run and safe to call more than once.
func (c *Collector) Finalize(now float64) {
	for k := range c.intervals {
		n := len(c.intervals[k])
		if n > 0 && c.intervals[k][n-1].open {
			c.intervals[k][n-1].End = now
			c.intervals[k][n-1].open = false
		}
	}
	c.simEnd = now
	c.ended = true
}

// RecordCompletion appends a completed request's latency to the
// completed-request stream, grouped by requestType.
func (c *Collector) RecordCompletion(requestType string, arrival, finish float64) {
	c.completions = append(c.completions, completionRecord{requestType, arrival, finish})
	lat := finish - arrival
	c.latencyByType[requestType] = append(c.latencyByType[requestType], lat)
	c.latencyOverall = append(c.latencyOverall, lat)
	logrus.Debugf("metrics: recorded completion type=%s latency=%v", requestType, lat)
}

// Snapshot records a point in the per-step snapshot stream: current
// time, per-kind utilisation (sum of assigned shares / capacity), and
// per-kind consumer counts. Subject to the SnapshotEvery stride.
func (c *Collector) Snapshot(now float64, active []*tool.Instance) {
	c.stepsSeen++
	if (c.stepsSeen-1)%c.snapshotEvery != 0 {
		return
	}

	var sums [resource.NumKinds]float64
	var consumers [resource.NumKinds]int
	for _, t := range active {
		for k := resource.Kind(0); k < resource.NumKinds; k++ {
			if t.HasWorkOn(k) {
				sums[k] += t.CurrentShare[k]
				consumers[k]++
			}
		}
	}

	var snap Snapshot
	snap.Time = now
	snap.Consumers = consumers
	for k := resource.Kind(0); k < resource.NumKinds; k++ {
		capacity := c.capacities.Capacity(k)
		if capacity <= 0 {
			snap.Utilisation[k] = 0
			continue
		}
		snap.Utilisation[k] = sums[k] / capacity
	}

	c.snapshots = append(c.snapshots, snap)
	c.lastSnapshotT = now
	c.haveSnapshot = true
}

// NotifyActiveSetChanged implements the allocation-interval stream:
// whenever the active set changes, the currently open interval for
// every kind is closed (End = now) and a new one is opened, capturing
// each still-consuming tool's current share.
func (c *Collector) NotifyActiveSetChanged(now float64, active []*tool.Instance) {
	var byKind [resource.NumKinds]map[uuid.UUID]float64
	for k := range byKind {
		byKind[k] = make(map[uuid.UUID]float64)
	}
	for _, t := range active {
		for k := resource.Kind(0); k < resource.NumKinds; k++ {
			if t.HasWorkOn(k) {
				byKind[k][t.ID] = t.CurrentShare[k]
			}
		}
	}

	for k := resource.Kind(0); k < resource.NumKinds; k++ {
		n := len(c.intervals[k])
		if n > 0 && c.intervals[k][n-1].open {
			c.intervals[k][n-1].End = now
			c.intervals[k][n-1].open = false
		}
		if len(byKind[k]) == 0 {
			continue
		}
		c.intervals[k] = append(c.intervals[k], Interval{
			Start:       now,
			open:        true,
			Allocations: byKind[k],
		})
	}
}
