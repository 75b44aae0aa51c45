package metrics

import (
	"github.com/agentic-fairsim/agentic-fairsim/resource"
)

// TimelineExport is the nested allocation-timeline structure intended
// for downstream visualisation: one entry per resource, each with a
// list of closed allocation intervals.
type TimelineExport struct {
	Resources []ResourceTimeline `json:"resources"`
}

// ResourceTimeline is the timeline for a single resource kind.
type ResourceTimeline struct {
	Type     string           `json:"type"`
	Timeline []IntervalExport `json:"timeline"`
}

// IntervalExport is one closed allocation interval, with each
// consuming tool's id mapped to its assigned share.
type IntervalExport struct {
	Start          float64            `json:"start"`
	End            float64            `json:"end"`
	TotalAllocated float64            `json:"total_allocated"`
	Allocations    map[string]float64 `json:"allocations"`
}

// Timeline finalises every still-open interval at the collector's
// last-recorded time (callers that want a specific end time should
// call Finalize explicitly beforehand) and returns the export shape.
func (c *Collector) Timeline() TimelineExport {
	if !c.ended {
		c.Finalize(c.currentTimeHint())
	}

	out := TimelineExport{Resources: make([]ResourceTimeline, 0, resource.NumKinds)}
	for k := resource.Kind(0); k < resource.NumKinds; k++ {
		rt := ResourceTimeline{Type: k.String()}
		for _, iv := range c.intervals[k] {
			var total float64
			allocs := make(map[string]float64, len(iv.Allocations))
			for id, share := range iv.Allocations {
				allocs[id.String()] = share
				total += share
			}
			rt.Timeline = append(rt.Timeline, IntervalExport{
				Start:          iv.Start,
				End:            iv.End,
				TotalAllocated: total,
				Allocations:    allocs,
			})
		}
		out.Resources = append(out.Resources, rt)
	}
	return out
}

// currentTimeHint returns the best available "now" for an implicit
// finalisation: the last snapshot time, or the simulation end/start if
// no snapshots were ever recorded.
func (c *Collector) currentTimeHint() float64 {
	if c.haveSnapshot {
		return c.lastSnapshotT
	}
	if c.ended {
		return c.simEnd
	}
	return c.simStart
}
