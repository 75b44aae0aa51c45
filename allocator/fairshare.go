// Package allocator implements the egalitarian fair-share allocator
// and next-completion oracle: every consumer of a resource kind gets
// capacity/consumers, independent across kinds; the next completion
// is the minimum, over all (tool, kind) pairs with positive remaining
// work and positive share, of now + remaining/share.
package allocator

import (
	"math"

	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"github.com/agentic-fairsim/agentic-fairsim/tool"
)

// Allocator computes per-resource fair shares against a fixed capacity
// table. It holds no active-set state of its own: callers pass the
// active set explicitly on every call.
type Allocator struct {
	capacities *resource.Table
}

// New creates an Allocator over capacities.
func New(capacities *resource.Table) *Allocator {
	return &Allocator{capacities: capacities}
}

// Recompute assigns every active instance's CurrentShare vector from
// scratch: capacity/consumers for each kind it still has work on, zero
// otherwise. Must be called whenever the active set is mutated or any
// remaining-work component crosses epsilon; recomputing fully rather
// than caching keeps shares correct on every such mutation.
func (a *Allocator) Recompute(active []*tool.Instance) {
	var consumers [resource.NumKinds]int
	for _, t := range active {
		for k := resource.Kind(0); k < resource.NumKinds; k++ {
			if t.HasWorkOn(k) {
				consumers[k]++
			}
		}
	}

	for _, t := range active {
		for k := resource.Kind(0); k < resource.NumKinds; k++ {
			if t.HasWorkOn(k) && consumers[k] > 0 {
				t.CurrentShare[k] = a.capacities.Capacity(k) / float64(consumers[k])
			} else {
				t.CurrentShare[k] = 0
			}
		}
	}
}

// NextCompletion returns the earliest time at which some active tool
// finishes some resource axis, given shares already computed by
// Recompute. Returns +Inf if active is empty or no consumer has a
// positive share. Instances with no remaining work on any kind are
// skipped; the kernel removes them from the active set in the same
// step their work runs out, before the next oracle call.
func (a *Allocator) NextCompletion(now float64, active []*tool.Instance) float64 {
	min := math.Inf(1)
	for _, t := range active {
		for k := resource.Kind(0); k < resource.NumKinds; k++ {
			remaining := t.Remaining[k]
			if remaining <= tool.Epsilon {
				continue
			}
			share := t.CurrentShare[k]
			if share <= 0 {
				continue
			}
			done := now + remaining/share
			if done < min {
				min = done
			}
		}
	}
	return min
}

// Advance subtracts share*dt (clamped at zero) from every active
// tool's remaining-work components that still have work, and returns
// the subset of active that is now IsCompleted(). Every such tool must
// be finalised before any dependent start events are released.
// Advance itself does not mutate Status; that is the kernel's
// responsibility.
func Advance(active []*tool.Instance, dt float64) []*tool.Instance {
	var completed []*tool.Instance
	for _, t := range active {
		for k := resource.Kind(0); k < resource.NumKinds; k++ {
			if !t.HasWorkOn(k) {
				continue
			}
			t.Remaining[k] -= t.CurrentShare[k] * dt
			if t.Remaining[k] < 0 {
				t.Remaining[k] = 0
			}
		}
		if t.IsCompleted() {
			completed = append(completed, t)
		}
	}
	return completed
}

// Conserved reports whether, for every resource kind, the sum of
// active shares does not exceed capacity (within epsilon). Exposed for
// conservation checks in tests.
func Conserved(capacities *resource.Table, active []*tool.Instance) bool {
	var sums [resource.NumKinds]float64
	for _, t := range active {
		for k := resource.Kind(0); k < resource.NumKinds; k++ {
			sums[k] += t.CurrentShare[k]
		}
	}
	for k := resource.Kind(0); k < resource.NumKinds; k++ {
		if sums[k] > capacities.Capacity(k)+tool.Epsilon {
			return false
		}
	}
	return true
}
