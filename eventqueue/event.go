// Package eventqueue implements the min-heap of pending events: a
// priority queue ordered by (timestamp ascending, priority ascending,
// insertion order ascending). It holds both request-arrival events
// and tool-start events in a single stream.
package eventqueue

import (
	"github.com/agentic-fairsim/agentic-fairsim/request"
	"github.com/agentic-fairsim/agentic-fairsim/tool"
)

// Event is either a tool-start event (Tool set, NodeName naming the
// DAG node) or a request-arrival event (Request set, Tool nil).
// Priority breaks ties between events with identical timestamps; among
// equal priorities, insertion order (seq) breaks ties deterministically.
type Event struct {
	Timestamp float64
	Priority  int64
	NodeName  string
	Tool      *tool.Instance
	Request   *request.Request

	seq uint64
}
