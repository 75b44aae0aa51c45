package config

import (
	"fmt"

	"github.com/agentic-fairsim/agentic-fairsim/dag"
	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"github.com/agentic-fairsim/agentic-fairsim/tool"
)

// BuildDAG turns a WorkloadEntry's on-disk node list into a validated
// dag.Template, resolving predecessor names in the order given (so a
// node's predecessors must be listed earlier in Nodes).
func (w WorkloadEntry) BuildDAG() (*dag.Template, error) {
	g := dag.NewTemplate()
	for _, n := range w.Nodes {
		loads := make(map[resource.Kind]float64, len(n.Loads))
		for name, v := range n.Loads {
			kind, ok := resource.ParseKind(name)
			if !ok {
				return nil, fmt.Errorf("config: node %q: unknown resource kind %q", n.Name, name)
			}
			loads[kind] = v
		}
		tmpl, err := tool.NewTemplate(loads)
		if err != nil {
			return nil, fmt.Errorf("config: node %q: %w", n.Name, err)
		}
		if err := g.AddNode(n.Name, tmpl, n.Predecessors...); err != nil {
			return nil, fmt.Errorf("config: node %q: %w", n.Name, err)
		}
	}
	if err := dag.Validate(g); err != nil {
		return nil, fmt.Errorf("config: workload %q: %w", w.RequestType, err)
	}
	return g, nil
}
