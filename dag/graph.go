// Package dag builds and validates directed acyclic graphs of tool
// templates. A graph must have a single entry node and every node
// reachable from it before it can back a request.
package dag

import (
	"fmt"
	"sort"

	"github.com/agentic-fairsim/agentic-fairsim/tool"
)

// Node is one tool template placed in a Template's graph, together
// with its direct predecessor and successor node names.
type Node struct {
	Name         string
	Template     tool.Template
	predecessors map[string]struct{}
	successors   map[string]struct{}
}

// Template is a DAG of tool templates. Build one with NewTemplate and
// AddNode, then pass it to Validate before use.
type Template struct {
	Nodes map[string]*Node
	// order preserves insertion order for deterministic iteration.
	order []string
}

// NewTemplate creates an empty DAG template.
func NewTemplate() *Template {
	return &Template{Nodes: make(map[string]*Node)}
}

// AddNode adds a node named name carrying tmpl, depending on every
// node listed in predecessors (which must already have been added).
func (t *Template) AddNode(name string, tmpl tool.Template, predecessors ...string) error {
	if name == "" {
		return fmt.Errorf("dag: node name must not be empty")
	}
	if _, exists := t.Nodes[name]; exists {
		return fmt.Errorf("dag: duplicate node %q", name)
	}
	n := &Node{
		Name:         name,
		Template:     tmpl,
		predecessors: make(map[string]struct{}),
		successors:   make(map[string]struct{}),
	}
	for _, p := range predecessors {
		pred, ok := t.Nodes[p]
		if !ok {
			return fmt.Errorf("dag: predecessor %q of %q not found", p, name)
		}
		n.predecessors[p] = struct{}{}
		pred.successors[name] = struct{}{}
	}
	t.Nodes[name] = n
	t.order = append(t.order, name)
	return nil
}

// Roots returns every node with no predecessors, in insertion order.
// Validate rejects graphs with more than one root, but admission
// iterates whatever Roots returns, so a caller that relaxes validation
// gets working multi-root admission for free.
func (t *Template) Roots() []string {
	var roots []string
	for _, name := range t.order {
		if len(t.Nodes[name].predecessors) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// Predecessors returns the direct predecessor names of node, sorted
// for determinism.
func (t *Template) Predecessors(node string) []string {
	n, ok := t.Nodes[node]
	if !ok {
		return nil
	}
	return sortedKeys(n.predecessors)
}

// Dependents returns the direct successor names of node, sorted for
// determinism.
func (t *Template) Dependents(node string) []string {
	n, ok := t.Nodes[node]
	if !ok {
		return nil
	}
	return sortedKeys(n.successors)
}

// NodeNames returns every node name in insertion order.
func (t *Template) NodeNames() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
