// Package domain contains the core domain models of the asset task graph.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Graph is a registry of named task graph nodes. Nodes may point at each other
// with refs; Validate resolves them into plain nodes.
type Graph struct {
	nodes    map[InternedString]*Node
	order    []InternedString
	resolved map[InternedString]*Node
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[InternedString]*Node),
	}
}

// Add registers a node under the given name.
func (g *Graph) Add(name string, node *Node) error {
	if node == nil {
		return zerr.With(ErrNilNode, "name", name)
	}
	key := NewInternedString(name)
	if _, exists := g.nodes[key]; exists {
		return zerr.With(ErrNodeAlreadyExists, "name", name)
	}
	g.nodes[key] = node
	g.order = append(g.order, key)
	g.resolved = nil
	return nil
}

// Names returns the registered names in registration order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.order))
	for i, name := range g.order {
		names[i] = name.String()
	}
	return names
}

// Validate resolves all refs and checks every node.
// A node referencing its own name returns ErrSelfReference, longer loops ErrCycleDetected.
func (g *Graph) Validate() error {
	r := &graphResolver{
		graph:    g,
		state:    make(map[InternedString]int),
		resolved: make(map[InternedString]*Node, len(g.nodes)),
	}

	for _, name := range g.order {
		if _, err := r.visit(name); err != nil {
			return err
		}
	}

	for _, name := range g.order {
		if err := r.resolved[name].Validate(); err != nil {
			return zerr.With(err, "name", name.String())
		}
	}

	g.resolved = r.resolved
	return nil
}

// Node returns the resolved node registered under name.
func (g *Graph) Node(name string) (*Node, error) {
	if g.resolved == nil {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	node, ok := g.resolved[NewInternedString(name)]
	if !ok {
		return nil, zerr.With(ErrNodeNotFound, "name", name)
	}
	return node, nil
}

type graphResolver struct {
	graph    *Graph
	state    map[InternedString]int // 0: unvisited, 1: visiting, 2: resolved
	path     []InternedString
	resolved map[InternedString]*Node
}

func (r *graphResolver) visit(name InternedString) (*Node, error) {
	switch r.state[name] {
	case 2:
		return r.resolved[name], nil
	case 1:
		return nil, r.cycleError(name)
	}

	node, ok := r.graph.nodes[name]
	if !ok {
		return nil, zerr.With(ErrMissingReference, "ref", name.String())
	}

	r.state[name] = 1
	r.path = append(r.path, name)

	out, err := r.resolve(name, node)
	if err != nil {
		return nil, err
	}

	r.state[name] = 2
	r.path = r.path[:len(r.path)-1]
	r.resolved[name] = out
	return out, nil
}

// resolve rebuilds node with every ref replaced by its target.
// Subtrees without refs are returned as is.
func (r *graphResolver) resolve(owner InternedString, node *Node) (*Node, error) {
	if node == nil {
		return nil, zerr.With(ErrNilNode, "name", owner.String())
	}

	switch node.kind {
	case KindRef:
		if node.ref == owner {
			return nil, zerr.With(ErrSelfReference, "node", owner.String())
		}
		return r.visit(node.ref)
	case KindSequence, KindParallel:
		children := make([]*Node, len(node.children))
		changed := false
		for i, child := range node.children {
			out, err := r.resolve(owner, child)
			if err != nil {
				return nil, err
			}
			children[i] = out
			changed = changed || out != child
		}
		if !changed {
			return node, nil
		}
		return &Node{kind: node.kind, children: children}, nil
	default:
		return node, nil
	}
}

// cycleError constructs an error with cycle path metadata.
func (r *graphResolver) cycleError(name InternedString) error {
	start := 0
	for i, n := range r.path {
		if n == name {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(r.path)-start+1)
	for _, n := range r.path[start:] {
		parts = append(parts, n.String())
	}
	parts = append(parts, name.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}
