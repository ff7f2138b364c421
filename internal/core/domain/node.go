package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// NodeKind identifies the variant of a task graph node.
type NodeKind uint8

const (
	// KindLeaf runs a single task.
	KindLeaf NodeKind = iota
	// KindSequence runs its children one after another.
	KindSequence
	// KindParallel runs its children concurrently.
	KindParallel
	// KindRef points at a named node of a Graph.
	KindRef
)

// String returns the display name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindSequence:
		return "series"
	case KindParallel:
		return "parallel"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Node is an immutable task graph node.
type Node struct {
	kind     NodeKind
	task     *Task
	ref      InternedString
	children []*Node
}

// NewLeaf wraps a task in a leaf node.
func NewLeaf(task *Task) *Node {
	return &Node{kind: KindLeaf, task: task}
}

// NewSequence composes nodes that run in order.
func NewSequence(children ...*Node) *Node {
	return &Node{kind: KindSequence, children: slices.Clone(children)}
}

// NewParallel composes nodes that run concurrently.
func NewParallel(children ...*Node) *Node {
	return &Node{kind: KindParallel, children: slices.Clone(children)}
}

// NewRef creates a placeholder for a named node. Refs are resolved by Graph.Validate.
func NewRef(name string) *Node {
	return &Node{kind: KindRef, ref: NewInternedString(name)}
}

// Kind returns the node variant.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Task returns the task of a leaf node, nil otherwise.
func (n *Node) Task() *Task {
	return n.task
}

// Ref returns the referenced name of a ref node.
func (n *Node) Ref() string {
	return n.ref.String()
}

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Name returns the name used for the node in logs and traces.
func (n *Node) Name() string {
	switch n.kind {
	case KindLeaf:
		if n.task == nil {
			return "<anonymous>"
		}
		return n.task.Name.String()
	case KindRef:
		return n.ref.String()
	default:
		return "<" + n.kind.String() + ">"
	}
}

// Validate checks that the node can be executed: no nil nodes, every leaf has a
// task, no refs remain and no node contains itself.
func (n *Node) Validate() error {
	return validateNode(n, nil)
}

func validateNode(n *Node, ancestors []*Node) error {
	if n == nil {
		return ErrNilNode
	}
	if slices.Contains(ancestors, n) {
		return zerr.With(ErrSelfReference, "node", n.Name())
	}

	switch n.kind {
	case KindLeaf:
		if n.task == nil || n.task.Run == nil {
			return ErrMissingTask
		}
		return nil
	case KindRef:
		return zerr.With(ErrUnresolvedReference, "ref", n.ref.String())
	case KindSequence, KindParallel:
		ancestors = append(ancestors, n)
		for _, child := range n.children {
			if err := validateNode(child, ancestors); err != nil {
				return err
			}
		}
		return nil
	default:
		return zerr.With(ErrNilNode, "kind", n.kind.String())
	}
}
