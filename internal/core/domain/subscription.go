package domain

import "time"

// Subscription binds a set of path patterns to the task graph re-executed when they change.
type Subscription struct {
	// Name identifies the subscription in logs.
	Name string
	// Patterns are glob patterns relative to the project root. A leading "!" excludes.
	Patterns []string
	// Node is the graph executed for each debounced burst of matching changes.
	Node *Node
	// Debounce overrides the engine's debounce window when positive.
	Debounce time.Duration
}
