package domain

import "context"

// TaskFunc is the body of a task. It receives the resolved environment on every invocation.
type TaskFunc func(ctx context.Context, env Environment) error

// Task is a named unit of work. It holds no state between invocations.
type Task struct {
	Name InternedString
	Run  TaskFunc
}

// NewTask creates a task with the given name and body.
func NewTask(name string, run TaskFunc) *Task {
	return &Task{
		Name: NewInternedString(name),
		Run:  run,
	}
}
