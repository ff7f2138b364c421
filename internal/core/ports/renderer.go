package ports

import "time"

// Renderer presents task lifecycle events to the user.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnTaskStart is called when a task graph node begins execution.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskComplete is called when a task graph node finishes.
	// err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
