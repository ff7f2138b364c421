package ports

import "context"

// Reloader tells connected browsers that files changed.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Reload notifies clients about the changed paths. It never blocks.
	Reload(paths ...string)
}

// Notifier shows desktop notifications.
type Notifier interface {
	// Notify shows msg without waiting for the notification to be displayed.
	Notify(ctx context.Context, title, msg string)
}
