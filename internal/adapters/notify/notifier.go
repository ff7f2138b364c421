// Package notify shows desktop notifications through the platform's
// notification command.
package notify

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

// CommandFunc builds the notification command for a title and message.
// A nil command disables notifications.
type CommandFunc func(title, msg string) *domain.Command

// Notifier implements ports.Notifier. Notifications run in the background;
// the first failure is logged as a warning and later ones are ignored.
type Notifier struct {
	executor ports.Executor
	logger   ports.Logger
	command  CommandFunc

	wg       sync.WaitGroup
	warnOnce sync.Once
}

// NewNotifier creates a Notifier for the current platform.
func NewNotifier(executor ports.Executor, logger ports.Logger) *Notifier {
	return NewNotifierWithCommand(executor, logger, PlatformCommand(runtime.GOOS))
}

// NewNotifierWithCommand creates a Notifier using command.
func NewNotifierWithCommand(executor ports.Executor, logger ports.Logger, command CommandFunc) *Notifier {
	return &Notifier{executor: executor, logger: logger, command: command}
}

// Notify shows msg without waiting for the notification command to finish.
func (n *Notifier) Notify(ctx context.Context, title, msg string) {
	if n.command == nil {
		return
	}
	cmd := n.command(title, msg)
	if cmd == nil {
		return
	}

	n.wg.Go(func() {
		if err := n.executor.Execute(ctx, cmd, nil, io.Discard, io.Discard); err != nil {
			n.warnOnce.Do(func() {
				n.logger.Warn(fmt.Sprintf("desktop notifications unavailable: %v", err))
			})
		}
	})
}

// Wait blocks until all pending notifications finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// PlatformCommand returns the notification command for goos.
func PlatformCommand(goos string) CommandFunc {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return func(title, msg string) *domain.Command {
			return &domain.Command{Name: "notify-send", Args: []string{"--app-name=kiln", title, msg}}
		}
	case "darwin":
		return func(title, msg string) *domain.Command {
			script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(msg), strconv.Quote(title))
			return &domain.Command{Name: "osascript", Args: []string{"-e", script}}
		}
	default:
		return nil
	}
}
