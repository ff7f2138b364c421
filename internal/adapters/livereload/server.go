// Package livereload serves the project over HTTP and pushes reload events
// to connected browsers.
package livereload

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/r3labs/sse/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Reloader = (*Server)(nil)

const (
	// EventsPath is the server-sent events endpoint.
	EventsPath = domain.LiveReloadPrefix + "events"
	// ClientPath serves the browser client script.
	ClientPath = domain.LiveReloadPrefix + "client.js"

	// EventReload asks clients for a full page reload.
	EventReload = "reload"
	// EventCSS asks clients to refresh their style sheets only.
	EventCSS = "css"

	stream          = "reload"
	streamBuffer    = 8
	retryMillis     = "1000"
	shutdownTimeout = 5 * time.Second
)

// Server is the live reload server. Reload is safe to call at any time and
// does nothing while no browser is connected.
type Server struct {
	logger  ports.Logger
	events  *sse.Server
	clients atomic.Int64
}

// NewServer creates a Server.
func NewServer(logger ports.Logger) *Server {
	s := &Server{logger: logger}
	s.events = sse.NewWithCallback(
		func(string, *sse.Subscriber) { s.clients.Add(1) },
		func(string, *sse.Subscriber) { s.clients.Add(-1) },
	)
	s.events.AutoReplay = false
	s.events.BufferSize = streamBuffer
	s.events.CreateStream(stream)
	return s
}

// Start serves on env.Port until ctx is cancelled. With env.Host set the
// server proxies to that host, otherwise it serves files from baseDir.
func (s *Server) Start(ctx context.Context, env domain.Environment, baseDir string) error {
	handler, err := s.Handler(env, baseDir)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort("", strconv.Itoa(env.Port))
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	mode := "serving " + baseDir
	if env.Proxying() {
		mode = "proxying " + env.Host
	}
	s.logger.Info(fmt.Sprintf("live reload on http://localhost:%d (%s)", env.Port, mode))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}

// Handler builds the HTTP handler: the live reload endpoints plus either a
// reverse proxy to env.Host or a static file server rooted at baseDir.
func (s *Server) Handler(env domain.Environment, baseDir string) (http.Handler, error) {
	var site http.Handler
	if env.Proxying() {
		proxy, err := newProxy(env.Host)
		if err != nil {
			return nil, err
		}
		site = proxy
	} else {
		site = injectScript(http.FileServer(http.Dir(filepath.Clean(baseDir))))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+EventsPath, s.serveEvents)
	mux.HandleFunc("GET "+ClientPath, serveClient)
	mux.Handle("/", site)
	return mux, nil
}

// Reload broadcasts a reload event for paths. When every path is a style
// sheet the event only refreshes style sheets. The event is dropped when the
// stream is backed up.
func (s *Server) Reload(paths ...string) {
	event := []byte(EventFor(paths))
	s.events.TryPublish(stream, &sse.Event{
		Event: event,
		Data:  event,
		Retry: []byte(retryMillis),
	})
}

// Clients returns the number of connected browsers.
func (s *Server) Clients() int {
	return int(s.clients.Load())
}

// EventFor returns the event name sent for a change of paths.
func EventFor(paths []string) string {
	if len(paths) == 0 {
		return EventReload
	}
	for _, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".css") {
			return EventReload
		}
	}
	return EventCSS
}

func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	r = r.Clone(r.Context())
	query := r.URL.Query()
	query.Set("stream", stream)
	r.URL.RawQuery = query.Encode()
	s.events.ServeHTTP(w, r)
}
