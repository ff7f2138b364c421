// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// messager describes an error that can report its own message without the chain.
// zerr.Error satisfies it.
type messager interface {
	Message() string
}

// metadataCarrier describes an error that carries structured key-value context.
type metadataCarrier interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// rebuild swaps the slog handler. Must be called with l.mu held or before l is shared.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its chain of causes.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// errorEntry is one line of a rendered error chain.
type errorEntry struct {
	level   int
	message string
	meta    map[string]any
}

// collectErrorEntries flattens err into entries. Causes of a plain chain share
// one level; branches of a joined error are nested one level deeper.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	collect(&entries, err, 0, 0)
	return entries
}

func collect(entries *[]errorEntry, err error, headLevel, chainLevel int) {
	level := headLevel
	pending := map[string]any{}

	add := func(msg string) {
		*entries = append(*entries, errorEntry{level: level, message: msg, meta: pending})
		pending = map[string]any{}
		level = chainLevel
	}

	for current := err; current != nil; {
		if m, ok := current.(metadataCarrier); ok {
			for k, v := range m.Metadata() {
				pending[k] = v
			}
		}

		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			switch {
			case len(*entries) == 0:
				add("multiple errors occurred")
			case len(pending) > 0:
				last := &(*entries)[len(*entries)-1]
				last.meta = mergeMeta(last.meta, pending)
			}
			for _, branch := range joined.Unwrap() {
				collect(entries, branch, chainLevel+1, chainLevel+2)
			}
			return
		}

		m, ok := current.(messager)
		if !ok {
			add(current.Error())
			return
		}

		if m.Message() != "" {
			add(m.Message())
		}
		current = errors.Unwrap(current)
	}

	if len(pending) > 0 && len(*entries) > 0 {
		last := &(*entries)[len(*entries)-1]
		last.meta = mergeMeta(last.meta, pending)
	}
}

func mergeMeta(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// formatErrorEntries renders entries as an "Error:" header followed by causes.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		text := entry.message + formatMeta(entry.meta)
		parts := strings.Split(text, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+parts[0])
			for _, line := range parts[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		indent := "    " + strings.Repeat("  ", entry.level)
		lines = append(lines, indent+"→ "+parts[0])
		for _, line := range parts[1:] {
			lines = append(lines, indent+"  "+line)
		}
	}

	return strings.Join(lines, "\n")
}

// formatMeta renders metadata as " (k=v, ...)" sorted by key.
func formatMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, meta[k])
	}
	return " (" + strings.Join(pairs, ", ") + ")"
}
