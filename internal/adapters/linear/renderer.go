// Package linear renders task lifecycle events as chronological log lines.
package linear

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with one line per task start and finish:
//
//	[12:01:02] Starting 'build_css'...
//	[12:01:03] Finished 'build_css' after 812 ms
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	output *termenv.Output
	json   *slog.Logger
	tasks  map[string]taskState // spanID -> task state
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a renderer writing to w. With ci set, plain ANSI colors
// are used. A nil w writes to stderr.
func NewRenderer(w io.Writer, ci bool) *Renderer {
	if w == nil {
		w = os.Stderr
	}

	out := output.New(w)
	if ci {
		out = output.NewCI(w)
	}

	return &Renderer{
		w:      w,
		output: out,
		tasks:  make(map[string]taskState),
	}
}

// SetJSON switches to one JSON object per event.
func (r *Renderer) SetJSON(enable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.json = nil
	if enable {
		r.json = slog.New(slog.NewJSONHandler(r.w, nil))
	}
}

// OnTaskStart prints a task start line.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = taskState{name: name, startTime: startTime}

	if r.json != nil {
		r.json.Info("task started", "task", name)
		return
	}

	_, _ = fmt.Fprintf(r.w, "%s Starting '%s'...\n", r.timestamp(startTime), r.taskName(name))
}

// OnTaskComplete prints a task finish or failure line.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	duration := endTime.Sub(task.startTime)

	if r.json != nil {
		if err != nil {
			r.json.Error("task errored", "task", task.name, "duration_ms", duration.Milliseconds())
			return
		}
		r.json.Info("task finished", "task", task.name, "duration_ms", duration.Milliseconds())
		return
	}

	elapsed := r.output.String(FormatDuration(duration)).Foreground(termenv.RGBColor(string(style.Ember))).String()
	if err != nil {
		_, _ = fmt.Fprintf(r.w, "%s %s '%s' errored after %s\n",
			r.timestamp(endTime),
			r.output.String(style.Cross).Foreground(termenv.ANSIRed).String(),
			r.taskName(task.name),
			elapsed)
		return
	}

	_, _ = fmt.Fprintf(r.w, "%s Finished '%s' after %s\n", r.timestamp(endTime), r.taskName(task.name), elapsed)
}

func (r *Renderer) timestamp(t time.Time) string {
	return r.output.String("[" + t.Format(time.TimeOnly) + "]").Faint().String()
}

func (r *Renderer) taskName(name string) string {
	return r.output.String(name).Foreground(termenv.RGBColor(string(style.Cyan))).String()
}

// FormatDuration renders d the way task timings are shown: "45 μs", "812 ms", "1.21 s", "2.5 min".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d μs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2f s", d.Seconds())
	default:
		return fmt.Sprintf("%.1f min", d.Minutes())
	}
}
