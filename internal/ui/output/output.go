// Package output creates termenv outputs with a consistent color policy.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Profile returns the color profile for terminal output. NO_COLOR always wins.
// With ci set, plain ANSI colors are used instead of probing the terminal,
// since CI log viewers understand them but are not TTYs.
func Profile(ci bool) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if ci {
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// New creates an output for interactive terminals. A nil w writes to stderr.
func New(w io.Writer) *termenv.Output {
	return newOutput(w, Profile(false))
}

// NewCI creates an output for CI logs. A nil w writes to stderr.
func NewCI(w io.Writer) *termenv.Output {
	return newOutput(w, Profile(true))
}

func newOutput(w io.Writer, profile termenv.Profile) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true))
}
