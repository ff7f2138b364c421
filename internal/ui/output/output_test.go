package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/ui/output"
)

func TestProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.Profile(false))
	assert.Equal(t, termenv.Ascii, output.Profile(true))

	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.Profile(true))

	p := output.Profile(false)
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestNew(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := output.New(&buf)
	_, _ = out.WriteString(out.String("Finished").Foreground(termenv.ANSIGreen).String())
	assert.Equal(t, "Finished", buf.String())

	assert.NotNil(t, output.New(nil))
	assert.NotNil(t, output.NewCI(nil))
}

func TestNewCI_Colors(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	out := output.NewCI(&buf)
	_, _ = out.WriteString(out.String("x").Foreground(termenv.ANSIRed).String())
	assert.Contains(t, buf.String(), "\x1b[")
}
