package detector_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/detector"
)

func TestIsCI(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "1", want: true},
		{value: "false", want: false},
		{value: "", want: false},
	}

	for _, tt := range tests {
		t.Run("CI="+tt.value, func(t *testing.T) {
			t.Setenv("CI", tt.value)
			assert.Equal(t, tt.want, detector.IsCI())
		})
	}
}

func TestDetectLogFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	t.Setenv("CI", "")
	assert.Equal(t, detector.FormatJSON, detector.DetectLogFormat(f), "regular files are not terminals")
	assert.False(t, detector.IsTerminal(nil))

	t.Setenv("CI", "true")
	assert.Equal(t, detector.FormatPretty, detector.DetectLogFormat(f))
}

func TestResolveLogFormat(t *testing.T) {
	tests := []struct {
		detected detector.LogFormat
		flag     string
		want     detector.LogFormat
	}{
		{detected: detector.FormatJSON, flag: "pretty", want: detector.FormatPretty},
		{detected: detector.FormatPretty, flag: "json", want: detector.FormatJSON},
		{detected: detector.FormatJSON, flag: "auto", want: detector.FormatJSON},
		{detected: detector.FormatPretty, flag: "", want: detector.FormatPretty},
		{detected: detector.FormatPretty, flag: "yaml", want: detector.FormatPretty},
	}

	for _, tt := range tests {
		t.Run(tt.detected.String()+"/"+tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveLogFormat(tt.detected, tt.flag))
		})
	}
}
