// Package detector inspects the process environment to pick output formats.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the encoding of log output.
type LogFormat int

const (
	// FormatAuto picks a format from the environment.
	FormatAuto LogFormat = iota
	// FormatPretty writes colored, human readable lines.
	FormatPretty
	// FormatJSON writes one JSON object per line.
	FormatJSON
)

// String returns the flag value of the format.
func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// IsCI reports whether the process runs in a CI environment.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// DetectLogFormat returns pretty output for terminals and CI logs and JSON
// when output is consumed by another program.
func DetectLogFormat(stderr *os.File) LogFormat {
	if IsTerminal(stderr) || IsCI() {
		return FormatPretty
	}
	return FormatJSON
}

// ResolveLogFormat applies the user's --log-format flag to the detected format.
// Unknown values fall back to the detected format.
func ResolveLogFormat(detected LogFormat, flag string) LogFormat {
	switch flag {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return detected
	}
}
