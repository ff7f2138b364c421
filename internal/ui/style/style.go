// Package style holds the colors and icons shared by log and task output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Ember  = lipgloss.Color("#F97316")
	Cyan   = lipgloss.Color("#06B6D4")
	Slate  = lipgloss.Color("#667085")
	Mist   = lipgloss.Color("#98A2B3")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
)

// Banner renders the startup banner line, e.g. "kiln serve · dev".
func Banner(command, version string) string {
	name := lipgloss.NewStyle().Bold(true).Foreground(Ember).Render("kiln " + command)
	return name + lipgloss.NewStyle().Foreground(Mist).Render(" · "+version)
}
