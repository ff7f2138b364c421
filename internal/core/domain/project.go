package domain

import (
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/zerr"
)

// Project is the loaded project configuration.
type Project struct {
	// Root is the absolute project directory. All relative paths resolve against it.
	Root string
	// SettingsFile is the path of the settings JSON file, relative to Root.
	SettingsFile string
	// Dirs are the well-known asset directories.
	Dirs Dirs
	// JSLibs are third-party scripts copied verbatim into the scripts directory.
	JSLibs []string
	// StrictLint turns lint findings into task failures.
	StrictLint bool
	// Debounce is the watch debounce window.
	Debounce time.Duration
	// ServeDir is the directory served when no proxy host is configured.
	ServeDir string
	// Tools maps a tool name to its command line.
	Tools map[string]Tool
}

// Dirs are the asset directories of a project, relative to the project root.
type Dirs struct {
	Generated string
	Assets    string
	Scripts   string
	Styles    string
	Languages string
	Templates string
}

// Path joins elements onto the project root.
func (p *Project) Path(elem ...string) string {
	return filepath.Join(append([]string{p.Root}, elem...)...)
}

// Tool returns the tool registered under name.
func (p *Project) Tool(name string) (Tool, error) {
	tool, ok := p.Tools[name]
	if !ok || len(tool.Cmd) == 0 {
		return Tool{}, zerr.With(ErrToolNotConfigured, "tool", name)
	}
	return tool, nil
}

// Tool is the command line of an external asset tool.
type Tool struct {
	// Cmd is the executable followed by its base arguments.
	Cmd []string
	// Dev are extra arguments used in dev mode.
	Dev []string
	// Production are extra arguments used outside dev mode.
	Production []string
	// Environment holds extra environment variables.
	Environment map[string]string
	// TTY runs the tool inside a pseudo terminal.
	TTY bool
}

// Command builds the invocation of the tool for env, appending extra arguments last.
func (t Tool) Command(env Environment, dir string, extra ...string) *Command {
	args := slices.Clone(t.Cmd[1:])
	if env.Dev {
		args = append(args, t.Dev...)
	} else {
		args = append(args, t.Production...)
	}
	args = append(args, extra...)

	return &Command{
		Name:        t.Cmd[0],
		Args:        args,
		Dir:         dir,
		Environment: t.Environment,
		TTY:         t.TTY,
	}
}
