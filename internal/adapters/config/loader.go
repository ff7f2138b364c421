// Package config loads the project configuration and the shared settings.
package config

import (
	"maps"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds kiln.yaml in cwd or one of its parents and merges it over the
// defaults. Without a configuration file the defaults rooted at cwd are used.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	configPath, found := DiscoverConfig(cwd)
	if !found {
		return DefaultProject(cwd), nil
	}

	var file Kilnfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	project, err := l.merge(filepath.Dir(configPath), &file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return project, nil
}

// DiscoverConfig walks up from cwd and returns the first kiln.yaml found.
func DiscoverConfig(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) merge(configDir string, file *Kilnfile) (*domain.Project, error) {
	root := configDir
	if file.Root != "" {
		root = file.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(configDir, root)
		}
	}

	project := DefaultProject(filepath.Clean(root))
	project.Dirs = mergeDirs(project.Dirs, file.Dirs)
	project.Tools = DefaultTools(project.Dirs)

	if file.Settings != "" {
		project.SettingsFile = file.Settings
	}
	if len(file.JSLibs) > 0 {
		project.JSLibs = file.JSLibs
	}
	if file.Lint.Strict != nil {
		project.StrictLint = *file.Lint.Strict
	}
	if file.Serve.BaseDir != "" {
		project.ServeDir = file.Serve.BaseDir
	}
	if file.Watch.Debounce != "" {
		d, err := time.ParseDuration(file.Watch.Debounce)
		if err != nil || d < 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "invalid watch debounce"),
				"debounce", file.Watch.Debounce)
		}
		project.Debounce = d
	}

	for name, dto := range file.Tools {
		if len(dto.Cmd) == 0 {
			if l.Logger != nil {
				l.Logger.Warn("tool '" + name + "' has no cmd and keeps its default")
			}
			continue
		}
		project.Tools[name] = domain.Tool{
			Cmd:         dto.Cmd,
			Dev:         dto.Dev,
			Production:  dto.Production,
			Environment: maps.Clone(dto.Environment),
			TTY:         dto.TTY,
		}
	}

	return project, nil
}

func mergeDirs(dirs domain.Dirs, dto DirsDTO) domain.Dirs {
	override := func(dst *string, src string) {
		if src != "" {
			*dst = filepath.Clean(src)
		}
	}
	override(&dirs.Generated, dto.Generated)
	override(&dirs.Assets, dto.Assets)
	override(&dirs.Scripts, dto.Scripts)
	override(&dirs.Styles, dto.Styles)
	override(&dirs.Languages, dto.Languages)
	override(&dirs.Templates, dto.Templates)
	return dirs
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
