package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SettingsLoader = (*SettingsLoader)(nil)

// SettingsLoader reads the settings JSON object shared with the style sheets.
type SettingsLoader struct {
	logger ports.Logger
}

// NewSettingsLoader creates a new SettingsLoader.
func NewSettingsLoader(logger ports.Logger) *SettingsLoader {
	return &SettingsLoader{logger: logger}
}

// LoadSettings reads the project's settings file. A missing file yields
// empty settings and a warning.
func (s *SettingsLoader) LoadSettings(project *domain.Project) (domain.Settings, error) {
	path := project.SettingsFile
	if !filepath.IsAbs(path) {
		path = project.Path(path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Settings path comes from project config
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("settings file " + path + " not found, continuing without settings")
		return domain.Settings{}, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsReadFailed.Error()), "path", path)
	}

	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsParseFailed.Error()), "path", path)
	}
	if settings == nil {
		settings = domain.Settings{}
	}
	return settings, nil
}
