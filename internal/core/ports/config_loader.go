package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the project configuration starting at cwd and walking up.
	// Without a configuration file the defaults rooted at cwd are returned.
	Load(cwd string) (*domain.Project, error)
}

// SettingsLoader loads the settings shared with style sheets.
type SettingsLoader interface {
	// LoadSettings reads the settings file of the project.
	LoadSettings(project *domain.Project) (domain.Settings, error)
}
