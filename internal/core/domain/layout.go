package domain

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "kiln.yaml"

	// DefaultSettingsFile is the settings file injected into style sheets.
	DefaultSettingsFile = "common_config.json"

	// DefaultEnvName is the environment name used when none is given.
	DefaultEnvName = "dev"

	// DefaultPort is the live reload server port used when none is given.
	DefaultPort = 3001

	// LiveReloadPrefix is the URL prefix reserved for the live reload endpoints.
	LiveReloadPrefix = "/__kiln/"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
