package config

// Kilnfile represents the structure of the kiln.yaml configuration file.
// Every field is optional and overrides the compiled-in default.
type Kilnfile struct {
	Version  string             `yaml:"version"`
	Root     string             `yaml:"root"`
	Settings string             `yaml:"settings"`
	Dirs     DirsDTO            `yaml:"dirs"`
	JSLibs   []string           `yaml:"jsLibs"`
	Lint     LintDTO            `yaml:"lint"`
	Watch    WatchDTO           `yaml:"watch"`
	Serve    ServeDTO           `yaml:"serve"`
	Tools    map[string]ToolDTO `yaml:"tools"`
}

// DirsDTO holds the asset directories.
type DirsDTO struct {
	Generated string `yaml:"generated"`
	Assets    string `yaml:"assets"`
	Scripts   string `yaml:"scripts"`
	Styles    string `yaml:"styles"`
	Languages string `yaml:"languages"`
	Templates string `yaml:"templates"`
}

// LintDTO configures the lint tasks.
type LintDTO struct {
	Strict *bool `yaml:"strict"`
}

// WatchDTO configures watch mode.
type WatchDTO struct {
	Debounce string `yaml:"debounce"`
}

// ServeDTO configures the live reload server.
type ServeDTO struct {
	BaseDir string `yaml:"baseDir"`
}

// ToolDTO is a tool command line. A non-empty cmd replaces the default
// command line as a whole.
type ToolDTO struct {
	Cmd         []string          `yaml:"cmd"`
	Dev         []string          `yaml:"dev"`
	Production  []string          `yaml:"production"`
	Environment map[string]string `yaml:"environment"`
	TTY         bool              `yaml:"tty"`
}
