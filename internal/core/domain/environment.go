package domain

// Environment is the process-wide configuration resolved once at startup.
// It is passed by value to every task invocation and never mutated.
type Environment struct {
	// Name is the raw environment name that won resolution.
	Name string
	// Dev is true only when Name is exactly "dev".
	Dev bool
	// Port is the live reload server port.
	Port int
	// Host is the upstream the live reload server proxies to. Empty means static serving.
	Host string
}

// Proxying reports whether the live reload server should proxy to an upstream host.
func (e Environment) Proxying() bool {
	return e.Host != ""
}

// Mode returns a human readable name of the build mode.
func (e Environment) Mode() string {
	if e.Dev {
		return "development"
	}
	return "production"
}
