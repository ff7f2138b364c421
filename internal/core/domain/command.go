package domain

// Command is an external process invocation.
type Command struct {
	// Name is the executable, looked up on PATH when not absolute.
	Name string
	// Args are the arguments passed to the executable.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Environment holds variables added on top of the inherited allow-list.
	Environment map[string]string
	// TTY runs the command inside a pseudo terminal so tools keep their colored output.
	TTY bool
}
