package domain

import "go.trai.ch/zerr"

var (
	// ErrStageFailed is returned when a pipeline stage fails. It carries the stage name.
	ErrStageFailed = zerr.New("stage failed")

	// ErrTaskFailed is returned when a leaf task fails. It carries the task name.
	ErrTaskFailed = zerr.New("task failed")

	// ErrParallelFailed is returned when one or more branches of a parallel node fail.
	ErrParallelFailed = zerr.New("parallel branches failed")

	// ErrBuildExecutionFailed is returned when the root graph of a build fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrNilNode is returned when a graph node or one of its children is nil.
	ErrNilNode = zerr.New("nil node in task graph")

	// ErrMissingTask is returned when a leaf node has no runnable task.
	ErrMissingTask = zerr.New("leaf node has no task")

	// ErrSelfReference is returned when a node contains itself.
	ErrSelfReference = zerr.New("node contains itself")

	// ErrCycleDetected is returned when named nodes reference each other in a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnresolvedReference is returned when a reference node reaches the scheduler.
	ErrUnresolvedReference = zerr.New("unresolved node reference")

	// ErrMissingReference is returned when a reference names a node that is not registered.
	ErrMissingReference = zerr.New("reference to unknown node")

	// ErrNodeAlreadyExists is returned when a name is registered twice in a graph.
	ErrNodeAlreadyExists = zerr.New("node already exists")

	// ErrNodeNotFound is returned when a requested graph name does not exist.
	ErrNodeNotFound = zerr.New("node not found")

	// ErrNoTargetsSpecified is returned when no targets are given to run.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrInvalidPort is returned when the resolved port is not a valid TCP port.
	ErrInvalidPort = zerr.New("invalid port")

	// ErrInvalidPattern is returned when a glob pattern cannot be parsed.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrEmptySubscription is returned when a watch subscription has no patterns.
	ErrEmptySubscription = zerr.New("subscription has no patterns")

	// ErrSourceResolutionFailed is returned when source patterns cannot be resolved.
	ErrSourceResolutionFailed = zerr.New("failed to resolve sources")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file is not a JSON object.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrToolNotConfigured is returned when a stage needs a tool that has no command line.
	ErrToolNotConfigured = zerr.New("tool not configured")

	// ErrCommandFailed is returned when an external tool exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrLintFailed is returned by strict lint stages when the linter reports problems.
	ErrLintFailed = zerr.New("lint reported problems")

	// ErrWatcherStartFailed is returned when the file system watcher cannot start.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrServerFailed is returned when the live reload server stops unexpectedly.
	ErrServerFailed = zerr.New("live reload server failed")

	// ErrInvalidProxyTarget is returned when the proxy host cannot be parsed as a URL.
	ErrInvalidProxyTarget = zerr.New("invalid proxy target")
)
