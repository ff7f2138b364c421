// Package shell runs external asset tools as child processes.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// ExitCodeKey is the error metadata key holding a failed command's exit code.
const ExitCodeKey = "exit_code"

// Executor implements ports.Executor using os/exec and pty.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs cmd and waits for it to complete.
//
// Commands marked TTY without stdin run in a pseudo terminal, merging their
// output into stdout. All others use plain pipes.
func (e *Executor) Execute(
	ctx context.Context,
	cmd *domain.Command,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	if cmd == nil || cmd.Name == "" {
		return zerr.With(domain.ErrCommandFailed, "reason", "empty command")
	}

	c := command(ctx, cmd)

	var err error
	if cmd.TTY && stdin == nil {
		err = runPTY(c, stdout)
	} else {
		c.Stdin = stdin
		c.Stdout = stdout
		c.Stderr = stderr
		err = c.Run()
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), ExitCodeKey, exitCode),
			"command", cmd.Name,
		)
	}

	return nil
}

func command(ctx context.Context, cmd *domain.Command) *exec.Cmd {
	env := resolveEnvironment(os.Environ(), cmd.Environment)

	executable := cmd.Name
	if !filepath.IsAbs(executable) {
		if lp, err := lookPath(executable, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // Tool commands come from project config
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Name
	}
	c.Dir = cmd.Dir
	c.Env = env
	return c
}

func runPTY(c *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.Start(c)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master returns EIO once the child exits.
		_, _ = io.Copy(stdout, ptmx)
	}()

	err = c.Wait()
	<-ioDone
	_ = ptmx.Close()
	return err
}

// allowListedEnvVars are the system environment variables inherited by tools.
var allowListedEnvVars = map[string]struct{}{
	"HOME":      {},
	"TERM":      {},
	"USER":      {},
	"PATH":      {},
	"LANG":      {},
	"TMPDIR":    {},
	"NODE_PATH": {},
}

// resolveEnvironment merges the allow-listed system environment with the
// command environment, the latter taking priority.
func resolveEnvironment(sysEnv []string, cmdEnv map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range cmdEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
