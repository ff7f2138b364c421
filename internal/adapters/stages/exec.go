// Package stages provides the built-in pipeline stages.
package stages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Argument placeholders replaced for per-file tool invocations.
const (
	PlaceholderFile = "{file}"
	PlaceholderDir  = "{dir}"
)

// Toolbox builds stages that run the project's external tools.
type Toolbox struct {
	Executor ports.Executor
	Logger   ports.Logger
	Project  *domain.Project
	// Output receives tool diagnostics and lint reports.
	Output io.Writer
}

// NewToolbox creates a Toolbox.
func NewToolbox(executor ports.Executor, logger ports.Logger, project *domain.Project, output io.Writer) *Toolbox {
	if output == nil {
		output = io.Discard
	}
	return &Toolbox{Executor: executor, Logger: logger, Project: project, Output: output}
}

// Exec runs tool once per file with the contents on stdin. The tool's stdout
// replaces the file contents.
func (tb *Toolbox) Exec(env domain.Environment, tool string) ports.Stage {
	return &execStage{tb: tb, env: env, tool: tool}
}

// ExecBatch runs tool once with every file path appended. With output set,
// the tool's stdout becomes a single file of that name below the project
// root; otherwise the tool writes its own results and the files pass through.
// An empty file set skips the tool.
func (tb *Toolbox) ExecBatch(env domain.Environment, tool, output string) ports.Stage {
	return &batchStage{tb: tb, env: env, tool: tool, output: output}
}

type execStage struct {
	tb   *Toolbox
	env  domain.Environment
	tool string
}

func (s *execStage) Name() string {
	return s.tool
}

func (s *execStage) Transform(ctx context.Context, files domain.FileSet) (domain.FileSet, error) {
	tool, err := s.tb.Project.Tool(s.tool)
	if err != nil {
		return nil, err
	}

	out := make(domain.FileSet, 0, len(files))
	for _, f := range files {
		cmd := tool.Command(s.env, s.tb.Project.Root)
		cmd.Args = expandPlaceholders(cmd.Args, f)

		var stdout, stderr bytes.Buffer
		err := s.tb.Executor.Execute(ctx, cmd, bytes.NewReader(f.Contents), &stdout, &stderr)
		s.tb.report(stderr.Bytes())
		if err != nil {
			return nil, zerr.With(err, "file", f.Relative())
		}

		transformed := f.Clone()
		transformed.Contents = stdout.Bytes()
		out = append(out, transformed)
	}
	return out, nil
}

type batchStage struct {
	tb     *Toolbox
	env    domain.Environment
	tool   string
	output string
}

func (s *batchStage) Name() string {
	return s.tool
}

func (s *batchStage) Transform(ctx context.Context, files domain.FileSet) (domain.FileSet, error) {
	if len(files) == 0 {
		return files, nil
	}

	tool, err := s.tb.Project.Tool(s.tool)
	if err != nil {
		return nil, err
	}

	cmd := tool.Command(s.env, s.tb.Project.Root, files.Paths()...)

	var stdout bytes.Buffer
	var stdoutW io.Writer = &stdout
	if s.output == "" {
		stdoutW = s.tb.Output
	}
	if err := s.tb.Executor.Execute(ctx, cmd, nil, stdoutW, s.tb.Output); err != nil {
		return nil, err
	}

	if s.output == "" {
		return files, nil
	}

	return domain.FileSet{{
		Path:     s.tb.Project.Path(s.output),
		Base:     s.tb.Project.Root,
		Contents: stdout.Bytes(),
		Mode:     domain.FilePerm,
		ModTime:  latest(files),
	}}, nil
}

// Lint runs tool over all file paths. Findings are logged as warnings unless
// the project enables strict linting, which fails the stage instead. Files
// pass through unchanged.
func (tb *Toolbox) Lint(env domain.Environment, tool string) ports.Stage {
	return &lintStage{tb: tb, env: env, tool: tool}
}

type lintStage struct {
	tb   *Toolbox
	env  domain.Environment
	tool string
}

func (s *lintStage) Name() string {
	return s.tool
}

func (s *lintStage) Transform(ctx context.Context, files domain.FileSet) (domain.FileSet, error) {
	if len(files) == 0 {
		return files, nil
	}

	tool, err := s.tb.Project.Tool(s.tool)
	if err != nil {
		return nil, err
	}

	cmd := tool.Command(s.env, s.tb.Project.Root, files.Paths()...)
	err = s.tb.Executor.Execute(ctx, cmd, nil, s.tb.Output, s.tb.Output)
	if err == nil {
		return files, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if s.tb.Project.StrictLint {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLintFailed.Error()), "files", len(files))
	}

	s.tb.Logger.Warn(fmt.Sprintf("%s reported problems in %d file(s): %s", s.tool, len(files), lintReason(err)))
	return files, nil
}

func lintReason(err error) string {
	var zErr *zerr.Error
	if errors.As(err, &zErr) {
		if code, ok := zErr.Metadata()["exit_code"]; ok {
			return fmt.Sprintf("exit code %v", code)
		}
	}
	return err.Error()
}

func (tb *Toolbox) report(diagnostics []byte) {
	if len(diagnostics) == 0 {
		return
	}
	_, _ = tb.Output.Write(diagnostics)
}

func expandPlaceholders(args []string, f *domain.File) []string {
	replacer := strings.NewReplacer(
		PlaceholderFile, f.Path,
		PlaceholderDir, filepath.Dir(f.Path),
	)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = replacer.Replace(a)
	}
	return out
}
