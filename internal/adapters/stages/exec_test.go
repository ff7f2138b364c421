package stages_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/stages"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var devEnv = domain.Environment{Name: "dev", Dev: true, Port: 3001}

func testProject(root string) *domain.Project {
	return &domain.Project{
		Root: root,
		Tools: map[string]domain.Tool{
			"upper": {
				Cmd:        []string{"upper", "--dir={dir}"},
				Dev:        []string{"--map"},
				Production: []string{"--minify"},
			},
			"bundle": {Cmd: []string{"bundle"}},
			"lint":   {Cmd: []string{"lint", "--strict-style"}, TTY: true},
		},
	}
}

func file(root, rel, contents string) *domain.File {
	return &domain.File{
		Path:     filepath.Join(root, rel),
		Base:     root,
		Contents: []byte(contents),
	}
}

func TestExec_PerFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	root := "/project"
	tb := stages.NewToolbox(executor, mocks.NewMockLogger(ctrl), testProject(root), io.Discard)

	var seen []*domain.Command
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, stdin io.Reader, stdout, _ io.Writer) error {
			seen = append(seen, cmd)
			in, err := io.ReadAll(stdin)
			require.NoError(t, err)
			_, _ = stdout.Write(bytes.ToUpper(in))
			return nil
		}).Times(2)

	input := domain.FileSet{file(root, "scss/a.scss", "a{}"), file(root, "scss/sub/b.scss", "b{}")}
	out, err := tb.Exec(devEnv, "upper").Transform(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "A{}", string(out[0].Contents))
	assert.Equal(t, "B{}", string(out[1].Contents))
	assert.Equal(t, "a{}", string(input[0].Contents), "input files are not mutated")

	assert.Equal(t, "upper", seen[0].Name)
	assert.Equal(t, []string{"--dir=/project/scss", "--map"}, seen[0].Args)
	assert.Equal(t, []string{"--dir=/project/scss/sub", "--map"}, seen[1].Args)
	assert.Equal(t, root, seen[0].Dir)
}

func TestExec_FailureNamesFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	var diagnostics bytes.Buffer
	tb := stages.NewToolbox(executor, mocks.NewMockLogger(ctrl), testProject("/p"), &diagnostics)

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Command, _ io.Reader, _, stderr io.Writer) error {
			_, _ = stderr.Write([]byte("Error: expected \"{\"\n"))
			return zerr.With(domain.ErrCommandFailed, "exit_code", 65)
		})

	_, err := tb.Exec(devEnv, "upper").Transform(context.Background(), domain.FileSet{file("/p", "style.scss", "")})
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "style.scss", zErr.Metadata()["file"])
	assert.Equal(t, "Error: expected \"{\"\n", diagnostics.String())
}

func TestExec_ToolNotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	tb := stages.NewToolbox(mocks.NewMockExecutor(ctrl), mocks.NewMockLogger(ctrl), testProject("/p"), nil)

	_, err := tb.Exec(devEnv, "missing").Transform(context.Background(), domain.FileSet{file("/p", "a", "")})
	assert.ErrorContains(t, err, domain.ErrToolNotConfigured.Error())
}

func TestExecBatch_Output(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	root := "/project"
	tb := stages.NewToolbox(executor, mocks.NewMockLogger(ctrl), testProject(root), io.Discard)

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), nil, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _ io.Reader, stdout, _ io.Writer) error {
			assert.Equal(t, []string{"/project/js/main.js"}, cmd.Args)
			_, _ = stdout.Write([]byte("bundled"))
			return nil
		})

	out, err := tb.ExecBatch(devEnv, "bundle", "scripts.min.js").
		Transform(context.Background(), domain.FileSet{file(root, "js/main.js", "x")})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "/project/scripts.min.js", out[0].Path)
	assert.Equal(t, "scripts.min.js", out[0].Relative())
	assert.Equal(t, "bundled", string(out[0].Contents))
}

func TestExecBatch_PassThroughAndEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	tb := stages.NewToolbox(executor, mocks.NewMockLogger(ctrl), testProject("/p"), io.Discard)

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), nil, gomock.Any(), gomock.Any()).Return(nil).Times(1)

	input := domain.FileSet{file("/p", "img/a.svg", "<svg/>")}
	out, err := tb.ExecBatch(devEnv, "bundle", "").Transform(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, out)

	out, err = tb.ExecBatch(devEnv, "bundle", "").Transform(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLint_Advisory(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	tb := stages.NewToolbox(executor, logger, testProject("/p"), io.Discard)

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), nil, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _ io.Reader, _, _ io.Writer) error {
			assert.True(t, cmd.TTY)
			assert.Equal(t, []string{"--strict-style", "/p/a.php", "/p/b.php"}, cmd.Args)
			return zerr.With(domain.ErrCommandFailed, "exit_code", 2)
		})
	logger.EXPECT().Warn("lint reported problems in 2 file(s): exit code 2")

	input := domain.FileSet{file("/p", "a.php", ""), file("/p", "b.php", "")}
	out, err := tb.Lint(devEnv, "lint").Transform(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestLint_Strict(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	project := testProject("/p")
	project.StrictLint = true
	tb := stages.NewToolbox(executor, mocks.NewMockLogger(ctrl), project, io.Discard)

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), nil, gomock.Any(), gomock.Any()).
		Return(errors.New("exit status 1"))

	_, err := tb.Lint(devEnv, "lint").Transform(context.Background(), domain.FileSet{file("/p", "a.js", "")})
	assert.ErrorContains(t, err, domain.ErrLintFailed.Error())
}

func TestLint_CleanAndEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	tb := stages.NewToolbox(executor, mocks.NewMockLogger(ctrl), testProject("/p"), io.Discard)

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), nil, gomock.Any(), gomock.Any()).Return(nil).Times(1)

	_, err := tb.Lint(devEnv, "lint").Transform(context.Background(), domain.FileSet{file("/p", "a.js", "")})
	require.NoError(t, err)

	_, err = tb.Lint(devEnv, "lint").Transform(context.Background(), domain.FileSet{})
	require.NoError(t, err)
}
