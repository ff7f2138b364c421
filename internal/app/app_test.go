package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/adapters/environment"
	kfs "go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/recipes"
	"go.uber.org/mock/gomock"
)

type fakeScheduler struct {
	mu    sync.Mutex
	nodes []*domain.Node
	envs  []domain.Environment
	err   error
}

func (s *fakeScheduler) Execute(_ context.Context, node *domain.Node, env domain.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, node)
	s.envs = append(s.envs, env)
	return s.err
}

type fakeNotifier struct {
	waited int
}

func (n *fakeNotifier) Notify(context.Context, string, string) {}
func (n *fakeNotifier) Wait()                                  { n.waited++ }

type fakeServer struct {
	started chan string
	err     error
}

func (s *fakeServer) Reload(...string) {}

func (s *fakeServer) Start(ctx context.Context, _ domain.Environment, baseDir string) error {
	s.started <- baseDir
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return nil
}

type fakeEngine struct {
	debounce time.Duration
	subs     []domain.Subscription
	root     string
	stopped  chan struct{}
}

func (e *fakeEngine) SetDebounce(d time.Duration) { e.debounce = d }

func (e *fakeEngine) Subscribe(sub domain.Subscription) error {
	e.subs = append(e.subs, sub)
	return nil
}

func (e *fakeEngine) Start(ctx context.Context, root string, _ domain.Environment) error {
	e.root = root
	<-ctx.Done()
	close(e.stopped)
	return nil
}

type fakeSettings struct {
	loads int
	err   error
}

func (s *fakeSettings) LoadSettings(*domain.Project) (domain.Settings, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return domain.Settings{"primary": "#fff"}, nil
}

type formatter struct{ json bool }

func (f *formatter) SetJSON(enable bool) { f.json = enable }

type harness struct {
	root      string
	project   *domain.Project
	loader    *mocks.MockConfigLoader
	logger    *mocks.MockLogger
	settings  *fakeSettings
	scheduler *fakeScheduler
	notifier  *fakeNotifier
	server    *fakeServer
	engine    *fakeEngine
	vars      map[string]string
	app       *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	h := &harness{
		root:      root,
		project:   config.DefaultProject(root),
		loader:    mocks.NewMockConfigLoader(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		settings:  &fakeSettings{},
		scheduler: &fakeScheduler{},
		notifier:  &fakeNotifier{},
		server:    &fakeServer{started: make(chan string, 1)},
		engine:    &fakeEngine{stopped: make(chan struct{})},
		vars:      map[string]string{},
	}

	h.app = app.New(app.Deps{
		ConfigLoader: h.loader,
		Settings:     h.settings,
		Resolver: environment.NewResolverWithLookup(func(key string) (string, bool) {
			v, ok := h.vars[key]
			return v, ok
		}),
		Runner:    pipeline.NewRunner(kfs.NewSource(root)),
		Scheduler: h.scheduler,
		Executor:  mocks.NewMockExecutor(ctrl),
		Notifier:  h.notifier,
		Server:    h.server,
		Engine:    h.engine,
		Logger:    h.logger,
		Output:    io.Discard,
	})
	return h
}

func (h *harness) opts() app.Options {
	return app.Options{Cwd: h.root}
}

func TestApp_Run_NoTargets(t *testing.T) {
	h := newHarness(t)

	err := h.app.Run(context.Background(), nil, h.opts())
	assert.ErrorIs(t, err, domain.ErrNoTargetsSpecified)
}

func TestApp_Run_ConfigLoaderError(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(h.root).Return(nil, errors.New("config load error"))

	err := h.app.Run(context.Background(), []string{recipes.TaskCSS}, h.opts())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load configuration")
	assert.Empty(t, h.scheduler.nodes)
}

func TestApp_Run_InvalidPort(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)

	opts := h.opts()
	opts.Flags = map[string]string{environment.KeyPort: "http"}
	err := h.app.Run(context.Background(), []string{recipes.TaskCSS}, opts)
	assert.ErrorContains(t, err, domain.ErrInvalidPort.Error())
}

func TestApp_Run_SettingsError(t *testing.T) {
	h := newHarness(t)
	h.settings.err = domain.ErrSettingsParseFailed
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)

	err := h.app.Run(context.Background(), []string{recipes.TaskCSS}, h.opts())
	assert.ErrorContains(t, err, "failed to load settings")
	assert.ErrorIs(t, err, domain.ErrSettingsParseFailed)
	assert.Empty(t, h.scheduler.nodes)
}

func TestApp_Run_UnknownTarget(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)

	err := h.app.Run(context.Background(), []string{"deploy"}, h.opts())
	assert.ErrorContains(t, err, domain.ErrNodeNotFound.Error())
	assert.Empty(t, h.scheduler.nodes)
}

func TestApp_Build(t *testing.T) {
	h := newHarness(t)
	h.vars["ENV"] = "production"
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)
	h.logger.EXPECT().Info("production build of " + h.root)

	require.NoError(t, h.app.Build(context.Background(), h.opts()))

	require.Len(t, h.scheduler.nodes, 1)
	root := h.scheduler.nodes[0]
	assert.Equal(t, domain.KindParallel, root.Kind())
	assert.Len(t, root.Children(), 5)
	assert.False(t, h.scheduler.envs[0].Dev)
	assert.Equal(t, 1, h.notifier.waited)
	assert.Equal(t, 1, h.settings.loads)
}

func TestApp_Run_MultipleTargetsRunInParallel(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)
	h.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, h.app.Run(context.Background(), []string{recipes.TaskLintJS, recipes.TaskLintPHP}, h.opts()))

	root := h.scheduler.nodes[0]
	require.Equal(t, domain.KindParallel, root.Kind())
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, recipes.TaskLintJS, children[0].Name())
	assert.Equal(t, recipes.TaskLintPHP, children[1].Name())
	assert.True(t, h.scheduler.envs[0].Dev)
}

func TestApp_Run_BuildExecutionFailed(t *testing.T) {
	h := newHarness(t)
	h.scheduler.err = errors.New("sass exploded")
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)
	h.logger.EXPECT().Info(gomock.Any())
	h.logger.EXPECT().Error(h.scheduler.err)

	err := h.app.Build(context.Background(), h.opts())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.ErrorIs(t, err, h.scheduler.err)
	assert.Equal(t, 1, h.notifier.waited)
}

func TestApp_List(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)

	var out bytes.Buffer
	require.NoError(t, h.app.List(&out, h.opts()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{recipes.GraphDefault, recipes.GraphBuild, recipes.TaskSVGSprite}, lines[:3])
	assert.Contains(t, lines, recipes.TaskReload)
}

func TestApp_Serve(t *testing.T) {
	h := newHarness(t)
	h.project.Debounce = 250 * time.Millisecond
	h.scheduler.err = errors.New("initial build failed")
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)

	logged := make(chan error, 1)
	h.logger.EXPECT().Error(gomock.Any()).Do(func(err error) { logged <- err })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Serve(ctx, h.opts()) }()

	assert.Equal(t, filepath.Join(h.root, "."), <-h.server.started)
	assert.Equal(t, h.scheduler.err, <-logged)

	cancel()
	require.NoError(t, <-done)
	<-h.engine.stopped

	assert.Equal(t, h.root, h.engine.root)
	assert.Equal(t, 250*time.Millisecond, h.engine.debounce)
	assert.Len(t, h.engine.subs, 6)
	assert.Equal(t, 1, h.notifier.waited)
}

func TestApp_Serve_ServerFailureStopsWatching(t *testing.T) {
	h := newHarness(t)
	h.server.err = errors.New("address already in use")
	h.loader.EXPECT().Load(h.root).Return(h.project, nil)

	err := h.app.Serve(context.Background(), h.opts())
	require.ErrorIs(t, err, h.server.err)
	<-h.engine.stopped
}

func TestApp_SetJSON(t *testing.T) {
	a, b := &formatter{}, &formatter{}
	application := app.New(app.Deps{Formatters: []app.Formatter{a, b}})

	application.SetJSON(true)
	assert.True(t, a.json)
	assert.True(t, b.json)

	application.SetJSON(false)
	assert.False(t, a.json)
}
