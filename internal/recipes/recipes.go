// Package recipes defines the asset tasks of a project, the graphs they are
// exported under and the watch subscriptions that re-run them.
package recipes

import (
	"fmt"
	"path"

	"go.trai.ch/kiln/internal/adapters/config" //nolint:depguard // Tool names are shared with the loader
	"go.trai.ch/kiln/internal/adapters/stages" //nolint:depguard // Wired in recipe layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Task names.
const (
	TaskSVGSprite = "build_svg_sprite"
	TaskCSS       = "build_css"
	TaskLintCSS   = "lint_css"
	TaskModernizr = "build_modernizr"
	TaskBundleJS  = "bundlejs"
	TaskJS        = "build_js"
	TaskLintJS    = "lint_js"
	TaskPoToMo    = "build_po_to_mo"
	TaskLintPHP   = "lint_php"
	TaskJSLibs    = "build_copy_jslibs"
	TaskReload    = "reload"
)

// Output files produced by the recipes.
const (
	StyleSheet    = "style.css"
	ScriptBundle  = "scripts.min.js"
	ModernizrFile = "modernizr.js"
	LibsDir       = "libs"
	SpriteSources = "svg-sprite-source"
)

// NotifyTitle is the title of every desktop notification.
const NotifyTitle = "kiln"

// Deps are the collaborators the recipes are built from.
type Deps struct {
	Project  *domain.Project
	Runner   *pipeline.Runner
	Tools    *stages.Toolbox
	Settings domain.Settings
	Notifier ports.Notifier
	Reloader ports.Reloader
	Logger   ports.Logger
}

// Recipes holds one leaf node per task. Nodes are shared between the exported
// graphs and the watch subscriptions.
type Recipes struct {
	deps   Deps
	leaves map[string]*domain.Node
	order  []string
}

// New builds the tasks of deps.Project.
func New(deps Deps) *Recipes {
	r := &Recipes{
		deps:   deps,
		leaves: make(map[string]*domain.Node),
	}

	r.add(TaskSVGSprite, r.svgSprite)
	r.add(TaskCSS, r.css)
	r.add(TaskLintCSS, r.lintCSS)
	r.add(TaskModernizr, r.modernizr)
	r.add(TaskBundleJS, r.bundleJS)
	r.add(TaskJS, r.js)
	r.add(TaskLintJS, r.lintJS)
	r.add(TaskPoToMo, r.poToMo)
	r.add(TaskLintPHP, r.lintPHP)
	r.add(TaskJSLibs, r.copyJSLibs)
	r.add(TaskReload, r.reload)
	return r
}

func (r *Recipes) add(name string, build func(env domain.Environment) *pipeline.Pipeline) {
	r.leaves[name] = domain.NewLeaf(r.deps.Runner.Task(name, build))
	r.order = append(r.order, name)
}

// Leaf returns the node running the task called name.
func (r *Recipes) Leaf(name string) (*domain.Node, error) {
	node, ok := r.leaves[name]
	if !ok {
		return nil, zerr.With(domain.ErrNodeNotFound, "name", name)
	}
	return node, nil
}

// Tasks returns the task names in definition order.
func (r *Recipes) Tasks() []string {
	return append([]string(nil), r.order...)
}

func (r *Recipes) leaf(name string) *domain.Node {
	return r.leaves[name]
}

func (r *Recipes) dirs() domain.Dirs {
	return r.deps.Project.Dirs
}

// src joins a pattern onto the project root. Excludes keep their "!".
func (r *Recipes) src(elem ...string) string {
	return r.deps.Project.Path(elem...)
}

func (r *Recipes) notify(env domain.Environment, msg string) (bool, ports.Stage) {
	return env.Dev, stages.Notify(r.deps.Notifier, NotifyTitle, msg)
}

func (r *Recipes) svgSprite(env domain.Environment) *pipeline.Pipeline {
	cond, notify := r.notify(env, "SVG sprite created successfully!")
	return pipeline.From(TaskSVGSprite, r.src(r.dirs().Assets, SpriteSources, "*.svg")).
		Pipe(r.deps.Tools.ExecBatch(env, config.ToolSVGSprite, "")).
		PipeIf(cond, notify)
}

func (r *Recipes) css(env domain.Environment) *pipeline.Pipeline {
	cond, notify := r.notify(env, "CSS compiled and concatenated successfully!")
	return pipeline.From(TaskCSS, r.src(r.dirs().Styles, "style.scss")).
		Pipe(
			stages.SassVariables(r.deps.Settings, env),
			r.deps.Tools.Exec(env, config.ToolSass),
			stages.Concat(StyleSheet),
			r.deps.Tools.Exec(env, config.ToolPostCSS),
		).
		PipeIf(!env.Dev, r.deps.Tools.Exec(env, config.ToolCSSNano)).
		Pipe(
			stages.Dest(r.deps.Project.Root),
			stages.Reload(r.deps.Reloader),
		).
		PipeIf(cond, notify)
}

func (r *Recipes) lintCSS(env domain.Environment) *pipeline.Pipeline {
	return pipeline.From(TaskLintCSS, r.src(r.dirs().Styles, "**", "*.scss")).
		Pipe(r.deps.Tools.Lint(env, config.ToolStylelint))
}

func (r *Recipes) modernizr(env domain.Environment) *pipeline.Pipeline {
	scripts := r.dirs().Scripts
	return pipeline.From(TaskModernizr,
		r.src(scripts, "main.js"),
		r.src(scripts, "modules", "*.js"),
		r.src(StyleSheet),
	).Pipe(
		r.deps.Tools.ExecBatch(env, config.ToolModernizr, path.Join(scripts, ModernizrFile)),
		stages.Dest(r.deps.Project.Root),
	)
}

func (r *Recipes) bundleJS(env domain.Environment) *pipeline.Pipeline {
	scripts := r.dirs().Scripts
	return pipeline.From(TaskBundleJS, r.src(scripts, "main.js")).Pipe(
		r.deps.Tools.ExecBatch(env, config.ToolESBuild, path.Join(scripts, ScriptBundle)),
		stages.Dest(r.deps.Project.Root),
	)
}

func (r *Recipes) js(env domain.Environment) *pipeline.Pipeline {
	scripts := r.dirs().Scripts
	cond, notify := r.notify(env, "JS compiled and concatenated successfully!")
	return pipeline.From(TaskJS, r.src(scripts, ModernizrFile), r.src(scripts, ScriptBundle)).
		Pipe(
			stages.Concat(ScriptBundle),
			stages.Dest(r.src(scripts)),
			stages.Reload(r.deps.Reloader),
		).
		PipeIf(cond, notify)
}

func (r *Recipes) lintJS(env domain.Environment) *pipeline.Pipeline {
	scripts := r.dirs().Scripts
	return pipeline.From(TaskLintJS, r.src(scripts, "main.js"), r.src(scripts, "modules", "*.js")).
		Pipe(r.deps.Tools.Lint(env, config.ToolJSHint))
}

func (r *Recipes) poToMo(env domain.Environment) *pipeline.Pipeline {
	languages := r.dirs().Languages
	return pipeline.From(TaskPoToMo, r.src(languages, "*.po")).Pipe(
		r.deps.Tools.Exec(env, config.ToolMsgfmt),
		stages.Rename(".mo"),
		stages.Dest(r.src(languages)),
	)
}

func (r *Recipes) lintPHP(env domain.Environment) *pipeline.Pipeline {
	return pipeline.From(TaskLintPHP,
		r.src("**", "*.php"),
		"!"+r.src("vendor", "**"),
		"!"+r.src("node_modules", "**"),
	).
		Pipe(r.deps.Tools.Lint(env, config.ToolPHPCS))
}

func (r *Recipes) copyJSLibs(_ domain.Environment) *pipeline.Pipeline {
	libs := make([]string, len(r.deps.Project.JSLibs))
	for i, lib := range r.deps.Project.JSLibs {
		libs[i] = r.src(lib)
	}

	existing, missing := stages.Existing(libs)
	for _, lib := range missing {
		r.deps.Logger.Warn(fmt.Sprintf("%s: skipping missing library %s", TaskJSLibs, lib))
	}

	return pipeline.From(TaskJSLibs, existing...).
		Pipe(stages.Dest(r.src(r.dirs().Scripts, LibsDir)))
}

func (r *Recipes) reload(_ domain.Environment) *pipeline.Pipeline {
	return pipeline.From(TaskReload).Pipe(stages.Reload(r.deps.Reloader))
}
