package recipes

import (
	"path"

	"go.trai.ch/kiln/internal/core/domain"
)

// Exported graph names.
const (
	GraphDefault = "default"
	GraphBuild   = "build"
)

// Build returns the full asset build.
func (r *Recipes) Build() *domain.Node {
	return domain.NewParallel(
		r.leaf(TaskPoToMo),
		r.leaf(TaskJSLibs),
		domain.NewSequence(r.leaf(TaskSVGSprite), r.leaf(TaskCSS), r.leaf(TaskModernizr)),
		domain.NewSequence(r.leaf(TaskBundleJS), r.leaf(TaskJS)),
		r.leaf(TaskLintPHP),
	)
}

// Graph registers every exported name: the default build, its "build" alias
// and each task. build_css also rebuilds the sprite its style sheet includes.
func (r *Recipes) Graph() (*domain.Graph, error) {
	g := domain.NewGraph()

	if err := g.Add(GraphDefault, r.Build()); err != nil {
		return nil, err
	}
	if err := g.Add(GraphBuild, domain.NewRef(GraphDefault)); err != nil {
		return nil, err
	}
	for _, name := range r.order {
		node := r.leaf(name)
		if name == TaskCSS {
			node = domain.NewSequence(r.leaf(TaskSVGSprite), node)
		}
		if err := g.Add(name, node); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Subscriptions returns the watch subscriptions of serve and watch mode.
// Patterns are relative to the project root.
func (r *Recipes) Subscriptions() []domain.Subscription {
	d := r.dirs()
	reload := r.leaf(TaskReload)

	return []domain.Subscription{
		{
			Name:     "scripts",
			Patterns: []string{path.Join(d.Scripts, "main.js"), path.Join(d.Scripts, "modules", "*.js")},
			Node: domain.NewParallel(
				r.leaf(TaskLintJS),
				domain.NewSequence(r.leaf(TaskBundleJS), r.leaf(TaskJS), reload),
			),
		},
		{
			Name:     "templates",
			Patterns: []string{"**/*.php", path.Join(d.Templates, "**", "*.twig")},
			Node:     reload,
		},
		{
			Name:     "php",
			Patterns: []string{"**/*.php"},
			Node:     r.leaf(TaskLintPHP),
		},
		{
			Name:     "styles",
			Patterns: []string{path.Join(d.Styles, "**", "*.scss")},
			Node: domain.NewParallel(
				r.leaf(TaskLintCSS),
				domain.NewSequence(r.leaf(TaskSVGSprite), r.leaf(TaskCSS)),
			),
		},
		{
			Name:     "svg",
			Patterns: []string{path.Join(d.Assets, SpriteSources, "*.svg")},
			Node:     domain.NewSequence(r.leaf(TaskSVGSprite), reload),
		},
		{
			Name:     "languages",
			Patterns: []string{path.Join(d.Languages, "*.po")},
			Node:     domain.NewSequence(r.leaf(TaskPoToMo), reload),
		},
	}
}
