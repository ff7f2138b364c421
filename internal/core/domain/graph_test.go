package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestGraph_AddDuplicate(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add("build", leaf("a")))

	err := g.Add("build", leaf("b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNodeAlreadyExists.Error())
}

func TestGraph_AddNil(t *testing.T) {
	g := domain.NewGraph()
	err := g.Add("build", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNilNode.Error())
}

func TestGraph_ResolvesRefs(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add("build_svg_sprite", leaf("build_svg_sprite")))
	require.NoError(t, g.Add("build_css", domain.NewSequence(
		domain.NewRef("build_svg_sprite"),
		leaf("compile_css"),
	)))
	require.NoError(t, g.Add("default", domain.NewParallel(domain.NewRef("build_css"))))

	require.NoError(t, g.Validate())
	assert.Equal(t, []string{"build_svg_sprite", "build_css", "default"}, g.Names())

	root, err := g.Node("default")
	require.NoError(t, err)
	require.Equal(t, domain.KindParallel, root.Kind())

	css := root.Children()[0]
	require.Equal(t, domain.KindSequence, css.Kind())
	children := css.Children()
	assert.Equal(t, domain.KindLeaf, children[0].Kind())
	assert.Equal(t, "build_svg_sprite", children[0].Name())
	assert.Equal(t, "compile_css", children[1].Name())
	require.NoError(t, root.Validate())
}

func TestGraph_NodeValidatesLazily(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add("reload", leaf("reload")))

	node, err := g.Node("reload")
	require.NoError(t, err)
	assert.Equal(t, "reload", node.Name())

	_, err = g.Node("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNodeNotFound.Error())
}

func TestGraph_RejectsSelfReference(t *testing.T) {
	tests := []struct {
		name string
		node *domain.Node
	}{
		{name: "direct", node: domain.NewSequence(domain.NewRef("build"))},
		{name: "nested", node: domain.NewParallel(leaf("a"), domain.NewSequence(leaf("b"), domain.NewRef("build")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			require.NoError(t, g.Add("build", tt.node))

			err := g.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), domain.ErrSelfReference.Error())
		})
	}
}

func TestGraph_RejectsCycle(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add("a", domain.NewSequence(domain.NewRef("b"))))
	require.NoError(t, g.Add("b", domain.NewParallel(domain.NewRef("c"))))
	require.NoError(t, g.Add("c", domain.NewSequence(domain.NewRef("a"))))

	err := g.Validate()
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, domain.ErrCycleDetected.Error(), zErr.Message())
	assert.Equal(t, "a -> b -> c -> a", zErr.Metadata()["cycle"])
}

func TestGraph_RejectsMissingReference(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add("build", domain.NewSequence(domain.NewRef("nope"))))

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrMissingReference.Error())
}
