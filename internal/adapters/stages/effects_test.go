package stages_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/stages"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), "kiln", "CSS compiled")

	input := domain.FileSet{{Path: "/p/style.css"}}
	out, err := stages.Notify(notifier, "kiln", "CSS compiled").Transform(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestReload(t *testing.T) {
	ctrl := gomock.NewController(t)
	reloader := mocks.NewMockReloader(ctrl)
	reloader.EXPECT().Reload("/p/style.css", "/p/js/scripts.min.js")

	input := domain.FileSet{{Path: "/p/style.css"}, {Path: "/p/js/scripts.min.js"}}
	_, err := stages.Reload(reloader).Transform(context.Background(), input)
	require.NoError(t, err)
}

func TestReload_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	reloader := mocks.NewMockReloader(ctrl)
	reloader.EXPECT().Reload()

	_, err := stages.Reload(reloader).Transform(context.Background(), nil)
	require.NoError(t, err)
}
