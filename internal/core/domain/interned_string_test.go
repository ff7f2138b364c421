package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("build_css")
	b := domain.NewInternedString("build_css")

	assert.Equal(t, a, b)
	assert.Equal(t, "build_css", a.String())
	assert.False(t, a.IsZero())

	text, err := a.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "build_css", string(text))
}

func TestInternedString_Zero(t *testing.T) {
	var s domain.InternedString

	assert.True(t, s.IsZero())
	assert.Empty(t, s.String())
}
