package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/environment"
	"go.trai.ch/kiln/internal/core/domain"
)

func lookupFrom(vars map[string]string) environment.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
		vars  map[string]string
		want  domain.Environment
	}{
		{
			name: "defaults",
			want: domain.Environment{Name: "dev", Dev: true, Port: 3001},
		},
		{
			name: "env var production",
			vars: map[string]string{"ENV": "production"},
			want: domain.Environment{Name: "production", Dev: false, Port: 3001},
		},
		{
			name:  "flag beats env var",
			flags: map[string]string{"env": "dev"},
			vars:  map[string]string{"ENV": "production"},
			want:  domain.Environment{Name: "dev", Dev: true, Port: 3001},
		},
		{
			name:  "flag production beats env var dev",
			flags: map[string]string{"env": "prod"},
			vars:  map[string]string{"ENV": "dev"},
			want:  domain.Environment{Name: "prod", Dev: false, Port: 3001},
		},
		{
			name: "dev match is exact",
			vars: map[string]string{"ENV": "Dev"},
			want: domain.Environment{Name: "Dev", Dev: false, Port: 3001},
		},
		{
			name: "empty env var is not dev",
			vars: map[string]string{"ENV": ""},
			want: domain.Environment{Name: "", Dev: false, Port: 3001},
		},
		{
			name:  "port and host",
			flags: map[string]string{"port": "8080"},
			vars:  map[string]string{"PORT": "9000", "HOST": "localhost:8000"},
			want:  domain.Environment{Name: "dev", Dev: true, Port: 8080, Host: "localhost:8000"},
		},
		{
			name: "port from env var",
			vars: map[string]string{"PORT": " 4000 "},
			want: domain.Environment{Name: "dev", Dev: true, Port: 4000},
		},
		{
			name: "empty port and host keep defaults",
			vars: map[string]string{"PORT": "", "HOST": "  "},
			want: domain.Environment{Name: "dev", Dev: true, Port: 3001},
		},
		{
			name:  "blank port flag falls through to env var",
			flags: map[string]string{"port": " "},
			vars:  map[string]string{"PORT": "4000"},
			want:  domain.Environment{Name: "dev", Dev: true, Port: 4000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := environment.NewResolverWithLookup(lookupFrom(tt.vars))

			got, err := r.Resolve(tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_InvalidPort(t *testing.T) {
	for _, port := range []string{"abc", "0", "70000", "-1"} {
		t.Run(port, func(t *testing.T) {
			r := environment.NewResolverWithLookup(lookupFrom(map[string]string{"PORT": port}))

			_, err := r.Resolve(nil)
			assert.ErrorContains(t, err, domain.ErrInvalidPort.Error())
		})
	}
}

func TestResolver_ProcessEnvironment(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("HOST", "wordpress.test")
	t.Setenv("PORT", "3002")

	got, err := environment.NewResolver().Resolve(nil)
	require.NoError(t, err)

	assert.False(t, got.Dev)
	assert.Equal(t, 3002, got.Port)
	assert.Equal(t, "wordpress.test", got.Host)
	assert.True(t, got.Proxying())
	assert.Equal(t, "production", got.Mode())
}
