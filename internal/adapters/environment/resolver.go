// Package environment resolves the build environment from flags, process
// variables and defaults.
package environment

import (
	"os"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Setting names. They double as the CLI flag names; the process variables
// are their upper case forms.
const (
	KeyEnv  = "env"
	KeyPort = "port"
	KeyHost = "host"
)

// LookupFunc looks up a process environment variable.
type LookupFunc func(key string) (string, bool)

// Resolver builds the domain.Environment snapshot.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver creates a Resolver reading the process environment.
func NewResolver() *Resolver {
	return NewResolverWithLookup(os.LookupEnv)
}

// NewResolverWithLookup creates a Resolver reading variables through lookup.
func NewResolverWithLookup(lookup LookupFunc) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve picks each setting from flags, then the process environment, then
// the default. flags holds only the flags the user set explicitly.
func (r *Resolver) Resolve(flags map[string]string) (domain.Environment, error) {
	env := domain.Environment{
		Name: domain.DefaultEnvName,
		Dev:  true,
		Port: domain.DefaultPort,
	}

	if name, ok := r.value(flags, KeyEnv); ok {
		env.Name = name
		env.Dev = name == domain.DefaultEnvName
	}

	if raw, ok := r.nonBlank(flags, KeyPort); ok {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return domain.Environment{}, zerr.With(domain.ErrInvalidPort, "port", raw)
		}
		env.Port = port
	}

	if host, ok := r.nonBlank(flags, KeyHost); ok {
		env.Host = host
	}

	return env, nil
}

// nonBlank is value with blank values treated as unset at every level. An
// empty ENV still selects a non-dev build, so only port and host go through
// here.
func (r *Resolver) nonBlank(flags map[string]string, key string) (string, bool) {
	if v := strings.TrimSpace(flags[key]); v != "" {
		return v, true
	}
	v, ok := r.value(nil, key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *Resolver) value(flags map[string]string, key string) (string, bool) {
	if v, ok := flags[key]; ok {
		return v, true
	}
	if r.lookup == nil {
		return "", false
	}
	v, ok := r.lookup(strings.ToUpper(key))
	if !ok {
		return "", false
	}
	return v, true
}
