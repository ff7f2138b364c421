package stages

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

// DevVariable is the Sass variable holding the dev flag.
const DevVariable = "$_is-env-dev"

// SassVariables prepends a "$_<key>: <value>;" declaration per setting, plus
// the dev flag, to every file.
func SassVariables(settings domain.Settings, env domain.Environment) ports.Stage {
	header := SassHeader(settings, env)
	return pipeline.StageFunc("sass-variables", func(_ context.Context, files domain.FileSet) (domain.FileSet, error) {
		out := make(domain.FileSet, len(files))
		for i, f := range files {
			injected := f.Clone()
			injected.Contents = append([]byte(header), f.Contents...)
			out[i] = injected
		}
		return out, nil
	})
}

// SassHeader renders the variable declarations injected by SassVariables.
func SassHeader(settings domain.Settings, env domain.Environment) string {
	var b strings.Builder
	for _, key := range settings.Keys() {
		fmt.Fprintf(&b, "$_%s: %s;\n", key, sassValue(settings[key]))
	}
	fmt.Fprintf(&b, "%s: %t;\n", DevVariable, env.Dev)
	return b.String()
}

func sassValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = sassValue(item)
		}
		return "(" + strings.Join(items, ", ") + ")"
	case map[string]any:
		keys := slices.Sorted(maps.Keys(val))
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = k + ": " + sassValue(val[k])
		}
		return "(" + strings.Join(items, ", ") + ")"
	default:
		return fmt.Sprint(val)
	}
}
