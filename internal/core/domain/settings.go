package domain

import (
	"maps"
	"slices"
)

// Settings are project wide key-value pairs shared with the style sheets.
type Settings map[string]any

// Keys returns the setting names in sorted order.
func (s Settings) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}
