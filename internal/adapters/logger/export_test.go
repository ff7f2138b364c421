// export_test.go exports private functions for white-box testing.
package logger

// ExportErrorFormatting exports the private error formatting functions for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)

// EntryLevels returns the nesting level of every collected entry.
func EntryLevels(err error) []int {
	entries := collectErrorEntries(err)
	levels := make([]int, len(entries))
	for i, e := range entries {
		levels[i] = e.level
	}
	return levels
}
