// Package export renders operator system reports into shareable formats.
package export

import (
	"github.com/omnibridge/omnibridge/internal/operator"
)

// registry maps format names to renderer implementations.
var registry = map[string]operator.ReportRenderer{
	"markdown": &MarkdownExporter{},
	"json":     &JSONExporter{},
}

// Get returns the renderer registered under name, and whether it was found.
func Get(name string) (operator.ReportRenderer, bool) {
	r, ok := registry[name]
	return r, ok
}

// ValidFormats returns the list of supported export format names.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	return formats
}

// Extension returns the file extension for a format name.
func Extension(format string) string {
	switch format {
	case "json":
		return ".json"
	default:
		return ".md"
	}
}
