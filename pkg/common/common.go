package common

import (
	"path/filepath"
	"strings"
)

// ContextFormat names the encoding of a context source.
type ContextFormat string

const (
	FormatYAML     ContextFormat = "yaml"
	FormatJSON     ContextFormat = "json"
	FormatStarlark ContextFormat = "starlark"
)

var AllFormats = []ContextFormat{FormatYAML, FormatJSON, FormatStarlark}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (ContextFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".star", ".starlark", ".sky":
		return FormatStarlark, true
	default:
		return "", false
	}
}
