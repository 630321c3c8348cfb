// Package output handles formatting CLI output as table, JSON, or compact.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// EnvFormat names the environment variable that selects a default format.
const EnvFormat = "TASKLENS_OUTPUT"

// Detect returns the format selected by flags, then TASKLENS_OUTPUT, then
// table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if tableFlag {
		return FormatTable
	}

	switch os.Getenv(EnvFormat) {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}
	return FormatTable
}

// colorEnabled tracks DisableColor for renderers that do not go through
// lipgloss, such as glamour.
var colorEnabled = true

// DisableColor strips all styling from rendered output.
func DisableColor() {
	colorEnabled = false
	lipgloss.SetColorProfile(termenv.Ascii)
}
