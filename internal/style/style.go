// Package style provides consistent terminal styling for roster's
// non-interactive commands using Lipgloss.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Success style for positive outcomes
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")). // Green
		Bold(true)

	// Warning style for cautionary messages
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")). // Yellow
		Bold(true)

	// Error style for failures
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")). // Red
		Bold(true)

	// Info style for informational messages
	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")) // Blue

	// Dim style for secondary information
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")) // Gray

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)

	// Header style for table headings
	Header = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true).
		Padding(0, 1)

	// Cell style for table cells
	Cell = lipgloss.NewStyle().
		Padding(0, 1)

	// SuccessPrefix is the checkmark prefix for success messages
	SuccessPrefix = Success.Render("✓")

	// WarningPrefix is the warning prefix
	WarningPrefix = Warning.Render("⚠")

	// ErrorPrefix is the error prefix
	ErrorPrefix = Error.Render("✗")
)

// ForLevel returns the style used for a log line at the given slog level
// name ("DEBUG", "INFO", "WARN", "ERROR"). Unknown levels are unstyled.
func ForLevel(level string) lipgloss.Style {
	switch level {
	case "ERROR":
		return Error
	case "WARN":
		return Warning
	case "DEBUG":
		return Dim
	}
	return lipgloss.NewStyle()
}
