package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Color scheme for mpager
var (
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)
)

// Status indicators
const (
	CheckMark = "✓"
	CrossMark = "✗"
	Arrow     = "→"
	Bullet    = "•"
)

// InitColors initializes color settings from the configured mode (auto, always, never)
func InitColors(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
		return
	case "never":
		color.NoColor = true
		return
	}

	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	// Respect TERM environment variable
	if os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// Diagnostic prints the one-line failure report mpager emits before exiting
func Diagnostic(w io.Writer, kind, detail string) {
	if detail == "" {
		Error.Fprintf(w, "mpager: %s\n", kind)
		return
	}
	Error.Fprintf(w, "mpager: %s: ", kind)
	fmt.Fprintln(w, detail)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	Success.Fprintf(w, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...interface{}) {
	Error.Fprintf(w, "%s %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	Warning.Fprintf(w, "! %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, format string, args ...interface{}) {
	Info.Fprintf(w, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintHeader prints a section header
func PrintHeader(w io.Writer, text string) {
	fmt.Fprintln(w)
	Bold.Fprintln(w, text)
	Muted.Fprintln(w, "────────────────────────────────────────")
}

// PrintSubheader prints a subsection header
func PrintSubheader(w io.Writer, text string) {
	fmt.Fprintln(w)
	Highlight.Fprintln(w, text)
}

// PrintList prints a bulleted list
func PrintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", Muted.Sprint(Bullet), item)
	}
}

// ColorizeOutcome returns a colored probe outcome string
func ColorizeOutcome(outcome string) string {
	switch outcome {
	case "available":
		return Success.Sprint(outcome)
	case "not-found":
		return Muted.Sprint(outcome)
	case "unusable":
		return Warning.Sprint(outcome)
	default:
		return outcome
	}
}

// AreColorsEnabled returns whether colors are currently enabled
func AreColorsEnabled() bool {
	return !color.NoColor
}
