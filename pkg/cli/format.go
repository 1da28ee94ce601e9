// Package cli provides shared formatting helpers for the netman CLI.
package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// colorEnabled is false when NO_COLOR is set (per no-color.org) or stdout is
// not a terminal.
var colorEnabled = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

// SetColor forces colour output on or off.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled reports whether colour codes are emitted.
func ColorEnabled() bool {
	return colorEnabled
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Green wraps s in ANSI green when colour is enabled.
func Green(s string) string { return paint("32", s) }

// Yellow wraps s in ANSI yellow when colour is enabled.
func Yellow(s string) string { return paint("33", s) }

// Red wraps s in ANSI red when colour is enabled.
func Red(s string) string { return paint("31", s) }

// Bold wraps s in ANSI bold when colour is enabled.
func Bold(s string) string { return paint("1", s) }

// Dim wraps s in ANSI dim when colour is enabled.
func Dim(s string) string { return paint("2", s) }

// OK renders a success flag as a green yes or a red no label.
func OK(ok bool, yes, no string) string {
	if ok {
		return Green(yes)
	}
	return Red(no)
}

// DotPad pads name with dots to the given width.
// Example: DotPad("uptime", 12) → "uptime ....."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
