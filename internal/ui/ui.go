// Package ui prints user-facing progress, warnings and errors.
//
// Everything goes to stderr so that stdout only carries data a caller may
// want to pipe elsewhere, such as dry-run commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

var (
	writer io.Writer = os.Stderr
	quiet  bool
)

// SetWriter overrides the output writer; nil restores stderr.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	writer = w
}

// SetQuiet suppresses progress output. Warnings and errors are still printed.
func SetQuiet(q bool) {
	quiet = q
}

// --- Color detection ---

var color = detectColor(os.Stderr)

func detectColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColorEnabled overrides color detection (for testing).
func SetColorEnabled(enabled bool) {
	color = enabled
}

func ansi(code, s string) string {
	if !color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Bold returns s wrapped in bold ANSI codes.
func Bold(s string) string { return ansi("1", s) }

// Dim returns s wrapped in dim ANSI codes.
func Dim(s string) string { return ansi("2", s) }

// Green returns s wrapped in green ANSI codes.
func Green(s string) string { return ansi("32", s) }

// Red returns s wrapped in red ANSI codes.
func Red(s string) string { return ansi("31", s) }

// Yellow returns s wrapped in yellow ANSI codes.
func Yellow(s string) string { return ansi("33", s) }

// OKTag returns a green "✓".
func OKTag() string { return Green("✓") }

// FailTag returns a red "✗".
func FailTag() string { return Red("✗") }

// SkipTag returns a dim "-".
func SkipTag() string { return Dim("-") }

// Section prints a bold title with a thin underline to w.
func Section(w io.Writer, title string) {
	fmt.Fprintln(w, Bold(title))
	fmt.Fprintln(w, Dim(strings.Repeat("─", utf8.RuneCountInString(title))))
}

// Progressf prints a progress line unless output is quiet.
func Progressf(format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(writer, format+"\n", args...)
}

// Warnf prints a formatted warning.
func Warnf(format string, args ...any) {
	fmt.Fprintf(writer, "%s %s\n", Yellow("Warning:"), fmt.Sprintf(format, args...))
}

// Errorf prints a formatted error.
func Errorf(format string, args ...any) {
	fmt.Fprintf(writer, "%s %s\n", Red("Error:"), fmt.Sprintf(format, args...))
}
