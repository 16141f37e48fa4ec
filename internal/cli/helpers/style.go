package helpers

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Heading styles s as a section heading when w is a terminal.
func Heading(w io.Writer, s string) string {
	if !IsTerminal(w) {
		return s
	}
	return headingStyle.Render(s)
}

// Dim styles s as secondary text when w is a terminal.
func Dim(w io.Writer, s string) string {
	if !IsTerminal(w) {
		return s
	}
	return dimStyle.Render(s)
}
