// Package ui provides terminal styles for CLI output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Accent renders s in the accent color.
func Accent(s string) string { return accentStyle.Render(s) }

// Good renders s as a success.
func Good(s string) string { return goodStyle.Render(s) }

// Bad renders s as a failure.
func Bad(s string) string { return badStyle.Render(s) }

// Dim renders s de-emphasized.
func Dim(s string) string { return dimStyle.Render(s) }

// Checkbox renders a completion marker.
func Checkbox(done bool) string {
	if done {
		return goodStyle.Render("[x]")
	}
	return "[ ]"
}
