// Package ui provides terminal output for the NeoSeg CLI: a lipgloss theme,
// headless-mode detection, and stage progress reporting that degrades to
// plain log lines without a TTY.
package ui

import "github.com/charmbracelet/lipgloss"

// ColorPalette holds the hex colors used across the CLI.
type ColorPalette struct {
	Primary   string
	Secondary string
	Success   string
	Error     string
	Warning   string
	Muted     string
}

// Theme bundles the palette with derived lipgloss styles.
type Theme struct {
	Colors  ColorPalette
	NoColor bool

	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme creates a Theme. With noColor set, all styles render plain text.
func NewTheme(noColor bool) *Theme {
	t := &Theme{
		Colors: ColorPalette{
			Primary:   "#7D56F4",
			Secondary: "#04B575",
			Success:   "#04B575",
			Error:     "#FF5F87",
			Warning:   "#FFAF00",
			Muted:     "#6C6C6C",
		},
		NoColor: noColor,
	}

	if noColor {
		plain := lipgloss.NewStyle()
		t.Title, t.Success, t.Error, t.Warning, t.Muted = plain, plain, plain, plain, plain
		return t
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Colors.Primary))
	t.Success = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Success))
	t.Error = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Error))
	t.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Warning))
	t.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Muted))
	return t
}

// OK renders a success marker followed by the message.
func (t *Theme) OK(msg string) string {
	return t.Success.Render("✓") + " " + msg
}

// Fail renders a failure marker followed by the message.
func (t *Theme) Fail(msg string) string {
	return t.Error.Render("✗") + " " + msg
}

// Warn renders a warning marker followed by the message.
func (t *Theme) Warn(msg string) string {
	return t.Warning.Render("!") + " " + msg
}
