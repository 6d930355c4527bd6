package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/hoststat/internal/ui"
)

// Rows reserved around the viewport.
const (
	headerHeight = 2
	footerHeight = 2
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.ColorPrimary)

	progressStyle = lipgloss.NewStyle().
			Foreground(ui.ColorInfo)

	doneStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)
)
