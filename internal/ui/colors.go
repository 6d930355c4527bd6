package ui

import "github.com/charmbracelet/lipgloss"

// Color palette using ANSI color codes for terminal compatibility.
// Under an ASCII color profile every one of these renders as plain text.

// Semantic colors for utilization thresholds and status
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Utilization thresholds, in percent, at which colors change.
const (
	WarnThreshold  = 60.0
	ErrorThreshold = 80.0
)

// ThresholdColor returns a color for a utilization percentage:
// green below WarnThreshold, yellow below ErrorThreshold, red above.
func ThresholdColor(percent float64) lipgloss.Color {
	switch {
	case percent >= ErrorThreshold:
		return ColorError
	case percent >= WarnThreshold:
		return ColorWarning
	default:
		return ColorSuccess
	}
}
