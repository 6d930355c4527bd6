// Package ui holds the small set of terminal presentation helpers shared by
// the text report and the dashboard.
//
// # Colors
//
// Colors are ANSI codes so they degrade cleanly on basic terminals:
//
//	ColorSuccess (green)  - utilization below 60%
//	ColorWarning (yellow) - utilization from 60% to 80%
//	ColorError   (red)    - utilization of 80% and above
//	ColorInfo    (cyan)   - section headings
//	ColorMuted   (gray)   - dividers and secondary text
//
// ThresholdColor maps a percentage onto the first three.
//
// # Sparkline
//
// Sparkline draws a CPU utilization history with block characters:
//
//	ui.Sparkline([]float64{5, 40, 100}, 40) // "▁▃█"
package ui
