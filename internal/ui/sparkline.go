package ui

import "strings"

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// Sparkline renders percentages (0-100) as a row of block characters, one
// per value. Only the most recent width values are drawn. Levels are on a
// fixed 0-100 scale so a flat 5% line and a flat 95% line look different.
// The result is unstyled; pair it with ThresholdColor.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	top := len(sparklineBlockRunes) - 1
	for _, v := range data {
		level := int(v / 100 * float64(top))
		if level < 0 {
			level = 0
		} else if level > top {
			level = top
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}
	return sb.String()
}
