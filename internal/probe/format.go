package probe

import (
	"fmt"
	"math"
	"strings"

	"github.com/rileyhilliard/hoststat/internal/sample"
)

const (
	gigabyte = 1024 * 1024 * 1024

	// maxBarWidth caps graphic bars so a large swing cannot wrap the terminal.
	maxBarWidth = 60
)

func gb(b uint64) float64 {
	return float64(b) / gigabyte
}

// FormatMemoryRow renders one memory table row. With graphics, a bar shows
// the change in virtual memory used since prev: '#' per 0.01 GB of growth
// ending in '*', ':' per 0.01 GB of shrinkage ending in '@', or 'o' when
// there is no prior sample or no change.
func FormatMemoryRow(cur sample.Memory, prev *sample.Memory, graphics bool) string {
	row := fmt.Sprintf("%.2f GB / %.2f GB  -- %.2f GB / %.2f GB",
		gb(cur.PhysicalUsed), gb(cur.PhysicalTotal), gb(cur.VirtualUsed), gb(cur.VirtualTotal))
	if !graphics {
		return row + "\n"
	}

	var delta float64
	if prev != nil {
		delta = gb(cur.VirtualUsed) - gb(prev.VirtualUsed)
	}
	steps := int(math.Round(math.Abs(delta) * 100))
	if steps > maxBarWidth {
		steps = maxBarWidth
	}

	var bar string
	switch {
	case steps == 0:
		bar = "o"
	case delta > 0:
		bar = strings.Repeat("#", steps) + "*"
	default:
		bar = strings.Repeat(":", steps) + "@"
	}
	return fmt.Sprintf("%s   |%s %.2f (%.2f)\n", row, bar, delta, gb(cur.VirtualUsed))
}

// Utilization returns the share of non-idle time between two CPU samples, in
// percent. Counters that went backwards (a reset) or did not move yield 0.
func Utilization(prev, cur sample.CPU) float64 {
	if cur.Total() <= prev.Total() || cur.Busy() < prev.Busy() {
		return 0
	}
	total := float64(cur.Total() - prev.Total())
	busy := float64(cur.Busy() - prev.Busy())
	u := busy / total * 100
	if u > 100 {
		return 100
	}
	return u
}

// FormatCPURow renders one CPU table row: utilization and the absolute change
// from the previous cycle's utilization, followed by a bar when graphics is on.
func FormatCPURow(util float64, prevUtil *float64, graphics bool) string {
	change := "   --"
	if prevUtil != nil {
		change = fmt.Sprintf("%+6.2f", util-*prevUtil)
	}
	row := fmt.Sprintf("%6.2f %%  %s", util, change)
	if !graphics {
		return row + "\n"
	}
	bars := int(util / 2)
	if bars > maxBarWidth {
		bars = maxBarWidth
	}
	return fmt.Sprintf("%s   |%s %.2f\n", row, strings.Repeat("|", bars), util)
}

// FormatAverage renders the cumulative utilization line.
func FormatAverage(util float64) string {
	return fmt.Sprintf("Average CPU utilization since first sample: %.2f %%\n", util)
}

// FormatSessions renders the session listing, one session per line.
func FormatSessions(sessions []Session) string {
	if len(sessions) == 0 {
		return "(no active sessions)\n"
	}
	var b strings.Builder
	for _, s := range sessions {
		host := s.Host
		if host == "" {
			host = "local"
		}
		fmt.Fprintf(&b, "%-12s %-10s (%s)\n", s.User, s.Terminal, host)
	}
	return b.String()
}
