package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/hoststat/internal/ui"
)

// ClearScreen erases the screen and scrollback and homes the cursor. It is
// written before every cycle frame unless the report is sequential.
const ClearScreen = "\033[2J\033[3J\033[2J\033[H"

const (
	sectionDivider = "---------------------------------------"
	frameRule      = "======================================="

	// sparklineWidth is the number of recent cycles the CPU sparkline shows.
	sparklineWidth = 40
)

// Renderer renders frames to strings.
type Renderer struct {
	opts Options

	lg        *lipgloss.Renderer
	titleSt   lipgloss.Style
	headingSt lipgloss.Style
	mutedSt   lipgloss.Style
}

// NewRenderer creates a renderer whose styles target w. Without opts.Color
// every style renders as plain text.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if !opts.Color {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		opts:      opts,
		lg:        lg,
		titleSt:   lg.NewStyle().Bold(true).Foreground(ui.ColorPrimary),
		headingSt: lg.NewStyle().Foreground(ui.ColorInfo),
		mutedSt:   lg.NewStyle().Foreground(ui.ColorMuted),
	}
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render renders one cycle frame. It has no side effects.
func (r *Renderer) Render(f Frame) string {
	var b strings.Builder
	n := int(f.Cycle) + 1
	sections := r.opts.Sections

	b.WriteString("\n")
	b.WriteString(r.titleSt.Render(fmt.Sprintf("||| Sample #%d |||", n)))
	b.WriteString("\n")
	r.divider(&b)
	fmt.Fprintf(&b, "Nbr of samples: %d -- every %s secs\n", f.Samples, seconds(f.Delay))
	fmt.Fprintf(&b, "Memory usage: %s kilobytes\n", humanize.Comma(f.SelfKB))
	r.divider(&b)

	if sections.ShowSystem() {
		heading := "### Memory ### (Phys.Used/Tot -- Virtual Used/Tot)"
		if r.opts.Graphics {
			heading = "### Memory ### (Phys.Used/Tot -- Virtual Used/Tot, Memory Graphic)"
		}
		b.WriteString(r.headingSt.Render(heading))
		b.WriteString("\n")
		writeRows(&b, f.MemoryRows)
		r.divider(&b)
	}

	if sections.ShowUser() {
		b.WriteString(r.headingSt.Render("### Sessions/users ###"))
		b.WriteString("\n")
		b.WriteString(f.Sessions)
		r.divider(&b)
	}

	if sections.ShowSystem() {
		fmt.Fprintf(&b, "Number of processors: %d\n", f.Processors)
		fmt.Fprintf(&b, "Total number of cores: %d\n", f.Cores)
		b.WriteString(f.Average)
		r.divider(&b)

		heading := "CPU Utilization (% Use, Relative Abs. Change)"
		if r.opts.Graphics {
			heading = "CPU Utilization (% Use, Relative Abs. Change, % Use Graphic)"
		}
		b.WriteString(r.headingSt.Render(heading))
		if r.opts.Graphics && len(f.Utilizations) > 0 {
			b.WriteString("  ")
			b.WriteString(r.sparkline(f.Utilizations))
		}
		b.WriteString("\n")
		writeRows(&b, f.CPURows)
		r.divider(&b)
	}

	b.WriteString(r.titleSt.Render(fmt.Sprintf("||| End of Sample #%d |||", n)))
	b.WriteString("\n")
	b.WriteString(FrameDivider(f.Elapsed))
	return b.String()
}

// RenderInfo renders the trailing system information frame.
func (r *Renderer) RenderInfo(f InfoFrame) string {
	var b strings.Builder
	info := f.Info

	r.divider(&b)
	b.WriteString(r.headingSt.Render("### System Information ###"))
	b.WriteString("\n")
	fmt.Fprintf(&b, " System Name = %s\n", info.SystemName)
	fmt.Fprintf(&b, " Machine Name = %s\n", info.MachineName)
	fmt.Fprintf(&b, " Version = %s\n", info.Version)
	fmt.Fprintf(&b, " Release = %s\n", info.Release)
	fmt.Fprintf(&b, " Architecture = %s\n", info.Architecture)
	fmt.Fprintf(&b, " System running since last reboot: %s\n", FormatUptime(info.Uptime))
	r.divider(&b)
	b.WriteString(FrameDivider(f.Elapsed))
	return b.String()
}

func (r *Renderer) divider(b *strings.Builder) {
	b.WriteString(r.mutedSt.Render(sectionDivider))
	b.WriteString("\n")
}

func (r *Renderer) sparkline(data []float64) string {
	spark := ui.Sparkline(data, sparklineWidth)
	color := ui.ThresholdColor(data[len(data)-1])
	return r.lg.NewStyle().Foreground(color).Render(spark)
}

// FrameDivider is the line that ends every frame. A run of N cycles writes
// exactly N+1 of them.
func FrameDivider(elapsed time.Duration) string {
	return fmt.Sprintf("%s %s elapsed %s\n\n", frameRule, units.HumanDuration(elapsed), frameRule)
}

// FormatUptime renders an uptime as "D days HH:MM:SS (human)".
func FormatUptime(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	h := (total % 86400) / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d days %02d:%02d:%02d (%s)", days, h, m, s, units.HumanDuration(d))
}

func writeRows(b *strings.Builder, rows []string) {
	for _, row := range rows {
		if row == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(row)
	}
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
