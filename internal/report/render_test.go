package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() Frame {
	return Frame{
		Cycle:        1,
		Samples:      3,
		Delay:        time.Second,
		SelfKB:       12345,
		MemoryRows:   []string{"mem row 0\n", "mem row 1\n", ""},
		CPURows:      []string{"cpu row 0\n", "cpu row 1\n", ""},
		Utilizations: []float64{10, 90},
		Sessions:     "alice        pts/0      (local)\n",
		Processors:   8,
		Cores:        4,
		Average:      "Average CPU utilization since first sample: 50.00 %\n",
		Elapsed:      2 * time.Second,
	}
}

func newTestRenderer(opts Options) *Renderer {
	return NewRenderer(&bytes.Buffer{}, opts)
}

func TestRender_Layout(t *testing.T) {
	out := newTestRenderer(Options{}).Render(testFrame())

	assert.Contains(t, out, "||| Sample #2 |||\n")
	assert.Contains(t, out, "Nbr of samples: 3 -- every 1 secs\n")
	assert.Contains(t, out, "Memory usage: 12,345 kilobytes\n")
	assert.Contains(t, out, "### Memory ### (Phys.Used/Tot -- Virtual Used/Tot)\n")
	assert.Contains(t, out, "mem row 0\nmem row 1\n\n"+sectionDivider, "unsampled rows render as blank lines")
	assert.Contains(t, out, "### Sessions/users ###\nalice")
	assert.Contains(t, out, "Number of processors: 8\nTotal number of cores: 4\n")
	assert.Contains(t, out, "CPU Utilization (% Use, Relative Abs. Change)\n")
	assert.Contains(t, out, "||| End of Sample #2 |||\n")
	assert.True(t, strings.HasSuffix(out, FrameDivider(2*time.Second)))
	assert.NotContains(t, out, "\033[", "no escape codes without color")
}

func TestRender_IsIdempotent(t *testing.T) {
	r := newTestRenderer(Options{Graphics: true})
	f := testFrame()

	assert.Equal(t, r.Render(f), r.Render(f))
}

func TestRender_Sections(t *testing.T) {
	tests := []struct {
		name         string
		sections     Sections
		wantMemory   bool
		wantSessions bool
	}{
		{name: "neither flag shows all", sections: Sections{}, wantMemory: true, wantSessions: true},
		{name: "both flags show all", sections: Sections{System: true, User: true}, wantMemory: true, wantSessions: true},
		{name: "system hides sessions", sections: Sections{System: true}, wantMemory: true, wantSessions: false},
		{name: "user hides memory and cpu", sections: Sections{User: true}, wantMemory: false, wantSessions: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newTestRenderer(Options{Sections: tt.sections}).Render(testFrame())

			assert.Equal(t, tt.wantMemory, strings.Contains(out, "### Memory ###"))
			assert.Equal(t, tt.wantMemory, strings.Contains(out, "CPU Utilization"))
			assert.Equal(t, tt.wantSessions, strings.Contains(out, "### Sessions/users ###"))
			assert.Contains(t, out, "||| End of Sample #2 |||")
		})
	}
}

func TestRender_GraphicsHeadings(t *testing.T) {
	out := newTestRenderer(Options{Graphics: true}).Render(testFrame())

	assert.Contains(t, out, "Virtual Used/Tot, Memory Graphic)")
	assert.Contains(t, out, "CPU Utilization (% Use, Relative Abs. Change, % Use Graphic)  ▁▇\n")
}

func TestRenderInfo(t *testing.T) {
	out := newTestRenderer(Options{}).RenderInfo(InfoFrame{
		Info: probe.SystemInfo{
			SystemName:   "Linux",
			MachineName:  "box",
			Version:      "#1 SMP",
			Release:      "6.1.0",
			Architecture: "x86_64",
			Uptime:       26*time.Hour + 3*time.Minute + 4*time.Second,
		},
		Elapsed: 5 * time.Second,
	})

	assert.Contains(t, out, " System Name = Linux\n")
	assert.Contains(t, out, " Machine Name = box\n")
	assert.Contains(t, out, " Architecture = x86_64\n")
	assert.Contains(t, out, "System running since last reboot: 1 days 02:03:04")
	assert.True(t, strings.HasSuffix(out, FrameDivider(5*time.Second)))
}

func TestFrameDivider(t *testing.T) {
	assert.Contains(t, FrameDivider(3*time.Second), " 3 seconds elapsed ")
	assert.Contains(t, FrameDivider(0), "Less than a second")
}

func TestWriter_RefreshAndDividerCount(t *testing.T) {
	const n = 3
	tests := []struct {
		name       string
		sequential bool
		wantClears int
	}{
		{name: "refreshing", sequential: false, wantClears: n},
		{name: "sequential", sequential: true, wantClears: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, Options{Sequential: tt.sequential, Color: true})

			for i := 0; i < n; i++ {
				f := testFrame()
				f.Cycle = 0
				f.Samples = n
				require.NoError(t, w.Cycle(f))
			}
			require.NoError(t, w.Info(InfoFrame{}))

			out := buf.String()
			assert.Equal(t, n+1, strings.Count(out, frameRule+" "), "one frame divider per frame")
			assert.Equal(t, tt.wantClears, strings.Count(out, ClearScreen))
			assert.NotContains(t, out, "\033[1m", "color is disabled off a terminal")
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriter_WriteError(t *testing.T) {
	w := NewWriter(failingWriter{}, Options{})

	err := w.Cycle(testFrame())
	assert.ErrorIs(t, err, assert.AnError)
}
