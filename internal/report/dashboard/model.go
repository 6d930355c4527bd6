package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/rileyhilliard/hoststat/internal/ui"
)

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the Bubble Tea model for the dashboard. It shows the latest
// frame in a scrollable viewport under a one-line status header.
type Model struct {
	viewport viewport.Model
	ready    bool
	spinner  spinner.Model

	frame       string
	info        string
	cycle       sample.CycleIndex
	samples     int
	utilization float64
	awaiting    bool
	started     bool

	completed  bool
	err        error
	width      int
	height     int
	cancelFunc context.CancelFunc
	quitting   bool
}

// NewModel creates a new dashboard model. cancelFunc stops the run when the
// user quits.
func NewModel(cancelFunc context.CancelFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"◐", "◓", "◑", "◒"},
		FPS:    spinner.Dot.FPS,
	}
	sp.Style = progressStyle
	return Model{
		spinner:    sp,
		cancelFunc: cancelFunc,
	}
}

// Init returns the initial command for the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			if m.cancelFunc != nil {
				m.cancelFunc()
			}
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.height - headerHeight - footerHeight
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, h)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = h
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AwaitingMsg:
		m.cycle = msg.Cycle
		m.awaiting = true
		m.started = true
		return m, nil

	case FrameMsg:
		m.cycle = msg.Cycle
		m.samples = msg.Samples
		m.utilization = msg.Utilization
		m.frame = msg.Text
		m.awaiting = false
		m.refresh()
		return m, nil

	case InfoMsg:
		m.info = msg.Text
		m.refresh()
		return m, nil

	case runDoneMsg:
		m.completed = true
		m.awaiting = false
		m.err = msg.err
		// Keep the last frame on screen until the user quits.
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.content())
	}
}

func (m Model) content() string {
	return m.frame + m.info
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n\n")
	if m.ready {
		sb.WriteString(m.viewport.View())
	} else {
		sb.WriteString(m.content())
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("hoststat")

	switch {
	case m.completed && m.err != nil:
		return title + " " + errorStyle.Render(ui.SymbolFail+" "+firstLine(m.err))
	case m.completed:
		return title + " " + doneStyle.Render(fmt.Sprintf("%s %d samples", ui.SymbolSuccess, m.samples))
	case m.awaiting:
		return title + " " + m.spinner.View() + " " +
			progressStyle.Render(fmt.Sprintf("sampling #%d", int(m.cycle)+1))
	case m.started:
		return title + " " + progressStyle.Render(fmt.Sprintf("%s sample #%d of %d", ui.SymbolComplete, int(m.cycle)+1, m.samples)) +
			" " + renderUtilization(m.utilization)
	default:
		return title + " " + footerStyle.Render(ui.SymbolPending+" capturing baseline")
	}
}

func (m Model) renderFooter() string {
	if m.completed {
		return footerStyle.Render("Press q to exit")
	}
	return footerStyle.Render("↑/↓: scroll | q: stop and exit")
}

func renderUtilization(util float64) string {
	return progressStyle.Foreground(ui.ThresholdColor(util)).Render(fmt.Sprintf("%.1f%% cpu", util))
}

// firstLine returns the headline of a structured error.
func firstLine(err error) string {
	s := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, ui.SymbolFail+" ")
}
