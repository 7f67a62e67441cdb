// Package tui implements a single live progress view for one workflow run
// (`flowforge run --watch`). It is a deliberately small slice of the
// teacher's internal/tui package: the teacher renders a full multi-pipeline
// dashboard (internal/tui/dashboard) over a level-based parallel execution
// plan, a product surface the engine this repo builds has no equivalent
// of — a single run walks one node at a time (spec §5). What survives is
// the teacher's event-message/Init-Update-View shape and its use of
// bubbles/spinner + lipgloss for rendering.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// NodeEnteredMsg reports that the engine has begun evaluating node.
type NodeEnteredMsg struct {
	Node string
	At   time.Time
}

// RunFinishedMsg carries the terminal outcome of the run.
type RunFinishedMsg struct {
	Ok      bool
	Message string
}

var (
	styleNode    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleSuccess = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	styleFailure = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	styleLog     = lipgloss.NewStyle().Faint(true)
)

// Model is the Bubbletea state for one workflow run's live progress view.
type Model struct {
	workflow string
	spin     spinner.Model
	history  []string
	current  string
	finished bool
	ok       bool
	message  string
}

// NewModel constructs the progress view for workflow.
func NewModel(workflow string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{workflow: workflow, spin: s}
}

// Init starts the spinner animation.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles engine progress messages and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case NodeEnteredMsg:
		if m.current != "" {
			m.history = append(m.history, m.current)
		}
		m.current = v.Node
		return m, nil

	case RunFinishedMsg:
		if m.current != "" {
			m.history = append(m.history, m.current)
		}
		m.current = ""
		m.finished = true
		m.ok = v.Ok
		m.message = v.Message
		return m, tea.Quit

	case tea.KeyMsg:
		if v.String() == "ctrl+c" || v.String() == "q" {
			return m, tea.Quit
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
}

// View renders the current node, the trail of nodes already visited, and
// the terminal outcome once the run has finished.
func (m Model) View() string {
	out := fmt.Sprintf("workflow: %s\n\n", m.workflow)
	for _, n := range m.history {
		out += styleLog.Render("  "+n+" -> ") + "\n"
	}

	if m.finished {
		if m.ok {
			out += styleSuccess.Render("SUCCESS") + ": " + m.message + "\n"
		} else {
			out += styleFailure.Render("FAILURE") + ": " + m.message + "\n"
		}
		return out
	}

	out += m.spin.View() + " " + styleNode.Render(m.current) + "\n"
	return out
}
