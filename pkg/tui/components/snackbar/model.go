// Package snackbar shows short-lived notifications under the active view.
package snackbar

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/retailers/pkg/tui/events"
	"tableflip.dev/retailers/pkg/tui/ui"
)

// DismissKey hides the visible notification early.
const DismissKey = "ctrl+o"

type expireMsg struct {
	seq int
}

// Model holds at most one notification. A newer notification replaces the
// visible one and restarts its timer.
type Model struct {
	message string
	action  string
	visible bool
	seq     int
	width   int
}

// NewModel constructs a hidden snackbar.
func NewModel() *Model {
	return &Model{width: 80}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update shows notifications and expires them.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case events.NotifyMsg:
		return m, m.Show(msg)
	case expireMsg:
		if msg.seq == m.seq {
			m.visible = false
		}
	case tea.KeyPressMsg:
		if m.visible && msg.String() == DismissKey {
			m.Dismiss()
		}
	}
	return m, nil
}

// Show displays n and returns the expiry tick.
func (m *Model) Show(n events.NotifyMsg) tea.Cmd {
	m.seq++
	m.message = n.Message
	m.action = n.Action
	if m.action == "" {
		m.action = events.DefaultNotifyAction
	}
	m.visible = true
	d := n.Duration
	if d <= 0 {
		d = events.DefaultNotifyDuration
	}
	seq := m.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return expireMsg{seq: seq}
	})
}

// Dismiss hides the current notification.
func (m *Model) Dismiss() {
	m.visible = false
}

// Visible reports whether a notification is on screen.
func (m *Model) Visible() bool { return m.visible }

// Message returns the current notification text.
func (m *Model) Message() string { return m.message }

// SetSize sets the available width.
func (m *Model) SetSize(width, _ int) {
	if width <= 0 {
		width = 80
	}
	m.width = width
}

// View renders the notification, or nothing when hidden.
func (m *Model) View() string {
	if !m.visible {
		return ""
	}
	action := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Render(m.action + " (" + DismissKey + ")")
	body := lipgloss.NewStyle().
		Width(max(m.width-4, 1)).
		Padding(0, 1).
		Background(lipgloss.Color("236")).
		Render(m.message + "  " + action)
	return body
}
