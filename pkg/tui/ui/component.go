package ui

import tea "github.com/charmbracelet/bubbletea/v2"

// Component defines the contract for reusable Bubble Tea widgets.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Closer is implemented by components holding work that must stop when they
// are unmounted.
type Closer interface {
	Close()
}

// Close tears down c when it implements Closer.
func Close(c Component) {
	if closer, ok := c.(Closer); ok {
		closer.Close()
	}
}
