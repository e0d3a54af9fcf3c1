package events

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ChangeType enumerates supported change actions across components.
type ChangeType string

const (
	// ChangeCreate indicates a new resource was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing resource changed.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a resource was removed.
	ChangeDelete ChangeType = "delete"
)

// DefaultNotifyDuration is how long a notification stays on screen.
const DefaultNotifyDuration = 2000 * time.Millisecond

// DefaultNotifyAction labels the dismiss action of a notification.
const DefaultNotifyAction = "OK"

// NotifyMsg asks the notification surface to show a short message.
type NotifyMsg struct {
	Component ComponentID
	Message   string
	Action    string
	Duration  time.Duration
}

// Describe implements the logging helper.
func (m NotifyMsg) Describe() string {
	return fmt.Sprintf(`component:%q message:%q duration:%s`, m.Component, m.Message, m.Duration)
}

// NotifyCmd wraps a NotifyMsg with the default action and duration.
func NotifyCmd(component ComponentID, message string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{
			Component: component,
			Message:   message,
			Action:    DefaultNotifyAction,
			Duration:  DefaultNotifyDuration,
		}
	}
}

// NavigateMsg asks the root model to mount the view at Path.
type NavigateMsg struct {
	Component ComponentID
	Path      string
}

// Describe implements the logging helper.
func (m NavigateMsg) Describe() string {
	return fmt.Sprintf(`component:%q path:%q`, m.Component, m.Path)
}

// NavigateCmd wraps NavigateMsg in a tea.Cmd.
func NavigateCmd(component ComponentID, path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Component: component, Path: path}
	}
}

// RetailerDeleteMsg is emitted by a retailer row when the user asks to delete
// it. The container owns the actual removal.
type RetailerDeleteMsg struct {
	Component ComponentID
	Name      string
}

// Describe implements the logging helper.
func (m RetailerDeleteMsg) Describe() string {
	return fmt.Sprintf(`component:%q name:%q`, m.Component, m.Name)
}

// RetailerDeleteCmd wraps RetailerDeleteMsg in a tea.Cmd.
func RetailerDeleteCmd(component ComponentID, name string) tea.Cmd {
	return func() tea.Msg {
		return RetailerDeleteMsg{Component: component, Name: name}
	}
}

// RetailerChangeMsg announces that a retailer was created, updated or
// removed so list views can refresh.
type RetailerChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Name      string
}

// Describe implements the logging helper.
func (m RetailerChangeMsg) Describe() string {
	return fmt.Sprintf(`component:%q action:%q name:%q`, m.Component, m.Action, m.Name)
}

// RetailerChangeCmd wraps RetailerChangeMsg in a tea.Cmd.
func RetailerChangeCmd(component ComponentID, action ChangeType, name string) tea.Cmd {
	return func() tea.Msg {
		return RetailerChangeMsg{Component: component, Action: action, Name: name}
	}
}

// QuitMsg asks the root to tear down the mounted view and exit.
type QuitMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m QuitMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// QuitCmd wraps QuitMsg in a tea.Cmd.
func QuitCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return QuitMsg{Component: component}
	}
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// Describer is implemented by every event so the root model can log them.
type Describer interface {
	Describe() string
}
