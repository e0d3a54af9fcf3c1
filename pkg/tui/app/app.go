// Package teaui hosts the Bubble Tea program for the retailers TUI.
package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"tableflip.dev/retailers/pkg/logging"
	"tableflip.dev/retailers/pkg/service"
	"tableflip.dev/retailers/pkg/tui/components/eventviewer"
	"tableflip.dev/retailers/pkg/tui/components/retailerform"
	"tableflip.dev/retailers/pkg/tui/components/snackbar"
	"tableflip.dev/retailers/pkg/tui/events"
	"tableflip.dev/retailers/pkg/tui/route"
	"tableflip.dev/retailers/pkg/tui/ui"
)

const (
	rootID = events.ComponentID("root")

	// EventLogKey toggles the event log pane.
	EventLogKey  = "ctrl+e"
	eventLogRows = 8
)

type retailerDeletedMsg struct {
	name string
	err  error
}

type watchStartedMsg struct {
	ch     <-chan service.Change
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	change service.Change
}

type watchStoppedMsg struct{}

// Options configure the root model.
type Options struct {
	Service service.Retailers
	Logger  *zap.SugaredLogger
	// InitialPath is the first view mounted; defaults to the list.
	InitialPath string
	// NavigateDelay is handed to every form.
	NavigateDelay time.Duration
}

// Model is the root of the TUI. It mounts one view at a time and routes
// navigation, delete and notification events between them.
type Model struct {
	ctx   context.Context
	svc   service.Retailers
	log   *zap.SugaredLogger
	delay time.Duration

	initial  string
	route    route.Route
	view     ui.Component
	snackbar *snackbar.Model
	eventLog *eventviewer.Model
	showLog  bool

	// focus is the retailer to select when the list mounts next.
	focus string

	watchCh     <-chan service.Change
	watchCancel context.CancelFunc

	width  int
	height int
}

// New constructs the root model.
func New(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	initial := opts.InitialPath
	if initial == "" {
		initial = route.ListPath
	}
	return &Model{
		ctx:      logging.WithLogger(ctx, log),
		svc:      opts.Service,
		log:      log,
		delay:    opts.NavigateDelay,
		initial:  initial,
		snackbar: snackbar.NewModel(),
		eventLog: eventviewer.NewModel(200),
		width:    80,
		height:   24,
	}
}

// Run launches the Bubble Tea program until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.navigate(m.initial), startWatchCmd(m.ctx, m.svc))
}

// Route returns the route of the mounted view.
func (m *Model) Route() route.Route { return m.route }

// Current returns the mounted view.
func (m *Model) Current() ui.Component { return m.view }

// Snackbar returns the notification surface.
func (m *Model) Snackbar() *snackbar.Model { return m.snackbar }

// EventLog returns the event log pane.
func (m *Model) EventLog() *eventviewer.Model { return m.eventLog }

// Update routes Bubble Tea messages to the mounted view and the snackbar.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if d, ok := msg.(events.Describer); ok {
		m.record(msg, d)
	}

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
		return m, nil
	case tea.KeyPressMsg:
		switch v.String() {
		case "ctrl+c":
			return m, m.quit()
		case snackbar.DismissKey:
			_, cmd := m.snackbar.Update(v)
			return m, cmd
		case EventLogKey:
			m.showLog = !m.showLog
			m.layout()
			return m, nil
		}
	case events.NotifyMsg:
		_, cmd := m.snackbar.Update(v)
		return m, cmd
	case events.NavigateMsg:
		return m, m.navigate(v.Path)
	case events.RetailerDeleteMsg:
		return m, m.deleteRetailer(v.Name)
	case retailerDeletedMsg:
		return m, m.handleDeleted(v)
	case events.QuitMsg:
		return m, m.quit()
	case events.RetailerChangeMsg:
		return m, m.handleChange(v)
	case watchStartedMsg:
		if v.err != nil {
			m.log.Debugw("not watching store", "error", v.err)
			return m, nil
		}
		m.stopWatch()
		m.watchCh = v.ch
		m.watchCancel = v.cancel
		return m, m.waitForWatch()
	case watchEventMsg:
		m.log.Debugw("store changed", "name", v.change.Name)
		cmds := []tea.Cmd{m.waitForWatch()}
		if list, ok := m.view.(*listView); ok {
			cmds = append(cmds, list.load())
		}
		return m, tea.Batch(cmds...)
	case watchStoppedMsg:
		m.stopWatch()
		return m, nil
	}

	var cmds []tea.Cmd
	if _, cmd := m.snackbar.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.view != nil {
		if _, cmd := m.view.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// navigate unmounts the current view, cancelling its pending work, and
// mounts the view for path.
func (m *Model) navigate(path string) tea.Cmd {
	r, err := route.Parse(path)
	if err != nil {
		m.log.Warnw("navigation failed", "path", path, "error", err)
		return events.NotifyCmd(rootID, fmt.Sprintf("Nothing to show at %s", path))
	}
	m.closeView()
	m.route = r
	switch r.Kind {
	case route.KindList:
		m.view = newListView(m.ctx, m.svc, m.focus)
		m.focus = ""
	default:
		m.view = retailerform.NewModel(retailerform.Options{
			Route:         r,
			Service:       m.svc,
			Logger:        m.log,
			NavigateDelay: m.delay,
			Context:       m.ctx,
		})
	}
	m.layout()
	m.log.Infow("mounted view", "path", r.Path, "kind", r.Kind)
	return m.view.Init()
}

func (m *Model) closeView() {
	if m.view != nil {
		ui.Close(m.view)
	}
}

func startWatchCmd(parent context.Context, svc service.Retailers) tea.Cmd {
	w, ok := svc.(service.Watcher)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := w.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if c, ok := <-ch; ok {
			return watchEventMsg{change: c}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) deleteRetailer(name string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return retailerDeletedMsg{name: name, err: fmt.Errorf("service unavailable")}
		}
		return retailerDeletedMsg{name: name, err: svc.DeleteRetailer(ctx, name)}
	}
}

func (m *Model) handleDeleted(msg retailerDeletedMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Errorw("delete retailer failed", "name", msg.name, "error", msg.err)
		return events.NotifyCmd(rootID, fmt.Sprintf("There was an error while deleting the retailer %s: %v", msg.name, msg.err))
	}
	m.log.Infow("deleted retailer", "name", msg.name)
	return tea.Batch(
		events.NotifyCmd(rootID, fmt.Sprintf("The retailer %s was deleted successfully!", msg.name)),
		events.RetailerChangeCmd(rootID, events.ChangeDelete, msg.name),
	)
}

// handleChange reloads the list after a write. Created or updated retailers
// become the selected row, now or when the list mounts again.
func (m *Model) handleChange(msg events.RetailerChangeMsg) tea.Cmd {
	name := msg.Name
	if msg.Action == events.ChangeDelete {
		name = ""
	}
	list, ok := m.view.(*listView)
	if !ok {
		m.focus = name
		return nil
	}
	return list.reloadFocused(name)
}

func (m *Model) quit() tea.Cmd {
	m.closeView()
	m.stopWatch()
	return tea.Quit
}

func (m *Model) record(msg tea.Msg, d events.Describer) {
	summary := strings.TrimPrefix(fmt.Sprintf("%T", msg), "events.")
	m.log.Debugw("event", "type", summary, "detail", d.Describe())
	level := eventviewer.LevelInfo
	if n, ok := msg.(events.NotifyMsg); ok && strings.Contains(n.Message, "error") {
		level = eventviewer.LevelError
	}
	m.eventLog.Append(eventviewer.Entry{
		Source:  string(sourceOf(msg)),
		Summary: summary,
		Detail:  d.Describe(),
		Level:   level,
	})
}

func sourceOf(msg tea.Msg) events.ComponentID {
	switch v := msg.(type) {
	case events.NotifyMsg:
		return v.Component
	case events.NavigateMsg:
		return v.Component
	case events.RetailerDeleteMsg:
		return v.Component
	case events.RetailerChangeMsg:
		return v.Component
	case events.QuitMsg:
		return v.Component
	case events.FocusMsg:
		return v.Component
	case events.BlurMsg:
		return v.Component
	}
	return ""
}

func (m *Model) layout() {
	m.snackbar.SetSize(m.width, 1)
	viewHeight := m.height - 2
	if m.showLog {
		m.eventLog.SetSize(m.width, eventLogRows)
		viewHeight -= eventLogRows
	}
	if m.view != nil {
		m.view.SetSize(m.width, max(viewHeight, 1))
	}
}

// View renders the mounted view with the snackbar under it.
func (m *Model) View() string {
	body := ""
	if m.view != nil {
		body = m.view.View()
	}
	parts := []string{body}
	if m.showLog {
		parts = append(parts, m.eventLog.View())
	}
	if bar := m.snackbar.View(); bar != "" {
		parts = append(parts, bar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
