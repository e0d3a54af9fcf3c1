package retailerform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"tableflip.dev/retailers/pkg/form"
	"tableflip.dev/retailers/pkg/logging"
	"tableflip.dev/retailers/pkg/retailer"
	"tableflip.dev/retailers/pkg/service"
	"tableflip.dev/retailers/pkg/tui/events"
	"tableflip.dev/retailers/pkg/tui/route"
	"tableflip.dev/retailers/pkg/tui/ui"
)

// DefaultNavigateDelay is how long a success notification stays visible
// before the form returns to the list.
const DefaultNavigateDelay = 2500 * time.Millisecond

// ListPath is where the form navigates after a save or on cancel.
const ListPath = "retailers"

var (
	focusColor    = lipgloss.Color("212")
	errorColor    = lipgloss.Color("204")
	disabledColor = lipgloss.Color("240")
)

var errNoService = errors.New("service unavailable")

var labels = map[string]string{
	retailer.FieldName:        "Name:",
	retailer.FieldBQGATable:   "GA table:",
	retailer.FieldTimeZone:    "Time zone:",
	retailer.FieldMaxBackfill: "Max backfill:",
	retailer.FieldIsActive:    "Active:",
}

var placeholders = map[string]string{
	retailer.FieldName:        "acme_store",
	retailer.FieldBQGATable:   "project.dataset.events_",
	retailer.FieldTimeZone:    "America/New_York",
	retailer.FieldMaxBackfill: "90",
}

// Options control how the form is mounted.
type Options struct {
	ID      events.ComponentID
	Route   route.Route
	Service service.Retailers
	Logger  *zap.SugaredLogger
	// NavigateDelay overrides DefaultNavigateDelay.
	NavigateDelay time.Duration
	// Context bounds service calls and the navigation timer. Close cancels
	// a child of it.
	Context context.Context
}

type fetchedMsg struct {
	owner    *Model
	name     string
	retailer *retailer.Retailer
	err      error
}

type savedMsg struct {
	owner    *Model
	name     string
	isNew    bool
	retailer *retailer.Retailer
	err      error
}

type navigateDueMsg struct {
	owner *Model
}

// Model is the create/edit form for one retailer.
type Model struct {
	id      events.ComponentID
	route   route.Route
	isNew   bool
	svc     service.Retailers
	log     *zap.SugaredLogger
	delay   time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	focused bool

	width  int
	height int

	group    *form.Group
	inputs   map[string]textinput.Model
	focus    string
	loading  bool
	errorMsg string
	current  *retailer.Retailer
}

// NewModel constructs the form for opts.Route.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	id := opts.ID
	if id == "" {
		id = events.ComponentID("retailerform")
	}
	log := opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	delay := opts.NavigateDelay
	if delay <= 0 {
		delay = DefaultNavigateDelay
	}

	fields := make([]form.Field, 0, len(retailer.Fields()))
	for _, name := range retailer.Fields() {
		name := name
		fields = append(fields, form.Field{
			Name:  name,
			Check: func(v string) error { return retailer.CheckField(name, v) },
		})
	}

	m := &Model{
		id:      id,
		route:   opts.Route,
		isNew:   opts.Route.IsNew(),
		svc:     opts.Service,
		log:     log.With("component", string(id)),
		delay:   delay,
		ctx:     ctx,
		cancel:  cancel,
		focused: true,
		group:   form.New(fields...),
		inputs:  make(map[string]textinput.Model),
		focus:   retailer.FieldName,
	}
	for _, name := range retailer.Fields() {
		if name == retailer.FieldIsActive {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[name]
		m.inputs[name] = in
	}
	m.SetSize(0, 0)
	m.updateInputFocus()
	return m
}

// Init populates defaults in create mode or starts the fetch in edit mode.
func (m *Model) Init() tea.Cmd {
	if m.isNew {
		m.patch(retailer.Defaults())
		m.loading = false
		return nil
	}
	name := m.route.Param(route.ParamName)
	m.loading = true
	return m.fetch(name)
}

func (m *Model) fetch(name string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return fetchedMsg{owner: m, name: name, err: errNoService}
		}
		r, err := svc.GetRetailer(ctx, name)
		return fetchedMsg{owner: m, name: name, retailer: r, err: err}
	}
}

// Update processes Bubble Tea messages. Async results are matched to the
// form instance that started them.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case fetchedMsg:
		if msg.owner != m {
			return m, nil
		}
		return m, m.handleFetched(msg)
	case savedMsg:
		if msg.owner != m {
			return m, nil
		}
		return m, m.handleSaved(msg)
	case navigateDueMsg:
		if msg.owner != m {
			return m, nil
		}
		return m, events.NavigateCmd(m.id, ListPath)
	case events.FocusMsg:
		if msg.Component == m.id {
			m.focused = true
			return m, m.updateInputFocus()
		}
	case events.BlurMsg:
		if msg.Component == m.id {
			m.focused = false
			return m, m.updateInputFocus()
		}
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	// Cursor blink and other input internals.
	if in, ok := m.inputs[m.focus]; ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleFetched(msg fetchedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.log.Errorw("fetch retailer failed", "name", msg.name, "error", msg.err)
		return events.NotifyCmd(m.id, fmt.Sprintf("There was an error while fetching the retailer %s: %v", msg.name, msg.err))
	}
	m.current = msg.retailer.Clone()
	m.patch(msg.retailer)
	m.group.Disable(retailer.FieldName)
	if seq := m.focusSequence(); len(seq) > 0 && m.group.Disabled(m.focus) {
		m.focus = seq[0]
		m.updateInputFocus()
	}
	m.log.Debugw("fetched retailer", "name", msg.name)
	return nil
}

func (m *Model) handleSaved(msg savedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		verb := "updating"
		if msg.isNew {
			verb = "adding"
		}
		m.log.Errorw("save retailer failed", "name", msg.name, "new", msg.isNew, "error", msg.err)
		return events.NotifyCmd(m.id, fmt.Sprintf("There was an error while %s the retailer %s: %v", verb, msg.name, msg.err))
	}
	verb, action := "updated", events.ChangeUpdate
	if msg.isNew {
		verb, action = "created", events.ChangeCreate
	}
	if msg.retailer != nil {
		m.current = msg.retailer.Clone()
	}
	m.log.Infow("saved retailer", "name", msg.name, "action", action)
	return tea.Batch(
		events.NotifyCmd(m.id, fmt.Sprintf("The retailer %s was %s successfully!", msg.name, verb)),
		events.RetailerChangeCmd(m.id, action, msg.name),
		m.navigateAfter(m.delay),
	)
}

// navigateAfter fires navigateDueMsg once d elapses, or returns nothing when
// the form is closed first.
func (m *Model) navigateAfter(d time.Duration) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			return navigateDueMsg{owner: m}
		}
	}
}

// Save validates the form and dispatches the add or update call. It returns
// nil when a request is already in flight or the form is invalid.
func (m *Model) Save() tea.Cmd {
	if m.closed || m.loading {
		return nil
	}
	m.syncInputs()
	if !m.group.AllValid() {
		m.group.TouchAll()
		m.errorMsg = "Fix the highlighted fields: " + strings.Join(m.group.Invalid(), ", ")
		return nil
	}
	r := &retailer.Retailer{}
	if err := r.Apply(m.group.Values()); err != nil {
		m.errorMsg = err.Error()
		return nil
	}
	r.StripManaged()
	m.errorMsg = ""
	m.loading = true

	svc, ctx, isNew := m.svc, m.ctx, m.isNew
	m.log.Debugw("saving retailer", "name", r.Name, "new", isNew)
	return func() tea.Msg {
		if svc == nil {
			return savedMsg{owner: m, name: r.Name, isNew: isNew, err: errNoService}
		}
		var (
			saved *retailer.Retailer
			err   error
		)
		if isNew {
			saved, err = svc.AddRetailer(ctx, r)
		} else {
			saved, err = svc.UpdateRetailer(ctx, r)
		}
		return savedMsg{owner: m, name: r.Name, isNew: isNew, retailer: saved, err: err}
	}
}

// Close cancels pending work. A closed form ignores every message.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
}

// Closed reports whether Close was called.
func (m *Model) Closed() bool { return m.closed }

// IsInvalidInput reports whether field is invalid and has been touched.
func (m *Model) IsInvalidInput(field string) bool {
	return m.group.IsInvalid(field)
}

// Loading reports whether a service call is in flight.
func (m *Model) Loading() bool { return m.loading }

// IsNew reports whether the form creates a retailer.
func (m *Model) IsNew() bool { return m.isNew }

// Title is the heading of the form.
func (m *Model) Title() string {
	if m.isNew {
		return "New Retailer"
	}
	return "Edit Retailer"
}

// Form exposes the control state.
func (m *Model) Form() *form.Group { return m.group }

// Retailer returns the last record loaded or saved, nil in create mode
// before a save.
func (m *Model) Retailer() *retailer.Retailer { return m.current.Clone() }

// SetFieldValue records a user edit to field and marks it touched.
func (m *Model) SetFieldValue(field, value string) {
	m.group.SetValue(field, value)
	m.group.Touch(field)
	if in, ok := m.inputs[field]; ok {
		in.SetValue(m.group.Value(field))
		m.inputs[field] = in
	}
}

func (m *Model) patch(r *retailer.Retailer) {
	if r == nil {
		return
	}
	m.group.PatchValues(r.Values())
	for name, in := range m.inputs {
		in.SetValue(m.group.Value(name))
		m.inputs[name] = in
	}
}

func (m *Model) syncInputs() {
	for name, in := range m.inputs {
		if m.group.Disabled(name) {
			continue
		}
		m.group.SetValue(name, in.Value())
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if !m.focused {
		return nil
	}
	switch msg.String() {
	case "tab":
		m.advanceFocus(1)
		return m.updateInputFocus()
	case "shift+tab":
		m.advanceFocus(-1)
		return m.updateInputFocus()
	case "enter":
		return m.Save()
	case "esc":
		return events.NavigateCmd(m.id, ListPath)
	case "space":
		if m.focus == retailer.FieldIsActive {
			m.toggleActive()
			return nil
		}
	}
	if m.loading {
		return nil
	}
	in, ok := m.inputs[m.focus]
	if !ok || m.group.Disabled(m.focus) {
		return nil
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[m.focus] = in
	m.group.SetValue(m.focus, in.Value())
	m.errorMsg = ""
	return cmd
}

func (m *Model) toggleActive() {
	next := retailer.ActiveOn
	if retailer.ParseFlag(m.group.Value(retailer.FieldIsActive)) {
		next = ""
	}
	m.group.SetValue(retailer.FieldIsActive, next)
	m.group.Touch(retailer.FieldIsActive)
}

func (m *Model) focusSequence() []string {
	var seq []string
	for _, name := range retailer.Fields() {
		if !m.group.Disabled(name) {
			seq = append(seq, name)
		}
	}
	return seq
}

// advanceFocus moves focus and marks the field being left as touched.
func (m *Model) advanceFocus(delta int) {
	seq := m.focusSequence()
	if len(seq) == 0 {
		return
	}
	m.group.Touch(m.focus)
	current := 0
	for i, name := range seq {
		if name == m.focus {
			current = i
			break
		}
	}
	current = (current + len(seq) + delta) % len(seq)
	m.focus = seq[current]
}

func (m *Model) updateInputFocus() tea.Cmd {
	var cmd tea.Cmd
	for name, in := range m.inputs {
		if m.focused && name == m.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[name] = in
	}
	return cmd
}

// SetSize configures the form dimensions.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 20
	}
	m.width = width
	m.height = height
	inputWidth := width - 24
	if inputWidth < 12 {
		inputWidth = 12
	}
	for name, in := range m.inputs {
		in.SetWidth(inputWidth)
		m.inputs[name] = in
	}
}

// View renders the form.
func (m *Model) View() string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render(m.Title()), ""}
	for _, name := range retailer.Fields() {
		lines = append(lines, m.renderRow(name))
		if m.group.IsInvalid(name) {
			msg := m.group.Error(name).Error()
			lines = append(lines, "                 "+lipgloss.NewStyle().Foreground(errorColor).Render(msg))
		}
	}
	if m.current != nil && m.current.BQUpdatedAt != nil && *m.current.BQUpdatedAt != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(disabledColor).Render("BigQuery updated "+*m.current.BQUpdatedAt))
	}
	lines = append(lines, "", m.renderStatusLine())

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusColor).
		Padding(1, 2)
	if !m.focused {
		frame = frame.BorderForeground(disabledColor)
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderRow(name string) string {
	focused := m.focused && m.focus == name
	indicator := "  "
	labelStyle := lipgloss.NewStyle()
	valueStyle := lipgloss.NewStyle()
	if focused {
		indicator = lipgloss.NewStyle().Foreground(focusColor).Render("➤ ")
		labelStyle = labelStyle.Foreground(focusColor)
	}
	if m.group.IsInvalid(name) {
		labelStyle = labelStyle.Foreground(errorColor)
	}

	var value string
	switch {
	case name == retailer.FieldIsActive:
		box := "[ ]"
		if retailer.ParseFlag(m.group.Value(name)) {
			box = "[x]"
		}
		if focused {
			valueStyle = valueStyle.Foreground(focusColor)
		}
		value = valueStyle.Render(box)
	case m.group.Disabled(name):
		value = valueStyle.Foreground(disabledColor).Render(m.group.Value(name) + " (locked)")
	default:
		value = m.inputs[name].View()
	}
	return indicator + labelStyle.Render(fmt.Sprintf("%-14s", labels[name])) + " " + value
}

func (m *Model) renderStatusLine() string {
	switch {
	case m.loading:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Render("Working…")
	case m.errorMsg != "":
		return lipgloss.NewStyle().Foreground(errorColor).Render(m.errorMsg)
	default:
		return "Enter to save • Esc to cancel • Tab between fields • Space toggles active"
	}
}
