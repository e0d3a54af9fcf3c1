package retaileritem

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/retailers/pkg/retailer"
	"tableflip.dev/retailers/pkg/tui/events"
	"tableflip.dev/retailers/pkg/tui/ui"
)

var (
	selectColor   = lipgloss.Color("212")
	inactiveColor = lipgloss.Color("240")
)

// Column widths of a row; the table column takes what is left.
const (
	nameWidth     = 24
	timeZoneWidth = 20
	backfillWidth = 5
	activeWidth   = 8
)

// Model renders one retailer row. The record is supplied by the container.
type Model struct {
	id       events.ComponentID
	retailer *retailer.Retailer
	selected bool
	width    int
}

// NewModel constructs a row for r.
func NewModel(id events.ComponentID, r *retailer.Retailer) *Model {
	if id == "" {
		id = events.ComponentID("retaileritem")
	}
	return &Model{id: id, retailer: r, width: 80}
}

// SetRetailer replaces the displayed record.
func (m *Model) SetRetailer(r *retailer.Retailer) { m.retailer = r }

// Retailer returns the displayed record.
func (m *Model) Retailer() *retailer.Retailer { return m.retailer }

// SetSelected marks the row as the list cursor.
func (m *Model) SetSelected(selected bool) { m.selected = selected }

// Selected reports whether the row is the list cursor.
func (m *Model) Selected() bool { return m.selected }

// DeleteRetailer emits the delete event for name to the container.
func (m *Model) DeleteRetailer(name string) tea.Cmd {
	return events.RetailerDeleteCmd(m.id, name)
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles the delete key on a selected row.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && m.selected && m.retailer != nil {
		if key.String() == "d" {
			return m, m.DeleteRetailer(m.retailer.Name)
		}
	}
	return m, nil
}

// SetSize sets the row width.
func (m *Model) SetSize(width, _ int) {
	if width <= 0 {
		width = 80
	}
	m.width = width
}

func (m *Model) tableWidth() int {
	w := m.width - 2 - nameWidth - timeZoneWidth - backfillWidth - activeWidth - 4
	if w < 10 {
		w = 10
	}
	return w
}

// Header renders the column titles aligned with View.
func (m *Model) Header() string {
	return lipgloss.NewStyle().Bold(true).Render("  " + m.columns("NAME", "GA TABLE", "TIME ZONE", "DAYS", "ACTIVE"))
}

func (m *Model) columns(name, table, tz, backfill, active string) string {
	return fmt.Sprintf("%-*s %-*s %-*s %*s %-*s",
		nameWidth, cell(name, nameWidth),
		m.tableWidth(), cell(table, m.tableWidth()),
		timeZoneWidth, cell(tz, timeZoneWidth),
		backfillWidth, cell(backfill, backfillWidth),
		activeWidth, active,
	)
}

// View renders the row.
func (m *Model) View() string {
	if m.retailer == nil {
		return ""
	}
	r := m.retailer
	active := "no"
	if r.IsActive {
		active = "yes"
	}
	line := m.columns(r.Name, r.BQGATable, r.TimeZone, strconv.Itoa(r.MaxBackfill), active)

	style := lipgloss.NewStyle()
	if !r.IsActive {
		style = style.Foreground(inactiveColor)
	}
	indicator := "  "
	if m.selected {
		style = style.Foreground(selectColor).Bold(true)
		indicator = lipgloss.NewStyle().Foreground(selectColor).Render("➤ ")
	}
	return indicator + style.Render(line)
}

func cell(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
