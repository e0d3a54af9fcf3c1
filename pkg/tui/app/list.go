package teaui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/retailers/pkg/retailer"
	"tableflip.dev/retailers/pkg/service"
	"tableflip.dev/retailers/pkg/tui/components/retaileritem"
	"tableflip.dev/retailers/pkg/tui/events"
	"tableflip.dev/retailers/pkg/tui/route"
	"tableflip.dev/retailers/pkg/tui/theme"
	"tableflip.dev/retailers/pkg/tui/ui"
)

const listID = events.ComponentID("retailers")

type listLoadedMsg struct {
	owner     *listView
	retailers []*retailer.Retailer
	err       error
}

// listView shows every retailer, one retaileritem row each.
type listView struct {
	svc   service.Retailers
	ctx   context.Context
	theme theme.Theme

	items  []*retaileritem.Model
	cursor int
	// focus names the row to select after the next load.
	focus   string
	loading bool
	err     error

	width  int
	height int
}

func newListView(ctx context.Context, svc service.Retailers, focus string) *listView {
	return &listView{
		svc:   svc,
		ctx:   ctx,
		theme: theme.Default(),
		focus: focus,
		width: 80,
	}
}

// reloadFocused reloads the list and selects name once it arrives.
func (v *listView) reloadFocused(name string) tea.Cmd {
	v.focus = name
	return v.load()
}

func (v *listView) Init() tea.Cmd {
	return v.load()
}

func (v *listView) load() tea.Cmd {
	v.loading = true
	svc, ctx := v.svc, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return listLoadedMsg{owner: v, err: fmt.Errorf("service unavailable")}
		}
		list, err := svc.ListRetailers(ctx)
		return listLoadedMsg{owner: v, retailers: list, err: err}
	}
}

func (v *listView) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if msg.owner != v {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.setRetailers(msg.retailers)
		}
	case tea.KeyPressMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *listView) setRetailers(list []*retailer.Retailer) {
	selected := v.focus
	if selected == "" {
		if r := v.selected(); r != nil {
			selected = r.Name
		}
	}
	v.focus = ""
	v.items = v.items[:0]
	for i, r := range list {
		item := retaileritem.NewModel(events.ComponentID(fmt.Sprintf("retailer-%d", i)), r)
		item.SetSize(v.width-4, 1)
		v.items = append(v.items, item)
	}
	v.cursor = 0
	for i, item := range v.items {
		if item.Retailer().Name == selected {
			v.cursor = i
		}
	}
	v.syncSelection()
}

func (v *listView) selected() *retailer.Retailer {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return nil
	}
	return v.items[v.cursor].Retailer()
}

func (v *listView) syncSelection() {
	for i, item := range v.items {
		item.SetSelected(i == v.cursor)
	}
}

func (v *listView) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		v.syncSelection()
	case "down", "j":
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}
		v.syncSelection()
	case "n":
		return events.NavigateCmd(listID, route.NewPath)
	case "e", "enter":
		if r := v.selected(); r != nil {
			return events.NavigateCmd(listID, route.Edit(r.Name).Path)
		}
	case "d":
		if v.cursor >= 0 && v.cursor < len(v.items) {
			_, cmd := v.items[v.cursor].Update(msg)
			return cmd
		}
	case "r":
		return v.load()
	case "q":
		return events.QuitCmd(listID)
	}
	return nil
}

func (v *listView) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	v.width = width
	v.height = height
	for _, item := range v.items {
		item.SetSize(width-4, 1)
	}
}

func (v *listView) View() string {
	lines := []string{v.theme.Panel.Title.Render("Retailers"), ""}
	switch {
	case v.loading && len(v.items) == 0:
		lines = append(lines, v.theme.List.Empty.Render("Loading retailers…"))
	case v.err != nil:
		lines = append(lines, v.theme.List.Error.Render("Could not load retailers: "+v.err.Error()))
	case len(v.items) == 0:
		lines = append(lines, v.theme.List.Empty.Render("No retailers yet. Press n to add one."))
	default:
		lines = append(lines, v.items[0].Header())
		for _, item := range v.items {
			lines = append(lines, item.View())
		}
	}
	lines = append(lines, "", v.help())
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return v.theme.Panel.Frame.Render(body)
}

func (v *listView) help() string {
	keys := []struct{ key, desc string }{
		{"n", "new"},
		{"e", "edit"},
		{"d", "delete"},
		{"r", "reload"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, v.theme.Footer.Key.Render(k.key)+" "+v.theme.Footer.Help.Render(k.desc))
	}
	return strings.Join(parts, v.theme.Footer.Help.Render(" • "))
}
