package eventviewer

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAppendKeepsNewestFirstAndCaps(t *testing.T) {
	m := NewModel(2)
	m.now = func() time.Time { return time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC) }
	for i := 0; i < 3; i++ {
		m.Append(Entry{Summary: fmt.Sprintf("event-%d", i)})
	}
	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Summary != "event-2" || got[1].Summary != "event-1" {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[0].Source != "tea" || got[0].Timestamp.IsZero() {
		t.Fatalf("expected defaults to be filled, got %+v", got[0])
	}
}

func TestViewRendersEntries(t *testing.T) {
	m := NewModel(10)
	if m.View() != "" {
		t.Fatalf("expected empty view before sizing")
	}
	m.SetSize(80, 10)
	if !strings.Contains(m.View(), "No events yet") {
		t.Fatalf("expected placeholder, got %q", m.View())
	}
	m.Append(Entry{Source: "root", Summary: "NotifyMsg", Detail: "saved", Level: LevelWarn})
	view := m.View()
	if !strings.Contains(view, "[root]") || !strings.Contains(view, "NotifyMsg: saved") {
		t.Fatalf("expected entry in view, got %q", view)
	}
	m.Clear()
	if len(m.Entries()) != 0 {
		t.Fatalf("expected clear to drop entries")
	}
}
