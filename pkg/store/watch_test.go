package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tableflip.dev/retailers/pkg/retailer"
)

func TestPersistenceWatchEmitsRetailerChanges(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	w, ok := p.(Watcher)
	if !ok {
		t.Fatalf("disk persistence does not implement Watcher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to subscribe before storing.
	time.Sleep(50 * time.Millisecond)

	r := retailer.Defaults()
	r.Name = "acme_store"
	if err := p.Store(r); err != nil {
		t.Fatalf("store retailer: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Name == "" || evt.Name == "acme_store" {
				return
			}
			t.Fatalf("expected event for acme_store, got %q", evt.Name)
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestPersistenceWatchClosesOnCancel(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.(Watcher).Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestThrottleStopBeforeCloseDuringFlush(t *testing.T) {
	for i := 0; i < 500; i++ {
		events := make(chan Event, 1)
		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}
		th := newEventThrottle(time.Millisecond)
		for n := 0; n < 50; n++ {
			th.Enqueue(Event{Name: fmt.Sprintf("retailer_%d", n)}, send)
		}
		time.Sleep(time.Duration(i%20) * 50 * time.Microsecond)

		// Same order as the watch goroutine's teardown.
		th.Stop()
		close(events)
	}
	// Let any timer that fired late run against the closed channels.
	time.Sleep(20 * time.Millisecond)
}

func TestThrottleDropsEventsAfterStop(t *testing.T) {
	var got []Event
	th := newEventThrottle(time.Millisecond)
	th.Enqueue(Event{Name: "acme_store"}, func(ev Event) { got = append(got, ev) })
	th.Stop()
	th.Enqueue(Event{Name: "beta_store"}, func(ev Event) { got = append(got, ev) })
	time.Sleep(20 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("expected no events after Stop, got %v", got)
	}
}

func TestNameForPath(t *testing.T) {
	tests := map[string]string{
		"/tmp/x/retailers/acme_store.json": "acme_store",
		"/tmp/x/retailers/.acme.swp":       "",
		"/tmp/x/retailers":                 "",
	}
	for in, want := range tests {
		if got := nameForPath(in); got != want {
			t.Errorf("nameForPath(%q) = %q, want %q", in, got, want)
		}
	}
}
