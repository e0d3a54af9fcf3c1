package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/retailers/pkg/retailer"
	"tableflip.dev/retailers/pkg/store"
)

type memoryPersistence struct {
	mu        sync.Mutex
	retailers map[string]*retailer.Retailer
}

func newMemoryPersistence(records ...*retailer.Retailer) *memoryPersistence {
	mp := &memoryPersistence{retailers: make(map[string]*retailer.Retailer)}
	for _, r := range records {
		if r == nil {
			continue
		}
		mp.retailers[r.Name] = r.Clone()
	}
	return mp
}

func (m *memoryPersistence) Get(name string) (*retailer.Retailer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.retailers[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r.Clone(), nil
}

func (m *memoryPersistence) List(_ context.Context) []*retailer.Retailer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*retailer.Retailer, 0, len(m.retailers))
	for _, r := range m.retailers {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memoryPersistence) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.retailers[name]
	return ok
}

func (m *memoryPersistence) Store(r *retailer.Retailer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retailers[r.Name] = r.Clone()
	return nil
}

func (m *memoryPersistence) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.retailers, name)
	return nil
}

func validRetailer(name string) *retailer.Retailer {
	return &retailer.Retailer{
		Name:        name,
		BQGATable:   "project.dataset.events_",
		TimeZone:    "America/New_York",
		MaxBackfill: 90,
		IsActive:    true,
	}
}

func fixedNow() time.Time {
	return time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)
}

func TestAddRetailerStampsManagedField(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp, Now: fixedNow}
	ctx := context.Background()

	got, err := svc.AddRetailer(ctx, validRetailer("acme_store"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.BQUpdatedAt == nil || *got.BQUpdatedAt != "2024-07-10T12:00:00Z" {
		t.Fatalf("expected bq_updated_at stamp, got %v", got.BQUpdatedAt)
	}

	if _, err := svc.AddRetailer(ctx, validRetailer("acme_store")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestWritesRejectManagedField(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence(validRetailer("acme_store"))}
	stamp := ""
	r := validRetailer("acme_store")
	r.BQUpdatedAt = &stamp
	if _, err := svc.UpdateRetailer(context.Background(), r); err == nil {
		t.Fatalf("expected bq_updated_at to be rejected on write")
	}
}

func TestAddRetailerValidates(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	r := validRetailer("acme_store")
	r.MaxBackfill = 365
	_, err := svc.AddRetailer(context.Background(), r)
	var verrs retailer.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}

func TestUpdateRetailerRequiresExisting(t *testing.T) {
	mp := newMemoryPersistence(validRetailer("acme_store"))
	svc := &Service{Persistence: mp, Now: fixedNow}
	ctx := context.Background()

	if _, err := svc.UpdateRetailer(ctx, validRetailer("other_store")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	changed := validRetailer("acme_store")
	changed.TimeZone = "Europe/Berlin"
	changed.IsActive = false
	if _, err := svc.UpdateRetailer(ctx, changed); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.GetRetailer(ctx, "acme_store")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.BQUpdatedAt = nil
	if diff := cmp.Diff(changed, got); diff != "" {
		t.Fatalf("update mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteAndList(t *testing.T) {
	mp := newMemoryPersistence(validRetailer("b_store"), validRetailer("a_store"))
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	if err := svc.DeleteRetailer(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteRetailer(ctx, "b_store"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := svc.ListRetailers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "a_store" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestServiceWithoutPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.GetRetailer(context.Background(), "acme_store"); err == nil {
		t.Fatalf("expected error without persistence")
	}
}

type watchedPersistence struct {
	*memoryPersistence
	events chan store.Event
}

func (w *watchedPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return w.events, nil
}

func TestWatchRelaysStoreEvents(t *testing.T) {
	wp := &watchedPersistence{memoryPersistence: newMemoryPersistence(), events: make(chan store.Event, 1)}
	svc := &Service{Persistence: wp}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	wp.events <- store.Event{Name: "acme_store"}
	select {
	case c := <-ch:
		if c.Name != "acme_store" {
			t.Fatalf("expected change for acme_store, got %q", c.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	close(wp.events)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to close with the store channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWatchUnsupported(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	if _, err := svc.Watch(context.Background()); err == nil {
		t.Fatalf("expected error for persistence without Watch")
	}
}
