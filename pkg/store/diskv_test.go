package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/retailers/pkg/retailer"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string     { return t.path }
func (testConfig) Backend() string        { return "" }
func (testConfig) Timeout() time.Duration { return time.Second }
func (testConfig) LogLevel() string       { return "info" }
func (testConfig) LogPath() string        { return "" }

func sample(name string) *retailer.Retailer {
	return &retailer.Retailer{
		Name:        name,
		BQGATable:   "project.dataset.events_",
		TimeZone:    "UTC",
		MaxBackfill: 90,
		IsActive:    true,
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	if err := p.Store(sample("zeta_store")); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := p.Store(sample("acme_store")); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := p.Get("acme_store")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(sample("acme_store"), got); diff != "" {
		t.Fatalf("get mismatch (-want +got):\n%s", diff)
	}

	list := p.List(context.Background())
	var names []string
	for _, r := range list {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"acme_store", "zeta_store"}, names); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	if err := p.Delete("zeta_store"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if p.Has("zeta_store") {
		t.Fatalf("expected zeta_store to be erased")
	}
}

func TestPersistenceNotFound(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	if _, err := p.Get("missing_one"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := p.Delete("missing_one"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistenceRejectsUnsafeKeys(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	if err := p.Store(sample("../escape")); err == nil {
		t.Fatalf("expected invalid key to be rejected")
	}
	if p.Has("../escape") {
		t.Fatalf("invalid key must never exist")
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(testConfig{}); err == nil {
		t.Fatalf("expected empty base path to fail")
	}
}
