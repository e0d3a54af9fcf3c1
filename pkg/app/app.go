package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/retailers/pkg/retailer"
	"tableflip.dev/retailers/pkg/service"
	"tableflip.dev/retailers/pkg/store"
)

// Service implements the retailer data service on top of local persistence.
// It applies the rules the remote backend enforces so offline use behaves
// the same way.
type Service struct {
	Persistence store.Persistence
	// Now stamps bq_updated_at; defaults to time.Now.
	Now func() time.Time
}

var (
	ErrNotFound = errors.New("app: retailer not found")
	ErrExists   = errors.New("app: retailer already exists")
)

var (
	errNoPersistence = errors.New("app: no persistence configured")
	errNotWatchable  = errors.New("app: persistence cannot be watched")
)

// GetRetailer returns the named retailer.
func (s *Service) GetRetailer(_ context.Context, name string) (*retailer.Retailer, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	name = strings.TrimSpace(name)
	if !s.Persistence.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.Persistence.Get(name)
}

// ListRetailers returns every retailer sorted by name.
func (s *Service) ListRetailers(ctx context.Context) ([]*retailer.Retailer, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.List(ctx), nil
}

// AddRetailer validates and stores a new retailer.
func (s *Service) AddRetailer(_ context.Context, r *retailer.Retailer) (*retailer.Retailer, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	rec, err := s.prepare(r)
	if err != nil {
		return nil, err
	}
	if s.Persistence.Has(rec.Name) {
		return nil, fmt.Errorf("%w: %s", ErrExists, rec.Name)
	}
	if err := s.Persistence.Store(rec); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// UpdateRetailer replaces an existing retailer. The name identifies the
// record and cannot change.
func (s *Service) UpdateRetailer(_ context.Context, r *retailer.Retailer) (*retailer.Retailer, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	rec, err := s.prepare(r)
	if err != nil {
		return nil, err
	}
	if !s.Persistence.Has(rec.Name) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rec.Name)
	}
	if err := s.Persistence.Store(rec); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// DeleteRetailer removes the named retailer.
func (s *Service) DeleteRetailer(_ context.Context, name string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	name = strings.TrimSpace(name)
	if !s.Persistence.Has(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.Persistence.Delete(name)
}

// Watch relays changes made to the store by other processes.
func (s *Service) Watch(ctx context.Context) (<-chan service.Change, error) {
	w, ok := s.Persistence.(store.Watcher)
	if !ok {
		return nil, errNotWatchable
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan service.Change)
	go func() {
		defer close(out)
		for ev := range events {
			select {
			case out <- service.Change{Name: ev.Name}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// prepare copies and validates an incoming record, then stamps the
// backend-managed timestamp. Callers must not send bq_updated_at.
func (s *Service) prepare(r *retailer.Retailer) (*retailer.Retailer, error) {
	if r == nil {
		return nil, errors.New("app: nil retailer")
	}
	if r.BQUpdatedAt != nil {
		return nil, fmt.Errorf("app: %s is managed by the backend", retailer.FieldBQUpdatedAt)
	}
	rec := r.Clone()
	rec.Name = strings.TrimSpace(rec.Name)
	if err := retailer.Validate(rec); err != nil {
		return nil, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	stamp := now().UTC().Format(time.RFC3339)
	rec.BQUpdatedAt = &stamp
	return rec, nil
}
