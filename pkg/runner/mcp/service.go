// Package mcp exposes the retailer data service over the Model Context
// Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/retailers/pkg/retailer"
	"tableflip.dev/retailers/pkg/service"
)

// Service applies the retailer rules shared by the MCP tools.
type Service struct {
	Retailers service.Retailers
}

var errNoService = errors.New("mcp: no retailer service configured")

// NewService wraps a retailer backend.
func NewService(svc service.Retailers) *Service {
	return &Service{Retailers: svc}
}

// List returns every retailer.
func (s *Service) List(ctx context.Context) ([]*retailer.Retailer, error) {
	if s.Retailers == nil {
		return nil, errNoService
	}
	return s.Retailers.ListRetailers(ctx)
}

// Get returns one retailer.
func (s *Service) Get(ctx context.Context, name string) (*retailer.Retailer, error) {
	if s.Retailers == nil {
		return nil, errNoService
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("retailer name is required")
	}
	return s.Retailers.GetRetailer(ctx, name)
}

// Create validates values layered over the defaults and adds the retailer.
func (s *Service) Create(ctx context.Context, values map[string]string) (*retailer.Retailer, error) {
	if s.Retailers == nil {
		return nil, errNoService
	}
	r := retailer.Defaults()
	if err := r.Apply(values); err != nil {
		return nil, err
	}
	if err := retailer.Validate(r); err != nil {
		return nil, err
	}
	r.StripManaged()
	saved, err := s.Retailers.AddRetailer(ctx, r)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = r
	}
	return saved, nil
}

// Update applies values to the stored retailer. The name cannot change.
func (s *Service) Update(ctx context.Context, name string, values map[string]string) (*retailer.Retailer, error) {
	current, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if v, ok := values[retailer.FieldName]; ok && strings.TrimSpace(v) != current.Name {
		return nil, fmt.Errorf("%s cannot be changed", retailer.FieldName)
	}
	r := current.Clone()
	if err := r.Apply(values); err != nil {
		return nil, err
	}
	if err := retailer.Validate(r); err != nil {
		return nil, err
	}
	r.StripManaged()
	saved, err := s.Retailers.UpdateRetailer(ctx, r)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = r
	}
	return saved, nil
}

// Delete removes a retailer.
func (s *Service) Delete(ctx context.Context, name string) error {
	if s.Retailers == nil {
		return errNoService
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("retailer name is required")
	}
	return s.Retailers.DeleteRetailer(ctx, name)
}
