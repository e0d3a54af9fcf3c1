// Package service declares the retailer data service consumed by the UI and
// the CLI.
package service

import (
	"context"

	"tableflip.dev/retailers/pkg/retailer"
)

// Retailers is the contract of a retailer backend. Every call may fail with
// an error that callers render as text.
type Retailers interface {
	GetRetailer(ctx context.Context, name string) (*retailer.Retailer, error)
	AddRetailer(ctx context.Context, r *retailer.Retailer) (*retailer.Retailer, error)
	UpdateRetailer(ctx context.Context, r *retailer.Retailer) (*retailer.Retailer, error)
	ListRetailers(ctx context.Context) ([]*retailer.Retailer, error)
	DeleteRetailer(ctx context.Context, name string) error
}

// Change reports that a retailer was modified outside this process. Name is
// empty when every retailer should be reloaded.
type Change struct {
	Name string
}

// Watcher is implemented by backends that can push outside changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Change, error)
}
