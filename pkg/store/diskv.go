// Package store persists retailers on the local disk.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/retailers/pkg/retailer"
)

// ErrNotFound is returned when no record exists for a name.
var ErrNotFound = errors.New("store: retailer not found")

// Persistence defines the persistence contract for retailers.
type Persistence interface {
	Get(name string) (*retailer.Retailer, error)
	List(ctx context.Context) []*retailer.Retailer
	Has(name string) bool
	Store(r *retailer.Retailer) error
	Delete(name string) error
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Get(name string) (*retailer.Retailer, error) {
	key, err := toKey(name)
	if err != nil {
		return nil, err
	}
	if !p.d.Has(key) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p.read(key)
}

func (p *persistence) read(key string) (*retailer.Retailer, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	r := &retailer.Retailer{}
	if err := json.Unmarshal(val, r); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return r, nil
}

func (p *persistence) List(ctx context.Context) []*retailer.Retailer {
	all := make([]*retailer.Retailer, 0)
	for key := range p.d.Keys(ctx.Done()) {
		r, err := p.read(key)
		if err != nil {
			continue
		}
		all = append(all, r)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all
}

func (p *persistence) Has(name string) bool {
	key, err := toKey(name)
	if err != nil {
		return false
	}
	return p.d.Has(key)
}

func (p *persistence) Store(r *retailer.Retailer) error {
	if r == nil {
		return errors.New("store: nil retailer")
	}
	key, err := toKey(r.Name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return p.d.Write(key, data)
}

func (p *persistence) Delete(name string) error {
	key, err := toKey(name)
	if err != nil {
		return err
	}
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p.d.Erase(key)
}

const (
	retailersDir = "retailers"
	fileSuffix   = ".json"
)

// Retailer names are restricted to [A-Za-z0-9_], so they are used as file
// names directly.
func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{retailersDir},
		FileName: key + fileSuffix,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, fileSuffix)
}

func toKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := retailer.CheckField(retailer.FieldName, name); err != nil {
		return "", fmt.Errorf("store: invalid key: %w", err)
	}
	return name, nil
}
