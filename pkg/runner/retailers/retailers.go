// Package retailers implements the CLI runners for retailer records.
package retailers

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/retailers/pkg/printers"
	"tableflip.dev/retailers/pkg/retailer"
	"tableflip.dev/retailers/pkg/service"
)

var errNoService = errors.New("retailers: no service configured")

// List prints every retailer.
type List struct {
	Service service.Retailers
	Printer *printers.RetailerPrint
}

// Do runs the listing.
func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errNoService
	}
	all, err := l.Service.ListRetailers(ctx)
	if err != nil {
		return err
	}
	return l.Printer.Table(all...)
}

// Get prints one retailer.
type Get struct {
	Name    string
	Service service.Retailers
	Printer *printers.RetailerPrint
}

// Do fetches and prints the retailer.
func (g *Get) Do(ctx context.Context) error {
	if g.Service == nil {
		return errNoService
	}
	r, err := g.Service.GetRetailer(ctx, strings.TrimSpace(g.Name))
	if err != nil {
		return err
	}
	return g.Printer.Detail(r)
}

// Add creates a retailer from form values layered over the defaults.
type Add struct {
	Values  map[string]string
	Service service.Retailers
	Printer *printers.RetailerPrint
}

// Do validates and creates the retailer.
func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errNoService
	}
	r := retailer.Defaults()
	if err := r.Apply(a.Values); err != nil {
		return err
	}
	if err := retailer.Validate(r); err != nil {
		return err
	}
	r.StripManaged()
	saved, err := a.Service.AddRetailer(ctx, r)
	if err != nil {
		return err
	}
	if saved == nil {
		saved = r
	}
	if a.Printer.JSON {
		return a.Printer.Detail(saved)
	}
	return a.Printer.Message("The retailer %s was created successfully!", saved.Name)
}

// Update changes the given fields of an existing retailer. The name cannot
// be changed.
type Update struct {
	Name    string
	Values  map[string]string
	Service service.Retailers
	Printer *printers.RetailerPrint
}

// Do fetches, patches, validates and writes the retailer.
func (u *Update) Do(ctx context.Context) error {
	if u.Service == nil {
		return errNoService
	}
	current, err := u.Service.GetRetailer(ctx, strings.TrimSpace(u.Name))
	if err != nil {
		return err
	}
	values := make(map[string]string, len(u.Values))
	for k, v := range u.Values {
		if k == retailer.FieldName {
			continue
		}
		values[k] = v
	}
	r := current.Clone()
	if err := r.Apply(values); err != nil {
		return err
	}
	if err := retailer.Validate(r); err != nil {
		return err
	}
	r.StripManaged()
	saved, err := u.Service.UpdateRetailer(ctx, r)
	if err != nil {
		return err
	}
	if saved == nil {
		saved = r
	}
	if u.Printer.JSON {
		return u.Printer.Detail(saved)
	}
	return u.Printer.Message("The retailer %s was updated successfully!", saved.Name)
}

// Delete removes a retailer.
type Delete struct {
	Name    string
	Service service.Retailers
	Printer *printers.RetailerPrint
}

// Do deletes the retailer.
func (d *Delete) Do(ctx context.Context) error {
	if d.Service == nil {
		return errNoService
	}
	name := strings.TrimSpace(d.Name)
	if err := d.Service.DeleteRetailer(ctx, name); err != nil {
		return err
	}
	return d.Printer.Message("The retailer %s was deleted successfully!", name)
}
