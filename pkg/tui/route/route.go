// Package route maps navigation paths onto the views of the terminal UI.
package route

import (
	"fmt"
	"strings"

	"github.com/go-andiamo/urit"
)

// ParamName is the path variable holding the retailer name.
const ParamName = "name"

// Kind identifies the view a path resolves to.
type Kind string

const (
	// KindList shows every retailer.
	KindList Kind = "list"
	// KindNew shows the create form.
	KindNew Kind = "new"
	// KindEdit shows the edit form of one retailer.
	KindEdit Kind = "edit"
)

// Path constants accepted by Parse.
const (
	ListPath = "/retailers"
	NewPath  = "/retailers/new"
)

var (
	listTemplate = urit.MustCreateTemplate(ListPath)
	newTemplate  = urit.MustCreateTemplate(NewPath)
	editTemplate = urit.MustCreateTemplate(fmt.Sprintf("/retailers/{%s}/edit", ParamName))
)

// Route is a parsed navigation target.
type Route struct {
	Kind   Kind
	Path   string
	Params map[string]string
}

// Parse resolves path to a Route. A missing leading slash is tolerated so
// callers can navigate to "retailers".
func Parse(path string) (Route, error) {
	p := "/" + strings.Trim(strings.TrimSpace(path), "/")
	if _, ok := listTemplate.Matches(p); ok {
		return Route{Kind: KindList, Path: p}, nil
	}
	if _, ok := newTemplate.Matches(p); ok {
		return Route{Kind: KindNew, Path: p}, nil
	}
	if vars, ok := editTemplate.Matches(p); ok {
		params := map[string]string{}
		for _, v := range vars.GetAll() {
			s, _ := v.Value.(string)
			if s == "" {
				return Route{}, fmt.Errorf("route: empty %s in %q", v.Name, path)
			}
			params[v.Name] = s
		}
		return Route{Kind: KindEdit, Path: p, Params: params}, nil
	}
	return Route{}, fmt.Errorf("route: no view for %q", path)
}

// List returns the retailer list route.
func List() Route {
	return Route{Kind: KindList, Path: ListPath}
}

// New returns the create form route.
func New() Route {
	return Route{Kind: KindNew, Path: NewPath}
}

// Edit returns the edit form route for name.
func Edit(name string) Route {
	return Route{
		Kind:   KindEdit,
		Path:   "/retailers/" + name + "/edit",
		Params: map[string]string{ParamName: name},
	}
}

// IsNew reports whether the route addresses the create form.
func (r Route) IsNew() bool {
	return strings.HasSuffix(r.Path, "new")
}

// Param returns a path variable, or "" when absent.
func (r Route) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}
