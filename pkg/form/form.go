// Package form keeps explicit, framework-free form state: ordered controls
// holding string values, interaction flags and per-field validation.
package form

import "sort"

// Check validates a single control value.
type Check func(value string) error

// Field declares a control.
type Field struct {
	Name    string
	Initial string
	Check   Check
}

// Control is the state of one input.
type Control struct {
	Name     string
	Value    string
	Disabled bool
	Touched  bool
	Dirty    bool
	Err      error

	check Check
}

// Valid reports whether the control passes its check. Disabled controls are
// excluded from validation and always report valid.
func (c *Control) Valid() bool {
	return c.Disabled || c.Err == nil
}

func (c *Control) revalidate() {
	if c.check == nil {
		c.Err = nil
		return
	}
	c.Err = c.check(c.Value)
}

// Group holds controls in declaration order.
type Group struct {
	order    []string
	controls map[string]*Control
}

// New builds a group and validates the initial values.
func New(fields ...Field) *Group {
	g := &Group{controls: make(map[string]*Control, len(fields))}
	for _, f := range fields {
		c := &Control{Name: f.Name, Value: f.Initial, check: f.Check}
		c.revalidate()
		g.order = append(g.order, f.Name)
		g.controls[f.Name] = c
	}
	return g
}

// Names returns control names in declaration order.
func (g *Group) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Control returns the named control, or nil.
func (g *Group) Control(name string) *Control {
	return g.controls[name]
}

// Patch sets a value programmatically. Interaction flags are left alone.
func (g *Group) Patch(name, value string) {
	c := g.controls[name]
	if c == nil {
		return
	}
	c.Value = value
	c.revalidate()
}

// PatchValues patches every known key in values.
func (g *Group) PatchValues(values map[string]string) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		g.Patch(k, values[k])
	}
}

// SetValue records a user edit. Disabled controls ignore edits.
func (g *Group) SetValue(name, value string) {
	c := g.controls[name]
	if c == nil || c.Disabled {
		return
	}
	if c.Value != value {
		c.Dirty = true
	}
	c.Value = value
	c.revalidate()
}

// Touch marks a control as interacted with.
func (g *Group) Touch(name string) {
	if c := g.controls[name]; c != nil {
		c.Touched = true
	}
}

// TouchAll marks every enabled control as touched.
func (g *Group) TouchAll() {
	for _, c := range g.controls {
		if !c.Disabled {
			c.Touched = true
		}
	}
}

// Disable excludes a control from edits and validation.
func (g *Group) Disable(name string) {
	if c := g.controls[name]; c != nil {
		c.Disabled = true
	}
}

// Enable reverses Disable.
func (g *Group) Enable(name string) {
	if c := g.controls[name]; c != nil {
		c.Disabled = false
		c.revalidate()
	}
}

// Disabled reports whether the control is disabled.
func (g *Group) Disabled(name string) bool {
	c := g.controls[name]
	return c != nil && c.Disabled
}

// Value returns the current value of a control, disabled or not.
func (g *Group) Value(name string) string {
	if c := g.controls[name]; c != nil {
		return c.Value
	}
	return ""
}

// Values returns every control value, including disabled controls.
func (g *Group) Values() map[string]string {
	out := make(map[string]string, len(g.controls))
	for name, c := range g.controls {
		out[name] = c.Value
	}
	return out
}

// Valid reports whether the named control passes validation. Unknown
// controls are invalid.
func (g *Group) Valid(name string) bool {
	c := g.controls[name]
	return c != nil && c.Valid()
}

// Error returns the validation error of a control, nil when valid.
func (g *Group) Error(name string) error {
	c := g.controls[name]
	if c == nil || c.Valid() {
		return nil
	}
	return c.Err
}

// IsInvalid reports whether a control is invalid and has been touched. It
// never changes state.
func (g *Group) IsInvalid(name string) bool {
	c := g.controls[name]
	if c == nil {
		return false
	}
	return !c.Valid() && c.Touched
}

// AllValid reports whether every enabled control is valid.
func (g *Group) AllValid() bool {
	for _, c := range g.controls {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// Invalid lists the invalid enabled controls in declaration order.
func (g *Group) Invalid() []string {
	var out []string
	for _, name := range g.order {
		if !g.controls[name].Valid() {
			out = append(out, name)
		}
	}
	return out
}
