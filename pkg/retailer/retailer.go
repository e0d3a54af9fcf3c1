// Package retailer defines the retailer record shared by the UI, the CLI and
// the data services.
package retailer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field names as they appear on the wire and in the form.
const (
	FieldName        = "name"
	FieldBQGATable   = "bq_ga_table"
	FieldTimeZone    = "time_zone"
	FieldMaxBackfill = "max_backfill"
	FieldIsActive    = "is_active"
	FieldBQUpdatedAt = "bq_updated_at"
)

const (
	// DefaultMaxBackfill is the backfill window, in days, for new retailers.
	DefaultMaxBackfill = 90
	// MinBackfill and MaxBackfill bound the backfill window.
	MinBackfill = 30
	MaxBackfill = 180

	// ActiveOn is the form value of an active retailer.
	ActiveOn = "on"
)

// Fields lists the editable fields in display order.
func Fields() []string {
	return []string{
		FieldName,
		FieldBQGATable,
		FieldTimeZone,
		FieldMaxBackfill,
		FieldIsActive,
	}
}

// Retailer is a configured data source. BQUpdatedAt is owned by the backend
// and never sent back on writes.
type Retailer struct {
	Name        string  `json:"name"`
	BQGATable   string  `json:"bq_ga_table"`
	TimeZone    string  `json:"time_zone"`
	MaxBackfill int     `json:"max_backfill"`
	IsActive    Flag    `json:"is_active"`
	BQUpdatedAt *string `json:"bq_updated_at,omitempty"`
}

// Defaults returns the blank record used when creating a retailer.
func Defaults() *Retailer {
	return &Retailer{
		Name:        "",
		BQGATable:   "",
		TimeZone:    "",
		MaxBackfill: DefaultMaxBackfill,
		IsActive:    true,
	}
}

// Clone returns a deep copy.
func (r *Retailer) Clone() *Retailer {
	if r == nil {
		return nil
	}
	cp := *r
	if r.BQUpdatedAt != nil {
		v := *r.BQUpdatedAt
		cp.BQUpdatedAt = &v
	}
	return &cp
}

// StripManaged drops backend-managed fields, including an empty
// bq_updated_at, so the record can be written.
func (r *Retailer) StripManaged() {
	if r == nil {
		return
	}
	r.BQUpdatedAt = nil
}

// Values renders the record as form values.
func (r *Retailer) Values() map[string]string {
	active := ""
	if r.IsActive {
		active = ActiveOn
	}
	return map[string]string{
		FieldName:        r.Name,
		FieldBQGATable:   r.BQGATable,
		FieldTimeZone:    r.TimeZone,
		FieldMaxBackfill: strconv.Itoa(r.MaxBackfill),
		FieldIsActive:    active,
	}
}

// Apply copies form values onto the record. Unknown keys are ignored and
// missing keys leave the field untouched.
func (r *Retailer) Apply(values map[string]string) error {
	if v, ok := values[FieldName]; ok {
		r.Name = v
	}
	if v, ok := values[FieldBQGATable]; ok {
		r.BQGATable = v
	}
	if v, ok := values[FieldTimeZone]; ok {
		r.TimeZone = v
	}
	if v, ok := values[FieldMaxBackfill]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("retailer: %s must be a number: %q", FieldMaxBackfill, v)
		}
		r.MaxBackfill = n
	}
	if v, ok := values[FieldIsActive]; ok {
		r.IsActive = ParseFlag(v)
	}
	return nil
}

// Flag is a boolean that also accepts the form spellings "on"/"off" and
// quoted booleans when decoded.
type Flag bool

// ParseFlag interprets a form value.
func ParseFlag(raw string) Flag {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ActiveOn, "true", "yes", "1":
		return true
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("retailer: invalid %s value %s", FieldIsActive, string(data))
	}
	*f = ParseFlag(s)
	return nil
}

// String renders the flag the way the form stores it.
func (f Flag) String() string {
	if f {
		return ActiveOn
	}
	return "off"
}
