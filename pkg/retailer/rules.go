package retailer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	namePattern      = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
	bqGATablePattern = regexp.MustCompile(`^[A-Za-z0-9.\-]{10,50}events_$`)
	timeZonePattern  = regexp.MustCompile(`^[A-Za-z_/]{3,25}$`)
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("retailer_name", matches(namePattern))
	_ = validate.RegisterValidation("bq_ga_table", matches(bqGATablePattern))
	_ = validate.RegisterValidation("time_zone", matches(timeZonePattern))
	_ = validate.RegisterValidation("backfill_window", validateBackfill)
}

// Rule binds a field to a validator tag.
type Rule struct {
	Field string
	Tag   string
}

// Rules is the validation table for editable fields. is_active carries no
// rule.
var Rules = []Rule{
	{Field: FieldName, Tag: "required,retailer_name"},
	{Field: FieldBQGATable, Tag: "required,bq_ga_table"},
	{Field: FieldTimeZone, Tag: "required,time_zone"},
	{Field: FieldMaxBackfill, Tag: "required,backfill_window"},
}

// RuleFor returns the rule for field, if any.
func RuleFor(field string) (Rule, bool) {
	for _, r := range Rules {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

// FieldError reports the first failing rule of a field.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "retailer_name":
		return fmt.Sprintf("%s must be 3-50 letters, digits or underscores", e.Field)
	case "bq_ga_table":
		return fmt.Sprintf("%s must be 10-50 letters, digits, dots or dashes followed by events_", e.Field)
	case "time_zone":
		return fmt.Sprintf("%s must be 3-25 letters, underscores or slashes", e.Field)
	case "backfill_window":
		return fmt.Sprintf("%s must be a number between %d and %d", e.Field, MinBackfill, MaxBackfill)
	default:
		return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
	}
}

// CheckField runs the rule for field against value. Fields without a rule
// always pass.
func CheckField(field, value string) error {
	rule, ok := RuleFor(field)
	if !ok {
		return nil
	}
	err := validate.Var(value, rule.Tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: field, Tag: verrs[0].Tag()}
	}
	return fmt.Errorf("retailer: validate %s: %w", field, err)
}

// ValidationErrors collects the failing fields of a record.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every rule against the record.
func Validate(r *Retailer) error {
	if r == nil {
		return errors.New("retailer: nil record")
	}
	values := r.Values()
	var out ValidationErrors
	for _, rule := range Rules {
		err := CheckField(rule.Field, values[rule.Field])
		if err == nil {
			continue
		}
		var fe *FieldError
		if !errors.As(err, &fe) {
			return err
		}
		out = append(out, fe)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func validateBackfill(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return n >= MinBackfill && n <= MaxBackfill
}
