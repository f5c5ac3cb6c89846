// Package input normalizes request payloads into validated values. Each entity
// has one normalization pass: strings are trimmed and blank optional strings
// become absent, then the remaining values go through the validator (required,
// email, oneof literals, lengths) and dates are parsed as YYYY-MM-DD.
package input

import (
	"strings"

	"it_inventory/apperr"
	"it_inventory/models"

	"github.com/go-playground/validator/v10"
)

// validate is the same engine gin's binding uses.
var validate = validator.New()

// problems collects field-level validation messages so a single response can
// report every bad field.
type problems []string

func (p *problems) add(msg string) { *p = append(*p, msg) }

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return apperr.Validation(strings.Join(p, "; "))
}

// Optional trims s; nil or blank yields nil.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// check runs one validator tag against v and records msg when it fails.
func (p *problems) check(v any, tag, msg string) bool {
	if err := validate.Var(v, tag); err != nil {
		p.add(msg)
		return false
	}
	return true
}

func (p *problems) required(field string, s *string) string {
	var v string
	if t := Optional(s); t != nil {
		v = *t
	}
	if !p.check(v, "required", field+" is required") {
		return ""
	}
	return v
}

func (p *problems) date(field string, s *string) *models.Date {
	v := Optional(s)
	if v == nil {
		return nil
	}
	d, err := models.ParseDate(*v)
	if err != nil {
		p.add(field + ": " + err.Error())
		return nil
	}
	return &d
}

func (p *problems) requiredDate(field string, s *string) models.Date {
	if Optional(s) == nil {
		p.add(field + " is required")
		return models.Date{}
	}
	if d := p.date(field, s); d != nil {
		return *d
	}
	return models.Date{}
}

func (p *problems) email(field string, s *string) *string {
	v := Optional(s)
	if v == nil {
		return nil
	}
	if !p.check(*v, "email", field+" must be a valid email address") {
		return nil
	}
	return v
}

// oneOf builds a oneof tag over values. Literals are quoted because several
// contain spaces ("Active User", "LAPTOP DESKTOP").
func oneOf[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + string(v) + "'"
	}
	return "oneof=" + strings.Join(quoted, " ")
}

// enum validates an optional enum literal against its allowed values.
func enum[T ~string](p *problems, field string, s *string, values []T) *T {
	v := Optional(s)
	if v == nil {
		return nil
	}
	if !p.check(*v, oneOf(values), field+" has invalid value "+*v) {
		return nil
	}
	e := T(*v)
	return &e
}

// set reports whether the caller sent the field at all; used by partial updates
// where an explicit empty string clears an optional column.
func set(s *string) bool { return s != nil }
