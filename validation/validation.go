package validation

import (
	"sort"
	"strings"
)

// Violation codes. They double as i18n keys.
const (
	CodeRequired      = "required"
	CodeInvalidNumber = "invalid_number"
	CodeInvalidChoice = "invalid_status"
	CodeOutOfRange    = "out_of_range"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the violated field names in sorted order.
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns nil when there are no violations, otherwise an *Error.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &Error{Violations: v}
}

// Error is returned when raw input fails the declared shape.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range e.Violations.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f)
		b.WriteByte('=')
		b.WriteString(e.Violations[f])
	}
	return b.String()
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = CodeRequired
	}
}

// OneOf records CodeInvalidChoice unless value is exactly one of allowed.
// An empty value is reported as CodeRequired.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		v[field] = CodeRequired
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = CodeInvalidChoice
}
