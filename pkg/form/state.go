package form

import "github.com/goliatone/go-formflow/pkg/validate"

// FieldState is an immutable snapshot of a field's runtime state, safe to
// hand to renderers and prompts while the form keeps mutating.
type FieldState struct {
	Name       string
	Label      string
	Value      string
	Touched    bool
	Dirty      bool
	Pending    bool
	Violations []validate.Violation
	Items      []FieldState
}

// Valid reports whether the field has settled with no violations.
func (s FieldState) Valid() bool {
	if s.Pending || len(s.Violations) > 0 {
		return false
	}
	for _, item := range s.Items {
		if !item.Valid() {
			return false
		}
	}
	return true
}

// Has reports whether the named violation tag is present on this field.
func (s FieldState) Has(tag string) bool {
	for _, v := range s.Violations {
		if v.Tag == tag {
			return true
		}
	}
	return false
}
