// Package validate implements the field validation rules the runtime form
// engine evaluates: pure synchronous predicates plus cancellable asynchronous
// checks with latest-value-wins semantics.
package validate

// Violation tags surfaced on fields. Tags are stable identifiers front ends
// key messages off; they match the error vocabulary of the profile form.
const (
	TagRequired   = "required"
	TagMinLength  = "minlength"
	TagMaxLength  = "maxlength"
	TagEmail      = "email"
	TagAgeRange   = "ageRange"
	TagEmailTaken = "emailTaken"
	TagPattern    = "pattern"
	TagOption     = "option"
	TagMin        = "min"
	TagMax        = "max"
)

// Violation names a single constraint a value failed, with optional parameters
// (for example the length bound) front ends can interpolate into messages.
type Violation struct {
	Tag    string            `json:"tag"`
	Params map[string]string `json:"params,omitempty"`
}

// NewViolation constructs a Violation without parameters.
func NewViolation(tag string) *Violation {
	return &Violation{Tag: tag}
}

// WithParam returns a copy of the violation with the parameter set.
func (v Violation) WithParam(key, value string) *Violation {
	params := make(map[string]string, len(v.Params)+1)
	for k, val := range v.Params {
		params[k] = val
	}
	params[key] = value
	v.Params = params
	return &v
}
