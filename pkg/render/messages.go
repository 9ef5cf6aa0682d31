package render

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/validate"
)

// DefaultMessages maps violation tags to the messages shown next to a field.
// Templates may reference violation params with {name} placeholders.
var DefaultMessages = map[string]string{
	validate.TagRequired:   "This field is required",
	validate.TagMinLength:  "Must be at least {value} characters long",
	validate.TagMaxLength:  "Must be at most {value} characters long",
	validate.TagEmail:      "Enter a valid email address",
	validate.TagAgeRange:   "Age must be between {min} and {max}",
	validate.TagEmailTaken: "This email is already registered",
	validate.TagPattern:    "Value does not match the expected format",
	validate.TagOption:     "Choose one of the listed options",
	validate.TagMin:        "Must be at least {value}",
	validate.TagMax:        "Must be at most {value}",
}

// Message resolves the display text for a violation. Lookup order is the
// per-request overrides, then DefaultMessages, then the raw tag.
func Message(v validate.Violation, overrides map[string]string) string {
	template, ok := overrides[v.Tag]
	if !ok {
		template, ok = DefaultMessages[v.Tag]
	}
	if !ok || strings.TrimSpace(template) == "" {
		return v.Tag
	}
	return interpolate(template, v.Params)
}

func interpolate(template string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(template, "{") {
		return template
	}
	replacements := make([]string, 0, len(params)*2)
	for key, value := range params {
		replacements = append(replacements, "{"+key+"}", value)
	}
	return strings.NewReplacer(replacements...).Replace(template)
}
