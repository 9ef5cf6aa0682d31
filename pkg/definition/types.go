package definition

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleFormat    = "format"
)

// ValidationRule represents a single validation constraint declared on a
// field. Numeric bounds and length limits encode their threshold in
// Params["value"]; pattern rules preserve the expression in Params["pattern"];
// format rules carry the format name (for example "email" or "date") in
// Params["format"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field describes an individual input inside a form definition. The runtime
// engine instantiates live field state from this description.
type Field struct {
	Name        string           `json:"name"`
	Type        FieldType        `json:"type"`
	Format      string           `json:"format,omitempty"`
	Required    bool             `json:"required"`
	Label       string           `json:"label,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Description string           `json:"description,omitempty"`
	Default     any              `json:"default,omitempty"`
	Enum        []any            `json:"enum,omitempty"`
	Items       *Field           `json:"items,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

// IsList reports whether the field holds a dynamically sized list of values.
func (f Field) IsList() bool {
	return f.Type == FieldTypeArray
}

// Definition is the top-level description a runtime form is instantiated
// from: an ordered field list plus the submission endpoint.
type Definition struct {
	OperationID string  `json:"operationId"`
	Endpoint    string  `json:"endpoint"`
	Method      string  `json:"method"`
	Summary     string  `json:"summary,omitempty"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// FieldByName returns the named top-level field.
func (d Definition) FieldByName(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
