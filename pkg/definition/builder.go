package definition

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
)

// Builder converts OpenAPI operations into form definitions.
type Builder interface {
	Build(op pkgopenapi.Operation) (Definition, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builder)

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(b *builder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// NewBuilder returns the default Builder implementation.
func NewBuilder(options ...BuilderOption) Builder {
	b := &builder{labeler: DefaultLabeler}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

type builder struct {
	labeler func(string) string
}

// Build transforms an OpenAPI operation into a Definition. It focuses on the
// request body schema: each top-level property becomes a field, carrying the
// schema's constraints as validation rules.
func (b *builder) Build(op pkgopenapi.Operation) (Definition, error) {
	if err := validateOperation(op); err != nil {
		return Definition{}, err
	}

	def := Definition{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Summary:     op.Summary,
		Description: op.Description,
	}

	fields, err := b.fieldsFromSchema(op.RequestBody)
	if err != nil {
		return Definition{}, err
	}
	def.Fields = fields

	return def, nil
}

func validateOperation(op pkgopenapi.Operation) error {
	if op.ID == "" {
		return errors.New("definition builder: operation id is required")
	}
	if op.Path == "" {
		return errors.New("definition builder: operation path is required")
	}
	if op.Method == "" {
		return errors.New("definition builder: operation method is required")
	}
	return nil
}

func (b *builder) fieldsFromSchema(schema pkgopenapi.Schema) ([]Field, error) {
	if schema.Type == "" && len(schema.Properties) == 0 {
		return nil, nil
	}
	if schema.Type != "" && schema.Type != "object" {
		return nil, fmt.Errorf("definition builder: request body must be an object, got %q", schema.Type)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		field, err := b.fieldFromSchema(name, schema.Properties[name], required[name])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (b *builder) fieldFromSchema(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	field := Field{
		Name:        name,
		Type:        fieldType(schema.Type),
		Format:      schema.Format,
		Required:    required,
		Label:       b.labeler(name),
		Description: schema.Description,
		Default:     schema.Default,
	}

	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}

	if schema.Type == "array" {
		if schema.Items == nil {
			return Field{}, fmt.Errorf("definition builder: array field %q requires items", name)
		}
		items, err := b.fieldFromSchema(name+"Item", *schema.Items, false)
		if err != nil {
			return Field{}, err
		}
		field.Items = &items
	}

	field.Validations = validationsFromSchema(schema)
	return field, nil
}

func fieldType(raw string) FieldType {
	switch raw {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "array":
		return FieldTypeArray
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

func validationsFromSchema(schema pkgopenapi.Schema) []ValidationRule {
	var rules []ValidationRule

	if schema.MinLength != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MinLength)},
		})
	}
	if schema.MaxLength != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MaxLength)},
		})
	}
	if schema.Minimum != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMin,
			Params: map[string]string{"value": strconv.FormatFloat(*schema.Minimum, 'f', -1, 64)},
		})
	}
	if schema.Maximum != nil {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleMax,
			Params: map[string]string{"value": strconv.FormatFloat(*schema.Maximum, 'f', -1, 64)},
		})
	}
	if schema.Pattern != "" {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
	if schema.Format != "" {
		rules = append(rules, ValidationRule{
			Kind:   ValidationRuleFormat,
			Params: map[string]string{"format": schema.Format},
		})
	}

	return rules
}
