package render

import (
	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/form"
)

// Control identifies the kind of input a renderer should emit for a field.
const (
	ControlText   = "text"
	ControlEmail  = "email"
	ControlDate   = "date"
	ControlNumber = "number"
	ControlSelect = "select"
	ControlList   = "list"
)

// Field pairs the live state of a control with the static metadata renderers
// need to draw it.
type Field struct {
	form.FieldState

	Control     string
	Required    bool
	Placeholder string
	Description string
	// Options holds the selectable choices for select controls, in
	// declaration order.
	Options []string
}

// View is the snapshot renderers consume. It carries the static shape of the
// form alongside the current runtime state of every control.
type View struct {
	Title       string
	Description string
	Action      string
	Method      string
	// State mirrors the submission controller state (editing, submitting,
	// showingSuccess) so renderers can swap chrome accordingly.
	State  string
	Valid  bool
	Fields []Field
}

// NewView assembles a View from a form definition and the live form state.
func NewView(def definition.Definition, f *form.Form, state string) View {
	view := View{
		Title:       def.Summary,
		Description: def.Description,
		Action:      def.Endpoint,
		Method:      def.Method,
		State:       state,
	}
	if f == nil {
		return view
	}

	view.Valid = f.Valid()
	states := f.Fields()
	view.Fields = make([]Field, 0, len(states))
	for _, fs := range states {
		field := Field{FieldState: fs, Control: ControlText}
		if meta, ok := def.FieldByName(fs.Name); ok {
			field.Control = controlFor(meta)
			field.Required = meta.Required
			field.Placeholder = meta.Placeholder
			field.Description = meta.Description
			field.Options = enumStrings(meta.Enum)
		}
		view.Fields = append(view.Fields, field)
	}
	return view
}

func controlFor(meta definition.Field) string {
	if meta.IsList() {
		return ControlList
	}
	if len(meta.Enum) > 0 {
		return ControlSelect
	}
	switch meta.Format {
	case "email":
		return ControlEmail
	case "date":
		return ControlDate
	}
	switch meta.Type {
	case definition.FieldTypeInteger, definition.FieldTypeNumber:
		return ControlNumber
	}
	return ControlText
}

func enumStrings(enum []any) []string {
	if len(enum) == 0 {
		return nil
	}
	out := make([]string, 0, len(enum))
	for _, value := range enum {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
