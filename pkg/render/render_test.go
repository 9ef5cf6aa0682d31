package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/validate"
)

func viewDefinition() definition.Definition {
	return definition.Definition{
		OperationID: "createUser",
		Endpoint:    "/users",
		Method:      "POST",
		Summary:     "Engineer Profile",
		Fields: []definition.Field{
			{Name: "firstName", Type: definition.FieldTypeString, Required: true, Label: "First name"},
			{Name: "email", Type: definition.FieldTypeString, Format: "email"},
			{Name: "birthDate", Type: definition.FieldTypeString, Format: "date"},
			{Name: "framework", Type: definition.FieldTypeString, Enum: []any{"angular", "react"}},
			{Name: "age", Type: definition.FieldTypeInteger},
			{
				Name:  "hobbies",
				Type:  definition.FieldTypeArray,
				Items: &definition.Field{Name: "hobbiesItem", Type: definition.FieldTypeString},
			},
		},
	}
}

func TestNewView_MapsControls(t *testing.T) {
	def := viewDefinition()
	f, err := form.New(def)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	defer f.Close()

	view := NewView(def, f, "editing")

	if view.Title != "Engineer Profile" || view.Action != "/users" || view.Method != "POST" {
		t.Fatalf("unexpected view header: %+v", view)
	}
	if view.State != "editing" {
		t.Fatalf("unexpected state %q", view.State)
	}
	if view.Valid {
		t.Fatal("expected an untouched required form to be invalid")
	}

	controls := make(map[string]string, len(view.Fields))
	for _, field := range view.Fields {
		controls[field.Name] = field.Control
	}
	want := map[string]string{
		"firstName": ControlText,
		"email":     ControlEmail,
		"birthDate": ControlDate,
		"framework": ControlSelect,
		"age":       ControlNumber,
		"hobbies":   ControlList,
	}
	if diff := cmp.Diff(want, controls); diff != "" {
		t.Fatalf("control mismatch (-want +got):\n%s", diff)
	}

	for _, field := range view.Fields {
		if field.Name != "framework" {
			continue
		}
		if diff := cmp.Diff([]string{"angular", "react"}, field.Options); diff != "" {
			t.Fatalf("options mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestNewView_NilForm(t *testing.T) {
	view := NewView(viewDefinition(), nil, "editing")
	if len(view.Fields) != 0 || view.Valid {
		t.Fatalf("expected an empty view, got %+v", view)
	}
}

func TestMessage(t *testing.T) {
	required := validate.Violation{Tag: validate.TagRequired}
	if got := Message(required, nil); got != "This field is required" {
		t.Fatalf("unexpected message %q", got)
	}

	minlength := validate.Violation{
		Tag:    validate.TagMinLength,
		Params: map[string]string{"value": "4"},
	}
	if got := Message(minlength, nil); got != "Must be at least 4 characters long" {
		t.Fatalf("unexpected message %q", got)
	}

	ageRange := validate.Violation{
		Tag:    validate.TagAgeRange,
		Params: map[string]string{"min": "18", "max": "100"},
	}
	if got := Message(ageRange, nil); got != "Age must be between 18 and 100" {
		t.Fatalf("unexpected message %q", got)
	}

	if got := Message(required, map[string]string{validate.TagRequired: "Pflichtfeld"}); got != "Pflichtfeld" {
		t.Fatalf("unexpected override %q", got)
	}

	unknown := validate.Violation{Tag: "custom"}
	if got := Message(unknown, nil); got != "custom" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

type stubRenderer struct {
	name string
}

func (r stubRenderer) Name() string        { return r.name }
func (r stubRenderer) ContentType() string { return "text/plain" }
func (r stubRenderer) Render(context.Context, View, RenderOptions) ([]byte, error) {
	return []byte(r.name), nil
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatal("expected an error for a duplicate name")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatal("expected an error for an empty name")
	}

	registry.MustRegister(stubRenderer{name: "text"})

	if diff := cmp.Diff([]string{"html", "text"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("html") || registry.Has("json") {
		t.Fatal("unexpected membership")
	}

	renderer, err := registry.Get("text")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if renderer.Name() != "text" {
		t.Fatalf("unexpected renderer %q", renderer.Name())
	}
	if _, err := registry.Get("json"); err == nil {
		t.Fatal("expected an error for an unknown renderer")
	}
}
