package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/pkg/catalog"
	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/form"
)

type scriptDriver struct {
	t        *testing.T
	inputs   []string
	selects  []int
	confirms []bool
	infos    []string
}

func (d *scriptDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected input prompt")
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *scriptDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		d.t.Fatalf("unexpected confirm prompt")
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected select prompt for %q", cfg.Message)
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func sessionDefinition() definition.Definition {
	return definition.Definition{
		OperationID: "createUser",
		Endpoint:    "/users",
		Method:      "POST",
		Fields: []definition.Field{
			{
				Name:     "firstName",
				Type:     definition.FieldTypeString,
				Required: true,
				Label:    "First Name",
				Validations: []definition.ValidationRule{
					{Kind: definition.ValidationRuleRequired},
				},
			},
			{Name: "framework", Type: definition.FieldTypeString, Label: "Framework"},
			{Name: "frameworkVersion", Type: definition.FieldTypeString, Label: "Framework Version"},
			{
				Name:  "hobbies",
				Type:  definition.FieldTypeArray,
				Label: "Hobby",
				Items: &definition.Field{Name: "hobby", Type: definition.FieldTypeString},
			},
		},
	}
}

func sessionCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(map[string][]string{
		"angular": {"1.1.1"},
		"react":   {"2.1.2", "3.2.4"},
	})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return cat
}

func TestSession_CollectsAndSubmits(t *testing.T) {
	cat := sessionCatalog(t)
	def := sessionDefinition()

	f, err := form.New(def)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	defer f.Close()

	var submitted map[string]any
	ctl, err := flow.New(f, func(_ context.Context, values map[string]any) error {
		submitted = values
		return nil
	})
	if err != nil {
		t.Fatalf("failed to build controller: %v", err)
	}
	defer ctl.Close()

	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"", "Ada", "chess"},
		selects:  []int{1, 0},
		confirms: []bool{true, false, true},
	}

	session, err := New(def, f, ctl,
		WithDriver(driver),
		WithSelectSource("framework", func(map[string]any) []string {
			return cat.Frameworks()
		}),
		WithSelectSource("frameworkVersion", func(values map[string]any) []string {
			framework, _ := values["framework"].(string)
			return cat.Versions(framework)
		}),
	)
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("session failed: %v", err)
	}

	if submitted == nil {
		t.Fatal("expected submit to run")
	}
	if submitted["firstName"] != "Ada" {
		t.Fatalf("unexpected first name: %v", submitted["firstName"])
	}
	if submitted["framework"] != "react" {
		t.Fatalf("unexpected framework: %v", submitted["framework"])
	}
	if submitted["frameworkVersion"] != "2.1.2" {
		t.Fatalf("unexpected version: %v", submitted["frameworkVersion"])
	}
	hobbies, _ := submitted["hobbies"].([]string)
	if len(hobbies) != 1 || hobbies[0] != "chess" {
		t.Fatalf("unexpected hobbies: %v", submitted["hobbies"])
	}

	foundRequired := false
	for _, msg := range driver.infos {
		if strings.Contains(msg, "required") {
			foundRequired = true
		}
	}
	if !foundRequired {
		t.Fatalf("expected a required message for the empty first attempt, got %v", driver.infos)
	}
}

func TestSession_VersionSkippedWithoutFramework(t *testing.T) {
	cat := sessionCatalog(t)
	def := sessionDefinition()

	f, err := form.New(def)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	defer f.Close()

	ctl, err := flow.New(f, func(context.Context, map[string]any) error { return nil })
	if err != nil {
		t.Fatalf("failed to build controller: %v", err)
	}
	defer ctl.Close()

	driver := &scriptDriver{
		t:      t,
		inputs: []string{"Ada"},
		// Framework select skipped via an empty source, so the version
		// select must not appear either.
		confirms: []bool{false, true},
	}

	session, err := New(def, f, ctl,
		WithDriver(driver),
		WithSelectSource("framework", func(map[string]any) []string {
			return nil
		}),
		WithSelectSource("frameworkVersion", func(values map[string]any) []string {
			framework, _ := values["framework"].(string)
			return cat.Versions(framework)
		}),
	)
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("session failed: %v", err)
	}
	if len(driver.selects) != 0 {
		t.Fatalf("expected no select prompts to be consumed")
	}
}
