// Package formflow turns OpenAPI operations into live, validating forms. The
// root package exposes convenience constructors; the heavy lifting lives in
// pkg/definition, pkg/form, pkg/flow, and pkg/render.
package formflow

import (
	"context"
	"fmt"

	internalLoader "github.com/goliatone/go-formflow/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formflow/internal/openapi/parser"
	"github.com/goliatone/go-formflow/pkg/definition"
	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/render"
)

// RenderOptions describes per-request presentation overrides forwarded to
// renderers.
type RenderOptions = render.RenderOptions

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// BuildDefinition loads an OpenAPI source, extracts the named operation, and
// builds its form definition. It is the simplest entry point for callers that
// bring their own contract.
func BuildDefinition(ctx context.Context, source pkgopenapi.Source, operationID string, loaderOptions ...pkgopenapi.LoaderOption) (definition.Definition, error) {
	doc, err := NewLoader(loaderOptions...).Load(ctx, source)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("formflow: load document: %w", err)
	}
	return BuildDefinitionFromDocument(ctx, doc, operationID)
}

// BuildDefinitionFromDocument builds a form definition from a pre-loaded
// document, bypassing the loader stage.
func BuildDefinitionFromDocument(ctx context.Context, doc pkgopenapi.Document, operationID string) (definition.Definition, error) {
	operations, err := NewParser().Operations(ctx, doc)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("formflow: parse document: %w", err)
	}
	op, ok := operations[operationID]
	if !ok {
		return definition.Definition{}, fmt.Errorf("formflow: operation %q not found", operationID)
	}
	def, err := definition.NewBuilder().Build(op)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("formflow: build definition: %w", err)
	}
	return def, nil
}
