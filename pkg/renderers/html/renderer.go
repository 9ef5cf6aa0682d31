// Package html renders a live form view as a standalone HTML document using
// the embedded template bundle. User-entered values pass through an HTML
// sanitizer before they reach the template.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
	gotemplate "github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	sanitizer        *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer overrides the policy applied to user-entered values.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = bluemonday.StrictPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, sanitizer: cfg.sanitizer}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":  r.buildFormContext(view, options),
		"theme": buildThemeContext(options.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) buildFormContext(view render.View, options render.RenderOptions) map[string]any {
	method := view.Method
	if options.Method != "" {
		method = options.Method
	}

	fields := make([]map[string]any, 0, len(view.Fields))
	for _, field := range view.Fields {
		fields = append(fields, r.buildFieldContext(field, options))
	}

	return map[string]any{
		"title":       r.sanitize(view.Title),
		"description": r.sanitize(view.Description),
		"action":      view.Action,
		"method":      method,
		"state":       view.State,
		"valid":       view.Valid,
		"fields":      fields,
	}
}

func (r *Renderer) buildFieldContext(field render.Field, options render.RenderOptions) map[string]any {
	showErrors := field.Touched || options.ShowUntouched

	items := make([]map[string]any, 0, len(field.Items))
	for i, item := range field.Items {
		entry := map[string]any{
			"index": i,
			"value": r.sanitize(item.Value),
		}
		if showErrors || item.Touched {
			entry["errors"] = r.messages(item, options)
		}
		items = append(items, entry)
	}

	ctx := map[string]any{
		"name":        field.Name,
		"label":       r.sanitize(field.Label),
		"value":       r.sanitize(field.Value),
		"control":     field.Control,
		"required":    field.Required,
		"placeholder": r.sanitize(field.Placeholder),
		"description": r.sanitize(field.Description),
		"options":     field.Options,
		"touched":     field.Touched,
		"dirty":       field.Dirty,
		"pending":     field.Pending,
		"items":       items,
	}
	if showErrors {
		ctx["errors"] = r.messages(field.FieldState, options)
	}
	return ctx
}

func (r *Renderer) sanitize(value string) string {
	if r.sanitizer == nil {
		return value
	}
	return r.sanitizer.Sanitize(value)
}
