// Package profile wires the engineer profile form end to end: the embedded
// users API contract, the runtime form with its sync and async rules, the
// framework catalog, and the submission flow against the users backend.
package profile

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formflow/internal/openapi/loader"
	"github.com/goliatone/go-formflow/internal/openapi/parser"
	"github.com/goliatone/go-formflow/pkg/catalog"
	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/userapi"
	"github.com/goliatone/go-formflow/pkg/validate"
)

//go:embed data/users-api.yaml
var documentFS embed.FS

const documentPath = "data/users-api.yaml"

// OperationID names the operation the profile form is built from.
const OperationID = "createUser"

// Field names of the profile form.
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldEmail            = "email"
	FieldBirthDate        = "birthDate"
	FieldFramework        = "framework"
	FieldFrameworkVersion = "frameworkVersion"
	FieldHobbies          = "hobbies"
)

// Age bounds enforced on the birth date.
const (
	MinAge = 18
	MaxAge = 100
)

// FieldOrder is the presentation order front ends use.
var FieldOrder = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldBirthDate,
	FieldFramework,
	FieldFrameworkVersion,
	FieldHobbies,
}

// Option configures profile construction.
type Option func(*config)

type config struct {
	client      *userapi.Client
	baseURL     string
	catalog     *catalog.Catalog
	debounce    time.Duration
	flowOptions []flow.Option
}

// WithClient injects a pre-built users API client.
func WithClient(client *userapi.Client) Option {
	return func(cfg *config) {
		if client != nil {
			cfg.client = client
		}
	}
}

// WithBaseURL builds a users API client against the given backend.
func WithBaseURL(baseURL string) Option {
	return func(cfg *config) {
		cfg.baseURL = baseURL
	}
}

// WithCatalog overrides the embedded framework catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(cfg *config) {
		if cat != nil {
			cfg.catalog = cat
		}
	}
}

// WithDebounce delays the email uniqueness check after each keystroke.
func WithDebounce(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.debounce = d
		}
	}
}

// WithFlowOptions forwards options to the submission controller, for example
// a custom success delay or a state observer.
func WithFlowOptions(options ...flow.Option) Option {
	return func(cfg *config) {
		cfg.flowOptions = append(cfg.flowOptions, options...)
	}
}

// Profile bundles the live pieces of the engineer profile form.
type Profile struct {
	Definition definition.Definition
	Form       *form.Form
	Flow       *flow.Controller
	Client     *userapi.Client
	Catalog    *catalog.Catalog
}

// Definition loads the embedded users API contract and builds the form
// definition for the create operation.
func Definition(ctx context.Context) (definition.Definition, error) {
	docs := loader.New(openapi.NewLoaderOptions(openapi.WithFileSystem(documentFS)))
	doc, err := docs.Load(ctx, openapi.SourceFromFS(documentPath))
	if err != nil {
		return definition.Definition{}, fmt.Errorf("profile: load contract: %w", err)
	}

	operations, err := parser.New(openapi.NewParserOptions()).Operations(ctx, doc)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("profile: parse contract: %w", err)
	}
	op, ok := operations[OperationID]
	if !ok {
		return definition.Definition{}, fmt.Errorf("profile: operation %q not found", OperationID)
	}

	def, err := definition.NewBuilder().Build(op)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("profile: build definition: %w", err)
	}
	return def, nil
}

// New assembles the profile form, its validation rules, and the submission
// controller. The caller owns the returned Profile and must Close it.
func New(ctx context.Context, options ...Option) (*Profile, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	client := cfg.client
	if client == nil {
		if cfg.baseURL == "" {
			return nil, errors.New("profile: a users API client or base URL is required")
		}
		built, err := userapi.New(cfg.baseURL)
		if err != nil {
			return nil, fmt.Errorf("profile: build users client: %w", err)
		}
		client = built
	}

	cat := cfg.catalog
	if cat == nil {
		loaded, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("profile: load framework catalog: %w", err)
		}
		cat = loaded
	}

	def, err := Definition(ctx)
	if err != nil {
		return nil, err
	}

	var asyncOptions []validate.AsyncOption
	if cfg.debounce > 0 {
		asyncOptions = append(asyncOptions, validate.WithDebounce(cfg.debounce))
	}

	f, err := form.New(def,
		form.WithFieldOrder(FieldOrder...),
		form.WithRules(FieldBirthDate, validate.AgeRange(MinAge, MaxAge)),
		form.WithRules(FieldFramework, validate.OneOf(cat.Frameworks())),
		form.WithItemRules(FieldHobbies, validate.Required()),
		form.WithAsyncRule(FieldEmail,
			validate.Remote(validate.TagEmailTaken, client.EmailExists),
			asyncOptions...),
	)
	if err != nil {
		return nil, fmt.Errorf("profile: build form: %w", err)
	}

	submit := func(ctx context.Context, values map[string]any) error {
		user := UserFromValues(values)
		if user.FrameworkVersion != "" && !cat.HasVersion(user.Framework, user.FrameworkVersion) {
			return fmt.Errorf("profile: version %q is not available for %q", user.FrameworkVersion, user.Framework)
		}
		_, err := client.AddUser(ctx, user)
		return err
	}

	ctl, err := flow.New(f, submit, cfg.flowOptions...)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("profile: build controller: %w", err)
	}

	return &Profile{
		Definition: def,
		Form:       f,
		Flow:       ctl,
		Client:     client,
		Catalog:    cat,
	}, nil
}

// Close releases the controller and the form.
func (p *Profile) Close() {
	if p == nil {
		return
	}
	if p.Flow != nil {
		p.Flow.Close()
	}
	if p.Form != nil {
		p.Form.Close()
	}
}

// UserFromValues maps collected form values onto the wire model.
func UserFromValues(values map[string]any) userapi.User {
	str := func(name string) string {
		s, _ := values[name].(string)
		return s
	}
	user := userapi.User{
		FirstName:        str(FieldFirstName),
		LastName:         str(FieldLastName),
		Email:            str(FieldEmail),
		BirthDate:        str(FieldBirthDate),
		Framework:        str(FieldFramework),
		FrameworkVersion: str(FieldFrameworkVersion),
	}
	if hobbies, ok := values[FieldHobbies].([]string); ok && len(hobbies) > 0 {
		user.Hobbies = hobbies
	}
	return user
}
