package frameworks

import (
	"net/http"

	"github.com/goliatone/go-formflow/pkg/catalog"
)

// GuardFunc can reject a request before the handler runs, for example to
// enforce authentication. Returning an error yields a 403 unless the error
// implements HTTPError.
type GuardFunc func(r *http.Request) error

// Options configures the component handler.
type Options struct {
	RoutePath      string
	SearchParam    string
	FrameworkParam string
	LimitParam     string
	DefaultLimit   int
	MaxLimit       int
	Guard          GuardFunc

	// Catalog overrides the embedded default.
	Catalog *catalog.Catalog
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		RoutePath:      "/api/frameworks",
		SearchParam:    "q",
		FrameworkParam: "framework",
		LimitParam:     "limit",
		DefaultLimit:   50,
		MaxLimit:       200,
	}
}

// NewOptions applies overrides on top of the defaults and clamps bad values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/frameworks"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.FrameworkParam == "" {
		opts.FrameworkParam = "framework"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	return opts
}

// WithRoutePath overrides the mount path used by RegisterRoutes.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithSearchParam overrides the search query parameter name.
func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

// WithFrameworkParam overrides the parameter selecting a framework's
// versions.
func WithFrameworkParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FrameworkParam = name
	}
}

// WithLimitParam overrides the limit parameter name.
func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

// WithDefaultLimit overrides the limit applied when the request omits one.
func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

// WithMaxLimit caps the limit a request may ask for.
func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

// WithGuard installs a request guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithCatalog overrides the embedded framework catalog.
func WithCatalog(c *catalog.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = c
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
