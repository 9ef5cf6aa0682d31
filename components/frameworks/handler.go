package frameworks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-formflow/pkg/catalog"
)

// HTTPError lets guards pick the response status for rejected requests.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a ready-made HTTPError implementation.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Option is a single selectable entry in the JSON response.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type optionsResponse struct {
	Data []Option `json:"data"`
}

// Handler builds a net/http handler with default options plus any overrides.
// It is an alias of NewHandler to match the recommended component API surface.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. Callers are expected to pass an Options produced by NewOptions so
// defaults and clamps are applied.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		cat := opts.Catalog
		if cat == nil {
			loaded, err := catalog.Default()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			cat = loaded
		}

		limit := clampLimit(parseInt(r.URL.Query().Get(opts.LimitParam)), opts)

		var results []Option
		if framework := r.URL.Query().Get(opts.FrameworkParam); framework != "" {
			results = versionOptions(cat, framework, limit)
		} else {
			query := r.URL.Query().Get(opts.SearchParam)
			results = frameworkOptions(cat, query, limit)
		}
		if results == nil {
			results = []Option{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(optionsResponse{Data: results})
	})
}

func frameworkOptions(cat *catalog.Catalog, query string, limit int) []Option {
	names := cat.Search(query, limit)
	if len(names) == 0 {
		return nil
	}
	out := make([]Option, 0, len(names))
	for _, name := range names {
		out = append(out, Option{Value: name, Label: name})
	}
	return out
}

func versionOptions(cat *catalog.Catalog, framework string, limit int) []Option {
	versions := cat.Versions(framework)
	if limit > 0 && len(versions) > limit {
		versions = versions[:limit]
	}
	if len(versions) == 0 {
		return nil
	}
	out := make([]Option, 0, len(versions))
	for _, version := range versions {
		out = append(out, Option{Value: version, Label: version})
	}
	return out
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
