// Package catalog holds the framework catalog: the static mapping from
// framework name to its known version strings that drives the profile form's
// framework and version selects.
package catalog

import (
	"embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/frameworks.yaml
var dataFS embed.FS

const defaultCatalogPath = "data/frameworks.yaml"

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Catalog maps framework names to an ordered list of known versions.
// Catalogs are immutable after construction and safe for concurrent reads.
type Catalog struct {
	names    []string
	versions map[string][]string
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultCatalogPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		defaultCatalog, defaultErr = Load(f)
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultCatalog, nil
}

// MustDefault panics when the embedded catalog fails to load. Useful in
// wiring code where the embedded data is known good.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML document of the shape:
//
//	frameworks:
//	  angular: ["1.1.1", "1.2.1"]
//	  react: ["2.1.2", "3.2.4"]
//
// Version order is preserved as declared; framework names are sorted.
func Load(r io.Reader) (*Catalog, error) {
	if r == nil {
		return nil, fmt.Errorf("catalog: missing reader")
	}

	var doc struct {
		Frameworks map[string][]string `yaml:"frameworks"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(doc.Frameworks) == 0 {
		return nil, fmt.Errorf("catalog: no frameworks declared")
	}

	return New(doc.Frameworks)
}

// New builds a catalog from a name → versions map.
func New(frameworks map[string][]string) (*Catalog, error) {
	if len(frameworks) == 0 {
		return nil, fmt.Errorf("catalog: no frameworks declared")
	}

	c := &Catalog{versions: make(map[string][]string, len(frameworks))}
	for name, versions := range frameworks {
		if name == "" {
			return nil, fmt.Errorf("catalog: framework name is empty")
		}
		if len(versions) == 0 {
			return nil, fmt.Errorf("catalog: framework %q has no versions", name)
		}
		c.names = append(c.names, name)
		c.versions[name] = append([]string(nil), versions...)
	}
	sort.Strings(c.names)
	return c, nil
}

// Frameworks returns the framework names in sorted order.
func (c *Catalog) Frameworks() []string {
	return append([]string(nil), c.names...)
}

// Versions returns the ordered versions for a framework, or nil when the
// framework is unknown.
func (c *Catalog) Versions(framework string) []string {
	versions, ok := c.versions[framework]
	if !ok {
		return nil
	}
	return append([]string(nil), versions...)
}

// Has reports whether the framework is in the catalog.
func (c *Catalog) Has(framework string) bool {
	_, ok := c.versions[framework]
	return ok
}

// HasVersion reports whether the version is known for the framework.
func (c *Catalog) HasVersion(framework, version string) bool {
	for _, v := range c.versions[framework] {
		if v == version {
			return true
		}
	}
	return false
}
