package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	if err := os.WriteFile(path, []byte("openapi: 3.0.3\n"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	l := New(pkgopenapi.NewLoaderOptions())
	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got := string(doc.Raw()); got != "openapi: 3.0.3\n" {
		t.Fatalf("unexpected payload %q", got)
	}
	if doc.Source().Kind() != pkgopenapi.SourceKindFile {
		t.Fatalf("unexpected source kind %q", doc.Source().Kind())
	}
}

func TestLoad_FromFS(t *testing.T) {
	files := fstest.MapFS{
		"specs/api.yaml": {Data: []byte("openapi: 3.0.3\n")},
	}

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))
	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml"))
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if doc.Location() != "specs/api.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}

	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing entry")
	}
}

func TestLoad_FSNotConfigured(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions())
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("api.yaml")); err == nil {
		t.Fatal("expected an error when no filesystem is configured")
	}
}

func TestLoad_HTTPDisabledByDefault(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions())
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromURL("http://localhost:9999/api.yaml")); err == nil {
		t.Fatal("expected http loading to be disabled")
	}
}

func TestLoad_FromHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if _, err := w.Write([]byte("openapi: 3.0.3\n")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got := string(doc.Raw()); got != "openapi: 3.0.3\n" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestLoad_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL)); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestLoad_NilSource(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions())
	if _, err := l.Load(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil source")
	}
}
