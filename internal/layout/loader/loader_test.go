package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
)

const layoutYAML = "layout: demo\nfields:\n  type: object\n  properties:\n    a: {type: string}\n"

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(layoutYAML), 0o644); err != nil {
		t.Fatalf("write layout: %v", err)
	}

	loader := New(pkglayout.NewLoaderOptions())
	doc, err := loader.Load(context.Background(), pkglayout.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != layoutYAML {
		t.Fatalf("unexpected payload: %q", doc.Raw())
	}
}

func TestLoadFromFS(t *testing.T) {
	files := fstest.MapFS{
		"layouts/demo.yaml": {Data: []byte(layoutYAML)},
	}

	loader := New(pkglayout.NewLoaderOptions(pkglayout.WithFileSystem(files)))
	doc, err := loader.Load(context.Background(), pkglayout.SourceFromFS("layouts/demo.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != layoutYAML {
		t.Fatalf("unexpected payload: %q", doc.Raw())
	}
}

func TestLoadHTTPDisabledByDefault(t *testing.T) {
	loader := New(pkglayout.NewLoaderOptions())

	_, err := loader.Load(context.Background(), pkglayout.SourceFromURL("http://example.com/layout.yaml"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected http disabled error, got %v", err)
	}
}

func TestLoadOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(layoutYAML))
	}))
	defer server.Close()

	loader := New(pkglayout.NewLoaderOptions(pkglayout.WithHTTPFallback(0)))
	doc, err := loader.Load(context.Background(), pkglayout.SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != layoutYAML {
		t.Fatalf("unexpected payload: %q", doc.Raw())
	}
}

func TestLoadHTTPRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	loader := New(pkglayout.NewLoaderOptions(pkglayout.WithHTTPFallback(0)))
	_, err := loader.Load(context.Background(), pkglayout.SourceFromURL(server.URL))
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("expected status error, got %v", err)
	}
}
