package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
)

// LoadDocument reads a fixture and builds a layout.Document using a file
// source. Testing helpers fail fast to keep contract tests concise.
func LoadDocument(t *testing.T, path string) pkglayout.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (pkglayout.Document, error) {
	if path == "" {
		return pkglayout.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkglayout.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkglayout.NewDocument(pkglayout.SourceFromFile(path), data)
	if err != nil {
		return pkglayout.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// DocumentFromString builds a Document from inline YAML or JSON content.
func DocumentFromString(t *testing.T, content string) pkglayout.Document {
	t.Helper()

	doc, err := pkglayout.NewDocument(pkglayout.SourceFromFile("inline.yaml"), []byte(content))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
