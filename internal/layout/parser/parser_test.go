package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
)

const chartInsightsYAML = `
layout: chart_insights
name: Chart + Insights
description: A chart with a generated narrative column.
fields:
  type: object
  properties:
    slide_title:
      type: string
      description: Title rendered by the deck service.
      x-deckgen:
        owner: external_renderer
    key_insights:
      type: string
      x-deckgen:
        owner: generator
        format: marked_text
        structure: list of short items
        capacity:
          characters: 500
          lines: 6
    alt_text:
      type: string
`

func mustDocument(t *testing.T, content string) pkglayout.Document {
	t.Helper()
	doc, err := pkglayout.NewDocument(pkglayout.SourceFromFile("inline.yaml"), []byte(content))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestParsePreservesDeclarationOrder(t *testing.T) {
	parser := New(pkglayout.NewParserOptions())

	layout, err := parser.Parse(context.Background(), mustDocument(t, chartInsightsYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if layout.ID != "chart_insights" {
		t.Fatalf("expected layout id chart_insights, got %q", layout.ID)
	}
	if layout.Name != "Chart + Insights" {
		t.Fatalf("unexpected layout name %q", layout.Name)
	}

	// slide_title sorts after key_insights alphabetically; declaration order
	// must win.
	want := []string{"slide_title", "key_insights", "alt_text"}
	if diff := cmp.Diff(want, layout.Fields.PropertyOrder); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExtractsExtensions(t *testing.T) {
	parser := New(pkglayout.NewParserOptions())

	layout, err := parser.Parse(context.Background(), mustDocument(t, chartInsightsYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	title := layout.Fields.Properties["slide_title"]
	nested, ok := title.Extensions["x-deckgen"].(map[string]any)
	if !ok {
		t.Fatalf("expected x-deckgen extension on slide_title, got %#v", title.Extensions)
	}
	if got := nested["owner"]; got != "external_renderer" {
		t.Fatalf("expected external_renderer owner, got %v", got)
	}

	insights := layout.Fields.Properties["key_insights"]
	nested, ok = insights.Extensions["x-deckgen"].(map[string]any)
	if !ok {
		t.Fatalf("expected x-deckgen extension on key_insights")
	}
	capacity, ok := nested["capacity"].(map[string]any)
	if !ok {
		t.Fatalf("expected capacity mapping, got %#v", nested["capacity"])
	}
	if got := capacity["characters"]; got != float64(500) {
		t.Fatalf("expected characters 500, got %v (%T)", got, got)
	}

	alt := layout.Fields.Properties["alt_text"]
	if alt.Extensions != nil {
		t.Fatalf("expected no extensions on alt_text, got %#v", alt.Extensions)
	}
}

func TestParseFlattenedExtensionKeys(t *testing.T) {
	parser := New(pkglayout.NewParserOptions())

	layout, err := parser.Parse(context.Background(), mustDocument(t, `
layout: flat
fields:
  type: object
  properties:
    summary:
      type: string
      x-deckgen-owner: generator
      x-deckgen-format: plain_text
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	summary := layout.Fields.Properties["summary"]
	if got := summary.Extensions["x-deckgen-owner"]; got != "generator" {
		t.Fatalf("expected flattened owner key, got %v", got)
	}
}

func TestParseNestedOrderRecovery(t *testing.T) {
	parser := New(pkglayout.NewParserOptions())

	layout, err := parser.Parse(context.Background(), mustDocument(t, `
layout: two_column
fields:
  type: object
  properties:
    right_content:
      type: object
      properties:
        zebra: {type: string}
        apple: {type: string}
        mango: {type: string}
    left_content:
      type: array
      items:
        type: object
        properties:
          title: {type: string}
          body: {type: string}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"right_content", "left_content"}, layout.Fields.PropertyOrder); diff != "" {
		t.Fatalf("top-level order mismatch (-want +got):\n%s", diff)
	}

	right := layout.Fields.Properties["right_content"]
	if diff := cmp.Diff([]string{"zebra", "apple", "mango"}, right.PropertyOrder); diff != "" {
		t.Fatalf("nested order mismatch (-want +got):\n%s", diff)
	}

	left := layout.Fields.Properties["left_content"]
	if left.Items == nil {
		t.Fatalf("expected items schema on left_content")
	}
	if diff := cmp.Diff([]string{"title", "body"}, left.Items.PropertyOrder); diff != "" {
		t.Fatalf("items order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSONDocument(t *testing.T) {
	parser := New(pkglayout.NewParserOptions())

	layout, err := parser.Parse(context.Background(), mustDocument(t, `{
  "layout": "json_form",
  "fields": {
    "type": "object",
    "properties": {
      "walnut": {"type": "string"},
      "almond": {"type": "string"}
    }
  }
}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"walnut", "almond"}, layout.Fields.PropertyOrder); diff != "" {
		t.Fatalf("json order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsMissingLayoutID(t *testing.T) {
	parser := New(pkglayout.NewParserOptions())

	_, err := parser.Parse(context.Background(), mustDocument(t, `
name: No ID
fields:
  type: object
  properties:
    a: {type: string}
`))
	if err == nil || !strings.Contains(err.Error(), "layout id") {
		t.Fatalf("expected missing layout id error, got %v", err)
	}
}

func TestParseRejectsEmptyLayout(t *testing.T) {
	parser := New(pkglayout.NewParserOptions())

	_, err := parser.Parse(context.Background(), mustDocument(t, "layout: empty\n"))
	if err == nil || !strings.Contains(err.Error(), "no fields") {
		t.Fatalf("expected empty layout error, got %v", err)
	}

	permissive := New(pkglayout.NewParserOptions(pkglayout.WithAllowEmptyLayouts()))
	layout, err := permissive.Parse(context.Background(), mustDocument(t, "layout: empty\n"))
	if err != nil {
		t.Fatalf("parse with AllowEmptyLayouts: %v", err)
	}
	if layout.ID != "empty" {
		t.Fatalf("expected layout id empty, got %q", layout.ID)
	}
}
