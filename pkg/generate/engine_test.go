package generate_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-deckgen/pkg/generate"
	"github.com/goliatone/go-deckgen/pkg/spec"
	"github.com/goliatone/go-deckgen/pkg/testsupport"
)

func testConfig() generate.Config {
	return generate.Config{
		MaxRetries:         2,
		FieldTimeout:       5 * time.Second,
		Concurrency:        4,
		DefaultCharCeiling: 600,
	}
}

func markedField(path string, chars int) spec.FieldSpec {
	return spec.FieldSpec{
		Name:   path,
		Path:   path,
		Format: spec.FormatMarkedText,
		Owner:  spec.OwnerGenerator,
		Capacity: []spec.CapacityLimit{
			{Metric: spec.MetricCharacters, Max: chars},
		},
	}
}

func TestEngineDensityPassesFirstAttempt(t *testing.T) {
	gen := &testsupport.StaticGenerator{
		Responses: map[string]string{
			"key_insights": "<p>" + testsupport.Text(460) + "</p>",
		},
	}
	engine, err := generate.New(gen, generate.WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.Generate(context.Background(), []spec.FieldSpec{markedField("key_insights", 500)}, generate.DeckContext{Topic: "revenue"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	field := result.Fields["key_insights"]
	if field.Failed {
		t.Fatalf("unexpected failure: %s", field.Err)
	}
	if field.Density == nil || *field.Density < 0.91 || *field.Density > 0.93 {
		t.Fatalf("expected density ~0.92, got %v", field.Density)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %#v", result.Warnings)
	}
	if calls := gen.RequestsFor("key_insights"); len(calls) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(calls))
	}
}

func TestEngineSparseContentRetriesThenWarns(t *testing.T) {
	gen := &testsupport.StaticGenerator{
		Responses: map[string]string{
			"key_insights": "<p>" + testsupport.Text(50) + "</p>",
		},
	}
	engine, err := generate.New(gen, generate.WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.Generate(context.Background(), []spec.FieldSpec{markedField("key_insights", 500)}, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	field := result.Fields["key_insights"]
	if field.Failed || field.Value == "" {
		t.Fatalf("expected best candidate to be kept, got %#v", field)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %#v", result.Warnings)
	}
	warning := result.Warnings[0]
	if warning.Kind != generate.WarningSparse || warning.Attempts != 3 {
		t.Fatalf("expected sparse warning after 3 attempts, got %#v", warning)
	}

	calls := gen.RequestsFor("key_insights")
	if len(calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(calls))
	}
	if calls[1].Guidance.Characters <= calls[0].Guidance.Characters {
		t.Fatalf("expected sparse feedback to raise the character target: %d then %d",
			calls[0].Guidance.Characters, calls[1].Guidance.Characters)
	}
}

func TestEngineOverflowAcceptedWithWarning(t *testing.T) {
	gen := &testsupport.StaticGenerator{
		Responses: map[string]string{
			"key_insights": "<p>" + testsupport.Text(700) + "</p>",
		},
	}
	engine, err := generate.New(gen, generate.WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.Generate(context.Background(), []spec.FieldSpec{markedField("key_insights", 500)}, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	field := result.Fields["key_insights"]
	if field.Failed || field.Value == "" {
		t.Fatalf("expected overflowing content to be kept, got %#v", field)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Kind != generate.WarningOverflow {
		t.Fatalf("expected overflow warning, got %#v", result.Warnings)
	}
	if result.FailedFields != 0 {
		t.Fatalf("overflow must not count as failure, got %d", result.FailedFields)
	}
}

func TestEngineSiblingFailureIsContained(t *testing.T) {
	gen := &testsupport.StaticGenerator{
		Responses: map[string]string{
			"slide_title": "Quarterly revenue by region",
		},
		Errors: map[string]error{
			"summary": errors.New("connection refused"),
		},
	}
	engine, err := generate.New(gen, generate.WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	fields := []spec.FieldSpec{
		{Name: "slide_title", Path: "slide_title", Format: spec.FormatPlainText, Owner: spec.OwnerExternalRenderer},
		{Name: "summary", Path: "summary", Format: spec.FormatPlainText, Owner: spec.OwnerGenerator},
	}
	result, err := engine.Generate(context.Background(), fields, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if result.Fields["slide_title"].Value != "Quarterly revenue by region" {
		t.Fatalf("sibling value lost: %#v", result.Fields["slide_title"])
	}
	failed := result.Fields["summary"]
	if !failed.Failed || failed.Err == "" {
		t.Fatalf("expected summary to fail, got %#v", failed)
	}
	if result.FailedFields != 1 {
		t.Fatalf("expected FailedFields 1, got %d", result.FailedFields)
	}
	if !result.Succeeded() {
		t.Fatalf("expected run to count as succeeded")
	}
	foundFailedWarning := false
	for _, warning := range result.Warnings {
		if warning.Path == "summary" && warning.Kind == generate.WarningFailed {
			foundFailedWarning = true
		}
	}
	if !foundFailedWarning {
		t.Fatalf("expected failed warning for summary, got %#v", result.Warnings)
	}
}

func TestEngineRendererOwnedOutputCarriesNoMarkup(t *testing.T) {
	gen := &testsupport.StaticGenerator{
		Responses: map[string]string{
			"slide_title": "<strong>Big</strong> title",
		},
	}
	engine, err := generate.New(gen, generate.WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	fields := []spec.FieldSpec{
		{Name: "slide_title", Path: "slide_title", Format: spec.FormatPlainText, Owner: spec.OwnerExternalRenderer},
	}
	result, err := engine.Generate(context.Background(), fields, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if got := result.Fields["slide_title"].Value; got != "Big title" {
		t.Fatalf("expected stripped title, got %q", got)
	}
}

func TestEnginePlainTruncationMarkerIsOptIn(t *testing.T) {
	long := strings.Repeat("x", 25)

	silent := testConfig()
	silent.DefaultCharCeiling = 10
	gen := &testsupport.StaticGenerator{Fallback: long}
	engine, err := generate.New(gen, generate.WithConfig(silent))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	fields := []spec.FieldSpec{
		{Name: "note", Path: "note", Format: spec.FormatPlainText, Owner: spec.OwnerGenerator},
	}
	result, err := engine.Generate(context.Background(), fields, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := result.Fields["note"].Value; got != strings.Repeat("x", 10) {
		t.Fatalf("expected silent truncation to 10 runes, got %q", got)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Kind != generate.WarningOverflow {
		t.Fatalf("expected overflow warning for truncation, got %#v", result.Warnings)
	}

	marked := silent
	marked.ContinuationMarker = "..."
	engine, err = generate.New(&testsupport.StaticGenerator{Fallback: long}, generate.WithConfig(marked))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err = engine.Generate(context.Background(), fields, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := result.Fields["note"].Value; !strings.HasSuffix(got, "...") {
		t.Fatalf("expected continuation marker, got %q", got)
	}
}

func TestEnginePreservesDeclarationOrderAcrossWorkers(t *testing.T) {
	gen := &testsupport.StaticGenerator{Fallback: "content"}
	cfg := testConfig()
	cfg.Concurrency = 2
	engine, err := generate.New(gen, generate.WithConfig(cfg))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	parent := spec.FieldSpec{
		Name: "left_content",
		Path: "left_content",
		Children: []spec.FieldSpec{
			{Name: "zebra", Path: "left_content.zebra", Format: spec.FormatPlainText, Owner: spec.OwnerGenerator},
			{Name: "apple", Path: "left_content.apple", Format: spec.FormatPlainText, Owner: spec.OwnerGenerator},
			{Name: "mango", Path: "left_content.mango", Format: spec.FormatPlainText, Owner: spec.OwnerGenerator},
		},
	}
	fields := []spec.FieldSpec{
		parent,
		{Name: "slide_title", Path: "slide_title", Format: spec.FormatPlainText, Owner: spec.OwnerExternalRenderer},
	}

	result, err := engine.Generate(context.Background(), fields, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if diff := cmp.Diff([]string{"left_content", "slide_title"}, result.Order); diff != "" {
		t.Fatalf("top-level order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"zebra", "apple", "mango"}, result.Fields["left_content"].Order); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"zebra", "apple", "mango"} {
		child := result.Fields["left_content"].Children[name]
		if child.Value != "content" {
			t.Fatalf("missing child %s: %#v", name, child)
		}
	}
}

func TestEngineTimeoutIsRetryable(t *testing.T) {
	cfg := testConfig()
	cfg.FieldTimeout = 30 * time.Millisecond

	slowFirst := generate.GeneratorFunc(func(ctx context.Context, req generate.Request) (generate.Response, error) {
		if req.Attempt == 1 {
			<-ctx.Done()
			return generate.Response{}, ctx.Err()
		}
		return generate.Response{Text: "made it"}, nil
	})
	engine, err := generate.New(slowFirst, generate.WithConfig(cfg))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	fields := []spec.FieldSpec{
		{Name: "note", Path: "note", Format: spec.FormatPlainText, Owner: spec.OwnerGenerator},
	}
	result, err := engine.Generate(context.Background(), fields, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	field := result.Fields["note"]
	if field.Failed || field.Value != "made it" {
		t.Fatalf("expected retry after timeout to succeed, got %#v", field)
	}
	foundRetried := false
	for _, warning := range result.Warnings {
		if warning.Kind == generate.WarningRetried {
			foundRetried = true
		}
	}
	if !foundRetried {
		t.Fatalf("expected retried warning, got %#v", result.Warnings)
	}
}

func TestEngineEmptyOutputFailsAfterRetries(t *testing.T) {
	gen := &testsupport.StaticGenerator{Fallback: "   "}
	engine, err := generate.New(gen, generate.WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	fields := []spec.FieldSpec{
		{Name: "note", Path: "note", Format: spec.FormatPlainText, Owner: spec.OwnerGenerator},
	}
	result, err := engine.Generate(context.Background(), fields, generate.DeckContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	field := result.Fields["note"]
	if !field.Failed || !strings.Contains(field.Err, "empty") {
		t.Fatalf("expected empty-output failure, got %#v", field)
	}
	if calls := gen.RequestsFor("note"); len(calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(calls))
	}
	if result.Succeeded() {
		t.Fatalf("expected run with no usable fields to report failure")
	}
}

func TestEngineRequiresGenerator(t *testing.T) {
	if _, err := generate.New(nil); err == nil {
		t.Fatalf("expected error for nil generator")
	}
}
