package prompt_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-deckgen/pkg/generate"
	"github.com/goliatone/go-deckgen/pkg/prompt"
	"github.com/goliatone/go-deckgen/pkg/spec"
)

func TestBuildPromptPlainField(t *testing.T) {
	engine, err := prompt.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.BuildPrompt(generate.Request{
		Path:   "speaker_notes",
		Format: spec.FormatPlainText,
		Owner:  spec.OwnerGenerator,
		Deck: generate.DeckContext{
			Topic:    "Q3 revenue",
			Audience: "executives",
			Tone:     "direct",
		},
		Guidance: generate.Guidance{Characters: 480},
		Attempt:  1,
	})
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}

	for _, expect := range []string{"speaker_notes", "Q3 revenue", "executives", "direct", "480", "plain text only"} {
		if !strings.Contains(out, expect) {
			t.Fatalf("expected prompt to contain %q:\n%s", expect, out)
		}
	}
	if strings.Contains(out, "attempt") {
		t.Fatalf("first attempt must not mention retries:\n%s", out)
	}
}

func TestBuildPromptMarkedFieldUsesRichTemplate(t *testing.T) {
	engine, err := prompt.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.BuildPrompt(generate.Request{
		Path:      "key_insights",
		Format:    spec.FormatMarkedText,
		Owner:     spec.OwnerGenerator,
		Structure: "a list of short items",
		Deck:      generate.DeckContext{Topic: "churn analysis"},
		Guidance:  generate.Guidance{Characters: 500, Lines: 6},
		Attempt:   2,
	})
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}

	for _, expect := range []string{"a list of short items", "<ul>", "500", "6 lines", "attempt 2"} {
		if !strings.Contains(out, expect) {
			t.Fatalf("expected prompt to contain %q:\n%s", expect, out)
		}
	}
}

func TestBuildPromptCustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"plain_field.tpl":  {Data: []byte("say something about {{ topic }}")},
		"marked_field.tpl": {Data: []byte("list things about {{ topic }}")},
	}
	engine, err := prompt.New(prompt.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.BuildPrompt(generate.Request{
		Path:   "note",
		Format: spec.FormatPlainText,
		Owner:  spec.OwnerGenerator,
		Deck:   generate.DeckContext{Topic: "whales"},
	})
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if out != "say something about whales" {
		t.Fatalf("custom template not used: %q", out)
	}
}
