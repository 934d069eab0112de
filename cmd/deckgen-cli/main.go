package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-deckgen/internal/config"
	"github.com/goliatone/go-deckgen/pkg/generate"
	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
	"github.com/goliatone/go-deckgen/pkg/orchestrator"
	"github.com/goliatone/go-deckgen/pkg/textservice"
)

func main() {
	layoutPath := flag.String("layout", "layouts/slide.yaml", "layout document path or URL")
	configPath := flag.String("config", "", "config file (YAML)")
	output := flag.String("output", "", "output file (stdout if empty)")
	topic := flag.String("topic", "", "deck topic (prompted when empty)")
	audience := flag.String("audience", "", "target audience")
	tone := flag.String("tone", "", "content tone")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	src := parseSource(*layoutPath)
	if src == nil {
		log.Fatalf("invalid layout source: %q", *layoutPath)
	}

	deck, err := collectDeckContext(ctx, newSurveyDriver(), *topic, *audience, *tone)
	if err != nil {
		log.Fatalf("Failed to collect deck context: %v", err)
	}

	client, err := textservice.New(cfg.Service,
		textservice.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to build text service client: %v", err)
	}

	gen := orchestrator.New(
		orchestrator.WithGenerator(client),
		orchestrator.WithEngineConfig(cfg.Engine),
		orchestrator.WithLogger(logger),
	)

	result, err := gen.Generate(ctx, orchestrator.Request{
		Source: src,
		Deck:   deck,
	})
	if err != nil {
		log.Fatalf("Failed to generate deck content: %v", err)
	}

	for _, warning := range result.Warnings {
		logger.Warn("field warning",
			zap.String("path", warning.Path),
			zap.String("kind", string(warning.Kind)),
			zap.String("message", warning.Message),
		)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, encoded, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Deck content written to %s\n", *output)
	} else {
		fmt.Println(string(encoded))
	}

	if !result.Succeeded() {
		logger.Error("no field produced usable content",
			zap.Int("failed_fields", result.FailedFields),
		)
		os.Exit(1)
	}
}

// collectDeckContext fills missing deck inputs interactively. Flags win;
// only absent values prompt.
func collectDeckContext(ctx context.Context, driver PromptDriver, topic, audience, tone string) (generate.DeckContext, error) {
	deck := generate.DeckContext{
		Topic:    strings.TrimSpace(topic),
		Audience: strings.TrimSpace(audience),
		Tone:     strings.TrimSpace(tone),
	}

	if deck.Topic == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message: "What is the deck about?",
			Help:    "A short topic statement, e.g. \"Q3 revenue by region\"",
		})
		if err != nil {
			return generate.DeckContext{}, err
		}
		deck.Topic = strings.TrimSpace(value)
	}
	if deck.Audience == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message: "Who is the audience?",
			Default: "general",
		})
		if err != nil {
			return generate.DeckContext{}, err
		}
		deck.Audience = strings.TrimSpace(value)
	}
	if deck.Tone == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message: "What tone should the content take?",
			Default: "professional",
		})
		if err != nil {
			return generate.DeckContext{}, err
		}
		deck.Tone = strings.TrimSpace(value)
	}
	return deck, nil
}

func buildLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	if os.Getenv("DECKGEN_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}

func parseSource(raw string) pkglayout.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkglayout.SourceFromURL(path)
	}
	return pkglayout.SourceFromFile(path)
}
