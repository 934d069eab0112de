package textservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-deckgen/pkg/generate"
	"github.com/goliatone/go-deckgen/pkg/prompt"
)

const (
	generatePath     = "/v1/generate"
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 1 << 20
)

// Config locates the external text generation service.
type Config struct {
	// BaseURL is the service root, e.g. "http://text-service:8080".
	BaseURL string `env:"DECKGEN_TEXT_SERVICE_URL"`
	// Timeout bounds each HTTP request when no custom client is supplied.
	Timeout time.Duration `env:"DECKGEN_TEXT_SERVICE_TIMEOUT"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithPromptEngine replaces the default prompt engine.
func WithPromptEngine(engine *prompt.Engine) Option {
	return func(c *Client) {
		if engine != nil {
			c.prompts = engine
		}
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the external text generation service over HTTP. It
// implements generate.TextGenerator, so the engine treats the service as a
// black box that takes a prompt and returns text.
type Client struct {
	baseURL string
	http    *http.Client
	prompts *prompt.Engine
	logger  *zap.Logger
}

var _ generate.TextGenerator = (*Client)(nil)

// New constructs a Client for the configured service.
func New(config Config, options ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("textservice: base URL is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		if option != nil {
			option(client)
		}
	}
	if client.prompts == nil {
		prompts, err := prompt.New()
		if err != nil {
			return nil, fmt.Errorf("textservice: default prompt engine: %w", err)
		}
		client.prompts = prompts
	}
	client.logger = client.logger.With(zap.String("component", "textservice.client"))
	return client, nil
}

// generateRequest is the wire payload for one generation call.
type generateRequest struct {
	RequestID        string `json:"request_id"`
	Field            string `json:"field"`
	Prompt           string `json:"prompt"`
	Format           string `json:"format"`
	TargetCharacters int    `json:"target_characters,omitempty"`
	TargetWords      int    `json:"target_words,omitempty"`
	TargetLines      int    `json:"target_lines,omitempty"`
	Attempt          int    `json:"attempt"`
}

type generateResponse struct {
	Content string `json:"content"`
}

// Generate renders the prompt for the request and posts it to the service.
func (c *Client) Generate(ctx context.Context, req generate.Request) (generate.Response, error) {
	promptText, err := c.prompts.BuildPrompt(req)
	if err != nil {
		return generate.Response{}, fmt.Errorf("textservice: build prompt: %w", err)
	}

	payload, err := json.Marshal(generateRequest{
		RequestID:        req.RequestID,
		Field:            req.Path,
		Prompt:           promptText,
		Format:           string(req.Format),
		TargetCharacters: req.Guidance.Characters,
		TargetWords:      req.Guidance.Words,
		TargetLines:      req.Guidance.Lines,
		Attempt:          req.Attempt,
	})
	if err != nil {
		return generate.Response{}, fmt.Errorf("textservice: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return generate.Response{}, fmt.Errorf("textservice: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return generate.Response{}, fmt.Errorf("textservice: %w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return generate.Response{}, fmt.Errorf("textservice: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("service rejected request",
			zap.String("field", req.Path),
			zap.Int("status", resp.StatusCode),
		)
		return generate.Response{}, &ServiceError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return generate.Response{}, fmt.Errorf("textservice: decode response: %w", err)
	}
	if strings.TrimSpace(decoded.Content) == "" {
		return generate.Response{}, ErrEmptyContent
	}
	return generate.Response{Text: decoded.Content}, nil
}
