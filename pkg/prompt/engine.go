package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-deckgen/pkg/generate"
	"github.com/goliatone/go-deckgen/pkg/spec"
)

//go:embed templates/*.tpl
var defaultTemplates embed.FS

const (
	plainTemplate  = "plain_field"
	markedTemplate = "marked_field"
)

// Option configures the prompt engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
}

// WithBaseDir loads templates from a directory on disk instead of the
// embedded defaults.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS instead of the embedded defaults.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".tpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// Engine renders generation instructions from field requests using a
// pongo2-backed template set. Safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
}

// New constructs an Engine. With no options the embedded default templates
// are used.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("prompt: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		embedded, err := fs.Sub(defaultTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("prompt: open embedded templates: %w", err)
		}
		loaders = append(loaders, pongo2.NewFSLoader(embedded))
	}

	return &Engine{
		templateSet: pongo2.NewSet("deckgen", loaders...),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
	}, nil
}

// BuildPrompt renders the instruction text for one generation request,
// choosing the template by the field's format.
func (e *Engine) BuildPrompt(req generate.Request) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("prompt: engine is nil")
	}

	name := plainTemplate
	if req.Owner == spec.OwnerGenerator && req.Format == spec.FormatMarkedText {
		name = markedTemplate
	}

	tmpl, err := e.getTemplate(name + e.tplExt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(contextFor(req), &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("prompt: execute template %q: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

// contextFor flattens a request into the variables the templates expect.
func contextFor(req generate.Request) pongo2.Context {
	return pongo2.Context{
		"path":        req.Path,
		"description": req.Description,
		"structure":   req.Structure,
		"topic":       req.Deck.Topic,
		"audience":    req.Deck.Audience,
		"tone":        req.Deck.Tone,
		"extra":       req.Deck.Extra,
		"characters":  req.Guidance.Characters,
		"words":       req.Guidance.Words,
		"lines":       req.Guidance.Lines,
		"attempt":     req.Attempt,
	}
}
