package testsupport

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-deckgen/pkg/generate"
)

// StaticGenerator is a deterministic in-process TextGenerator for offline
// use: each field path maps to a fixed response, with an optional fallback.
// It records every request it sees, in arrival order.
type StaticGenerator struct {
	mu sync.Mutex

	// Responses maps field paths to canned output.
	Responses map[string]string
	// Fallback is returned for paths without a canned response. Empty
	// fallback makes unmapped fields fail as empty output.
	Fallback string
	// Errors maps field paths to errors returned instead of content.
	Errors map[string]error

	requests []generate.Request
}

var _ generate.TextGenerator = (*StaticGenerator)(nil)

// Generate returns the canned response for the request's path.
func (g *StaticGenerator) Generate(ctx context.Context, req generate.Request) (generate.Response, error) {
	if err := ctx.Err(); err != nil {
		return generate.Response{}, err
	}

	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()

	if err, ok := g.Errors[req.Path]; ok {
		return generate.Response{}, err
	}
	if text, ok := g.Responses[req.Path]; ok {
		return generate.Response{Text: text}, nil
	}
	return generate.Response{Text: g.Fallback}, nil
}

// Requests returns a copy of the recorded requests.
func (g *StaticGenerator) Requests() []generate.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]generate.Request(nil), g.requests...)
}

// RequestsFor returns the recorded requests for one field path.
func (g *StaticGenerator) RequestsFor(path string) []generate.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []generate.Request
	for _, req := range g.requests {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// Text returns a string of exactly n runes, useful for density scenarios.
func Text(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	word := 0
	for i := 0; i < n; i++ {
		// Break into words so word and line metrics stay sane.
		if word == 8 && i < n-1 {
			b.WriteByte(' ')
			word = 0
			continue
		}
		b.WriteByte('a')
		word++
	}
	return b.String()
}
