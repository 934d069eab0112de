package generate

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// markedPolicy admits the structural subset renderer layouts understand.
// Anything outside it, including attributes, is removed.
var markedPolicy = func() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "ul", "ol", "li", "em", "strong", "br")
	return policy
}()

// strictPolicy removes every tag.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeMarked reduces generator output to the allowed markup subset.
func SanitizeMarked(text string) string {
	return strings.TrimSpace(markedPolicy.Sanitize(text))
}

// StripMarkup removes all markup and resolves entities, leaving plain text.
// Renderer-owned values pass through this so they never carry tags.
func StripMarkup(text string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(text)))
}

// blockBreaker rewrites block and list boundaries as newlines before tags are
// stripped, so adjacent items do not fuse into one word.
var blockBreaker = strings.NewReplacer(
	"</p>", "\n",
	"</li>", "\n",
	"<br>", "\n",
	"<br/>", "\n",
	"<br />", "\n",
)

// PlainProjection flattens marked text to the plain form density is measured
// on: one line per block element or list item, no markup, no entities.
func PlainProjection(text string) string {
	flattened := StripMarkup(blockBreaker.Replace(text))
	lines := make([]string, 0, 8)
	for _, line := range strings.Split(flattened, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// LooksMarked reports whether text appears to carry structural markup, either
// the HTML subset or markdown-style list markers.
func LooksMarked(text string) bool {
	lowered := strings.ToLower(text)
	for _, tag := range []string{"<p", "<ul", "<ol", "<li", "<br", "<em", "<strong"} {
		if strings.Contains(lowered, tag) {
			return true
		}
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			return true
		}
	}
	return false
}
