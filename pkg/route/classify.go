package route

import (
	"strings"

	"github.com/goliatone/go-deckgen/pkg/generate"
)

// Classification tags the shape of a downstream payload.
type Classification string

const (
	// ClassStructured is an engine result, or its decoded map form. Already
	// processed; must pass through untouched.
	ClassStructured Classification = "structured"
	// ClassPlainText is a raw string still subject to legacy shaping.
	ClassPlainText Classification = "plain_text"
	// ClassEmpty is absent content.
	ClassEmpty Classification = "empty"
)

// EmptyContent is the typed marker for absent content. Downstream consumers
// receive it instead of a bare empty string so "nothing" stays
// distinguishable from "empty text".
type EmptyContent struct{}

func (EmptyContent) String() string { return "" }

// Classify tags a payload without modifying it. The second result is false
// for payload shapes the router does not understand; Classify itself has no
// side effects and no error path.
func Classify(payload any) (Classification, bool) {
	switch v := payload.(type) {
	case nil:
		return ClassEmpty, true
	case EmptyContent, *EmptyContent:
		return ClassEmpty, true
	case generate.StructuredResult:
		return ClassStructured, true
	case *generate.StructuredResult:
		if v == nil {
			return ClassEmpty, true
		}
		return ClassStructured, true
	case map[string]any:
		return ClassStructured, true
	case string:
		if strings.TrimSpace(v) == "" {
			return ClassEmpty, true
		}
		return ClassPlainText, true
	default:
		return "", false
	}
}
