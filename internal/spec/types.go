package spec

import "fmt"

// FormatType names the text shape a field carries.
type FormatType string

const (
	// FormatPlainText is unformatted prose with no markup of any kind.
	FormatPlainText FormatType = "plain_text"
	// FormatMarkedText is text carrying lightweight structural markup.
	FormatMarkedText FormatType = "marked_text"
)

// ParseFormatType maps a raw metadata string to a FormatType. Unknown values
// are contradictions, not defaults.
func ParseFormatType(value string) (FormatType, error) {
	switch FormatType(value) {
	case FormatPlainText, FormatMarkedText:
		return FormatType(value), nil
	default:
		return "", fmt.Errorf("unknown format %q", value)
	}
}

// FormatOwner names which side of the pipeline is responsible for a field's
// final visual formatting.
type FormatOwner string

const (
	// OwnerExternalRenderer means the downstream renderer formats the value;
	// the generator must emit plain text only.
	OwnerExternalRenderer FormatOwner = "external_renderer"
	// OwnerGenerator means the generator owns formatting and emits markup
	// within declared capacity limits.
	OwnerGenerator FormatOwner = "generator"
)

// ParseFormatOwner maps a raw metadata string to a FormatOwner.
func ParseFormatOwner(value string) (FormatOwner, error) {
	switch FormatOwner(value) {
	case OwnerExternalRenderer, OwnerGenerator:
		return FormatOwner(value), nil
	default:
		return "", fmt.Errorf("unknown owner %q", value)
	}
}

// CapacityMetric names a measurable dimension of generated text.
type CapacityMetric string

const (
	MetricCharacters CapacityMetric = "characters"
	MetricWords      CapacityMetric = "words"
	MetricLines      CapacityMetric = "lines"
)

// ParseCapacityMetric maps a raw metadata string to a CapacityMetric.
func ParseCapacityMetric(value string) (CapacityMetric, error) {
	switch CapacityMetric(value) {
	case MetricCharacters, MetricWords, MetricLines:
		return CapacityMetric(value), nil
	default:
		return "", fmt.Errorf("unknown capacity metric %q", value)
	}
}

// CapacityLimit is one declared bound on generated content.
type CapacityLimit struct {
	Metric CapacityMetric
	Max    int
}

// FieldSpec describes one field of a layout: what text shape it takes, who
// owns its formatting, and how much content fits. Composite fields carry
// Children in declaration order and no text of their own.
type FieldSpec struct {
	// Name is the leaf segment of the field's path.
	Name string
	// Path is the dotted location within the layout, e.g. "left_content.items".
	Path string

	Format FormatType
	Owner  FormatOwner

	// Capacity lists the declared limits in canonical metric order. Empty for
	// renderer-owned fields and for generator-owned plain text without
	// explicit bounds.
	Capacity []CapacityLimit

	// Structure is a free-form hint about the expected shape of marked text,
	// e.g. "list of short items".
	Structure string

	// Children holds nested field specs for object and array-of-object
	// fields, in declaration order.
	Children []FieldSpec

	Description string
}

// IsComposite reports whether the field is a container rather than a text
// leaf.
func (f FieldSpec) IsComposite() bool {
	return len(f.Children) > 0
}

// Limit returns the declared maximum for a metric, if any.
func (f FieldSpec) Limit(metric CapacityMetric) (int, bool) {
	for _, limit := range f.Capacity {
		if limit.Metric == metric {
			return limit.Max, true
		}
	}
	return 0, false
}

// CharacterCeiling returns the declared character limit, if any.
func (f FieldSpec) CharacterCeiling() (int, bool) {
	return f.Limit(MetricCharacters)
}

// Clone returns a deep copy so callers can hand specs to concurrent workers
// without sharing slices.
func (f FieldSpec) Clone() FieldSpec {
	out := f
	if len(f.Capacity) > 0 {
		out.Capacity = append([]CapacityLimit(nil), f.Capacity...)
	}
	if len(f.Children) > 0 {
		out.Children = make([]FieldSpec, len(f.Children))
		for i, child := range f.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}
