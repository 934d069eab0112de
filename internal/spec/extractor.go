package spec

import (
	"fmt"
	"strings"

	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
)

const (
	extensionNamespace = "x-deckgen"
	extensionPrefix    = extensionNamespace + "-"
)

// canonicalMetricOrder fixes the order limits appear in regardless of how the
// document declared them.
var canonicalMetricOrder = []CapacityMetric{MetricCharacters, MetricWords, MetricLines}

// Extractor turns a parsed layout into the flat field-spec tree the
// generation engine consumes. Extraction is a pure function of the layout:
// same input, same output, no side effects.
type Extractor struct{}

// NewExtractor constructs an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract walks the layout's field schema in declaration order and produces
// one FieldSpec per declared property, enforcing ownership invariants as it
// goes.
func (e *Extractor) Extract(layout pkglayout.Layout) ([]FieldSpec, error) {
	return extractFields(layout.Fields, "")
}

func extractFields(schema pkglayout.Schema, parent string) ([]FieldSpec, error) {
	if len(schema.Properties) == 0 {
		return nil, nil
	}
	fields := make([]FieldSpec, 0, len(schema.PropertyOrder))
	for _, name := range schema.PropertyOrder {
		field, err := buildField(name, joinPath(parent, name), schema.Properties[name])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func buildField(name, path string, schema pkglayout.Schema) (FieldSpec, error) {
	meta, err := decodeMetadata(path, schema.Extensions)
	if err != nil {
		return FieldSpec{}, err
	}

	field := FieldSpec{
		Name:        name,
		Path:        path,
		Format:      meta.format,
		Owner:       meta.owner,
		Capacity:    meta.capacity,
		Structure:   meta.structure,
		Description: schema.Description,
	}

	switch field.Owner {
	case OwnerExternalRenderer:
		if field.Format == FormatMarkedText {
			return FieldSpec{}, schemaErrorf(path, "external_renderer fields must be plain_text")
		}
		if len(field.Capacity) > 0 {
			return FieldSpec{}, schemaErrorf(path, "external_renderer fields cannot declare capacity limits")
		}
	case OwnerGenerator:
		if field.Format == FormatMarkedText && len(field.Capacity) == 0 {
			return FieldSpec{}, schemaErrorf(path, "generator-owned marked_text requires at least one capacity limit")
		}
	}

	children, err := childSchema(schema)
	if err != nil {
		return FieldSpec{}, schemaErrorf(path, "%v", err)
	}
	if children != nil {
		nested, err := extractFields(*children, path)
		if err != nil {
			return FieldSpec{}, err
		}
		field.Children = nested
	}
	return field, nil
}

// childSchema resolves the schema whose properties become the field's
// children: the field itself for objects, the element schema for arrays of
// objects. Arrays of scalars have no children.
func childSchema(schema pkglayout.Schema) (*pkglayout.Schema, error) {
	switch schema.Type {
	case "object":
		if len(schema.Properties) == 0 {
			return nil, nil
		}
		return &schema, nil
	case "array":
		if schema.Items == nil {
			return nil, nil
		}
		if len(schema.Items.Properties) > 0 {
			return schema.Items, nil
		}
		return nil, nil
	default:
		if len(schema.Properties) > 0 {
			return &schema, nil
		}
		return nil, nil
	}
}

// metadata is the decoded x-deckgen block with defaults applied.
type metadata struct {
	owner     FormatOwner
	format    FormatType
	structure string
	capacity  []CapacityLimit
}

// decodeMetadata merges the flattened x-deckgen-<key> form with the nested
// x-deckgen mapping (nested wins on conflict) and validates every value.
// Fields with no metadata default to renderer-owned plain text.
func decodeMetadata(path string, extensions map[string]any) (metadata, error) {
	raw := make(map[string]any)
	for key, value := range extensions {
		if strings.HasPrefix(key, extensionPrefix) {
			raw[strings.TrimPrefix(key, extensionPrefix)] = value
		}
	}
	if nested, ok := extensions[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			raw[key] = value
		}
	}

	meta := metadata{owner: OwnerExternalRenderer, format: FormatPlainText}
	for key, value := range raw {
		switch key {
		case "owner":
			text, err := stringValue(value)
			if err != nil {
				return metadata{}, schemaErrorf(path, "owner: %v", err)
			}
			owner, err := ParseFormatOwner(text)
			if err != nil {
				return metadata{}, schemaErrorf(path, "%v", err)
			}
			meta.owner = owner
		case "format":
			text, err := stringValue(value)
			if err != nil {
				return metadata{}, schemaErrorf(path, "format: %v", err)
			}
			format, err := ParseFormatType(text)
			if err != nil {
				return metadata{}, schemaErrorf(path, "%v", err)
			}
			meta.format = format
		case "structure":
			text, err := stringValue(value)
			if err != nil {
				return metadata{}, schemaErrorf(path, "structure: %v", err)
			}
			meta.structure = text
		case "capacity":
			limits, err := decodeCapacity(path, value)
			if err != nil {
				return metadata{}, err
			}
			meta.capacity = limits
		default:
			return metadata{}, schemaErrorf(path, "unknown %s key %q", extensionNamespace, key)
		}
	}
	return meta, nil
}

func decodeCapacity(path string, value any) ([]CapacityLimit, error) {
	mapped, ok := value.(map[string]any)
	if !ok {
		return nil, schemaErrorf(path, "capacity must be a mapping of metric to limit")
	}

	byMetric := make(map[CapacityMetric]int, len(mapped))
	for key, raw := range mapped {
		metric, err := ParseCapacityMetric(key)
		if err != nil {
			return nil, schemaErrorf(path, "%v", err)
		}
		max, err := intValue(raw)
		if err != nil {
			return nil, schemaErrorf(path, "capacity %s: %v", metric, err)
		}
		if max <= 0 {
			return nil, schemaErrorf(path, "capacity %s must be positive, got %d", metric, max)
		}
		byMetric[metric] = max
	}

	limits := make([]CapacityLimit, 0, len(byMetric))
	for _, metric := range canonicalMetricOrder {
		if max, ok := byMetric[metric]; ok {
			limits = append(limits, CapacityLimit{Metric: metric, Max: max})
		}
	}
	return limits, nil
}

func stringValue(value any) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", value)
	}
	return text, nil
}

func intValue(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected a whole number, got %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
