package layout

import (
	"errors"
	"fmt"
)

// Source identifies where a layout document originated so loaders can operate
// on files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Document wraps the raw layout payload and its origin. Exposing this type
// instead of parser internals keeps the public API decoupled from the schema
// library actually used to interpret the bytes.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("layout: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("layout: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the layout payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Layout is a parsed layout template: an identifier plus the tree of field
// declarations that slide content must fill.
type Layout struct {
	ID          string
	Name        string
	Description string
	Fields      Schema
}

// NewLayout validates core fields before handing the layout to extractors.
func NewLayout(id string, fields Schema) (Layout, error) {
	if id == "" {
		return Layout{}, errors.New("layout: layout id is required")
	}
	return Layout{ID: id, Fields: fields}, nil
}

// MustNewLayout panics when construction fails, assisting fixtures/tests.
func MustNewLayout(id string, fields Schema) Layout {
	l, err := NewLayout(id, fields)
	if err != nil {
		panic(err)
	}
	return l
}

// Schema represents one node in the layout field tree. PropertyOrder records
// the declaration order of Properties keys as authored in the source document;
// consumers must iterate through it rather than ranging over the map.
type Schema struct {
	Type          string
	Description   string
	Required      []string
	Properties    map[string]Schema
	PropertyOrder []string
	Items         *Schema
	Extensions    map[string]any
}

// Clone creates a deep copy of the schema tree to avoid accidental mutation.
func (s Schema) Clone() Schema {
	cloned := s
	if len(s.Required) > 0 {
		cloned.Required = append([]string(nil), s.Required...)
	}
	if len(s.PropertyOrder) > 0 {
		cloned.PropertyOrder = append([]string(nil), s.PropertyOrder...)
	}
	if len(s.Properties) > 0 {
		cloned.Properties = make(map[string]Schema, len(s.Properties))
		for k, v := range s.Properties {
			cloned.Properties[k] = v.Clone()
		}
	}
	if s.Items != nil {
		items := s.Items.Clone()
		cloned.Items = &items
	}
	if len(s.Extensions) > 0 {
		cloned.Extensions = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			cloned.Extensions[k] = v
		}
	}
	return cloned
}

// Validate performs basic sanity checks useful before field extraction.
func (s Schema) Validate() error {
	if s.Type == "array" && s.Items == nil {
		return errors.New("layout: array schema must define items")
	}
	if len(s.PropertyOrder) != len(s.Properties) {
		return fmt.Errorf("layout: property order covers %d of %d properties", len(s.PropertyOrder), len(s.Properties))
	}
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; !ok {
			return fmt.Errorf("layout: property order references unknown property %q", name)
		}
	}
	return nil
}

// DebugString renders the schema for logging without exposing parser internals.
func (s Schema) DebugString() string {
	summary := fmt.Sprintf("type=%s", s.Type)
	if len(s.Properties) > 0 {
		summary += fmt.Sprintf(",properties=%d", len(s.Properties))
	}
	if s.Items != nil {
		summary += ",items=true"
	}
	if len(s.Extensions) > 0 {
		summary += fmt.Sprintf(",extensions=%d", len(s.Extensions))
	}
	return summary
}
