package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	pkglayout "github.com/goliatone/go-deckgen/pkg/layout"
)

const extensionNamespace = "x-deckgen"

// Parser implements pkglayout.Parser using kin-openapi for schema semantics.
// Layout documents are YAML or JSON envelopes whose `fields` entry is a
// JSON-Schema-style object tree carrying x-deckgen format extensions.
type Parser struct {
	options pkglayout.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkglayout.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkglayout.ParserOptions) pkglayout.Parser {
	return &Parser{options: options}
}

// envelope is the top-level shape of a layout document. YAML is a superset of
// JSON, so a single decode path covers both encodings. Fields stays a raw
// node because Go maps lose the declaration order we need to recover.
type envelope struct {
	Layout      string    `yaml:"layout"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Fields      yaml.Node `yaml:"fields"`
}

// Parse interprets a loaded Document into a Layout tree, preserving the
// declaration order of every property list in the source.
func (p *Parser) Parse(ctx context.Context, doc pkglayout.Document) (pkglayout.Layout, error) {
	if err := ctx.Err(); err != nil {
		return pkglayout.Layout{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return pkglayout.Layout{}, errors.New("layout parser: document payload is empty")
	}

	var env envelope
	if err := yaml.Unmarshal(raw, &env); err != nil {
		return pkglayout.Layout{}, fmt.Errorf("layout parser: decode document: %w", err)
	}
	if env.Layout == "" {
		return pkglayout.Layout{}, errors.New("layout parser: document is missing a layout id")
	}
	if env.Fields.Kind == 0 {
		if p.options.AllowEmptyLayouts {
			return pkglayout.Layout{ID: env.Layout, Name: env.Name, Description: env.Description}, nil
		}
		return pkglayout.Layout{}, fmt.Errorf("layout parser: layout %q declares no fields", env.Layout)
	}

	// Hand the field tree to the schema library as JSON; declaration order is
	// recovered separately from the node tree, which still has it.
	var fieldsAny any
	if err := env.Fields.Decode(&fieldsAny); err != nil {
		return pkglayout.Layout{}, fmt.Errorf("layout parser: decode fields: %w", err)
	}
	fieldsJSON, err := json.Marshal(fieldsAny)
	if err != nil {
		return pkglayout.Layout{}, fmt.Errorf("layout parser: normalise fields: %w", err)
	}

	var schema openapi3.Schema
	if err := json.Unmarshal(fieldsJSON, &schema); err != nil {
		return pkglayout.Layout{}, fmt.Errorf("layout parser: load field schema: %w", err)
	}

	order := scanPropertyOrder(&env.Fields)

	fields := convertSchema(&schema, "", order)
	if len(fields.Properties) == 0 && !p.options.AllowEmptyLayouts {
		return pkglayout.Layout{}, fmt.Errorf("layout parser: layout %q declares no fields", env.Layout)
	}
	if err := validateTree(fields); err != nil {
		return pkglayout.Layout{}, fmt.Errorf("layout parser: layout %q: %w", env.Layout, err)
	}

	return pkglayout.Layout{
		ID:          env.Layout,
		Name:        env.Name,
		Description: env.Description,
		Fields:      fields,
	}, nil
}

func convertSchema(src *openapi3.Schema, path string, order orderIndex) pkglayout.Schema {
	if src == nil {
		return pkglayout.Schema{}
	}

	out := pkglayout.Schema{
		Type:        firstSchemaType(src.Type),
		Description: src.Description,
	}
	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}

	if len(src.Properties) > 0 {
		out.Properties = make(map[string]pkglayout.Schema, len(src.Properties))
		for name, ref := range src.Properties {
			var child *openapi3.Schema
			if ref != nil {
				child = ref.Value
			}
			out.Properties[name] = convertSchema(child, joinPath(path, name), order)
		}
		out.PropertyOrder = propertyOrderFor(path, order, out.Properties)
	}

	if src.Items != nil && src.Items.Value != nil {
		items := convertSchema(src.Items.Value, path, order)
		out.Items = &items
	}

	out.Extensions = extractExtensions(src.Extensions)
	return out
}

// propertyOrderFor returns the recorded declaration order for a node, padding
// with any properties the scan missed so the invariant order ⊇ properties
// always holds.
func propertyOrderFor(path string, order orderIndex, properties map[string]pkglayout.Schema) []string {
	recorded := order[path]
	out := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))
	for _, name := range recorded {
		if _, ok := properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	if len(out) == len(properties) {
		return out
	}
	missing := make([]string, 0, len(properties)-len(out))
	for name := range properties {
		if _, ok := seen[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return append(out, missing...)
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	result := make(map[string]any)
	for key, value := range raw {
		switch {
		case key == extensionNamespace:
			if mapped, ok := cloneMap(value); ok && len(mapped) > 0 {
				result[key] = mapped
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result[key] = value
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func cloneMap(value any) (map[string]any, bool) {
	mapped, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	cloned := make(map[string]any, len(mapped))
	for k, v := range mapped {
		cloned[k] = v
	}
	return cloned, true
}

func validateTree(schema pkglayout.Schema) error {
	if err := schema.Validate(); err != nil {
		return err
	}
	for _, name := range schema.PropertyOrder {
		if err := validateTree(schema.Properties[name]); err != nil {
			return err
		}
	}
	if schema.Items != nil {
		if err := validateTree(*schema.Items); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
