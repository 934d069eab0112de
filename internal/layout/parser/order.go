package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// orderIndex maps a dotted schema path ("" for the root) to the property
// names declared under it, in document order.
type orderIndex map[string][]string

// scanPropertyOrder walks the decoded node tree of a field schema and records
// the order in which each `properties` block declares its keys. The schema
// library decodes properties into a map, so declaration order has to be
// recovered from the document itself; yaml.Node mapping content keeps it.
func scanPropertyOrder(node *yaml.Node) orderIndex {
	index := make(orderIndex)
	scanNode(node, "", index)
	return index
}

func scanNode(node *yaml.Node, path string, index orderIndex) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			scanNode(child, path, index)
		}
	case yaml.SequenceNode:
		for _, child := range node.Content {
			scanNode(child, path, index)
		}
	case yaml.MappingNode:
		scanMapping(node, path, index)
	}
}

func scanMapping(node *yaml.Node, path string, index orderIndex) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		switch {
		case key == "properties" && value.Kind == yaml.MappingNode:
			scanProperties(value, path, index)
		case key == "items":
			// Array element schemas share their parent's path.
			scanNode(value, path, index)
		case strings.HasPrefix(key, "x-"):
			// Extension payloads may contain arbitrary keys, including
			// "properties". Never treat them as schema structure.
		}
	}
}

// scanProperties records sibling order under path and recurses into each
// property's schema.
func scanProperties(node *yaml.Node, path string, index orderIndex) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		index[path] = append(index[path], name)
		scanNode(node.Content[i+1], joinPath(path, name), index)
	}
}
