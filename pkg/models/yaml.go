package models

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// errNotMapping is returned by MappingFromYAML when the top-level node is not
// a mapping.
var errNotMapping = errors.New("top level is not a mapping")

// MappingFromYAML converts a parsed YAML tree into structured data for
// FromStructuredData. Scalars keep their source text, so dates, leading-zero
// numbers and long digit strings reach the document exactly as written.
// Only explicit nulls become nil.
func MappingFromYAML(node *yaml.Node) (map[string]interface{}, error) {
	value, err := nodeValue(node)
	if err != nil {
		return nil, err
	}
	mapping, ok := value.(map[string]interface{})
	if !ok {
		return nil, errNotMapping
	}
	return mapping, nil
}

func nodeValue(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return nodeValue(node.Content[0])
	case yaml.AliasNode:
		return nodeValue(node.Alias)
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil, nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := nodeValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]interface{}, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			value, err := nodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key.Value] = value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}
