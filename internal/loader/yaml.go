package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/oconfig"
	"gopkg.in/yaml.v3"
)

// ParseYAML converts a YAML document into config items. Mapping order is
// kept. A mapping key may carry labels after the name, separated by
// whitespace: "Plugin write_graphite" is the item Plugin with the string
// value write_graphite.
func (l *Loader) ParseYAML(ctx context.Context, src []byte, filename string) ([]oconfig.Item, error) {
	logger := ctxlog.FromContext(ctx)

	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
	}
	if doc.Kind == 0 {
		logger.Debug("YAML file is empty.", "file", filename)
		return nil, nil
	}
	root := resolve(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = resolve(root.Content[0])
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to translate YAML file %s: line %d: top level must be a mapping", filename, root.Line)
	}

	items, err := yamlMapping(root)
	if err != nil {
		return nil, fmt.Errorf("failed to translate YAML file %s: %w", filename, err)
	}
	logger.Debug("Translated YAML file.", "file", filename, "items", len(items))
	return items, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func yamlMapping(n *yaml.Node) ([]oconfig.Item, error) {
	var items []oconfig.Item
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := resolve(n.Content[i]), resolve(n.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		fields := strings.Fields(keyNode.Value)
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %d: empty mapping key", keyNode.Line)
		}
		key := fields[0]
		var labels []oconfig.Value
		for _, f := range fields[1:] {
			labels = append(labels, oconfig.String(f))
		}

		entryItems, err := yamlValue(key, labels, valNode)
		if err != nil {
			return nil, fmt.Errorf("in key '%s': %w", keyNode.Value, err)
		}
		items = append(items, entryItems...)
	}
	return items, nil
}

// yamlValue converts the value of one mapping entry. Sequences of scalars
// become one multi-valued item; any other sequence repeats the key once per
// element.
func yamlValue(key string, labels []oconfig.Value, n *yaml.Node) ([]oconfig.Item, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		val, isNull, err := yamlScalar(n)
		if err != nil {
			return nil, err
		}
		values := append([]oconfig.Value(nil), labels...)
		if !isNull {
			values = append(values, val)
		}
		return []oconfig.Item{oconfig.NewItem(key, values...)}, nil

	case yaml.MappingNode:
		children, err := yamlMapping(n)
		if err != nil {
			return nil, err
		}
		return []oconfig.Item{oconfig.NewItem(key, labels...).WithChildren(children...)}, nil

	case yaml.SequenceNode:
		if allScalars(n) {
			values := append([]oconfig.Value(nil), labels...)
			for _, elem := range n.Content {
				val, isNull, err := yamlScalar(resolve(elem))
				if err != nil {
					return nil, err
				}
				if !isNull {
					values = append(values, val)
				}
			}
			return []oconfig.Item{oconfig.NewItem(key, values...)}, nil
		}
		var items []oconfig.Item
		for i, elem := range n.Content {
			elemItems, err := yamlValue(key, labels, resolve(elem))
			if err != nil {
				return nil, fmt.Errorf("in element %d: %w", i, err)
			}
			items = append(items, elemItems...)
		}
		return items, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func allScalars(n *yaml.Node) bool {
	for _, elem := range n.Content {
		if resolve(elem).Kind != yaml.ScalarNode {
			return false
		}
	}
	return true
}

func yamlScalar(n *yaml.Node) (oconfig.Value, bool, error) {
	switch n.ShortTag() {
	case "!!null":
		return oconfig.Value{}, true, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return oconfig.Value{}, false, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return oconfig.Boolean(b), false, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return oconfig.Value{}, false, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return oconfig.Number(f), false, nil
	}
	return oconfig.String(n.Value), false, nil
}
