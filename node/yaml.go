package node

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EncodeYAML renders the tree as a YAML document. Object key insertion order
// is preserved by building a yaml.Node mapping directly.
func EncodeYAML(n *Node) ([]byte, error) {
	yn, err := toYAMLNode(n)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(yn)
}

// DecodeYAML parses one YAML document into a tree, preserving mapping key
// order.
func DecodeYAML(data []byte) (*Node, error) {
	var yn yaml.Node
	if err := yaml.Unmarshal(data, &yn); err != nil {
		return nil, err
	}
	if yn.Kind == yaml.DocumentNode {
		if len(yn.Content) != 1 {
			return nil, fmt.Errorf("node: expected one YAML document, got %d", len(yn.Content))
		}
		return fromYAMLNode(yn.Content[0])
	}
	return fromYAMLNode(&yn)
}

func toYAMLNode(n *Node) (*yaml.Node, error) {
	if n == nil || n.kind == Unset {
		return nil, fmt.Errorf("node: cannot encode unset node as YAML")
	}
	switch n.kind {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.boolv)}, nil
	case Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(n.numv, 'g', -1, 64)}, nil
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.strv}, nil
	case Array:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range n.elems {
			ye, err := toYAMLNode(e)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, ye)
		}
		return out, nil
	case Object:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.keys {
			yv, err := toYAMLNode(n.byKey[k])
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, yv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("node: unsupported kind %v", n.kind)
}

func fromYAMLNode(yn *yaml.Node) (*Node, error) {
	switch yn.Kind {
	case yaml.ScalarNode:
		switch yn.Tag {
		case "!!null":
			return NewNull(), nil
		case "!!bool":
			b, err := strconv.ParseBool(yn.Value)
			if err != nil {
				return nil, err
			}
			return NewBool(b), nil
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(yn.Value, 64)
			if err != nil {
				return nil, err
			}
			return NewNumber(f), nil
		default:
			return NewString(yn.Value), nil
		}
	case yaml.SequenceNode:
		out := NewArray()
		for _, ye := range yn.Content {
			e, err := fromYAMLNode(ye)
			if err != nil {
				return nil, err
			}
			out.elems = append(out.elems, e)
		}
		return out, nil
	case yaml.MappingNode:
		out := NewObject()
		for i := 0; i+1 < len(yn.Content); i += 2 {
			key := yn.Content[i].Value
			val, err := fromYAMLNode(yn.Content[i+1])
			if err != nil {
				return nil, err
			}
			if _, dup := out.byKey[key]; dup {
				return nil, fmt.Errorf("node: duplicate mapping key %q", key)
			}
			out.keys = append(out.keys, key)
			out.byKey[key] = val
		}
		return out, nil
	case yaml.AliasNode:
		return fromYAMLNode(yn.Alias)
	}
	return nil, fmt.Errorf("node: unsupported YAML node kind %d", yn.Kind)
}
