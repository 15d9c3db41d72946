package yml

import (
	"encoding/json"
	"fmt"
	"github.com/viant/wfcloud/model/tree"
	"gopkg.in/yaml.v3"
	"strings"
)

type (
	Node yaml.Node
)

// Root returns the document content node
func (n *Node) Root() *Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0])
	}
	return n
}

// Lookup returns mapping value node for a key (case-insensitive), or nil
func (n *Node) Lookup(name string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.EqualFold(n.Content[i].Value, name) {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

func (n *Node) Items(callback func(index int, node *Node) error) error {
	for i := 0; i < len(n.Content); i++ {
		if err := callback(i, (*Node)(n.Content[i])); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// IsZero returns true when node was not defined
func (n *Node) IsZero() bool {
	return n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// Interface converts node into a JSON compatible value. Mappings become
// ordered objects, numbers keep their literal form.
func (n *Node) Interface() (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return (*Node)(n.Content[0]).Interface()
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nil
		}
		return (*Node)(n.Alias).Interface()
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			var flag bool
			if err := (*yaml.Node)(n).Decode(&flag); err != nil {
				return nil, err
			}
			return flag, nil
		case "!!int", "!!float":
			var number interface{}
			if err := (*yaml.Node)(n).Decode(&number); err != nil {
				return nil, err
			}
			data, err := json.Marshal(number)
			if err != nil {
				return nil, fmt.Errorf("line %d: unsupported number %q: %w", n.Line, n.Value, err)
			}
			return json.Number(data), nil
		default:
			return n.Value, nil
		}
	case yaml.MappingNode:
		ret := tree.NewObject()
		err := n.Pairs(func(key string, node *Node) error {
			value, err := node.Interface()
			if err != nil {
				return fmt.Errorf("%v: %w", key, err)
			}
			ret.Set(key, value)
			return nil
		})
		return ret, err
	case yaml.SequenceNode:
		ret := make([]interface{}, 0, len(n.Content))
		err := n.Items(func(index int, node *Node) error {
			value, err := node.Interface()
			if err != nil {
				return fmt.Errorf("[%d]: %w", index, err)
			}
			ret = append(ret, value)
			return nil
		})
		return ret, err
	}
	return nil, nil
}

// Object converts a mapping node into an ordered object, nil when node is empty
func (n *Node) Object() (*tree.Object, error) {
	if n.IsZero() {
		return nil, nil
	}
	value, err := n.Interface()
	if err != nil {
		return nil, err
	}
	ret, ok := value.(*tree.Object)
	if !ok {
		return nil, fmt.Errorf("line %d: %w", n.Line, &tree.TypeError{Expected: "object", Actual: value})
	}
	return ret, nil
}
