package model

import (
	"fmt"
	"github.com/viant/wfcloud/model/tree"
)

// Document member names
const (
	ContentKey    = "content"
	NodesKey      = "Nodes"
	NodeKey       = "Node"
	PropertiesKey = "Properties"
)

// Workflow represents a workflow document
type Workflow struct {
	// Source provides information about the origin of the workflow
	Source *Source `json:"source,omitempty" yaml:"source,omitempty"`

	// Root is the whole document tree
	Root *tree.Object `json:"root,omitempty" yaml:"-"`
}

// Source represents workflow document location
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// NewWorkflow creates a workflow view over root
func NewWorkflow(root *tree.Object) *Workflow {
	return &Workflow{Root: root}
}

// Decode parses a JSON workflow document
func Decode(data []byte) (*Workflow, error) {
	value, err := tree.Decode(data)
	if err != nil {
		return nil, err
	}
	root, ok := value.(*tree.Object)
	if !ok || root == nil {
		return nil, malformed("document root: %v", &tree.TypeError{Expected: "object", Actual: value})
	}
	return NewWorkflow(root), nil
}

// Encode serialises the workflow document
func (w *Workflow) Encode(indent string) ([]byte, error) {
	return tree.Encode(w.Root, indent)
}

// URL returns document source URL or empty string
func (w *Workflow) URL() string {
	if w.Source == nil {
		return ""
	}
	return w.Source.URL
}

// Content returns the content section
func (w *Workflow) Content() (*tree.Object, error) {
	value, ok := w.Root.Get(ContentKey)
	if !ok {
		return nil, malformed("missing %v", ContentKey)
	}
	content, ok := value.(*tree.Object)
	if !ok || content == nil {
		return nil, malformed("%v: %v", ContentKey, &tree.TypeError{Expected: "object", Actual: value})
	}
	return content, nil
}

// Properties returns the content.Properties section, nil when absent
func (w *Workflow) Properties() (*tree.Object, error) {
	content, err := w.Content()
	if err != nil {
		return nil, err
	}
	value, ok := content.Get(PropertiesKey)
	if !ok {
		return nil, nil
	}
	properties, ok := value.(*tree.Object)
	if !ok || properties == nil {
		return nil, malformed("%v.%v: %v", ContentKey, PropertiesKey, &tree.TypeError{Expected: "object", Actual: value})
	}
	return properties, nil
}

// Nodes returns the tool nodes in document order
func (w *Workflow) Nodes() (*NodeList, error) {
	content, err := w.Content()
	if err != nil {
		return nil, err
	}
	value, ok := content.Get(NodesKey)
	if !ok {
		return nil, malformed("missing %v.%v", ContentKey, NodesKey)
	}
	container, ok := value.(*tree.Object)
	if !ok || container == nil {
		return nil, malformed("%v.%v: %v", ContentKey, NodesKey, &tree.TypeError{Expected: "object", Actual: value})
	}
	value, ok = container.Get(NodeKey)
	if !ok {
		return nil, malformed("missing %v.%v.%v", ContentKey, NodesKey, NodeKey)
	}
	ret := &NodeList{}
	switch actual := value.(type) {
	case []interface{}:
		for i, item := range actual {
			object, ok := item.(*tree.Object)
			if !ok || object == nil {
				return nil, malformed("%v[%d]: %v", NodeKey, i, &tree.TypeError{Expected: "object", Actual: item})
			}
			ret.Items = append(ret.Items, &Node{Index: i, Object: object})
		}
	case *tree.Object:
		if actual == nil {
			return nil, malformed("%v is null", NodeKey)
		}
		ret.Single = true
		ret.Items = []*Node{{Index: 0, Object: actual}}
	default:
		return nil, malformed("%v.%v.%v: %v", ContentKey, NodesKey, NodeKey, &tree.TypeError{Expected: "array or object", Actual: value})
	}
	return ret, nil
}

// Validate performs structural validation of the document. The returned
// slice is empty when the document has the expected shape.
func (w *Workflow) Validate() []error {
	var issues []error
	if w.Root == nil {
		return append(issues, malformed("document is empty"))
	}
	nodes, err := w.Nodes()
	if err != nil {
		return append(issues, err)
	}
	if _, err := w.Properties(); err != nil {
		issues = append(issues, err)
	}
	seen := map[int]int{}
	for _, node := range nodes.Items {
		if !node.Object.Has(ToolIDKey) {
			continue
		}
		toolID, err := node.ToolID()
		if err != nil {
			issues = append(issues, err)
			continue
		}
		if prev, ok := seen[toolID]; ok {
			issues = append(issues, malformed("duplicate %v %v at node[%d] and node[%d]", ToolIDKey, toolID, prev, node.Index))
			continue
		}
		seen[toolID] = node.Index
	}
	return issues
}

// NodeList represents content.Nodes.Node
type NodeList struct {
	// Single is set when the document stores its only node as an object
	Single bool
	Items  []*Node
}

// Value returns the list in its document form
func (l *NodeList) Value() interface{} {
	if l.Single && len(l.Items) == 1 {
		return l.Items[0].Object
	}
	ret := make([]interface{}, len(l.Items))
	for i, item := range l.Items {
		ret[i] = item.Object
	}
	return ret
}

// String returns node list summary
func (l *NodeList) String() string {
	return fmt.Sprintf("nodes(%d)", len(l.Items))
}
