package component

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Node is one node of a generated component tree. A tree is produced in
// full by a generation turn and treated as immutable afterwards; the
// interpreter builds live UI from it without touching it.
type Node struct {
	Kind       Kind
	Properties map[string]any
	Children   []*Node
}

type nodeJSON struct {
	ComponentType string          `json:"component_type"`
	Properties    map[string]any  `json:"properties,omitempty"`
	Children      []*Node         `json:"children,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

// MarshalJSON writes the wire shape {component_type, properties?, children?}.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return json.Marshal(nodeJSON{
		ComponentType: string(n.Kind),
		Properties:    n.Properties,
		Children:      n.Children,
	})
}

// UnmarshalJSON accepts the wire shape. Unrecognized component types are
// preserved verbatim so trees round-trip losslessly; they degrade to a
// neutral container only at interpretation time.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Kind = ParseKind(raw.ComponentType)
	n.Properties = raw.Properties
	n.Children = raw.Children
	return nil
}

// Decode parses a serialized component tree.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("component: decode tree: %w", err)
	}
	if n.Kind == KindUnknown && n.Properties == nil && len(n.Children) == 0 {
		return nil, fmt.Errorf("component: decode tree: empty node")
	}
	return &n, nil
}

// ToValue converts the tree into generic JSON values (maps, slices,
// strings) so it can be diffed and patched structurally.
func (n *Node) ToValue() any {
	if n == nil {
		return nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// FromValue rebuilds a tree from generic JSON values.
func FromValue(v any) (*Node, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// Equal reports structural equality of two trees.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(a.ToValue(), b.ToValue())
}

// Property returns a raw property value.
func (n *Node) Property(name string) (any, bool) {
	if n == nil || n.Properties == nil {
		return nil, false
	}
	v, ok := n.Properties[name]
	return v, ok
}

// StringProperty returns a property already known to be a string.
func (n *Node) StringProperty(name string) string {
	v, ok := n.Property(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
