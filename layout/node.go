// Package layout builds the normalized layout tree of a form: which
// widgets appear, in what order and nesting, bound to which data pointers.
package layout

import (
	"strconv"

	"github.com/mohae/deepcopy"

	"github.com/reoring/jsonform/internal/jsonvalue"
)

// Node is one entry of the normalized layout.
type Node struct {
	ID                 string         `json:"_id,omitempty"`
	Type               string         `json:"type"`
	DataPointer        string         `json:"dataPointer,omitempty"`
	DataType           string         `json:"dataType,omitempty"`
	Name               string         `json:"name,omitempty"`
	Ref                string         `json:"$ref,omitempty"`
	ArrayItem          bool           `json:"arrayItem,omitempty"`
	ArrayItemType      string         `json:"arrayItemType,omitempty"`
	RecursiveReference bool           `json:"recursiveReference,omitempty"`
	Required           bool           `json:"required,omitempty"`
	Options            map[string]any `json:"options"`
	Items              []*Node        `json:"items,omitempty"`
}

// IsBound reports whether the node addresses form data.
func (n *Node) IsBound() bool { return n != nil && n.DataPointer != "" }

// IsRef reports whether the node is an "add item" button backed by the
// layout library.
func (n *Node) IsRef() bool { return n != nil && n.Type == "$ref" }

// Clone deep-copies the node and its children.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	return deepcopy.Copy(n).(*Node)
}

// Walk visits n and its descendants depth first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Items {
		c.Walk(fn)
	}
}

// Opt returns an option value.
func (n *Node) Opt(key string) any {
	if n == nil || n.Options == nil {
		return nil
	}
	return n.Options[key]
}

// SetOpt sets an option value, allocating the map on first use.
func (n *Node) SetOpt(key string, v any) {
	if n.Options == nil {
		n.Options = map[string]any{}
	}
	n.Options[key] = v
}

// OptString returns a string option or "".
func (n *Node) OptString(key string) string {
	s, _ := n.Opt(key).(string)
	return s
}

// OptInt returns a numeric option truncated to int, or def.
func (n *Node) OptInt(key string, def int) int {
	f, ok := jsonvalue.ToFloat(n.Opt(key))
	if !ok {
		return def
	}
	return int(f)
}

// OptBool reports whether an option is set to true.
func (n *Node) OptBool(key string) bool { return n.Opt(key) == true }

// OptFalse reports whether an option is explicitly false.
func (n *Node) OptFalse(key string) bool { return n.Opt(key) == false }

// HasOpt reports whether an option is present.
func (n *Node) HasOpt(key string) bool {
	if n == nil || n.Options == nil {
		return false
	}
	_, ok := n.Options[key]
	return ok
}

// IDs hands out layout node ids.
type IDs struct{ next int }

// Next returns a fresh id.
func (g *IDs) Next() string {
	g.next++
	return strconv.Itoa(g.next)
}
