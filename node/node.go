// Package node defines the read-only document abstraction the evaluation
// engine walks. A Node covers the four JSON shapes: object, array, scalar
// and null. Implementations must never be mutated through this interface.
package node

import (
	"sort"

	"github.com/jacoelho/jsonpath/internal/number"
)

// Kind identifies the JSON shape of a node.
type Kind uint8

const (
	Null Kind = iota
	Scalar
	Array
	Object
)

// Node is the capability set the engine needs from a document tree.
// Keys returns property names in the node's declared order; Elements
// returns array elements in index order.
type Node interface {
	Kind() Kind
	Value() any
	Len() int
	Property(name string) (Node, bool)
	Element(index int) (Node, bool)
	Keys() []string
	Elements() []Node
}

// valueNode wraps a decoded Go value (map[string]any, []any or scalar)
// as a Node. Map-backed objects report keys in sorted order, the closest
// deterministic stand-in for declared order that Go maps allow.
type valueNode struct {
	value any
}

// Of wraps a decoded document value. Accepts anything encoding/json or
// compatible decoders produce: map[string]any, []any, string, bool,
// json.Number, float64 or nil.
func Of(value any) Node {
	return valueNode{value: value}
}

func (n valueNode) Kind() Kind {
	switch n.value.(type) {
	case nil:
		return Null
	case map[string]any:
		return Object
	case []any:
		return Array
	default:
		return Scalar
	}
}

func (n valueNode) Value() any {
	return n.value
}

func (n valueNode) Len() int {
	switch v := n.value.(type) {
	case map[string]any:
		return len(v)
	case []any:
		return len(v)
	default:
		return 0
	}
}

func (n valueNode) Property(name string) (Node, bool) {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return nil, false
	}
	child, ok := obj[name]
	if !ok {
		return nil, false
	}
	return valueNode{value: child}, true
}

func (n valueNode) Element(index int) (Node, bool) {
	arr, ok := n.value.([]any)
	if !ok || index < 0 || index >= len(arr) {
		return nil, false
	}
	return valueNode{value: arr[index]}, true
}

func (n valueNode) Keys() []string {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (n valueNode) Elements() []Node {
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}
	elems := make([]Node, len(arr))
	for i, v := range arr {
		elems[i] = valueNode{value: v}
	}
	return elems
}

// IsContainer reports whether n is an object or an array.
func IsContainer(n Node) bool {
	k := n.Kind()
	return k == Object || k == Array
}

// Equal compares the decoded values of two nodes. Numbers compare by
// numeric value regardless of representation (json.Number vs float64).
func Equal(a, b Node) bool {
	return valueEqual(a.Value(), b.Value())
}

func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if na, ok := number.ToFloat64(a); ok {
		nb, ok := number.ToFloat64(b)
		return ok && na == nb
	}

	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, v := range va {
			w, ok := vb[k]
			if !ok || !valueEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i, v := range va {
			if !valueEqual(v, vb[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}
