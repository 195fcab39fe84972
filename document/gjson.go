package document

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/node"
)

// GJSON wraps data in a gjson-backed node without decoding it into Go
// maps. Unlike the map-backed node, object keys keep true document
// order, so wildcard and deep-scan results follow the order the
// document was written in.
func GJSON(data []byte) (node.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: gjson: malformed json", errs.ErrDocument)
	}
	return gjsonNode{result: gjson.ParseBytes(data)}, nil
}

type gjsonNode struct {
	result gjson.Result
}

func (n gjsonNode) Kind() node.Kind {
	switch {
	case n.result.IsObject():
		return node.Object
	case n.result.IsArray():
		return node.Array
	case n.result.Type == gjson.Null || !n.result.Exists():
		return node.Null
	default:
		return node.Scalar
	}
}

func (n gjsonNode) Value() any {
	return n.result.Value()
}

func (n gjsonNode) Len() int {
	count := 0
	n.result.ForEach(func(_, _ gjson.Result) bool {
		count++
		return true
	})
	return count
}

func (n gjsonNode) Property(name string) (node.Node, bool) {
	if !n.result.IsObject() {
		return nil, false
	}
	var found gjson.Result
	ok := false
	n.result.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found, ok = value, true
			return false
		}
		return true
	})
	if !ok {
		return nil, false
	}
	return gjsonNode{result: found}, true
}

func (n gjsonNode) Element(index int) (node.Node, bool) {
	if !n.result.IsArray() {
		return nil, false
	}
	elems := n.result.Array()
	if index < 0 || index >= len(elems) {
		return nil, false
	}
	return gjsonNode{result: elems[index]}, true
}

func (n gjsonNode) Keys() []string {
	if !n.result.IsObject() {
		return nil
	}
	var keys []string
	n.result.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

func (n gjsonNode) Elements() []node.Node {
	if !n.result.IsArray() {
		return nil
	}
	elems := n.result.Array()
	out := make([]node.Node, len(elems))
	for i, e := range elems {
		out[i] = gjsonNode{result: e}
	}
	return out
}
