// Package document adapts concrete document encodings to the node
// abstraction the evaluator walks. Each adapter parses a byte slice and
// returns a read-only root node.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/ohler55/ojg/oj"

	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/node"
)

// JSON parses data with encoding/json. Numbers decode as json.Number so
// integer precision survives round trips through predicates and
// functions.
func JSON(data []byte) (node.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: json: %v", errs.ErrDocument, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: json: trailing data", errs.ErrDocument)
	}
	return node.Of(v), nil
}

// YAML parses data as a single YAML document.
func YAML(data []byte) (node.Node, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", errs.ErrDocument, err)
	}
	return node.Of(normalizeYAML(v)), nil
}

// OJG parses data with the ojg parser, which is faster than
// encoding/json on large documents and yields the same plain value
// shapes.
func OJG(data []byte) (node.Node, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: ojg: %v", errs.ErrDocument, err)
	}
	return node.Of(v), nil
}

// Read drains r and parses it as JSON.
func Read(r io.Reader) (node.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDocument, err)
	}
	return JSON(data)
}

// normalizeYAML rewrites map[any]any containers, which YAML permits but
// the node abstraction does not, into string-keyed maps.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = normalizeYAML(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = normalizeYAML(child)
		}
		return out
	default:
		return v
	}
}
