// Package function implements the terminal function pipeline: named
// handlers applied to the node values a path matched. The default
// registry carries the builtin aggregates; callers may extend it with
// their own handlers.
package function

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/internal/number"
)

// Handler computes a single value from the matched node values and the
// literal arguments of the call site.
type Handler func(values []any, args []any) (any, error)

// Registry maps function names to handlers. Registration copies the
// registry, so a shared Registry is never mutated after construction.
// Every registry carries a process-unique id: two registries may hold
// the same names bound to different handlers, so identity rather than
// the name set distinguishes what an expression compiles to.
type Registry struct {
	id       uint64
	handlers map[string]Handler
}

var registryID atomic.Uint64

// Default returns a registry with the builtin functions registered.
func Default() *Registry {
	return &Registry{id: registryID.Add(1), handlers: map[string]Handler{
		"min":    minFn,
		"max":    maxFn,
		"avg":    avgFn,
		"sum":    sumFn,
		"stddev": stddevFn,
		"length": lengthFn,
		"keys":   keysFn,
		"concat": concatFn,
		"append": appendFn,
	}}
}

// Register returns a new registry with the handler added, leaving the
// receiver untouched.
func (r *Registry) Register(name string, h Handler) *Registry {
	handlers := make(map[string]Handler, len(r.handlers)+1)
	for k, v := range r.handlers {
		handlers[k] = v
	}
	handlers[name] = h
	return &Registry{id: registryID.Add(1), handlers: handlers}
}

// ID returns the registry's process-unique identity.
func (r *Registry) ID() uint64 {
	return r.id
}

// Lookup resolves a function name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// numericValues flattens the matched values into a float slice.
// A matched array contributes each of its elements.
func numericValues(name string, values []any) ([]float64, error) {
	var out []float64
	for _, v := range values {
		if arr, ok := v.([]any); ok {
			for _, item := range arr {
				f, ok := number.ToFloat64(item)
				if !ok {
					return nil, fmt.Errorf("%w: %s: non-numeric value %v", errs.ErrFunction, name, item)
				}
				out = append(out, f)
			}
			continue
		}
		f, ok := number.ToFloat64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s: non-numeric value %v", errs.ErrFunction, name, v)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s: no numeric input", errs.ErrFunction, name)
	}
	return out, nil
}

func minFn(values, _ []any) (any, error) {
	nums, err := numericValues("min", values)
	if err != nil {
		return nil, err
	}
	m := nums[0]
	for _, n := range nums[1:] {
		m = math.Min(m, n)
	}
	return m, nil
}

func maxFn(values, _ []any) (any, error) {
	nums, err := numericValues("max", values)
	if err != nil {
		return nil, err
	}
	m := nums[0]
	for _, n := range nums[1:] {
		m = math.Max(m, n)
	}
	return m, nil
}

func sumFn(values, _ []any) (any, error) {
	nums, err := numericValues("sum", values)
	if err != nil {
		return nil, err
	}
	var s float64
	for _, n := range nums {
		s += n
	}
	return s, nil
}

func avgFn(values, _ []any) (any, error) {
	nums, err := numericValues("avg", values)
	if err != nil {
		return nil, err
	}
	var s float64
	for _, n := range nums {
		s += n
	}
	return s / float64(len(nums)), nil
}

func stddevFn(values, _ []any) (any, error) {
	nums, err := numericValues("stddev", values)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, n := range nums {
		sum += n
	}
	mean := sum / float64(len(nums))
	var varSum float64
	for _, n := range nums {
		varSum += (n - mean) * (n - mean)
	}
	return math.Sqrt(varSum / float64(len(nums))), nil
}

// lengthFn returns the length of a single matched container or string,
// or the number of matches otherwise.
func lengthFn(values, _ []any) (any, error) {
	if len(values) == 1 {
		switch v := values[0].(type) {
		case []any:
			return float64(len(v)), nil
		case map[string]any:
			return float64(len(v)), nil
		case string:
			return float64(len(v)), nil
		}
	}
	return float64(len(values)), nil
}

// keysFn returns the sorted property names of a single matched object.
func keysFn(values, _ []any) (any, error) {
	if len(values) != 1 {
		return nil, fmt.Errorf("%w: keys: expected a single object, got %d values", errs.ErrFunction, len(values))
	}
	obj, ok := values[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: keys: expected an object, got %T", errs.ErrFunction, values[0])
	}
	keys := make([]any, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].(string) < keys[j].(string) })
	return keys, nil
}

// concatFn joins the matched string values and any literal arguments.
func concatFn(values, args []any) (any, error) {
	var b strings.Builder
	for _, v := range append(append([]any{}, values...), args...) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: concat: non-string value %v", errs.ErrFunction, v)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// appendFn appends the literal arguments to the matched array.
func appendFn(values, args []any) (any, error) {
	var out []any
	if len(values) == 1 {
		if arr, ok := values[0].([]any); ok {
			out = append(out, arr...)
		} else {
			out = append(out, values[0])
		}
	} else {
		out = append(out, values...)
	}
	return append(out, args...), nil
}
