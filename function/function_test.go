package function

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/jsonpath/internal/errs"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		fn     string
		values []any
		args   []any
		expect any
	}{
		{name: "avg_of_array", fn: "avg", values: []any{[]any{json.Number("2"), json.Number("4"), json.Number("6")}}, expect: 4.0},
		{name: "avg_of_scalars", fn: "avg", values: []any{1.0, 2.0, 3.0}, expect: 2.0},
		{name: "sum", fn: "sum", values: []any{[]any{json.Number("1"), json.Number("2"), json.Number("3")}}, expect: 6.0},
		{name: "min", fn: "min", values: []any{[]any{json.Number("3"), json.Number("1"), json.Number("2")}}, expect: 1.0},
		{name: "max", fn: "max", values: []any{[]any{json.Number("3"), json.Number("1"), json.Number("2")}}, expect: 3.0},
		{name: "stddev", fn: "stddev", values: []any{[]any{json.Number("2"), json.Number("4")}}, expect: 1.0},
		{name: "length_of_array", fn: "length", values: []any{[]any{1, 2, 3}}, expect: 3.0},
		{name: "length_of_string", fn: "length", values: []any{"abcd"}, expect: 4.0},
		{name: "length_of_object", fn: "length", values: []any{map[string]any{"a": 1, "b": 2}}, expect: 2.0},
		{name: "length_of_match_count", fn: "length", values: []any{"a", "b", "c"}, expect: 3.0},
		{name: "keys_sorted", fn: "keys", values: []any{map[string]any{"b": 1, "a": 2}}, expect: []any{"a", "b"}},
		{name: "concat_values", fn: "concat", values: []any{"foo", "bar"}, expect: "foobar"},
		{name: "concat_with_args", fn: "concat", values: []any{"foo"}, args: []any{"-", "bar"}, expect: "foo-bar"},
		{name: "append_to_array", fn: "append", values: []any{[]any{1, 2}}, args: []any{3}, expect: []any{1, 2, 3}},
		{name: "append_to_scalar", fn: "append", values: []any{1}, args: []any{2}, expect: []any{1, 2}},
	}

	registry := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := registry.Lookup(tt.fn)
			if !ok {
				t.Fatalf("builtin %q not registered", tt.fn)
			}
			got, err := h(tt.values, tt.args)
			if err != nil {
				t.Fatalf("%s() error: %v", tt.fn, err)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.fn, tt.values, tt.args, got, tt.expect)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		fn     string
		values []any
	}{
		{name: "avg_non_numeric", fn: "avg", values: []any{"x"}},
		{name: "avg_empty", fn: "avg", values: nil},
		{name: "sum_non_numeric_element", fn: "sum", values: []any{[]any{json.Number("1"), "x"}}},
		{name: "keys_of_scalar", fn: "keys", values: []any{42}},
		{name: "keys_of_multiple", fn: "keys", values: []any{map[string]any{}, map[string]any{}}},
		{name: "concat_non_string", fn: "concat", values: []any{1}},
	}

	registry := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := registry.Lookup(tt.fn)
			if !ok {
				t.Fatalf("builtin %q not registered", tt.fn)
			}
			_, err := h(tt.values, nil)
			if !errors.Is(err, errs.ErrFunction) {
				t.Errorf("%s(%v) error = %v, want ErrFunction", tt.fn, tt.values, err)
			}
		})
	}
}

func TestRegisterCopies(t *testing.T) {
	base := Default()
	extended := base.Register("double", func(values, _ []any) (any, error) {
		return len(values) * 2, nil
	})

	if _, ok := base.Lookup("double"); ok {
		t.Errorf("Register should not mutate the receiver")
	}
	if _, ok := extended.Lookup("double"); !ok {
		t.Errorf("Register should add the handler to the returned registry")
	}
	if _, ok := extended.Lookup("avg"); !ok {
		t.Errorf("Register should carry over existing handlers")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Default().Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}
}
