package node

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOfKinds(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		expect Kind
	}{
		{name: "nil", value: nil, expect: Null},
		{name: "object", value: map[string]any{"a": 1}, expect: Object},
		{name: "array", value: []any{1}, expect: Array},
		{name: "string", value: "x", expect: Scalar},
		{name: "number", value: json.Number("1"), expect: Scalar},
		{name: "bool", value: true, expect: Scalar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.value).Kind(); got != tt.expect {
				t.Errorf("Of(%v).Kind() = %v, want %v", tt.value, got, tt.expect)
			}
		})
	}
}

func TestPropertyAndElement(t *testing.T) {
	n := Of(map[string]any{"a": []any{"x", "y"}})

	a, ok := n.Property("a")
	if !ok {
		t.Fatalf("Property(a) not found")
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}

	second, ok := a.Element(1)
	if !ok || second.Value() != "y" {
		t.Errorf("Element(1) = %v, %v", second, ok)
	}

	if _, ok := a.Element(2); ok {
		t.Errorf("Element(2) should be out of range")
	}
	if _, ok := a.Element(-1); ok {
		t.Errorf("Element(-1) should be out of range")
	}
	if _, ok := n.Property("b"); ok {
		t.Errorf("Property(b) should be missing")
	}
	if _, ok := a.Property("a"); ok {
		t.Errorf("Property on an array should fail")
	}
}

func TestKeysSorted(t *testing.T) {
	n := Of(map[string]any{"z": 1, "a": 2, "m": 3})
	if got := n.Keys(); !reflect.DeepEqual(got, []string{"a", "m", "z"}) {
		t.Errorf("Keys() = %v, want sorted", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name   string
		a, b   any
		expect bool
	}{
		{name: "number_representations", a: json.Number("2"), b: 2.0, expect: true},
		{name: "different_numbers", a: json.Number("2"), b: 3.0, expect: false},
		{name: "strings", a: "x", b: "x", expect: true},
		{name: "nils", a: nil, b: nil, expect: true},
		{name: "nil_vs_value", a: nil, b: 0.0, expect: false},
		{name: "arrays", a: []any{json.Number("1")}, b: []any{1.0}, expect: true},
		{name: "objects", a: map[string]any{"a": json.Number("1")}, b: map[string]any{"a": 1.0}, expect: true},
		{name: "object_key_mismatch", a: map[string]any{"a": 1.0}, b: map[string]any{"b": 1.0}, expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(Of(tt.a), Of(tt.b)); got != tt.expect {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expect)
			}
		})
	}
}

func TestIsContainer(t *testing.T) {
	if !IsContainer(Of(map[string]any{})) || !IsContainer(Of([]any{})) {
		t.Errorf("objects and arrays are containers")
	}
	if IsContainer(Of("x")) || IsContainer(Of(nil)) {
		t.Errorf("scalars and null are not containers")
	}
}
