package parser

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/jsonpath/function"
	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/token"
)

func kinds(c *token.Chain) []token.Kind {
	var out []token.Kind
	for t := c.Head(); t != nil; t = t.Next() {
		out = append(out, t.Kind())
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expect   []token.Kind
		definite bool
	}{
		{
			name:     "dot_properties",
			expr:     "$.store.book",
			expect:   []token.Kind{token.Root, token.Property, token.Property},
			definite: true,
		},
		{
			name:     "single_bracket_name_is_property",
			expr:     "$['store']",
			expect:   []token.Kind{token.Root, token.Property},
			definite: true,
		},
		{
			name:     "bracket_name_union",
			expr:     "$['author','title']",
			expect:   []token.Kind{token.Root, token.PropertyUnion},
			definite: false,
		},
		{
			name:     "index_union",
			expr:     "$.book[0,2]",
			expect:   []token.Kind{token.Root, token.Property, token.ArrayIndex},
			definite: false,
		},
		{
			name:     "single_index",
			expr:     "$.book[0]",
			expect:   []token.Kind{token.Root, token.Property, token.ArrayIndex},
			definite: true,
		},
		{
			name:     "slice",
			expr:     "$.book[1:3]",
			expect:   []token.Kind{token.Root, token.Property, token.ArraySlice},
			definite: false,
		},
		{
			name:     "wildcards",
			expr:     "$.store.*[*]",
			expect:   []token.Kind{token.Root, token.Property, token.WildcardProperty, token.WildcardArray},
			definite: false,
		},
		{
			name:     "deep_scan",
			expr:     "$..price",
			expect:   []token.Kind{token.Root, token.DeepScan, token.Property},
			definite: false,
		},
		{
			name:     "filter",
			expr:     "$.book[?(@.price<10)]",
			expect:   []token.Kind{token.Root, token.Property, token.Filter},
			definite: false,
		},
		{
			name:     "terminal_function",
			expr:     "$.numbers.avg()",
			expect:   []token.Kind{token.Root, token.Property, token.Function},
			definite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := Compile(tt.expr, nil)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.expr, err)
			}
			if got := kinds(chain); !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("Compile(%q) kinds = %v, want %v", tt.expr, got, tt.expect)
			}
			if chain.Definite() != tt.definite {
				t.Errorf("Compile(%q) definite = %v, want %v", tt.expr, chain.Definite(), tt.definite)
			}
			if chain.String() != tt.expr {
				t.Errorf("Compile(%q) text = %q", tt.expr, chain.String())
			}
		})
	}
}

func TestCompileIdempotent(t *testing.T) {
	exprs := []string{
		"$.store.book[0].title",
		"$..book[?(@.price<10 && @.isbn)]",
		"$['a','b'][1:5:2].avg()",
	}
	for _, expr := range exprs {
		a, err := Compile(expr, nil)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", expr, err)
		}
		b, err := Compile(expr, nil)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", expr, err)
		}
		if !a.Equal(b) {
			t.Errorf("Compile(%q) not idempotent", expr)
		}
	}
}

func TestCompileFunctionArgs(t *testing.T) {
	chain, err := Compile("$.values.append(1, 'two', true, null)", nil)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	var fn *token.Token
	for tok := chain.Head(); tok != nil; tok = tok.Next() {
		if tok.Kind() == token.Function {
			fn = tok
		}
	}
	if fn == nil {
		t.Fatalf("no function token compiled")
	}

	expect := []any{json.Number("1"), "two", true, nil}
	if !reflect.DeepEqual(fn.Args(), expect) {
		t.Errorf("Args() = %v, want %v", fn.Args(), expect)
	}
	if fn.Name() != "append" {
		t.Errorf("Name() = %q, want %q", fn.Name(), "append")
	}
	if !chain.FunctionPath() {
		t.Errorf("chain should be a function path")
	}
}

func TestCompileCustomRegistry(t *testing.T) {
	registry := function.Default().Register("first", func(values, _ []any) (any, error) {
		if len(values) == 0 {
			return nil, nil
		}
		return values[0], nil
	})

	if _, err := Compile("$.items.first()", registry); err != nil {
		t.Fatalf("Compile with custom registry error: %v", err)
	}
	if _, err := Compile("$.items.first()", nil); !errors.Is(err, errs.ErrInvalidPath) {
		t.Errorf("Compile without registration error = %v, want ErrInvalidPath", err)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "unknown_function", expr: "$.a.nosuch()"},
		{name: "function_not_terminal", expr: "$.a.avg().b"},
		{name: "slice_step_zero", expr: "$.a[1:5:0]"},
		{name: "bad_filter", expr: "$.a[?(@.x<)]"},
		{name: "bad_function_arg", expr: "$.a.avg(nope)"},
		{name: "missing_root", expr: "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr, nil)
			if !errors.Is(err, errs.ErrInvalidPath) {
				t.Errorf("Compile(%q) error = %v, want ErrInvalidPath", tt.expr, err)
			}
		})
	}
}
