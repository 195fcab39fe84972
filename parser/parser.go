// Package parser compiles the lexer's item stream into an immutable
// token chain, resolving filter bodies through the filter package and
// function names against a registry.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jacoelho/jsonpath/filter"
	"github.com/jacoelho/jsonpath/function"
	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/lexer"
	"github.com/jacoelho/jsonpath/token"
)

// Compile parses a path expression into a token chain. A nil registry
// means the default builtin functions.
func Compile(expr string, registry *function.Registry) (*token.Chain, error) {
	if registry == nil {
		registry = function.Default()
	}

	items, err := lexer.Tokenize(expr)
	if err != nil {
		return nil, err
	}

	var b token.Builder
	for i, item := range items {
		tok, err := compileItem(item, registry)
		if err != nil {
			return nil, err
		}
		if tok.Kind() == token.Function && i != len(items)-1 {
			return nil, fmt.Errorf("%w: function %s() must be the last path step", errs.ErrInvalidPath, item.Name)
		}
		b.Append(tok)
	}

	return b.Chain(expr), nil
}

func compileItem(item lexer.Item, registry *function.Registry) (*token.Token, error) {
	switch item.Kind {
	case lexer.ItemRoot:
		return token.NewRoot(), nil

	case lexer.ItemChild:
		return token.NewProperty(item.Name), nil

	case lexer.ItemDeepScan:
		return token.NewDeepScan(), nil

	case lexer.ItemWildcard:
		return token.NewWildcardProperty(), nil

	case lexer.ItemBracketWildcard:
		return token.NewWildcardArray(), nil

	case lexer.ItemBracketNames:
		if len(item.Names) == 1 {
			return token.NewProperty(item.Names[0]), nil
		}
		return token.NewPropertyUnion(item.Names), nil

	case lexer.ItemBracketIndexes:
		return token.NewArrayIndex(item.Nums), nil

	case lexer.ItemBracketSlice:
		if item.Slice[2] != nil && *item.Slice[2] == 0 {
			return nil, fmt.Errorf("%w: slice step cannot be zero at position %d", errs.ErrInvalidPath, item.Pos)
		}
		return token.NewArraySlice(item.Slice[0], item.Slice[1], item.Slice[2]), nil

	case lexer.ItemFilter:
		pred, err := filter.Parse(item.Expr)
		if err != nil {
			return nil, err
		}
		return token.NewFilter(pred), nil

	case lexer.ItemFunction:
		handler, ok := registry.Lookup(item.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown function %q", errs.ErrInvalidPath, item.Name)
		}
		args, err := parseArgs(item.Args)
		if err != nil {
			return nil, err
		}
		return token.NewFunction(item.Name, args, handler), nil

	default:
		return nil, fmt.Errorf("%w: unexpected item at position %d", errs.ErrInvalidPath, item.Pos)
	}
}

// parseArgs parses the literal argument list of a function call.
func parseArgs(raw string) ([]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var args []any
	for _, part := range splitArgs(raw) {
		part = strings.TrimSpace(part)
		arg, err := parseArg(part)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func parseArg(part string) (any, error) {
	if len(part) >= 2 {
		if part[0] == '\'' && part[len(part)-1] == '\'' ||
			part[0] == '"' && part[len(part)-1] == '"' {
			return part[1 : len(part)-1], nil
		}
	}

	switch part {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}

	if _, err := json.Number(part).Float64(); err == nil {
		return json.Number(part), nil
	}

	return nil, fmt.Errorf("%w: invalid function argument %q", errs.ErrInvalidPath, part)
}

func splitArgs(raw string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quote := byte(0)

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case !inQuotes && (c == '\'' || c == '"'):
			inQuotes = true
			quote = c
			current.WriteByte(c)
		case inQuotes && c == quote:
			if !(i > 0 && raw[i-1] == '\\') {
				inQuotes = false
			}
			current.WriteByte(c)
		case !inQuotes && c == ',':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
