// Package lexer turns a raw path expression into a flat sequence of
// lexical items. It is a single pass over the input with no backtracking;
// filter bodies are captured as opaque balanced-bracket substrings and
// handed to the filter package untouched.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/jsonpath/internal/errs"
)

// ItemKind classifies a lexical item.
type ItemKind uint8

const (
	ItemRoot ItemKind = iota + 1
	ItemChild
	ItemDeepScan
	ItemWildcard
	ItemBracketWildcard
	ItemBracketNames
	ItemBracketIndexes
	ItemBracketSlice
	ItemFilter
	ItemFunction
)

// Item is a single lexical unit of a path expression.
type Item struct {
	Kind  ItemKind
	Pos   int      // byte offset in the original expression
	Name  string   // child or function name
	Names []string // quoted-name union, in written order
	Nums  []int    // index union, in written order
	Slice [3]*int  // start, end, step; nil means absent
	Expr  string   // opaque filter body, without the '?(' ')' wrapper
	Args  string   // raw function argument text, without parentheses
}

// Tokenize lexes a path expression. The expression must start at the
// document root '$'.
func Tokenize(expr string) ([]Item, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: expression cannot be empty", errs.ErrInvalidPath)
	}
	if expr[0] != '$' {
		return nil, fmt.Errorf("%w: expression must start with '$'", errs.ErrInvalidPath)
	}

	items := []Item{{Kind: ItemRoot, Pos: 0}}
	i := 1

	for i < len(expr) {
		switch expr[i] {
		case '.':
			next, err := lexDot(expr, i, &items)
			if err != nil {
				return nil, err
			}
			i = next
		case '[':
			item, next, err := lexBracket(expr, i)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			i = next
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", errs.ErrInvalidPath, expr[i], i)
		}
	}

	return items, nil
}

func lexDot(expr string, i int, items *[]Item) (int, error) {
	start := i
	if i+1 < len(expr) && expr[i+1] == '.' { // descendant '..'
		*items = append(*items, Item{Kind: ItemDeepScan, Pos: i})
		i += 2
		if i >= len(expr) {
			return i, fmt.Errorf("%w: path cannot end with '..'", errs.ErrInvalidPath)
		}
		if expr[i] == '[' {
			return i, nil // bracket handled by the main loop
		}
	} else {
		i++
		if i >= len(expr) {
			return i, fmt.Errorf("%w: path cannot end with '.'", errs.ErrInvalidPath)
		}
	}

	if expr[i] == '*' {
		*items = append(*items, Item{Kind: ItemWildcard, Pos: i})
		return i + 1, nil
	}

	name, next, err := lexName(expr, i)
	if err != nil {
		return i, err
	}

	// A name directly followed by '(' is a function invocation.
	if next < len(expr) && expr[next] == '(' {
		args, end, err := lexParens(expr, next)
		if err != nil {
			return i, err
		}
		*items = append(*items, Item{Kind: ItemFunction, Pos: start, Name: name, Args: args})
		return end, nil
	}

	*items = append(*items, Item{Kind: ItemChild, Pos: start, Name: name})
	return next, nil
}

func lexName(expr string, i int) (string, int, error) {
	start := i
	for i < len(expr) && idRune(expr[i]) {
		i++
	}
	if start == i {
		return "", i, fmt.Errorf("%w: expected name at position %d", errs.ErrInvalidPath, i)
	}
	return expr[start:i], i, nil
}

func lexParens(expr string, i int) (string, int, error) {
	depth := 0
	quote := byte(0)
	for j := i; j < len(expr); j++ {
		c := expr[j]
		if quote != 0 {
			if c == quote && expr[j-1] != '\\' {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return expr[i+1 : j], j + 1, nil
			}
		}
	}
	return "", i, fmt.Errorf("%w: unterminated '(' at position %d", errs.ErrInvalidPath, i)
}

func lexBracket(expr string, i int) (Item, int, error) {
	end := matchingBracket(expr, i)
	if end == -1 {
		return Item{}, i, fmt.Errorf("%w: unterminated '[' at position %d", errs.ErrInvalidPath, i)
	}

	inner := strings.TrimSpace(expr[i+1 : end])
	next := end + 1

	if inner == "" {
		return Item{}, i, fmt.Errorf("%w: empty bracket selector at position %d", errs.ErrInvalidPath, i)
	}

	if inner == "*" {
		return Item{Kind: ItemBracketWildcard, Pos: i}, next, nil
	}

	if strings.HasPrefix(inner, "?(") {
		if !strings.HasSuffix(inner, ")") {
			return Item{}, i, fmt.Errorf("%w: malformed filter at position %d, expected '[?(...)]'", errs.ErrInvalidPath, i)
		}
		body := strings.TrimSpace(inner[2 : len(inner)-1])
		if body == "" {
			return Item{}, i, fmt.Errorf("%w: empty filter at position %d", errs.ErrInvalidPath, i)
		}
		return Item{Kind: ItemFilter, Pos: i, Expr: body}, next, nil
	}

	if inner[0] == '\'' || inner[0] == '"' {
		names, err := lexNameUnion(inner, i)
		if err != nil {
			return Item{}, i, err
		}
		return Item{Kind: ItemBracketNames, Pos: i, Names: names}, next, nil
	}

	if strings.ContainsRune(inner, ':') {
		s, err := lexSlice(inner, i)
		if err != nil {
			return Item{}, i, err
		}
		return Item{Kind: ItemBracketSlice, Pos: i, Slice: s}, next, nil
	}

	nums, err := lexIndexUnion(inner, i)
	if err != nil {
		return Item{}, i, err
	}
	return Item{Kind: ItemBracketIndexes, Pos: i, Nums: nums}, next, nil
}

func lexNameUnion(inner string, pos int) ([]string, error) {
	parts := splitOutsideQuotes(inner)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !isQuoted(p) {
			return nil, fmt.Errorf("%w: expected quoted name, got %q at position %d", errs.ErrInvalidPath, p, pos)
		}
		names = append(names, p[1:len(p)-1])
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty name selector at position %d", errs.ErrInvalidPath, pos)
	}
	return names, nil
}

func lexIndexUnion(inner string, pos int) ([]int, error) {
	parts := strings.Split(inner, ",")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid array index %q at position %d", errs.ErrInvalidPath, p, pos)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func lexSlice(inner string, pos int) ([3]*int, error) {
	var out [3]*int
	parts := strings.Split(inner, ":")
	if len(parts) > 3 {
		return out, fmt.Errorf("%w: too many colons in slice %q at position %d", errs.ErrInvalidPath, inner, pos)
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("%w: invalid slice bound %q at position %d", errs.ErrInvalidPath, p, pos)
		}
		out[i] = &n
	}
	return out, nil
}

// matchingBracket finds the closing ']' for the '[' at start, skipping
// brackets inside quoted strings and nested brackets.
func matchingBracket(expr string, start int) int {
	depth := 0
	inSingle := false
	inDouble := false

	for i := start; i < len(expr); i++ {
		c := expr[i]

		if i > start && expr[i-1] == '\\' {
			continue
		}
		if c == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}
		if c == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}
		if inSingle || inDouble {
			continue
		}

		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitOutsideQuotes splits on commas that are not inside quoted strings.
func splitOutsideQuotes(s string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quote := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case !inQuotes && (c == '\'' || c == '"'):
			inQuotes = true
			quote = c
			current.WriteByte(c)
		case inQuotes && c == quote:
			if !(i > 0 && s[i-1] == '\\') {
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

func isQuoted(s string) bool {
	return (len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'') ||
		(len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"')
}

// idRune checks if a byte is valid for unquoted names after '.'.
func idRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '-'
}
