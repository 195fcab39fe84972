package filter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/lexer"
)

type parserState struct {
	tokens []token
	pos    int
}

func (p *parserState) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF, pos: len(p.tokens)}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// Parse compiles a filter body (the text between '?(' and ')') into a
// Predicate. Structurally invalid syntax is the only failure mode;
// operand resolution failures at evaluation time are never errors.
func Parse(body string) (*Predicate, error) {
	tokens, err := lex(body)
	if err != nil {
		return nil, err
	}

	state := parserState{tokens: tokens}
	if state.current().typ == tokenEOF {
		return nil, fmt.Errorf("%w: empty filter expression", errs.ErrInvalidPath)
	}

	root, err := state.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := state.current(); tok.typ != tokenEOF {
		return nil, fmt.Errorf("%w: unexpected token at position %d in filter", errs.ErrInvalidPath, tok.pos)
	}

	root.text = body
	return root, nil
}

func (p *parserState) parseOr() (*Predicate, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Predicate{kind: predOr, children: []*Predicate{left, right}}
	}

	return left, nil
}

func (p *parserState) parseAnd() (*Predicate, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Predicate{kind: predAnd, children: []*Predicate{left, right}}
	}

	return left, nil
}

func (p *parserState) parseUnary() (*Predicate, error) {
	switch p.current().typ {
	case tokenNot:
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Predicate{kind: predNot, children: []*Predicate{child}}, nil
	case tokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().typ != tokenRParen {
			return nil, fmt.Errorf("%w: missing closing ')' in filter at position %d", errs.ErrInvalidPath, p.current().pos)
		}
		p.advance()
		return inner, nil
	default:
		return p.parseComparison()
	}
}

func (p *parserState) parseComparison() (*Predicate, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op, ok := comparisonOp(p.current().typ)
	if !ok {
		// Bare path: existence check.
		po, isPath := left.(pathOperand)
		if !isPath {
			return nil, fmt.Errorf("%w: literal %v cannot stand alone in filter", errs.ErrInvalidPath, left)
		}
		return &Predicate{kind: predExists, left: po}, nil
	}
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if op == opMatch {
		if lit, ok := right.(literalOperand); !ok || lit.regex == nil {
			return nil, fmt.Errorf("%w: '=~' requires a regex literal", errs.ErrInvalidPath)
		}
	}

	return &Predicate{kind: predCompare, op: op, left: left, right: right}, nil
}

func comparisonOp(t tokenType) (compareOp, bool) {
	switch t {
	case tokenEq:
		return opEq, true
	case tokenNe:
		return opNe, true
	case tokenLt:
		return opLt, true
	case tokenLe:
		return opLe, true
	case tokenGt:
		return opGt, true
	case tokenGe:
		return opGe, true
	case tokenMatch:
		return opMatch, true
	case tokenIn:
		return opIn, true
	case tokenNin:
		return opNin, true
	case tokenSubsetof:
		return opSubsetof, true
	case tokenContains:
		return opContains, true
	case tokenSize:
		return opSize, true
	case tokenEmpty:
		return opEmpty, true
	}
	return 0, false
}

func (p *parserState) parseOperand() (operand, error) {
	tok := p.current()
	switch tok.typ {
	case tokenPath:
		p.advance()
		return parsePathOperand(tok.literal)
	case tokenNumber:
		p.advance()
		if _, err := json.Number(tok.literal).Float64(); err != nil {
			return nil, fmt.Errorf("%w: invalid numeric literal %q at position %d", errs.ErrInvalidPath, tok.literal, tok.pos)
		}
		return literalOperand{value: json.Number(tok.literal)}, nil
	case tokenString:
		p.advance()
		return literalOperand{value: tok.literal}, nil
	case tokenTrue:
		p.advance()
		return literalOperand{value: true}, nil
	case tokenFalse:
		p.advance()
		return literalOperand{value: false}, nil
	case tokenNull:
		p.advance()
		return literalOperand{value: nil}, nil
	case tokenRegex:
		p.advance()
		re, err := compileRegexLiteral(tok.literal)
		if err != nil {
			return nil, err
		}
		return literalOperand{regex: re}, nil
	case tokenArray:
		p.advance()
		arr, err := parseArrayLiteral(tok.literal)
		if err != nil {
			return nil, err
		}
		return literalOperand{value: arr}, nil
	default:
		return nil, fmt.Errorf("%w: expected operand at position %d in filter", errs.ErrInvalidPath, tok.pos)
	}
}

// parsePathOperand compiles an '@...' or '$...' operand into a definite
// segment list. Operand paths reuse the path lexer; wildcards, slices,
// unions and nested filters are rejected since a leaf operand must
// resolve to at most one value.
func parsePathOperand(text string) (operand, error) {
	relative := text[0] == '@'

	items, err := lexer.Tokenize("$" + text[1:])
	if err != nil {
		return nil, err
	}

	segs := make([]pathSeg, 0, len(items)-1)
	for _, item := range items[1:] {
		switch item.Kind {
		case lexer.ItemChild:
			segs = append(segs, pathSeg{name: item.Name})
		case lexer.ItemBracketNames:
			if len(item.Names) != 1 {
				return nil, fmt.Errorf("%w: operand path %q must be definite", errs.ErrInvalidPath, text)
			}
			segs = append(segs, pathSeg{name: item.Names[0]})
		case lexer.ItemBracketIndexes:
			if len(item.Nums) != 1 {
				return nil, fmt.Errorf("%w: operand path %q must be definite", errs.ErrInvalidPath, text)
			}
			segs = append(segs, pathSeg{index: item.Nums[0], isIndex: true})
		default:
			return nil, fmt.Errorf("%w: operand path %q must be definite", errs.ErrInvalidPath, text)
		}
	}

	return pathOperand{relative: relative, segs: segs}, nil
}

func compileRegexLiteral(literal string) (*regexp.Regexp, error) {
	last := strings.LastIndexByte(literal, '/')
	if last <= 0 {
		return nil, fmt.Errorf("%w: malformed regex literal %q", errs.ErrInvalidPath, literal)
	}
	pattern := literal[1:last]
	flags := literal[last+1:]

	goFlags := ""
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			goFlags += string(f)
		default:
			return nil, fmt.Errorf("%w: unsupported regex flag %q in %s", errs.ErrInvalidPath, f, literal)
		}
	}
	if goFlags != "" {
		pattern = "(?" + goFlags + ")" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling regex literal %s: %v", errs.ErrInvalidPath, literal, err)
	}
	return re, nil
}

func parseArrayLiteral(literal string) ([]any, error) {
	content := strings.TrimSpace(literal[1 : len(literal)-1])
	if content == "" {
		return []any{}, nil
	}

	var arr []any
	for _, part := range splitArrayElements(content) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := parseArrayElement(part)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	return arr, nil
}

// splitArrayElements splits array content by commas, respecting quotes.
func splitArrayElements(content string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quote := byte(0)

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case !inQuotes && (c == '\'' || c == '"'):
			inQuotes = true
			quote = c
			current.WriteByte(c)
		case inQuotes && c == quote:
			if !(i > 0 && content[i-1] == '\\') {
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

func parseArrayElement(element string) (any, error) {
	if len(element) >= 2 {
		if element[0] == '\'' && element[len(element)-1] == '\'' ||
			element[0] == '"' && element[len(element)-1] == '"' {
			return element[1 : len(element)-1], nil
		}
	}

	switch element {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}

	if _, err := json.Number(element).Float64(); err == nil {
		return json.Number(element), nil
	}

	return nil, fmt.Errorf("%w: unsupported array element %q", errs.ErrInvalidPath, element)
}
