package filter

import (
	"fmt"
	"strings"

	"github.com/jacoelho/jsonpath/internal/errs"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenPath
	tokenNumber
	tokenString
	tokenRegex
	tokenArray
	tokenTrue
	tokenFalse
	tokenNull
	tokenEq
	tokenNe
	tokenLt
	tokenLe
	tokenGt
	tokenGe
	tokenMatch
	tokenIn
	tokenNin
	tokenSubsetof
	tokenContains
	tokenSize
	tokenEmpty
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	typ     tokenType
	literal string
	pos     int
}

func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2)
	pos := 0

	for pos < len(input) {
		c := input[pos]
		if c == ' ' || c == '\t' {
			pos++
			continue
		}

		switch {
		case c == '@' || c == '$':
			start := pos
			pos = scanPath(input, pos)
			tokens = append(tokens, token{typ: tokenPath, literal: input[start:pos], pos: start})

		case c == '\'' || c == '"':
			literal, next, err := scanString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: literal, pos: pos})
			pos = next

		case c == '/':
			literal, next, err := scanRegex(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenRegex, literal: literal, pos: pos})
			pos = next

		case c == '[':
			literal, next, err := scanArray(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenArray, literal: literal, pos: pos})
			pos = next

		case c >= '0' && c <= '9' || c == '-' && pos+1 < len(input) && input[pos+1] >= '0' && input[pos+1] <= '9':
			start := pos
			pos++
			for pos < len(input) && (input[pos] >= '0' && input[pos] <= '9' || input[pos] == '.' || input[pos] == 'e' || input[pos] == 'E' || input[pos] == '+' || input[pos] == '-') {
				pos++
			}
			tokens = append(tokens, token{typ: tokenNumber, literal: input[start:pos], pos: start})

		case isKeywordStart(c):
			start := pos
			for pos < len(input) && isKeywordPart(input[pos]) {
				pos++
			}
			tok, err := keywordToken(input[start:pos], start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		default:
			tok, next, err := scanOperator(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
		}
	}

	return tokens, nil
}

// scanPath consumes an operand path starting at '@' or '$'. Bracket
// segments may contain quoted names and commas; scanning stops at the
// first operator, space or parenthesis outside brackets.
func scanPath(input string, pos int) int {
	pos++ // consume '@' or '$'
	depth := 0
	for pos < len(input) {
		c := input[pos]
		switch {
		case c == '[':
			depth++
		case c == ']':
			if depth == 0 {
				return pos
			}
			depth--
		case depth == 0 && (c == ' ' || c == '\t' || c == '(' || c == ')' ||
			c == '=' || c == '!' || c == '<' || c == '>' || c == '&' || c == '|' || c == ','):
			return pos
		}
		pos++
	}
	return pos
}

func scanString(input string, pos int) (string, int, error) {
	quote := input[pos]
	var b strings.Builder
	i := pos + 1
	for i < len(input) {
		c := input[i]
		if c == '\\' && i+1 < len(input) {
			b.WriteByte(input[i+1])
			i += 2
			continue
		}
		if c == quote {
			return b.String(), i + 1, nil
		}
		b.WriteByte(c)
		i++
	}
	return "", pos, fmt.Errorf("%w: unterminated string literal at position %d", errs.ErrInvalidPath, pos)
}

// scanRegex consumes a /pattern/flags literal, returning it verbatim
// including delimiters and flags.
func scanRegex(input string, pos int) (string, int, error) {
	i := pos + 1
	for i < len(input) {
		if input[i] == '\\' && i+1 < len(input) {
			i += 2
			continue
		}
		if input[i] == '/' {
			end := i + 1
			for end < len(input) && isKeywordPart(input[end]) {
				end++
			}
			return input[pos:end], end, nil
		}
		i++
	}
	return "", pos, fmt.Errorf("%w: unterminated regex literal at position %d", errs.ErrInvalidPath, pos)
}

func scanArray(input string, pos int) (string, int, error) {
	depth := 0
	inQuote := byte(0)
	for i := pos; i < len(input); i++ {
		c := input[i]
		if inQuote != 0 {
			if c == inQuote && input[i-1] != '\\' {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inQuote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return input[pos : i+1], i + 1, nil
			}
		}
	}
	return "", pos, fmt.Errorf("%w: unterminated array literal at position %d", errs.ErrInvalidPath, pos)
}

func keywordToken(word string, pos int) (token, error) {
	switch word {
	case "true":
		return token{typ: tokenTrue, pos: pos}, nil
	case "false":
		return token{typ: tokenFalse, pos: pos}, nil
	case "null":
		return token{typ: tokenNull, pos: pos}, nil
	case "in":
		return token{typ: tokenIn, pos: pos}, nil
	case "nin":
		return token{typ: tokenNin, pos: pos}, nil
	case "subsetof":
		return token{typ: tokenSubsetof, pos: pos}, nil
	case "contains":
		return token{typ: tokenContains, pos: pos}, nil
	case "size":
		return token{typ: tokenSize, pos: pos}, nil
	case "empty":
		return token{typ: tokenEmpty, pos: pos}, nil
	default:
		return token{}, fmt.Errorf("%w: unknown keyword %q at position %d", errs.ErrInvalidPath, word, pos)
	}
}

func scanOperator(input string, pos int) (token, int, error) {
	two := ""
	if pos+1 < len(input) {
		two = input[pos : pos+2]
	}
	switch two {
	case "==":
		return token{typ: tokenEq, pos: pos}, pos + 2, nil
	case "!=":
		return token{typ: tokenNe, pos: pos}, pos + 2, nil
	case "<=":
		return token{typ: tokenLe, pos: pos}, pos + 2, nil
	case ">=":
		return token{typ: tokenGe, pos: pos}, pos + 2, nil
	case "=~":
		return token{typ: tokenMatch, pos: pos}, pos + 2, nil
	case "&&":
		return token{typ: tokenAnd, pos: pos}, pos + 2, nil
	case "||":
		return token{typ: tokenOr, pos: pos}, pos + 2, nil
	}
	switch input[pos] {
	case '<':
		return token{typ: tokenLt, pos: pos}, pos + 1, nil
	case '>':
		return token{typ: tokenGt, pos: pos}, pos + 1, nil
	case '!':
		return token{typ: tokenNot, pos: pos}, pos + 1, nil
	case '(':
		return token{typ: tokenLParen, pos: pos}, pos + 1, nil
	case ')':
		return token{typ: tokenRParen, pos: pos}, pos + 1, nil
	}
	return token{}, pos, fmt.Errorf("%w: unexpected character %q at position %d", errs.ErrInvalidPath, input[pos], pos)
}

func isKeywordStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isKeywordPart(b byte) bool {
	return isKeywordStart(b) || b >= '0' && b <= '9'
}
