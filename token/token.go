// Package token defines the compiled form of a path expression: an
// ordered, singly-linked, immutable chain of path tokens. A chain is
// built once by the parser and may be shared freely across goroutines
// and evaluations.
package token

import (
	"slices"

	"github.com/jacoelho/jsonpath/filter"
	"github.com/jacoelho/jsonpath/function"
)

// Kind identifies a path token variant.
type Kind uint8

const (
	Root Kind = iota + 1
	Property
	PropertyUnion
	WildcardProperty
	ArrayIndex
	ArraySlice
	WildcardArray
	DeepScan
	Filter
	Function
)

// Token is a single step of a compiled path. All fields are fixed at
// compile time.
type Token struct {
	kind      Kind
	name      string // Property and Function
	names     []string
	indices   []int // requested order, negatives allowed
	slice     [3]*int
	predicate *filter.Predicate
	args      []any // literal function arguments
	handler   function.Handler
	next      *Token
}

func (t *Token) Kind() Kind                   { return t.kind }
func (t *Token) Name() string                 { return t.name }
func (t *Token) Names() []string              { return t.names }
func (t *Token) Indices() []int               { return t.indices }
func (t *Token) Slice() (start, end, step *int) { return t.slice[0], t.slice[1], t.slice[2] }
func (t *Token) Predicate() *filter.Predicate { return t.predicate }
func (t *Token) Args() []any                  { return t.args }
func (t *Token) Handler() function.Handler    { return t.handler }
func (t *Token) Next() *Token                 { return t.next }

func NewRoot() *Token                     { return &Token{kind: Root} }
func NewProperty(name string) *Token      { return &Token{kind: Property, name: name} }
func NewPropertyUnion(names []string) *Token {
	return &Token{kind: PropertyUnion, names: slices.Clone(names)}
}
func NewWildcardProperty() *Token { return &Token{kind: WildcardProperty} }
func NewArrayIndex(indices []int) *Token {
	return &Token{kind: ArrayIndex, indices: slices.Clone(indices)}
}
func NewArraySlice(start, end, step *int) *Token {
	return &Token{kind: ArraySlice, slice: [3]*int{start, end, step}}
}
func NewWildcardArray() *Token { return &Token{kind: WildcardArray} }
func NewDeepScan() *Token      { return &Token{kind: DeepScan} }
func NewFilter(p *filter.Predicate) *Token {
	return &Token{kind: Filter, predicate: p}
}
func NewFunction(name string, args []any, handler function.Handler) *Token {
	return &Token{kind: Function, name: name, args: slices.Clone(args), handler: handler}
}

// Chain is a compiled path: the token list plus derived properties
// cached at build time.
type Chain struct {
	head         *Token
	text         string
	definite     bool
	functionPath bool
}

// Builder accumulates tokens left to right during compilation.
type Builder struct {
	head *Token
	tail *Token
}

// Append links a token to the end of the chain under construction.
func (b *Builder) Append(t *Token) {
	if b.head == nil {
		b.head = t
		b.tail = t
		return
	}
	b.tail.next = t
	b.tail = t
}

// Last returns the most recently appended token, or nil.
func (b *Builder) Last() *Token {
	return b.tail
}

// Chain finalizes the token list, deriving the definite and
// function-path properties.
func (b *Builder) Chain(text string) *Chain {
	c := &Chain{head: b.head, text: text, definite: true}
	for t := b.head; t != nil; t = t.next {
		switch t.kind {
		case WildcardProperty, WildcardArray, DeepScan, Filter, ArraySlice:
			c.definite = false
		case PropertyUnion:
			if len(t.names) > 1 {
				c.definite = false
			}
		case ArrayIndex:
			if len(t.indices) > 1 {
				c.definite = false
			}
		case Function:
			if t.next == nil {
				c.functionPath = true
			}
		}
	}
	return c
}

// Head returns the first token of the chain.
func (c *Chain) Head() *Token { return c.head }

// String returns the original expression text the chain was compiled from.
func (c *Chain) String() string { return c.text }

// Definite reports whether the path resolves to at most one location:
// no wildcard, filter, deep scan, slice or union token is present.
func (c *Chain) Definite() bool { return c.definite }

// FunctionPath reports whether the chain ends in a function token.
func (c *Chain) FunctionPath() bool { return c.functionPath }

// Equal reports structural equality over the token chain and the
// original literal text.
func (c *Chain) Equal(other *Chain) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.text != other.text {
		return false
	}
	a, b := c.head, other.head
	for a != nil && b != nil {
		if !tokenEqual(a, b) {
			return false
		}
		a, b = a.next, b.next
	}
	return a == nil && b == nil
}

func tokenEqual(a, b *Token) bool {
	if a.kind != b.kind || a.name != b.name {
		return false
	}
	if !slices.Equal(a.names, b.names) || !slices.Equal(a.indices, b.indices) {
		return false
	}
	for i := range a.slice {
		av, bv := a.slice[i], b.slice[i]
		if (av == nil) != (bv == nil) {
			return false
		}
		if av != nil && *av != *bv {
			return false
		}
	}
	if !a.predicate.Equal(b.predicate) {
		return false
	}
	return true
}
