// Package filter implements the bracketed predicate sub-grammar of path
// expressions: comparisons, logical composition, existence and collection
// checks evaluated per candidate node.
//
// Predicates are total over any document shape: an operand path that
// resolves to no value makes the enclosing comparison false instead of
// raising an error.
package filter

import (
	"regexp"
	"strings"

	"github.com/jacoelho/jsonpath/internal/number"
	"github.com/jacoelho/jsonpath/node"
)

type predKind uint8

const (
	predCompare predKind = iota + 1
	predExists
	predAnd
	predOr
	predNot
)

type compareOp uint8

const (
	opEq compareOp = iota + 1
	opNe
	opLt
	opLe
	opGt
	opGe
	opMatch
	opIn
	opNin
	opSubsetof
	opContains
	opSize
	opEmpty
)

// Predicate is a compiled filter expression. It is immutable after
// parsing and safe for concurrent evaluation.
type Predicate struct {
	kind     predKind
	op       compareOp
	left     operand
	right    operand
	children []*Predicate
	text     string // original body text, set on the root
}

// String returns the original filter body text.
func (p *Predicate) String() string {
	return p.text
}

// Equal reports whether two predicates were compiled from the same text.
func (p *Predicate) Equal(other *Predicate) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.text == other.text
}

// Evaluate applies the predicate to a candidate node. Absolute operand
// paths ($...) resolve against root, relative ones (@...) against the
// candidate.
func (p *Predicate) Evaluate(candidate, root node.Node) bool {
	switch p.kind {
	case predAnd:
		for _, c := range p.children {
			if !c.Evaluate(candidate, root) {
				return false
			}
		}
		return true
	case predOr:
		for _, c := range p.children {
			if c.Evaluate(candidate, root) {
				return true
			}
		}
		return false
	case predNot:
		return !p.children[0].Evaluate(candidate, root)
	case predExists:
		_, ok := p.left.resolve(candidate, root)
		return ok
	case predCompare:
		return p.compare(candidate, root)
	default:
		return false
	}
}

func (p *Predicate) compare(candidate, root node.Node) bool {
	lv, lok := p.left.resolve(candidate, root)
	rv, rok := p.right.resolve(candidate, root)

	if p.op == opEmpty {
		want, isBool := rv.(bool)
		if !rok || !isBool {
			return false
		}
		return isEmptyValue(lv, lok) == want
	}

	if !lok || !rok {
		return false
	}

	switch p.op {
	case opEq:
		return literalEqual(lv, rv)
	case opNe:
		return !literalEqual(lv, rv)
	case opLt, opLe, opGt, opGe:
		return ordered(p.op, lv, rv)
	case opMatch:
		return p.matchRegex(lv)
	case opIn:
		return inCollection(lv, rv)
	case opNin:
		return !inCollection(lv, rv)
	case opSubsetof:
		return subsetOf(lv, rv)
	case opContains:
		return containsValue(lv, rv)
	case opSize:
		want, ok := number.ToInt(rv)
		return ok && sizeOf(lv) == want
	default:
		return false
	}
}

func (p *Predicate) matchRegex(lv any) bool {
	lit, ok := p.right.(literalOperand)
	if !ok || lit.regex == nil {
		return false
	}
	s, ok := lv.(string)
	if !ok {
		return false
	}
	return lit.regex.MatchString(s)
}

// ordered applies <, <=, > or >=. Numbers compare numerically, strings
// lexicographically; mixed or unordered types never satisfy the relation.
func ordered(op compareOp, lv, rv any) bool {
	lf, lNum := number.ToFloat64(lv)
	rf, rNum := number.ToFloat64(rv)
	if lNum && rNum {
		switch op {
		case opLt:
			return lf < rf
		case opLe:
			return lf <= rf
		case opGt:
			return lf > rf
		case opGe:
			return lf >= rf
		}
		return false
	}

	ls, lStr := lv.(string)
	rs, rStr := rv.(string)
	if lStr && rStr {
		switch op {
		case opLt:
			return ls < rs
		case opLe:
			return ls <= rs
		case opGt:
			return ls > rs
		case opGe:
			return ls >= rs
		}
	}
	return false
}

func literalEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if fa, ok := number.ToFloat64(a); ok {
		fb, ok := number.ToFloat64(b)
		return ok && fa == fb
	}

	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !literalEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, v := range va {
			w, ok := vb[k]
			if !ok || !literalEqual(v, w) {
				return false
			}
		}
		return true
	}
	return a == b
}

func inCollection(value, collection any) bool {
	items, ok := collection.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if literalEqual(value, item) {
			return true
		}
	}
	return false
}

func subsetOf(value, collection any) bool {
	items, ok := value.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if !inCollection(item, collection) {
			return false
		}
	}
	return true
}

func containsValue(haystack, needle any) bool {
	switch h := haystack.(type) {
	case string:
		n, ok := needle.(string)
		return ok && strings.Contains(h, n)
	case []any:
		return inCollection(needle, h)
	default:
		return false
	}
}

func sizeOf(value any) int {
	switch v := value.(type) {
	case string:
		return len(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return -1
	}
}

func isEmptyValue(value any, resolved bool) bool {
	if !resolved || value == nil {
		return true
	}
	n := sizeOf(value)
	if n < 0 {
		return false
	}
	return n == 0
}

// operand is either an operand path or a literal; resolve returns the
// operand's value against a candidate/root pair. The boolean is false
// when a path operand finds no value.
type operand interface {
	resolve(candidate, root node.Node) (any, bool)
}

type pathSeg struct {
	name    string
	index   int
	isIndex bool
}

type pathOperand struct {
	relative bool
	segs     []pathSeg
}

func (o pathOperand) resolve(candidate, root node.Node) (any, bool) {
	current := root
	if o.relative {
		current = candidate
	}
	if current == nil {
		return nil, false
	}

	for _, seg := range o.segs {
		var (
			next node.Node
			ok   bool
		)
		if seg.isIndex {
			next, ok = current.Element(seg.index)
		} else {
			next, ok = current.Property(seg.name)
		}
		if !ok {
			return nil, false
		}
		current = next
	}
	return current.Value(), true
}

type literalOperand struct {
	value any
	regex *regexp.Regexp
}

func (o literalOperand) resolve(_, _ node.Node) (any, bool) {
	return o.value, true
}
