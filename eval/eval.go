// Package eval walks a compiled token chain against a document. Each
// token consumes the current working set of (node, canonical path)
// pairs and produces the next one; the set after the final token is the
// query result.
package eval

import (
	"fmt"
	"strconv"

	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/node"
	"github.com/jacoelho/jsonpath/token"
)

// defaultMaxDepth bounds deep-scan recursion when Options.MaxDepth is
// unset. JSON trees are acyclic, so the bound only guards degenerate
// depth, not cycles.
const defaultMaxDepth = 100

/// Match is a single result: the matched node and its canonical
// bracket-notation path.
type Match struct {
	Path string
	Node node.Node
}

// Action is a listener's verdict after observing a match.
type Action uint8

const (
	Continue Action = iota
	Abort
)

// Listener observes (path, node) pairs as evaluation progresses and may
// return Abort to short-circuit the remaining work. Listeners are
// synchronous callbacks on the evaluating goroutine.
type Listener func(Match) Action

// Options holds the knobs the engine itself acts on. Result shaping
// concerns such as suppression and list coercion live with the caller.
type Options struct {
	// RequireProperties turns a missing property or index into a
	// PathNotFound error instead of dropping the candidate.
	RequireProperties bool
	// MaxDepth bounds deep-scan recursion; zero means the default.
	MaxDepth int
}

type evaluation struct {
	root      node.Node
	opts      Options
	listeners []Listener
	maxDepth  int
	aborted   bool
}

// Evaluate applies a compiled chain to a document. The returned matches
// are in deterministic traversal order. The document is never mutated.
func Evaluate(chain *token.Chain, root node.Node, opts Options, listeners []Listener) ([]Match, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	ev := &evaluation{
		root:      root,
		opts:      opts,
		listeners: listeners,
		maxDepth:  maxDepth,
	}

	pairs := []Match{{Path: "$", Node: root}}

	for tok := chain.Head(); tok != nil; tok = tok.Next() {
		pairs = ev.notify(pairs)
		if ev.aborted {
			return pairs, nil
		}

		var err error
		pairs, err = ev.step(tok, pairs)
		if err != nil {
			return nil, err
		}
	}

	pairs = ev.notify(pairs)
	return pairs, nil
}

// notify feeds each pair to the listeners; on Abort the set is
// truncated to the pairs already observed and evaluation stops.
func (ev *evaluation) notify(pairs []Match) []Match {
	if len(ev.listeners) == 0 {
		return pairs
	}
	for i, m := range pairs {
		for _, l := range ev.listeners {
			if l(m) == Abort {
				ev.aborted = true
				return pairs[:i+1]
			}
		}
	}
	return pairs
}

func (ev *evaluation) step(tok *token.Token, pairs []Match) ([]Match, error) {
	switch tok.Kind() {
	case token.Root:
		return []Match{{Path: "$", Node: ev.root}}, nil
	case token.Property:
		return ev.stepProperty(pairs, tok.Name())
	case token.PropertyUnion:
		return ev.stepPropertyUnion(pairs, tok.Names())
	case token.WildcardProperty, token.WildcardArray:
		return ev.stepWildcard(pairs)
	case token.ArrayIndex:
		return ev.stepArrayIndex(pairs, tok.Indices())
	case token.ArraySlice:
		return ev.stepArraySlice(pairs, tok)
	case token.DeepScan:
		return ev.stepDeepScan(pairs)
	case token.Filter:
		return ev.stepFilter(pairs, tok)
	case token.Function:
		return ev.stepFunction(pairs, tok)
	default:
		return nil, fmt.Errorf("%w: unknown token kind %d", errs.ErrInvalidPath, tok.Kind())
	}
}

func (ev *evaluation) stepProperty(pairs []Match, name string) ([]Match, error) {
	var out []Match
	for _, m := range pairs {
		child, ok := m.Node.Property(name)
		if !ok {
			if ev.opts.RequireProperties && m.Node.Kind() == node.Object {
				return nil, fmt.Errorf("%w: no property %q at %s", errs.ErrPathNotFound, name, m.Path)
			}
			continue
		}
		out = append(out, Match{Path: propertyPath(m.Path, name), Node: child})
	}
	return out, nil
}

func (ev *evaluation) stepPropertyUnion(pairs []Match, names []string) ([]Match, error) {
	var out []Match
	for _, m := range pairs {
		for _, name := range names {
			child, ok := m.Node.Property(name)
			if !ok {
				if ev.opts.RequireProperties && m.Node.Kind() == node.Object {
					return nil, fmt.Errorf("%w: no property %q at %s", errs.ErrPathNotFound, name, m.Path)
				}
				continue
			}
			out = append(out, Match{Path: propertyPath(m.Path, name), Node: child})
		}
	}
	return out, nil
}

// stepWildcard fans out over all children of each candidate: property
// values in declared key order for objects, elements in index order for
// arrays. Dot and bracket wildcard behave identically at evaluation time.
func (ev *evaluation) stepWildcard(pairs []Match) ([]Match, error) {
	var out []Match
	for _, m := range pairs {
		out = append(out, children(m)...)
	}
	return out, nil
}

// stepArrayIndex resolves each requested index against each candidate
// array. Requested order is preserved; unions are explicit selections.
func (ev *evaluation) stepArrayIndex(pairs []Match, indices []int) ([]Match, error) {
	var out []Match
	for _, m := range pairs {
		if m.Node.Kind() != node.Array {
			continue
		}
		length := m.Node.Len()
		for _, idx := range indices {
			i := idx
			if i < 0 {
				i += length
			}
			child, ok := m.Node.Element(i)
			if !ok {
				if ev.opts.RequireProperties {
					return nil, fmt.Errorf("%w: index %d out of bounds at %s", errs.ErrPathNotFound, idx, m.Path)
				}
				continue
			}
			out = append(out, Match{Path: indexPath(m.Path, i), Node: child})
		}
	}
	return out, nil
}

func (ev *evaluation) stepArraySlice(pairs []Match, tok *token.Token) ([]Match, error) {
	start, end, step := tok.Slice()

	var out []Match
	for _, m := range pairs {
		if m.Node.Kind() != node.Array {
			continue
		}
		for _, i := range sliceIndices(m.Node.Len(), start, end, step) {
			child, _ := m.Node.Element(i)
			out = append(out, Match{Path: indexPath(m.Path, i), Node: child})
		}
	}
	return out, nil
}

// sliceIndices normalizes bounds per Python slice rules: negatives count
// from the end, out-of-range values clamp, a negative step reverses
// traversal direction.
func sliceIndices(length int, startP, endP, stepP *int) []int {
	step := 1
	if stepP != nil {
		step = *stepP
	}

	var start, end int
	if step > 0 {
		start, end = 0, length
	} else {
		start, end = length-1, -1
	}

	if startP != nil {
		start = *startP
		if start < 0 {
			start += length
		}
		start = clamp(start, step, length)
	}
	if endP != nil {
		end = *endP
		if end < 0 {
			end += length
		}
		end = clamp(end, step, length)
	}

	var out []int
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, i)
		}
	}
	return out
}

func clamp(i, step, length int) int {
	if step > 0 {
		if i < 0 {
			return 0
		}
		if i > length {
			return length
		}
		return i
	}
	if i < -1 {
		return -1
	}
	if i >= length {
		return length - 1
	}
	return i
}

// stepDeepScan replaces each candidate with its pre-order descendant
// set, itself included. The next token then applies to every visited
// node.
func (ev *evaluation) stepDeepScan(pairs []Match) ([]Match, error) {
	var out []Match
	for _, m := range pairs {
		scanned, err := ev.scan(m, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, scanned...)
	}
	return out, nil
}

func (ev *evaluation) scan(m Match, depth int) ([]Match, error) {
	if depth > ev.maxDepth {
		return nil, fmt.Errorf("%w: deep scan passed depth %d at %s", errs.ErrDepthExceeded, ev.maxDepth, m.Path)
	}

	out := []Match{m}
	for _, child := range children(m) {
		sub, err := ev.scan(child, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// stepFilter keeps the children of each candidate container for which
// the predicate holds. The predicate sees the child as '@' and the
// document root as '$'.
func (ev *evaluation) stepFilter(pairs []Match, tok *token.Token) ([]Match, error) {
	pred := tok.Predicate()

	var out []Match
	for _, m := range pairs {
		if !node.IsContainer(m.Node) {
			continue
		}
		for _, child := range children(m) {
			if pred.Evaluate(child.Node, ev.root) {
				out = append(out, child)
			}
		}
	}
	return out, nil
}

// stepFunction invokes the registered handler over the working set's
// values, replacing the set with a single synthetic match.
func (ev *evaluation) stepFunction(pairs []Match, tok *token.Token) ([]Match, error) {
	values := make([]any, len(pairs))
	for i, m := range pairs {
		values[i] = m.Node.Value()
	}

	result, err := tok.Handler()(values, tok.Args())
	if err != nil {
		return nil, err
	}

	base := "$"
	if len(pairs) == 1 {
		base = pairs[0].Path
	}
	return []Match{{Path: base + "." + tok.Name() + "()", Node: node.Of(result)}}, nil
}

// children lists a container's immediate children with extended paths:
// declared key order for objects, index order for arrays.
func children(m Match) []Match {
	switch m.Node.Kind() {
	case node.Object:
		keys := m.Node.Keys()
		out := make([]Match, 0, len(keys))
		for _, k := range keys {
			child, ok := m.Node.Property(k)
			if !ok {
				continue
			}
			out = append(out, Match{Path: propertyPath(m.Path, k), Node: child})
		}
		return out
	case node.Array:
		elems := m.Node.Elements()
		out := make([]Match, 0, len(elems))
		for i, child := range elems {
			out = append(out, Match{Path: indexPath(m.Path, i), Node: child})
		}
		return out
	default:
		return nil
	}
}

// propertyPath extends a canonical path with a quoted property segment.
func propertyPath(base, name string) string {
	return base + "['" + name + "']"
}

func indexPath(base string, index int) string {
	return base + "[" + strconv.Itoa(index) + "]"
}
