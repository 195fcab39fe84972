// Package jsonpath compiles path expressions such as
// $.store.book[?(@.price<10)].title into immutable token chains and
// evaluates them against JSON-shaped documents. Compiled paths are safe
// for concurrent evaluation; documents are never mutated.
package jsonpath

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jsonpath/eval"
	"github.com/jacoelho/jsonpath/node"
	"github.com/jacoelho/jsonpath/token"
)

// Path is a compiled expression bound to the configuration it was
// compiled under. Immutable after construction.
type Path struct {
	chain *token.Chain
	cfg   Configuration
}

// Compile parses expr under the default configuration.
func Compile(expr string) (*Path, error) {
	return CompileWith(expr, DefaultConfiguration())
}

// CompileWith parses expr under cfg, consulting cfg's cache when one is
// set.
func CompileWith(expr string, cfg Configuration) (*Path, error) {
	chain, err := cfg.cache.GetOrCompile(expr, cfg.fingerprint(), cfg.registry)
	if err != nil {
		return nil, err
	}
	return &Path{chain: chain, cfg: cfg}, nil
}

// MustCompile is Compile that panics on error, for package-level path
// variables.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("jsonpath: compile %q: %v", expr, err))
	}
	return p
}

// String returns the original expression text.
func (p *Path) String() string { return p.chain.String() }

// Definite reports whether the path resolves to at most one location:
// no wildcard, filter, deep scan, slice, or union.
func (p *Path) Definite() bool { return p.chain.Definite() }

// FunctionPath reports whether the path ends in a function invocation.
func (p *Path) FunctionPath() bool { return p.chain.FunctionPath() }

// Read evaluates the path against a document of plain Go values
// (map[string]any, []any, scalars, as produced by encoding/json). The
// result shape follows the configured options: a single value for a
// definite path, a []any of matched values otherwise, or a []string of
// canonical paths under AsPathList.
func (p *Path) Read(document any) (any, error) {
	return p.ReadNode(node.Of(document))
}

// ReadNode is Read over an already-adapted document node.
func (p *Path) ReadNode(root node.Node) (any, error) {
	matches, err := p.Matches(root)
	if err != nil {
		if p.cfg.HasOption(SuppressExceptions) && errors.Is(err, ErrPathNotFound) {
			return p.emptyResult(), nil
		}
		return nil, err
	}
	return p.shape(matches)
}

// Matches evaluates the path and returns the raw (node, canonical path)
// pairs, unshaped by the list options.
func (p *Path) Matches(root node.Node) ([]eval.Match, error) {
	return eval.Evaluate(p.chain, root, p.cfg.evalOptions(), p.cfg.listeners)
}

func (p *Path) shape(matches []eval.Match) (any, error) {
	if p.cfg.HasOption(AsPathList) {
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		return paths, nil
	}

	singular := (p.Definite() || p.FunctionPath()) && !p.cfg.HasOption(AlwaysReturnList)
	if singular {
		if len(matches) == 0 {
			if p.cfg.HasOption(SuppressExceptions) {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, p.chain.String())
		}
		return matches[0].Node.Value(), nil
	}

	values := make([]any, len(matches))
	for i, m := range matches {
		values[i] = m.Node.Value()
	}
	return values, nil
}

func (p *Path) emptyResult() any {
	switch {
	case p.cfg.HasOption(AsPathList):
		return []string{}
	case p.Definite() && !p.cfg.HasOption(AlwaysReturnList):
		return nil
	default:
		return []any{}
	}
}

// Read compiles expr under the default configuration and evaluates it
// against document in one call.
func Read(document any, expr string) (any, error) {
	p, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return p.Read(document)
}

// ReadWith is Read under an explicit configuration.
func ReadWith(document any, expr string, cfg Configuration) (any, error) {
	p, err := CompileWith(expr, cfg)
	if err != nil {
		return nil, err
	}
	return p.Read(document)
}
