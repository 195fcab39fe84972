// Package errs holds the error taxonomy shared by the compilation and
// evaluation packages. The root jsonpath package re-exports these values.
package errs

import "errors"

var (
	// ErrInvalidPath indicates a malformed path expression: lexing or
	// parsing failures, an unknown function, or an invalid predicate.
	// Raised at compile time only.
	ErrInvalidPath = errors.New("jsonpath: invalid path")

	// ErrPathNotFound indicates a required or definite path resolved to
	// no location at evaluation time.
	ErrPathNotFound = errors.New("jsonpath: path not found")

	// ErrDepthExceeded indicates a deep scan descended past the
	// configured recursion bound.
	ErrDepthExceeded = errors.New("jsonpath: max scan depth exceeded")

	// ErrFunction indicates a path function failed over the matched
	// node set, e.g. a numeric aggregate over non-numeric values.
	ErrFunction = errors.New("jsonpath: function evaluation")

	// ErrDocument indicates a document could not be parsed by an adapter.
	ErrDocument = errors.New("jsonpath: invalid document")
)
