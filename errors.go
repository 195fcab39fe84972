package jsonpath

import "github.com/jacoelho/jsonpath/internal/errs"

// Sentinel errors reported by compilation and evaluation. Match with
// errors.Is.
var (
	// ErrInvalidPath reports a malformed path expression.
	ErrInvalidPath = errs.ErrInvalidPath

	// ErrPathNotFound reports a definite or required path that resolved
	// to no location.
	ErrPathNotFound = errs.ErrPathNotFound

	// ErrDepthExceeded reports a deep scan past the configured bound.
	ErrDepthExceeded = errs.ErrDepthExceeded

	// ErrFunction reports a path function failing over its input set.
	ErrFunction = errs.ErrFunction

	// ErrDocument reports a document an adapter could not parse.
	ErrDocument = errs.ErrDocument
)
