package jsonpath

import (
	"sort"
	"strings"

	"github.com/jacoelho/jsonpath/cache"
	"github.com/jacoelho/jsonpath/eval"
	"github.com/jacoelho/jsonpath/function"
)

// Option is a named evaluation flag. The set is closed; unknown values
// are ignored.
type Option uint8

const (
	// SuppressExceptions turns a PathNotFound failure into an empty
	// result (nil in value mode, empty list in list modes).
	SuppressExceptions Option = iota

	// AlwaysReturnList wraps results in a list even for definite paths.
	AlwaysReturnList

	// AsPathList returns canonical path strings instead of values.
	AsPathList

	// RequireProperties fails with PathNotFound when a named property
	// or explicit index is missing, instead of dropping the candidate.
	RequireProperties

	optionCount
)

var optionNames = [optionCount]string{
	SuppressExceptions: "SUPPRESS_EXCEPTIONS",
	AlwaysReturnList:   "ALWAYS_RETURN_LIST",
	AsPathList:         "AS_PATH_LIST",
	RequireProperties:  "REQUIRE_PROPERTIES",
}

// Configuration carries everything an evaluation needs beyond the path
// itself: option flags, the function registry paths compile against,
// evaluation listeners, the scan depth bound, and an optional compiled
// path cache. The zero value is not usable; start from
// DefaultConfiguration and derive with the With* methods, each of which
// returns a copy.
type Configuration struct {
	options   map[Option]bool
	registry  *function.Registry
	listeners []eval.Listener
	maxDepth  int
	cache     *cache.Cache
}

// defaultCache backs DefaultConfiguration. Entries are immutable
// compiled chains, safe to share between configurations.
var defaultCache = func() *cache.Cache {
	c, err := cache.New(cache.DefaultSize)
	if err != nil {
		panic(err)
	}
	return c
}()

// defaultRegistry is shared by every default configuration so that
// compiled chains keep one cache identity across calls.
var defaultRegistry = function.Default()

// DefaultConfiguration returns the baseline configuration: no option
// flags, the builtin function registry, the shared process cache, and
// the default scan depth bound.
func DefaultConfiguration() Configuration {
	return Configuration{
		registry: defaultRegistry,
		cache:    defaultCache,
	}
}

// WithOptions returns a copy with the given flags enabled in addition
// to the flags already set.
func (c Configuration) WithOptions(opts ...Option) Configuration {
	options := make(map[Option]bool, len(c.options)+len(opts))
	for o := range c.options {
		options[o] = true
	}
	for _, o := range opts {
		if o < optionCount {
			options[o] = true
		}
	}
	c.options = options
	return c
}

// HasOption reports whether the flag is set.
func (c Configuration) HasOption(o Option) bool {
	return c.options[o]
}

// WithFunctions returns a copy using the given registry for function
// resolution.
func (c Configuration) WithFunctions(r *function.Registry) Configuration {
	c.registry = r
	return c
}

// WithListeners returns a copy with the given listeners appended.
func (c Configuration) WithListeners(ls ...eval.Listener) Configuration {
	listeners := make([]eval.Listener, 0, len(c.listeners)+len(ls))
	listeners = append(listeners, c.listeners...)
	listeners = append(listeners, ls...)
	c.listeners = listeners
	return c
}

// WithMaxDepth returns a copy bounding deep-scan recursion at depth.
func (c Configuration) WithMaxDepth(depth int) Configuration {
	c.maxDepth = depth
	return c
}

// WithCache returns a copy using the given compiled path cache. A nil
// cache disables memoization; every Compile call reparses.
func (c Configuration) WithCache(cc *cache.Cache) Configuration {
	c.cache = cc
	return c
}

// fingerprint is the option portion of the cache key. Identical
// expression texts under different option sets must not collide.
func (c Configuration) fingerprint() string {
	if len(c.options) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.options))
	for o := range c.options {
		names = append(names, optionNames[o])
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func (c Configuration) evalOptions() eval.Options {
	return eval.Options{
		RequireProperties: c.HasOption(RequireProperties),
		MaxDepth:          c.maxDepth,
	}
}
