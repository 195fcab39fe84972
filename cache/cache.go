// Package cache memoizes compiled paths. Compilation is pure, so a
// path text plus the registry it was compiled against fully identifies
// the resulting chain.
package cache

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jacoelho/jsonpath/function"
	"github.com/jacoelho/jsonpath/parser"
	"github.com/jacoelho/jsonpath/token"
)

// DefaultSize is the entry bound used by New when size is not positive.
const DefaultSize = 256

// Cache is a bounded LRU of compiled chains. A nil *Cache is valid and
// compiles on every call.
type Cache struct {
	entries *lru.Cache[string, *token.Chain]
}

// New returns a cache holding at most size compiled paths.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, *token.Chain](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// defaultRegistry stands in for a nil registry argument so that lookups
// without an explicit registry share one cache identity.
var defaultRegistry = function.Default()

// GetOrCompile returns the cached chain for expr, compiling and storing
// it on a miss. The fingerprint keeps expressions compiled under
// different option sets apart. Registries are distinguished by identity,
// not by their name sets: overriding a builtin yields a registry whose
// chains embed different handlers and must not be shared.
func (c *Cache) GetOrCompile(expr, fingerprint string, registry *function.Registry) (*token.Chain, error) {
	if registry == nil {
		registry = defaultRegistry
	}
	if c == nil {
		return parser.Compile(expr, registry)
	}

	key := cacheKey(expr, fingerprint, registry)
	if chain, ok := c.entries.Get(key); ok {
		return chain, nil
	}

	chain, err := parser.Compile(expr, registry)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, chain)
	return chain, nil
}

// Len reports the number of cached chains.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached chain.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}

func cacheKey(expr, fingerprint string, registry *function.Registry) string {
	return expr + "\x00" + fingerprint + "\x00" + strconv.FormatUint(registry.ID(), 16)
}
