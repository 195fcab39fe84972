package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/jsonpath/function"
	"github.com/jacoelho/jsonpath/token"
)

func TestGetOrCompileHitIdentity(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	first, err := c.GetOrCompile("$.store.book[0]", "", nil)
	require.NoError(t, err)

	second, err := c.GetOrCompile("$.store.book[0]", "", nil)
	require.NoError(t, err)

	assert.Same(t, first, second, "cache hit should return the stored chain")
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCompileFingerprintSeparation(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	plain, err := c.GetOrCompile("$.a", "", nil)
	require.NoError(t, err)

	flagged, err := c.GetOrCompile("$.a", "REQUIRE_PROPERTIES", nil)
	require.NoError(t, err)

	assert.NotSame(t, plain, flagged, "different fingerprints must not collide")
	assert.True(t, plain.Equal(flagged), "same expression should compile structurally equal")
	assert.Equal(t, 2, c.Len())
}

func TestGetOrCompileRegistrySeparation(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	custom := function.Default().Register("custom", func(values, _ []any) (any, error) {
		return len(values), nil
	})

	_, err = c.GetOrCompile("$.a", "", nil)
	require.NoError(t, err)
	_, err = c.GetOrCompile("$.a", "", custom)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len(), "registries with different function sets must not share entries")
}

func TestGetOrCompileOverriddenBuiltin(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	_, err = c.GetOrCompile("$.n.sum()", "", nil)
	require.NoError(t, err)

	overriding := function.Default().Register("sum", func(_, _ []any) (any, error) {
		return "custom", nil
	})
	chain, err := c.GetOrCompile("$.n.sum()", "", overriding)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len(), "overriding a builtin must not reuse the default entry")

	var fn *token.Token
	for tok := chain.Head(); tok != nil; tok = tok.Next() {
		if tok.Kind() == token.Function {
			fn = tok
		}
	}
	require.NotNil(t, fn)

	got, err := fn.Handler()(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", got, "chain must carry the overriding handler")
}

func TestGetOrCompileInvalidExpressionNotCached(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	_, err = c.GetOrCompile("$.a[", "", nil)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestNilCacheCompilesEveryTime(t *testing.T) {
	var c *Cache

	first, err := c.GetOrCompile("$.a.b", "", nil)
	require.NoError(t, err)

	second, err := c.GetOrCompile("$.a.b", "", nil)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.True(t, first.Equal(second), "duplicate compilations must be structurally equal")
	assert.Equal(t, 0, c.Len())
}

func TestEviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := c.GetOrCompile(fmt.Sprintf("$.key%d", i), "", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len(), "cache should stay within its bound")
}

func TestConcurrentGetOrCompile(t *testing.T) {
	c, err := New(32)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				expr := fmt.Sprintf("$.worker%d.item[%d]", n%4, j%10)
				chain, err := c.GetOrCompile(expr, "", nil)
				assert.NoError(t, err)
				assert.Equal(t, expr, chain.String())
			}
		}(i)
	}
	wg.Wait()
}

func TestPurge(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	_, err = c.GetOrCompile("$.a", "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
