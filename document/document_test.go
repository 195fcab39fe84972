package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/jsonpath/internal/errs"
	"github.com/jacoelho/jsonpath/node"
)

func TestJSON(t *testing.T) {
	root, err := JSON([]byte(`{"name":"x","count":3,"tags":["a","b"],"meta":null}`))
	require.NoError(t, err)

	assert.Equal(t, node.Object, root.Kind())

	count, ok := root.Property("count")
	require.True(t, ok)
	assert.Equal(t, json.Number("3"), count.Value(), "numbers should decode as json.Number")

	tags, ok := root.Property("tags")
	require.True(t, ok)
	assert.Equal(t, node.Array, tags.Kind())
	assert.Equal(t, 2, tags.Len())

	meta, ok := root.Property("meta")
	require.True(t, ok)
	assert.Equal(t, node.Null, meta.Kind())
}

func TestJSONErrors(t *testing.T) {
	for name, input := range map[string]string{
		"malformed":     `{"a":`,
		"trailing_data": `{"a":1} extra`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := JSON([]byte(input))
			assert.ErrorIs(t, err, errs.ErrDocument)
		})
	}
}

func TestYAML(t *testing.T) {
	root, err := YAML([]byte("store:\n  book:\n    - title: one\n    - title: two\n"))
	require.NoError(t, err)

	store, ok := root.Property("store")
	require.True(t, ok)
	book, ok := store.Property("book")
	require.True(t, ok)
	assert.Equal(t, node.Array, book.Kind())

	first, ok := book.Element(0)
	require.True(t, ok)
	title, ok := first.Property("title")
	require.True(t, ok)
	assert.Equal(t, "one", title.Value())
}

func TestYAMLError(t *testing.T) {
	_, err := YAML([]byte("a: [1, 2"))
	assert.ErrorIs(t, err, errs.ErrDocument)
}

func TestOJG(t *testing.T) {
	root, err := OJG([]byte(`{"a":[1,2,3]}`))
	require.NoError(t, err)

	a, ok := root.Property("a")
	require.True(t, ok)
	assert.Equal(t, node.Array, a.Kind())
	assert.Equal(t, 3, a.Len())
}

func TestOJGError(t *testing.T) {
	_, err := OJG([]byte(`{"a":`))
	assert.ErrorIs(t, err, errs.ErrDocument)
}

func TestGJSONPreservesDocumentOrder(t *testing.T) {
	root, err := GJSON([]byte(`{"zebra":1,"apple":2,"mango":3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, root.Keys(),
		"gjson-backed nodes should keep document key order")
}

func TestGJSONNode(t *testing.T) {
	root, err := GJSON([]byte(`{"store":{"book":[{"price":8.95},{"price":22.99}]},"open":true}`))
	require.NoError(t, err)

	assert.Equal(t, node.Object, root.Kind())
	assert.Equal(t, 2, root.Len())

	store, ok := root.Property("store")
	require.True(t, ok)
	book, ok := store.Property("book")
	require.True(t, ok)
	assert.Equal(t, node.Array, book.Kind())
	assert.Equal(t, 2, book.Len())

	second, ok := book.Element(1)
	require.True(t, ok)
	price, ok := second.Property("price")
	require.True(t, ok)
	assert.Equal(t, node.Scalar, price.Kind())
	assert.Equal(t, 22.99, price.Value())

	_, ok = book.Element(2)
	assert.False(t, ok)
	_, ok = store.Property("missing")
	assert.False(t, ok)

	open, ok := root.Property("open")
	require.True(t, ok)
	assert.Equal(t, true, open.Value())

	elems := book.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, node.Object, elems[0].Kind())
}

func TestGJSONError(t *testing.T) {
	_, err := GJSON([]byte(`{"a":`))
	assert.ErrorIs(t, err, errs.ErrDocument)
}

func TestRead(t *testing.T) {
	root, err := Read(strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	_, ok := root.Property("a")
	assert.True(t, ok)
}
