package jsonpointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonform/jsonpointer"
)

func sampleDoc() map[string]any {
	return map[string]any{
		"a":   map[string]any{"b": []any{"x", map[string]any{"c": 1.0}}},
		"t~k": "tilde",
		"s/k": "slash",
	}
}

func TestParseAndCompile(t *testing.T) {
	t.Run("Should treat the empty pointer as root", func(t *testing.T) {
		keys, err := jsonpointer.Parse("")
		require.NoError(t, err)
		assert.Empty(t, keys)
		assert.Equal(t, "", jsonpointer.Compile(nil))
	})
	t.Run("Should unescape and re-escape special characters", func(t *testing.T) {
		keys, err := jsonpointer.Parse("/a~1b/c~0d")
		require.NoError(t, err)
		assert.Equal(t, []string{"a/b", "c~d"}, keys)
		assert.Equal(t, "/a~1b/c~0d", jsonpointer.Compile(keys))
	})
	t.Run("Should decode URI fragment pointers", func(t *testing.T) {
		keys, err := jsonpointer.Parse("#/definitions/a%20b")
		require.NoError(t, err)
		assert.Equal(t, []string{"definitions", "a b"}, keys)
	})
	t.Run("Should reject relative strings", func(t *testing.T) {
		_, err := jsonpointer.Parse("a/b")
		assert.ErrorIs(t, err, jsonpointer.ErrInvalidPointer)
	})
	t.Run("Should substitute a default for empty keys", func(t *testing.T) {
		assert.Equal(t, "/list/-/name", jsonpointer.Compile([]string{"list", "", "name"}, "-"))
	})
	t.Run("Should return the last key", func(t *testing.T) {
		assert.Equal(t, "c", jsonpointer.ToKey("/a/b/c"))
		assert.Equal(t, "", jsonpointer.ToKey(""))
	})
}

func TestGetAndHas(t *testing.T) {
	doc := sampleDoc()
	v, ok := jsonpointer.Get(doc, "/a/b/1/c")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = jsonpointer.Get(doc, "/t~0k")
	require.True(t, ok)
	assert.Equal(t, "tilde", v)
	assert.True(t, jsonpointer.Has(doc, "/s~1k"))

	_, ok = jsonpointer.Get(doc, "/a/b/5")
	assert.False(t, ok)
	_, ok = jsonpointer.Get(doc, "/a/b/x")
	assert.False(t, ok)

	root, ok := jsonpointer.Get(doc, "")
	require.True(t, ok)
	assert.Equal(t, doc, root)

	v, ok = jsonpointer.GetSlice(doc, "/a/b/1/c", 0, -2)
	require.True(t, ok)
	assert.Equal(t, doc["a"].(map[string]any)["b"], v)

	v, p, ok := jsonpointer.GetFirst(doc, "/missing", "/t~0k")
	require.True(t, ok)
	assert.Equal(t, "tilde", v)
	assert.Equal(t, "/t~0k", p)
}

func TestSet(t *testing.T) {
	t.Run("Should create intermediate containers by key shape", func(t *testing.T) {
		root, err := jsonpointer.Set(nil, "/list/0/name", "n")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"list": []any{map[string]any{"name": "n"}}}, root)
	})
	t.Run("Should append with the dash key", func(t *testing.T) {
		root, err := jsonpointer.Set(map[string]any{"l": []any{1.0}}, "/l/-", 2.0)
		require.NoError(t, err)
		assert.Equal(t, []any{1.0, 2.0}, root.(map[string]any)["l"])
	})
	t.Run("Should not touch the original in SetCopy", func(t *testing.T) {
		doc := sampleDoc()
		out, err := jsonpointer.SetCopy(doc, "/a/b/0", "y")
		require.NoError(t, err)
		assert.Equal(t, "x", doc["a"].(map[string]any)["b"].([]any)[0])
		v, _ := jsonpointer.Get(out, "/a/b/0")
		assert.Equal(t, "y", v)
	})
	t.Run("Should fail when walking through a scalar", func(t *testing.T) {
		_, err := jsonpointer.Set(map[string]any{"a": "s"}, "/a/b", 1)
		assert.ErrorIs(t, err, jsonpointer.ErrNotContainer)
	})
}

func TestInsertAndRemove(t *testing.T) {
	doc := map[string]any{"l": []any{"a", "c"}}
	out, err := jsonpointer.Insert(doc, "/l/1", "b")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, out.(map[string]any)["l"])

	out, err = jsonpointer.Remove(out, "/l/0")
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, out.(map[string]any)["l"])

	_, err = jsonpointer.Insert(doc, "/missing/0", "x")
	assert.ErrorIs(t, err, jsonpointer.ErrNoParent)
	_, err = jsonpointer.Remove(doc, "/missing/key")
	assert.ErrorIs(t, err, jsonpointer.ErrNoParent)

	out, err = jsonpointer.Remove(doc, "/nope")
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestForEachDeep(t *testing.T) {
	doc := map[string]any{"b": []any{1.0}, "a": "x"}
	var pre, post []string
	jsonpointer.ForEachDeep(doc, func(_ any, p string) { pre = append(pre, p) }, false)
	jsonpointer.ForEachDeep(doc, func(_ any, p string) { post = append(post, p) }, true)
	assert.Equal(t, []string{"", "/a", "/b", "/b/0"}, pre)
	assert.Equal(t, []string{"/a", "/b/0", "/b", ""}, post)
}

func TestGenericAndIndexedPointers(t *testing.T) {
	arrayMap := map[string]int{"/list": 0, "/tuple": 2, "/list/-/sub": 0}

	assert.Equal(t, "/list/-/sub/-", jsonpointer.ToGenericPointer("/list/3/sub/0", arrayMap))
	assert.Equal(t, "/tuple/1", jsonpointer.ToGenericPointer("/tuple/1", arrayMap))
	assert.Equal(t, "/tuple/-", jsonpointer.ToGenericPointer("/tuple/2", arrayMap))
	assert.Equal(t, "/1", jsonpointer.ToGenericPointer("/1", arrayMap))

	assert.Equal(t, "/list/3/sub/0", jsonpointer.ToIndexedPointer("/list/-/sub/-", []int{3, 0}, arrayMap))
	assert.Equal(t, "/list/3/sub/-", jsonpointer.ToIndexedPointer("/list/-/sub/-", []int{3}, nil))
}

func TestIsSubPointer(t *testing.T) {
	assert.True(t, jsonpointer.IsSubPointer("/a", "/a/b", false))
	assert.False(t, jsonpointer.IsSubPointer("/a", "/ab", false))
	assert.True(t, jsonpointer.IsSubPointer("/a", "/a", false))
	assert.False(t, jsonpointer.IsSubPointer("/a", "/a", true))
	assert.True(t, jsonpointer.IsSubPointer("", "/x", true))
}

func TestParseObjectPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "0", "c d", "e"}, jsonpointer.ParseObjectPath(`a.b[0]['c d']["e"]`))
	assert.Equal(t, []string{"list", "", "name"}, jsonpointer.ParseObjectPath("list[].name"))
	assert.Equal(t, []string{"x", "y"}, jsonpointer.ParseObjectPath("/x/y"))
}
