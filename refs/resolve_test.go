package refs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonform/jsonpointer"
	"github.com/reoring/jsonform/refs"
)

func TestResolve_InlinesDefinitions(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"definitions": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1.0},
		},
		"properties": map[string]any{
			"first": map[string]any{"$ref": "#/definitions/name", "title": "First"},
		},
	}
	out, ctx := refs.Resolve(schema)

	first, ok := jsonpointer.Get(out, "/properties/first")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string", "minLength": 1.0, "title": "First"}, first)
	assert.Contains(t, ctx.RefLibrary, "/definitions/name")
	assert.Empty(t, ctx.SchemaRecursiveRefMap)
	assert.False(t, ctx.HasWarnings())

	// the input is left untouched
	_, stillRef := schema["properties"].(map[string]any)["first"].(map[string]any)["$ref"]
	assert.True(t, stillRef)
}

func TestResolve_PureSelfReferenceTerminates(t *testing.T) {
	out, ctx := refs.Resolve(map[string]any{"$ref": "#"})
	assert.Equal(t, map[string]any{"$ref": "#"}, out)
	assert.True(t, ctx.HasRootReference)
	assert.NotEmpty(t, ctx.SchemaRecursiveRefMap)
	assert.Contains(t, ctx.RefLibrary, "")
	assert.Equal(t, "/x/y", ctx.CanonicalDataPointer("/x/y"))
}

func TestResolve_DefinitionsOnlyRecursion(t *testing.T) {
	schema := map[string]any{
		"definitions": map[string]any{
			"node": map[string]any{
				"properties": map[string]any{
					"child": map[string]any{"$ref": "#/definitions/node"},
				},
			},
		},
	}
	_, ctx := refs.Resolve(schema)
	assert.Equal(t, map[string]string{
		"/definitions/node/properties/child": "/definitions/node",
	}, ctx.SchemaRecursiveRefMap)
	assert.Empty(t, ctx.DataRecursiveRefMap)
}

func TestResolve_RecursiveTree(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tree": map[string]any{"$ref": "#/definitions/node"},
		},
		"definitions": map[string]any{
			"node": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":     map[string]any{"type": "string"},
					"children": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/node"}},
				},
			},
		},
	}
	out, ctx := refs.Resolve(schema)

	marker, ok := jsonpointer.Get(out, "/properties/tree/properties/children/items")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"$ref": "#/properties/tree"}, marker)
	assert.Equal(t, "/properties/tree", ctx.SchemaRecursiveRefMap["/properties/tree/properties/children/items"])
	assert.Equal(t, "/tree", ctx.DataRecursiveRefMap["/tree/children/-"])
	assert.Contains(t, ctx.RefLibrary, "/properties/tree")
	assert.Equal(t, 0, ctx.ArrayMap["/tree/children"])
	assert.False(t, ctx.HasRootReference)

	t.Run("Should fold deep data pointers onto the template", func(t *testing.T) {
		assert.Equal(t, "/tree/name", ctx.CanonicalDataPointer("/tree/children/2/children/0/name"))
		assert.Equal(t, "/tree/children/-", ctx.CanonicalDataPointer("/tree/children/4"))
	})
	t.Run("Should map deep data pointers to schema pointers", func(t *testing.T) {
		p, ok := refs.SchemaPointer(out, "/tree/children/1/name")
		require.True(t, ok)
		assert.Equal(t, "/properties/tree/properties/name", p)
	})
}

func TestResolve_RootRecursionThroughProperty(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{"type": "number"},
			"next":  map[string]any{"$ref": "#"},
		},
	}
	out, ctx := refs.Resolve(schema)
	assert.True(t, ctx.HasRootReference)
	assert.Equal(t, "", ctx.SchemaRecursiveRefMap["/properties/next"])
	assert.Equal(t, "", ctx.DataRecursiveRefMap["/next"])
	assert.Contains(t, ctx.RefLibrary, "")
	next, _ := jsonpointer.Get(out, "/properties/next")
	assert.Equal(t, map[string]any{"$ref": "#"}, next)
}

func TestResolve_UnresolvableRefIsKept(t *testing.T) {
	schema := map[string]any{
		"properties": map[string]any{"a": map[string]any{"$ref": "#/definitions/missing"}},
	}
	out, ctx := refs.Resolve(schema)
	a, _ := jsonpointer.Get(out, "/properties/a")
	assert.Equal(t, map[string]any{"$ref": "#/definitions/missing"}, a)
	assert.True(t, ctx.HasWarnings())
}

func TestResolve_CombinesAllOfAndFixesArrayRequired(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"combo": map[string]any{"allOf": []any{
				map[string]any{"type": "string", "minLength": 2.0},
				map[string]any{"maxLength": 5.0},
			}},
			"list": map[string]any{
				"type":     "array",
				"required": []any{"id"},
				"items": map[string]any{
					"type":       "object",
					"properties": map[string]any{"id": map[string]any{"type": "string"}},
				},
			},
			"pair": map[string]any{"type": "array", "items": []any{
				map[string]any{"type": "string"}, map[string]any{"type": "number"},
			}},
		},
	}
	out, ctx := refs.Resolve(schema)
	combo, _ := jsonpointer.Get(out, "/properties/combo")
	assert.Equal(t, map[string]any{"type": "string", "minLength": 2.0, "maxLength": 5.0}, combo)

	_, hasReq := jsonpointer.Get(out, "/properties/list/required")
	assert.False(t, hasReq)
	req, _ := jsonpointer.Get(out, "/properties/list/items/required")
	assert.Equal(t, []any{"id"}, req)

	assert.Equal(t, 2, ctx.ArrayMap["/pair"])
	assert.Equal(t, 0, ctx.ArrayMap["/list"])
}

func TestDataPointer(t *testing.T) {
	tests := map[string]string{
		"":                                    "",
		"/properties/a":                       "/a",
		"/properties/a/items/properties/b":    "/a/-/b",
		"/properties/t/items/1":               "/t/1",
		"/properties/t/additionalItems":       "/t/-",
		"/properties/x/anyOf/0/properties/y":  "/x/y",
		"/properties/properties/properties/z": "/properties/z",
	}
	for in, want := range tests {
		got, ok := refs.DataPointer(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := refs.DataPointer("/definitions/x")
	assert.False(t, ok)
}
