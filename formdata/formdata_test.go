package formdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonform/refs"
)

func sampleMap() Map {
	return Map{
		"":             {SchemaType: "object", Required: []string{"tags", "meta"}},
		"/n":           {SchemaType: "number"},
		"/i":           {SchemaType: "integer"},
		"/b":           {SchemaType: "boolean"},
		"/s":           {SchemaType: "string"},
		"/nothing":     {SchemaType: "null"},
		"/when":        {SchemaType: "string", SchemaFormat: "date-time"},
		"/tags":        {SchemaType: "array"},
		"/tags/-":      {SchemaType: "string"},
		"/meta":        {SchemaType: "object"},
		"/meta/score":  {SchemaType: "number"},
		"/list":        {SchemaType: "array"},
		"/list/-":      {SchemaType: "object"},
		"/list/-/qty":  {SchemaType: "integer"},
		"/list/-/name": {SchemaType: "string"},
	}
}

func sampleRefs() *refs.Context {
	rc := refs.NewContext()
	rc.ArrayMap["/tags"] = 0
	rc.ArrayMap["/list"] = 0
	return rc
}

func TestFormat_CoercesToSchemaTypes(t *testing.T) {
	raw := map[string]any{
		"n":    "3.5",
		"i":    "42",
		"b":    "true",
		"s":    12,
		"tags": []any{"a", "", "c"},
		"list": []any{map[string]any{"qty": "2", "name": "x"}},
	}
	out := Format(raw, sampleMap(), sampleRefs(), Options{})
	assert.Equal(t, map[string]any{
		"n":    3.5,
		"i":    42.0,
		"b":    true,
		"s":    "12",
		"tags": []any{"a", nil, "c"},
		"list": []any{map[string]any{"qty": 2.0, "name": "x"}},
		"meta": map[string]any{},
	}, out)
}

func TestFormat_OmitsEmptyLeaves(t *testing.T) {
	out := Format(map[string]any{"s": "", "n": nil}, sampleMap(), sampleRefs(), Options{})
	assert.Equal(t, map[string]any{"tags": []any{}, "meta": map[string]any{}}, out)
}

func TestFormat_ReturnEmptyFields(t *testing.T) {
	out := Format(map[string]any{"s": "", "meta": map[string]any{}}, sampleMap(), sampleRefs(), Options{ReturnEmptyFields: true})
	assert.Equal(t, map[string]any{"s": "", "meta": map[string]any{}}, out)
}

func TestFormat_LeavesUnconvertibleValues(t *testing.T) {
	out := Format(map[string]any{"n": "abc", "b": "maybe"}, sampleMap(), sampleRefs(), Options{}).(map[string]any)
	assert.Equal(t, "abc", out["n"])
	assert.Equal(t, "maybe", out["b"])

	fixed := Format(map[string]any{"n": "abc"}, sampleMap(), sampleRefs(), Options{FixErrors: true}).(map[string]any)
	assert.Equal(t, 0.0, fixed["n"])
}

func TestFormat_CompletesDateTimes(t *testing.T) {
	cases := map[string]string{
		"2000-03-14T01:59:26.535": "2000-03-14T01:59:26.535Z",
		"2000-03-14T01:59":        "2000-03-14T01:59:00Z",
		"2000-03-14T01:59:00Z":    "2000-03-14T01:59:00Z",
	}
	for in, want := range cases {
		out := Format(map[string]any{"when": in}, sampleMap(), sampleRefs(), Options{}).(map[string]any)
		assert.Equal(t, want, out["when"], in)
	}
	out := Format(map[string]any{"when": "2000-03-14"}, sampleMap(), sampleRefs(), Options{FixErrors: true}).(map[string]any)
	assert.Equal(t, "2000-03-14T00:00:00Z", out["when"])
}

func TestFormat_NullType(t *testing.T) {
	out := Format(map[string]any{"nothing": "x"}, sampleMap(), sampleRefs(), Options{}).(map[string]any)
	v, ok := out["nothing"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestFormat_IsStableOnTypedDefaults(t *testing.T) {
	dm := Map{"": {SchemaType: "object"}, "/n": {SchemaType: "number"}, "/b": {SchemaType: "boolean"}}
	defaults := map[string]any{"n": 0.0, "b": false}
	once := Format(defaults, dm, nil, Options{})
	assert.Equal(t, defaults, once)
	assert.Equal(t, once, Format(once, dm, nil, Options{}))
}

func TestFormat_RecursiveDataUsesCanonicalEntries(t *testing.T) {
	rc := refs.NewContext()
	rc.DataRecursiveRefMap["/tree/children/-"] = "/tree"
	rc.ArrayMap["/tree/children"] = 0
	dm := Map{
		"/tree":          {SchemaType: "object"},
		"/tree/name":     {SchemaType: "string"},
		"/tree/size":     {SchemaType: "number"},
		"/tree/children": {SchemaType: "array"},
	}
	raw := map[string]any{"tree": map[string]any{"children": []any{
		map[string]any{"size": "2", "children": []any{map[string]any{"size": "7"}}},
	}}}
	out := Format(raw, dm, rc, Options{})
	assert.Equal(t, map[string]any{"tree": map[string]any{"children": []any{
		map[string]any{"size": 2.0, "children": []any{map[string]any{"size": 7.0}}},
	}}}, out)
}

func TestFormat_ScalarPassThrough(t *testing.T) {
	assert.Equal(t, "x", Format("x", Map{}, nil, Options{}))
}

func TestSchemaFromData(t *testing.T) {
	data := map[string]any{
		"name":  "Ada",
		"age":   36.0,
		"tags":  []any{"a", "b"},
		"mixed": []any{1.0, "x"},
		"none":  nil,
	}
	s := SchemaFromData(data, true)
	assert.Equal(t, "http://json-schema.org/draft-06/schema#", s["$schema"])
	assert.Equal(t, "object", s["type"])
	props := s["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string"}, props["name"])
	assert.Equal(t, map[string]any{"type": "number"}, props["age"])
	assert.Equal(t, map[string]any{"type": "string"}, props["none"])
	assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1}, props["tags"])
	mixed := props["mixed"].(map[string]any)
	require.IsType(t, []any{}, mixed["items"])
	assert.Len(t, mixed["items"], 2)
	assert.Equal(t, []any{"age", "mixed", "name", "none", "tags"}, s["required"])
}
