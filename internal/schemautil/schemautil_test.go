package schemautil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixTitle(t *testing.T) {
	assert.Equal(t, "First Name", FixTitle("firstName"))
	assert.Equal(t, "Date of Birth", FixTitle("date_of_birth"))
	assert.Equal(t, "The End", FixTitle("the end"))
	assert.Equal(t, "URL Path", FixTitle("URL path"))
	assert.Equal(t, "", FixTitle(""))
}

func TestPropertyOrder(t *testing.T) {
	props := map[string]any{"c": map[string]any{}, "a": map[string]any{}, "b": map[string]any{}}
	assert.Equal(t, []string{"a", "b", "c"}, PropertyOrder(map[string]any{"properties": props}))
	assert.Equal(t, []string{"c", "a", "b"},
		PropertyOrder(map[string]any{"properties": props, OrderKey: []any{"c"}}))
	assert.Equal(t, []string{"a", "b", "c"},
		PropertyOrder(map[string]any{"properties": props, OrderKey: []any{"*", "c"}}))
	assert.Equal(t, []string{"b", "a", "c"},
		PropertyOrder(map[string]any{"properties": props, OrderKey: []any{"b", "missing"}}))
}

func TestInputType(t *testing.T) {
	tests := []struct {
		name   string
		schema map[string]any
		want   string
	}{
		{"boolean", map[string]any{"type": "boolean"}, "checkbox"},
		{"object", map[string]any{"type": "object", "properties": map[string]any{}}, "section"},
		{"list", map[string]any{"type": "array", "items": map[string]any{"type": "string"}}, "array"},
		{"enum list", map[string]any{"type": "array", "items": map[string]any{"enum": []any{"a"}}}, "checkboxes"},
		{"enum", map[string]any{"type": "string", "enum": []any{"a"}}, "select"},
		{"range", map[string]any{"type": "integer", "minimum": 1.0, "maximum": 5.0}, "range"},
		{"number", map[string]any{"type": "number"}, "number"},
		{"email", map[string]any{"type": "string", "format": "email"}, "email"},
		{"date-time", map[string]any{"type": "string", "format": "date-time"}, "datetime-local"},
		{"widget hint", map[string]any{"type": "string", "x-schema-form": map[string]any{"type": "textarea"}}, "textarea"},
		{"inline radios", map[string]any{"type": "string", "widget": "radios", "x-schema-form": map[string]any{"inline": true}}, "radios-inline"},
		{"null", map[string]any{"type": "null"}, "none"},
		{"one-of", map[string]any{"oneOf": []any{map[string]any{"type": "string"}}}, "one-of"},
		{"marker", map[string]any{"$ref": "#/properties/a"}, "$ref"},
		{"multi type", map[string]any{"type": []any{"string", "null"}}, "text"},
	}
	for _, tt := range tests {
		t.Run("Should detect "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InputType(tt.schema, nil))
		})
	}
}

func TestIsInputRequired(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a":    map[string]any{"type": "string"},
			"b":    map[string]any{"type": "string"},
			"list": map[string]any{"type": "array", "minItems": 2.0, "items": []any{map[string]any{}, map[string]any{}, map[string]any{}}},
		},
	}
	assert.True(t, IsInputRequired(schema, "/properties/a"))
	assert.False(t, IsInputRequired(schema, "/properties/b"))
	assert.True(t, IsInputRequired(schema, "/properties/list/items/1"))
	assert.False(t, IsInputRequired(schema, "/properties/list/items/2"))
}

func TestMergeSchemas(t *testing.T) {
	merged, ok := MergeSchemas(
		map[string]any{"type": []any{"string", "null"}, "required": []any{"a"}, "minLength": 1.0,
			"properties": map[string]any{"a": map[string]any{"type": "string"}}},
		map[string]any{"type": "string", "required": []any{"b"}, "minLength": 3.0, "title": "T",
			"properties": map[string]any{"a": map[string]any{"maxLength": 4.0}}},
	)
	assert.True(t, ok)
	assert.Equal(t, map[string]any{
		"type":       "string",
		"required":   []any{"a", "b"},
		"minLength":  3.0,
		"title":      "T",
		"properties": map[string]any{"a": map[string]any{"type": "string", "maxLength": 4.0}},
	}, merged)

	_, ok = MergeSchemas(map[string]any{"type": "string"}, map[string]any{"type": "number"})
	assert.False(t, ok)
	_, ok = MergeSchemas(map[string]any{"pattern": "a"}, map[string]any{"pattern": "b"})
	assert.False(t, ok)
}

func TestInputOptions(t *testing.T) {
	schema := map[string]any{
		"type":          "integer",
		"title":         "Age",
		"x-schema-form": map[string]any{"placeholder": "years", "options": map[string]any{"notitle": true}},
	}
	opts := InputOptions(
		map[string]any{"key": "age", "htmlClass": "x"},
		map[string]any{"title": "Your age"},
		schema,
		map[string]any{"addable": true},
	)
	assert.Equal(t, "Your age", opts["title"])
	assert.Equal(t, "years", opts["placeholder"])
	assert.Equal(t, true, opts["notitle"])
	assert.Equal(t, "x", opts["htmlClass"])
	assert.Equal(t, true, opts["addable"])
	assert.Equal(t, 1.0, opts["multipleOf"])
	_, leaked := opts["key"]
	assert.False(t, leaked)
}
