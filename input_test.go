package jsonform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_Precedence(t *testing.T) {
	schema := map[string]any{"type": "object", "properties": map[string]any{"a": map[string]any{"type": "string"}}}
	other := map[string]any{"type": "object", "properties": map[string]any{"b": map[string]any{"type": "string"}}}

	tests := []struct {
		name       string
		in         Input
		wantProp   string
		wantLayout bool
		wantData   any
		wantSource string
		wantCompat Compat
	}{
		{
			name:       "direct fields win",
			in:         Input{Schema: schema, Data: map[string]any{"a": "x"}, Form: map[string]any{"schema": other, "value": map[string]any{"b": "y"}}},
			wantProp:   "a",
			wantData:   map[string]any{"a": "x"},
			wantSource: "data",
			wantCompat: CompatAngularSchemaForm,
		},
		{
			name:       "json form object",
			in:         Input{Form: map[string]any{"schema": other, "form": []any{"b"}, "value": map[string]any{"b": "y"}}},
			wantProp:   "b",
			wantLayout: true,
			wantData:   map[string]any{"b": "y"},
			wantSource: "form.value",
			wantCompat: CompatJSONForm,
		},
		{
			name:       "react json schema form",
			in:         Input{JSONSchema: schema, UISchema: map[string]any{"a": map[string]any{"ui:widget": "textarea"}}, Form: map[string]any{"formData": map[string]any{"a": "z"}}},
			wantProp:   "a",
			wantData:   map[string]any{"a": "z"},
			wantSource: "form.formData",
			wantCompat: CompatReactJSONSchemaForm,
		},
		{
			name:       "angular schema form",
			in:         Input{Schema: schema, Form: []any{"a"}, Model: map[string]any{"a": "m"}},
			wantProp:   "a",
			wantLayout: true,
			wantData:   map[string]any{"a": "m"},
			wantSource: "model",
			wantCompat: CompatAngularSchemaForm,
		},
		{
			name:       "whole form is the schema",
			in:         Input{Form: other},
			wantProp:   "b",
			wantCompat: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Canonicalize(tt.in)
			require.NotNil(t, c.Schema)
			assert.Contains(t, c.Schema["properties"], tt.wantProp)
			assert.Equal(t, tt.wantLayout, c.Layout != nil)
			assert.Equal(t, tt.wantData, c.Data)
			assert.Equal(t, tt.wantSource, c.DataSource)
			assert.Equal(t, tt.wantCompat, c.Compat)
		})
	}
}

func TestCanonicalize_CopiesInput(t *testing.T) {
	data := map[string]any{"a": "x"}
	c := Canonicalize(Input{Schema: map[string]any{"type": "object"}, Data: data})
	c.Data.(map[string]any)["a"] = "changed"
	assert.Equal(t, "x", data["a"])
}

func TestCanonicalize_JSONFormOptionsBecomeTitleMap(t *testing.T) {
	c := Canonicalize(Input{Form: map[string]any{
		"schema": map[string]any{"color": map[string]any{"type": "string"}},
		"form":   []any{map[string]any{"key": "color", "options": map[string]any{"r": "Red"}}},
	}})
	require.Len(t, c.Layout, 1)
	item := c.Layout[0].(map[string]any)
	assert.Equal(t, map[string]any{"r": "Red"}, item["titleMap"])
	assert.NotContains(t, item, "options")
}

func TestObjectRoot(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		s, wrapped, shorthand := objectRoot(map[string]any{"type": "object"})
		assert.Equal(t, "object", s["type"])
		assert.False(t, wrapped)
		assert.False(t, shorthand)
	})
	t.Run("multi type with object", func(t *testing.T) {
		s, wrapped, _ := objectRoot(map[string]any{"type": []any{"object", "null"}})
		assert.Equal(t, "object", s["type"])
		assert.False(t, wrapped)
	})
	t.Run("scalar is wrapped", func(t *testing.T) {
		s, wrapped, _ := objectRoot(map[string]any{
			"type":        "array",
			"items":       map[string]any{"$ref": "#/definitions/x"},
			"definitions": map[string]any{"x": map[string]any{"type": "string"}},
		})
		assert.True(t, wrapped)
		assert.Contains(t, s, "definitions")
		inner := s["properties"].(map[string]any)["1"].(map[string]any)
		assert.Equal(t, "array", inner["type"])
		assert.NotContains(t, inner, "definitions")
	})
	t.Run("untyped with properties", func(t *testing.T) {
		s, wrapped, shorthand := objectRoot(map[string]any{"properties": map[string]any{}})
		assert.Equal(t, "object", s["type"])
		assert.False(t, wrapped)
		assert.False(t, shorthand)
	})
	t.Run("json form shorthand", func(t *testing.T) {
		s, wrapped, shorthand := objectRoot(map[string]any{"name": map[string]any{"type": "string"}})
		assert.False(t, wrapped)
		assert.True(t, shorthand)
		assert.Contains(t, s["properties"], "name")
	})
}

func TestCompatString(t *testing.T) {
	assert.Equal(t, "none", Compat(0).String())
	assert.Equal(t, "JSONForm|AngularSchemaForm", (CompatJSONForm | CompatAngularSchemaForm).String())
	assert.True(t, (CompatJSONForm | CompatAngularSchemaForm).Has(CompatJSONForm))
	assert.False(t, CompatJSONForm.Has(CompatReactJSONSchemaForm))
}
