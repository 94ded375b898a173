package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonform/control"
	"github.com/reoring/jsonform/formdata"
	"github.com/reoring/jsonform/layout"
	"github.com/reoring/jsonform/refs"
)

// compile runs the layout and template builders the way a form does.
func compile(t *testing.T, schema map[string]any, values any, cfg Config) (*Builder, *Template, []*layout.Node) {
	t.Helper()
	resolved, rc := refs.Resolve(schema)
	dm := formdata.Map{}
	lb := layout.NewBuilder(layout.Config{
		Schema:               resolved,
		Refs:                 rc,
		Values:               values,
		DefaultWidgetOptions: map[string]any{"addable": true, "orderable": true, "removable": true},
		DataMap:              dm,
	})
	nodes := lb.Build(nil)
	cfg.Schema, cfg.Refs, cfg.DataMap = resolved, rc, dm
	tb := NewBuilder(cfg)
	return tb, tb.Build(values, true), nodes
}

var personSchema = map[string]any{
	"type":     "object",
	"required": []any{"name"},
	"properties": map[string]any{
		"name": map[string]any{"type": "string", "minLength": 2.0},
		"age":  map[string]any{"type": "integer", "minimum": 0.0, "default": 30.0},
		"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "maxItems": 3.0},
	},
}

func TestBuild_GroupWithValidators(t *testing.T) {
	_, tpl, _ := compile(t, personSchema, nil, Config{})

	require.Equal(t, KindGroup, tpl.Kind)
	assert.Equal(t, []string{"age", "name", "tags"}, tpl.Keys)

	name := tpl.Child("name")
	assert.Equal(t, KindControl, name.Kind)
	assert.Equal(t, map[string]any{"type": "string", "minLength": 2.0, "required": true}, name.Validators)
	assert.Equal(t, "", name.Value)

	assert.Equal(t, 30.0, tpl.Child("age").Value)

	tags := tpl.Child("tags")
	assert.Equal(t, KindArray, tags.Kind)
	assert.Equal(t, map[string]any{"maxItems": 3.0}, tags.Validators)
	require.Len(t, tags.Items, 1, "one blank item, matching the layout")
}

func TestBuild_ValuesWinOverDefaults(t *testing.T) {
	values := map[string]any{"name": "ann", "tags": []any{"a", "b"}}
	b, tpl, _ := compile(t, personSchema, values, Config{})

	assert.Equal(t, "ann", tpl.Child("name").Value)
	assert.Nil(t, tpl.Child("age").Value, "auto skips defaults when values were given")
	require.Len(t, tpl.Child("tags").Items, 2)
	assert.Equal(t, "b", tpl.Child("tags").Items[1].Value)

	item, ok := b.Item("/tags/-")
	require.True(t, ok)
	assert.Equal(t, "", item.Value, "added items take defaults")

	entry, ok := b.cfg.DataMap.Lookup("/tags")
	require.True(t, ok)
	assert.Equal(t, "FormArray", entry.TemplateType)
}

func TestBuild_DefaultPolicies(t *testing.T) {
	values := map[string]any{"name": "ann"}

	_, tpl, _ := compile(t, personSchema, values, Config{SetSchemaDefaults: true})
	assert.Equal(t, 30.0, tpl.Child("age").Value)

	_, tpl, _ = compile(t, personSchema, nil, Config{SetSchemaDefaults: false})
	assert.Nil(t, tpl.Child("age").Value)

	_, tpl, _ = compile(t, personSchema, nil, Config{LayoutDefaults: map[string]any{"/age": 7.0}})
	assert.Equal(t, 7.0, tpl.Child("age").Value)
}

func TestBuild_CheckboxArrayIsSingleControl(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"colors": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items":       map[string]any{"type": "string", "enum": []any{"red", "blue"}},
			},
		},
	}
	_, tpl, _ := compile(t, schema, map[string]any{"colors": []any{"red"}}, Config{})
	colors := tpl.Child("colors")
	assert.Equal(t, KindControl, colors.Kind)
	assert.Equal(t, []any{"red"}, colors.Value)
	assert.Equal(t, true, colors.Validators["uniqueItems"])
}

func TestBuild_RecursiveRefUsesLibrary(t *testing.T) {
	schema := map[string]any{
		"definitions": map[string]any{
			"node": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"label":    map[string]any{"type": "string"},
					"children": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/node"}},
				},
			},
		},
		"type":       "object",
		"properties": map[string]any{"tree": map[string]any{"$ref": "#/definitions/node"}},
	}
	b, tpl, _ := compile(t, schema, nil, Config{})

	tree := tpl.Child("tree")
	require.NotNil(t, tree)
	require.Equal(t, KindGroup, tree.Kind)
	children := tree.Child("children")
	require.NotNil(t, children)
	assert.Empty(t, children.Items, "recursive items are only created on demand")

	ref, recursive := b.ItemRef("/tree/children/-")
	assert.True(t, recursive)
	item, ok := b.Item(ref)
	require.True(t, ok)
	assert.Equal(t, KindGroup, item.Kind)
	assert.Contains(t, item.Keys, "label")
}

func TestBuildFormGroup(t *testing.T) {
	values := map[string]any{"name": "a", "tags": []any{"x"}}
	_, tpl, _ := compile(t, personSchema, values, Config{})

	c := BuildFormGroup(tpl)
	require.NotNil(t, c)
	assert.Equal(t, control.Invalid, c.Status())

	name, ok := control.Get(c, "/name")
	require.True(t, ok)
	assert.Contains(t, name.Errors(), "minLength")

	name.SetValue("ann")
	assert.Equal(t, control.Valid, c.Status())
	assert.Equal(t, map[string]any{"name": "ann", "age": nil, "tags": []any{"x"}}, c.Value())
}

func TestBuildFormGroup_Disabled(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string", "readOnly": true},
			"note": map[string]any{"type": "string"},
		},
	}
	_, tpl, _ := compile(t, schema, map[string]any{"id": "x1", "note": "hi"}, Config{})
	assert.True(t, tpl.Child("id").Disabled)

	c := BuildFormGroup(tpl)
	assert.Equal(t, map[string]any{"note": "hi"}, c.Value())
	assert.Nil(t, BuildFormGroup(&Template{Kind: KindRef, Ref: "/x"}))
}

func TestTemplate_CloneAndWalk(t *testing.T) {
	_, tpl, _ := compile(t, personSchema, nil, Config{})
	cp := tpl.Clone()
	cp.Child("name").Value = "changed"
	assert.Equal(t, "", tpl.Child("name").Value)

	var kinds []Kind
	tpl.Walk(func(n *Template) { kinds = append(kinds, n.Kind) })
	assert.Equal(t, []Kind{KindGroup, KindControl, KindControl, KindArray, KindControl}, kinds)
}

func TestBuild_RecursiveValuesAreKept(t *testing.T) {
	schema := map[string]any{
		"definitions": map[string]any{
			"node": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"label":    map[string]any{"type": "string"},
					"children": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/node"}},
					"next":     map[string]any{"$ref": "#/definitions/node"},
				},
			},
		},
		"type":       "object",
		"properties": map[string]any{"tree": map[string]any{"$ref": "#/definitions/node"}},
	}
	values := map[string]any{"tree": map[string]any{
		"label":    "a",
		"children": []any{map[string]any{"label": "b"}, map[string]any{"label": "c"}},
		"next":     map[string]any{"label": "d"},
	}}
	_, tpl, _ := compile(t, schema, values, Config{})

	children := tpl.Child("tree").Child("children")
	require.Len(t, children.Items, 2, "one item per value, no padding")
	assert.Equal(t, "c", children.Items[1].Child("label").Value)

	next := tpl.Child("tree").Child("next")
	require.Equal(t, KindGroup, next.Kind)
	assert.Equal(t, "d", next.Child("label").Value)
	assert.Equal(t, KindRef, next.Child("next").Kind, "no data below, stays a reference")

	c := BuildFormGroup(tpl)
	label, ok := control.Get(c, "/tree/next/label")
	require.True(t, ok)
	assert.Equal(t, "d", label.Value())
}
