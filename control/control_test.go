package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func person() *FormGroup {
	return NewFormGroup([]string{"name", "tags"}, map[string]Control{
		"name": NewFormControl("ann", Required()),
		"tags": NewFormArray([]Control{NewFormControl("a"), NewFormControl("b")}),
	})
}

func TestFormGroup_ValueFollowsChildren(t *testing.T) {
	g := person()
	assert.Equal(t, map[string]any{"name": "ann", "tags": []any{"a", "b"}}, g.Value())
	assert.Equal(t, []string{"name", "tags"}, g.Keys())

	name, ok := g.Get("name")
	require.True(t, ok)
	name.SetValue("bob")
	assert.Equal(t, "bob", g.Value().(map[string]any)["name"])
}

func TestFormGroup_StatusBubblesUp(t *testing.T) {
	g := person()
	assert.Equal(t, Valid, g.Status())

	name, _ := g.Get("name")
	name.SetValue("")
	assert.Equal(t, Invalid, name.Status())
	assert.Equal(t, map[string]any{"required": true}, name.Errors())
	assert.Equal(t, Invalid, g.Status())

	name.Disable()
	assert.Equal(t, Disabled, name.Status())
	assert.Equal(t, Valid, g.Status())
	assert.NotContains(t, g.Value().(map[string]any), "name")
	assert.False(t, g.Contains("name"))
}

func TestFormGroup_AllDisabledKeepsValue(t *testing.T) {
	g := person()
	g.Disable()
	assert.Equal(t, Disabled, g.Status())
	assert.Equal(t, map[string]any{"name": "ann", "tags": []any{"a", "b"}}, g.Value())
}

func TestFormGroup_SetPatchReset(t *testing.T) {
	g := person()
	g.PatchValue(map[string]any{"name": "cy"})
	assert.Equal(t, map[string]any{"name": "cy", "tags": []any{"a", "b"}}, g.Value())

	g.SetValue(map[string]any{"tags": []any{"x"}})
	assert.Equal(t, map[string]any{"name": nil, "tags": []any{"x", nil}}, g.Value())

	name, _ := g.Get("name")
	name.MarkAsDirty()
	assert.True(t, g.Dirty())
	g.Reset(map[string]any{"name": "z"})
	assert.False(t, g.Dirty())
	assert.False(t, name.Dirty())
	assert.Equal(t, "z", g.Value().(map[string]any)["name"])
}

func TestFormGroup_AddRemoveControl(t *testing.T) {
	g := person()
	g.AddControl("age", NewFormControl(3.0))
	g.AddControl("age", NewFormControl(9.0))
	assert.Equal(t, 3.0, g.Value().(map[string]any)["age"])

	g.SetControl("age", NewFormControl(4.0))
	assert.Equal(t, 4.0, g.Value().(map[string]any)["age"])

	g.RemoveControl("name")
	assert.Equal(t, []string{"tags", "age"}, g.Keys())
	assert.NotContains(t, g.Value().(map[string]any), "name")
}

func TestFormArray_Mutations(t *testing.T) {
	a := NewFormArray([]Control{NewFormControl(1.0), NewFormControl(2.0), NewFormControl(3.0)})
	a.Push(NewFormControl(4.0))
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0}, a.Value())

	a.Insert(0, NewFormControl(0.0))
	assert.Equal(t, []any{0.0, 1.0, 2.0, 3.0, 4.0}, a.Value())

	require.NoError(t, a.Move(0, 4))
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0, 0.0}, a.Value())

	require.NoError(t, a.RemoveAt(4))
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0}, a.Value())
	assert.Error(t, a.RemoveAt(9))
	assert.Error(t, a.Move(0, 9))

	a.PatchValue([]any{9.0})
	assert.Equal(t, []any{9.0, 2.0, 3.0, 4.0}, a.Value())

	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, []any{}, a.Value())
}

func TestUpdate_EmitsThroughAncestors(t *testing.T) {
	g := person()
	var groupValues []any
	var statuses []Status
	g.ValueChanges().Subscribe(func(v any) { groupValues = append(groupValues, v) })
	g.StatusChanges().Subscribe(func(s Status) { statuses = append(statuses, s) })

	tags, _ := g.Get("tags")
	first, _ := tags.(*FormArray).At(0)
	first.SetValue("z")
	require.Len(t, groupValues, 1)
	assert.Equal(t, []any{"z", "b"}, groupValues[0].(map[string]any)["tags"])

	first.SetValue("q", NoEmit())
	assert.Len(t, groupValues, 1)

	first.SetValue("r", OnlySelf())
	assert.Len(t, groupValues, 1)
	assert.Equal(t, []Status{Valid}, statuses)
}

func TestSetErrors_UpdatesParentStatus(t *testing.T) {
	g := person()
	name, _ := g.Get("name")
	name.SetErrors(map[string]any{"server": "taken"})
	assert.Equal(t, Invalid, name.Status())
	assert.Equal(t, Invalid, g.Status())
}

func TestGet_ByDataPointer(t *testing.T) {
	g := person()
	c, ok := Get(g, "/tags/1")
	require.True(t, ok)
	assert.Equal(t, "b", c.Value())

	root, ok := Get(g, "")
	require.True(t, ok)
	assert.Same(t, g, root)

	_, ok = Get(g, "/tags/7")
	assert.False(t, ok)
	_, ok = Get(g, "/name/x")
	assert.False(t, ok)

	parent, key, ok := GetParent(g, "/tags/0")
	require.True(t, ok)
	assert.Equal(t, "0", key)
	assert.IsType(t, &FormArray{}, parent)

	var pointers []string
	Walk(g, func(p string, _ Control) { pointers = append(pointers, p) })
	assert.Equal(t, []string{"", "/name", "/tags", "/tags/0", "/tags/1"}, pointers)
}

func TestSnapshot_IsDetached(t *testing.T) {
	g := person()
	snap := Snapshot(g).(map[string]any)
	snap["tags"].([]any)[0] = "mutated"
	assert.Equal(t, "a", g.Value().(map[string]any)["tags"].([]any)[0])
	assert.Nil(t, Snapshot(nil))
}
