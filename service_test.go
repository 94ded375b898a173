package jsonform_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonform "github.com/reoring/jsonform"
	"github.com/reoring/jsonform/internal/logging"
	"github.com/reoring/jsonform/layout"
)

func newService(t *testing.T) *jsonform.Service {
	t.Helper()
	s, err := jsonform.NewService(jsonform.WithLogger(logging.Nop()))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func nameSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			"age":  map[string]any{"type": "integer"},
		},
	}
}

func TestService_Phases(t *testing.T) {
	s := newService(t)
	assert.Equal(t, jsonform.PhaseUninitialized, s.Phase())

	require.NoError(t, s.SetOptions(map[string]any{"addSubmit": false}))
	assert.Equal(t, jsonform.PhaseOptionsReady, s.Phase())

	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema()}))
	assert.Equal(t, jsonform.PhaseActivated, s.Phase())
	assert.NotEmpty(t, s.SessionID())

	s.ResetAllValues()
	assert.Equal(t, jsonform.PhaseUninitialized, s.Phase())
	assert.Nil(t, s.Value())
	assert.Nil(t, s.Layout())
	assert.False(t, s.IsValid())
	assert.ErrorIs(t, s.SetFormValues(map[string]any{}, false), jsonform.ErrNotInitialized)
}

func TestService_NoSchema(t *testing.T) {
	s := newService(t)
	err := s.Initialize(jsonform.Input{})
	assert.ErrorIs(t, err, jsonform.ErrNoSchema)
	assert.NotEqual(t, jsonform.PhaseActivated, s.Phase())
}

func TestService_SchemaFromData(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{Data: map[string]any{"city": "Oslo", "zip": 42.0}}))
	props, ok := s.Schema()["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "city")
	assert.Contains(t, props, "zip")
	assert.Equal(t, map[string]any{"city": "Oslo", "zip": 42.0}, s.Value())
}

func TestService_ValidityFollowsValues(t *testing.T) {
	s := newService(t)
	var validity []bool
	s.IsValidChanges.Subscribe(func(v bool) { validity = append(validity, v) })

	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{}}))
	assert.False(t, s.IsValid())
	assert.Contains(t, s.ValidationErrors(), "/name")
	assert.Nil(t, s.ValidData())

	require.NoError(t, s.SetFormValues(map[string]any{"name": "Ada", "age": 36.0}, false))
	assert.True(t, s.IsValid())
	assert.Nil(t, s.ValidationErrors())
	assert.Equal(t, "Ada", s.ValidData().(map[string]any)["name"])
	require.NotEmpty(t, validity)
	assert.True(t, validity[len(validity)-1])
}

func TestService_DataChangesOnEdit(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.SetOptions(map[string]any{"addSubmit": false}))
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{"name": "a"}}))

	var last any
	s.DataChanges.Subscribe(func(v any) { last = v })

	node := findNode(s.Layout(), "/name")
	require.NotNil(t, node)
	ctx := &jsonform.WidgetContext{LayoutNode: node}
	require.True(t, s.UpdateValue(ctx, "Grace"))
	assert.Equal(t, "Grace", last.(map[string]any)["name"])
	assert.Equal(t, "Grace", s.GetFormControlValue(ctx))
	assert.Equal(t, "name", s.GetFormControlName(ctx))
}

func TestService_ScalarSchemaIsWrapped(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{
		Schema: map[string]any{"type": "string", "minLength": 2},
		Data:   "hello",
	}))
	assert.True(t, s.ObjectWrap())
	props := s.Schema()["properties"].(map[string]any)
	assert.Contains(t, props, "1")
	assert.Equal(t, "hello", s.Value())
	assert.Equal(t, map[string]any{"1": "hello"}, s.Data())
	assert.True(t, s.IsValid())

	require.NoError(t, s.SetFormValues("x", true))
	assert.Equal(t, "x", s.Value())
	assert.False(t, s.IsValid())
}

func TestService_Submit(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{}}))

	_, err := s.Submit()
	require.Error(t, err)
	assert.ErrorIs(t, err, jsonform.ErrInvalid)
	iss, ok := jsonform.AsIssues(err)
	require.True(t, ok)
	assert.NotEmpty(t, iss)
	assert.True(t, s.FormGroup().Touched())

	var submitted any
	s.Submits.Subscribe(func(v any) { submitted = v })
	require.NoError(t, s.SetFormValues(map[string]any{"name": "Ada"}, false))
	v, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, v, submitted)
}

func TestService_SubmitInvalidAllowed(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.SetOptions(map[string]any{"disableInvalidSubmit": false}))
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{}}))
	_, err := s.Submit()
	assert.NoError(t, err)
}

func TestService_BuildRemoteError(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{"name": "Ada"}}))

	iss := s.BuildRemoteError(map[string][]jsonform.RemoteError{
		"name":    {{Code: "taken", Message: "name is taken"}, {Code: "short", Message: "too short"}},
		"missing": {{Code: "x", Message: "ignored"}},
	})
	require.Len(t, iss, 2)
	assert.Equal(t, "/name", iss[0].Path)

	node := findNode(s.Layout(), "/name")
	c := s.GetFormControl(&jsonform.WidgetContext{LayoutNode: node})
	require.NotNil(t, c)
	assert.Equal(t, map[string]any{"taken": "name is taken", "short": "too short"}, c.Errors())
}

func TestService_Language(t *testing.T) {
	s := newService(t)
	s.SetLanguage("de-AT")
	assert.Equal(t, "de", s.Language())
	s.SetLanguage("xx")
	assert.Equal(t, "en", s.Language())
}

func TestService_SetFramework(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.SetFramework("bootstrap-4"))
	assert.Equal(t, "bootstrap-4", s.Options().Framework)
	assert.Error(t, s.SetFramework("nope"))
	assert.Equal(t, "bootstrap-4", s.Options().Framework)
}

func TestService_InputTheme(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{
		Schema:    nameSchema(),
		Framework: "bootstrap-5",
		Theme:     "bootstrap-5-dark",
	}))
	active, ok := s.Frameworks().ActiveTheme()
	require.True(t, ok)
	assert.Equal(t, "bootstrap-5-light", active)
	require.True(t, s.Frameworks().ConfirmTheme("bootstrap-5-dark"))
	active, _ = s.Frameworks().ActiveTheme()
	assert.Equal(t, "bootstrap-5-dark", active)
}

func TestService_ReinitializeDropsOldSubscriptions(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{"name": "a"}}))
	oldRoot := s.FormGroup()
	oldID := s.SessionID()

	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{"name": "b"}}))
	assert.NotEqual(t, oldID, s.SessionID())

	oldRoot.SetValue(map[string]any{"name": "stale", "age": 1.0})
	assert.Equal(t, "b", s.Value().(map[string]any)["name"])
}

func TestService_BuildsErrorsAsIssues(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: nameSchema(), Data: map[string]any{"name": ""}}))
	require.False(t, s.IsValid())
	var target jsonform.Issues
	_, err := s.Submit()
	assert.True(t, errors.As(err, &target))
}

func findNode(nodes []*layout.Node, dataPointer string) *layout.Node {
	var hit *layout.Node
	for _, n := range nodes {
		n.Walk(func(c *layout.Node) {
			if hit == nil && c.DataPointer == dataPointer && !c.IsRef() {
				hit = c
			}
		})
	}
	return hit
}

func TestService_PolicyOptions(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string", "default": "DEF"},
			"b": map[string]any{"type": "string"},
		},
	}

	s := newService(t)
	require.NoError(t, s.SetOptions(map[string]any{"setSchemaDefaults": true, "addSubmit": false}))
	require.NoError(t, s.Initialize(jsonform.Input{Schema: schema, Data: map[string]any{"b": "x"}}))
	assert.Equal(t, "DEF", s.Value().(map[string]any)["a"], "defaults apply even with values")
	require.Len(t, s.Layout(), 2)
	for _, n := range s.Layout() {
		assert.NotEqual(t, "submit", n.Type)
	}

	s = newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{Schema: schema, Data: map[string]any{"b": "x"}}))
	assert.Nil(t, s.Value().(map[string]any)["a"], "auto skips defaults when values were given")
	assert.Equal(t, "submit", s.Layout()[len(s.Layout())-1].Type)
}

func TestService_ValidationErrorsUseFullPointers(t *testing.T) {
	numbers := map[string]any{"type": "array", "items": map[string]any{"type": "number", "maximum": 5.0}}
	s := newService(t)
	require.NoError(t, s.Initialize(jsonform.Input{
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"list": numbers, "other": numbers},
		},
		Data: map[string]any{"list": []any{1.0, 9.0}, "other": []any{9.0, 1.0}},
	}))
	errs := s.ValidationErrors()
	assert.Contains(t, errs, "/list/1")
	assert.Contains(t, errs, "/other/0")
	assert.NotContains(t, errs, "/1")
	assert.NotContains(t, errs, "/0")
}
