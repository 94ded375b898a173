package jsonform

import (
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/jsonpointer"
)

// Compat records which legacy input dialects a form was given in.
type Compat uint8

const (
	// CompatJSONForm marks JSON Form style input: {schema, form, value} and
	// schemas written as a bare property map.
	CompatJSONForm Compat = 1 << iota
	// CompatReactJSONSchemaForm marks {JSONSchema, UISchema, formData} input.
	CompatReactJSONSchemaForm
	// CompatAngularSchemaForm marks {schema, form as layout, model} input.
	CompatAngularSchemaForm
)

// Has reports whether all flags in f are set.
func (c Compat) Has(f Compat) bool { return c&f == f }

func (c Compat) String() string {
	var names []string
	if c.Has(CompatJSONForm) {
		names = append(names, "JSONForm")
	}
	if c.Has(CompatReactJSONSchemaForm) {
		names = append(names, "ReactJSONSchemaForm")
	}
	if c.Has(CompatAngularSchemaForm) {
		names = append(names, "AngularSchemaForm")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Input is everything a host can hand to a form. Schema, layout and data
// may each arrive through several fields; Canonicalize picks one of each.
type Input struct {
	Schema  any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Layout  any `json:"layout,omitempty" yaml:"layout,omitempty"`
	Data    any `json:"data,omitempty" yaml:"data,omitempty"`
	Model   any `json:"model,omitempty" yaml:"model,omitempty"`
	NgModel any `json:"ngModel,omitempty" yaml:"ngModel,omitempty"`
	// Form is a combined input: a layout array, or an object with any of
	// schema, form, layout, value, data, model, formData, JSONSchema,
	// UISchema, uiSchema or customFormItems.
	Form       any            `json:"form,omitempty" yaml:"form,omitempty"`
	JSONSchema any            `json:"JSONSchema,omitempty" yaml:"JSONSchema,omitempty"`
	UISchema   any            `json:"UISchema,omitempty" yaml:"UISchema,omitempty"`
	Options    map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Framework  string         `json:"framework,omitempty" yaml:"framework,omitempty"`
	Widgets    map[string]any `json:"widgets,omitempty" yaml:"widgets,omitempty"`
	Language   string         `json:"language,omitempty" yaml:"language,omitempty"`

	LoadExternalAssets *bool  `json:"loadExternalAssets,omitempty" yaml:"loadExternalAssets,omitempty"`
	Debug              *bool  `json:"debug,omitempty" yaml:"debug,omitempty"`
	Theme              string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Canonical is an Input reduced to one schema, one layout and one data value.
type Canonical struct {
	Schema map[string]any
	// Layout is nil when the layout should be generated from the schema.
	Layout []any
	// AltLayout is a ui-schema whose options are merged into the schema.
	AltLayout map[string]any
	Data      any
	// DataSource names the field Data came from ("" when none).
	DataSource string
	Compat     Compat
}

// Canonicalize resolves an Input once. Inputs are deep-copied; the caller
// keeps ownership of what it passed in.
func Canonicalize(in Input) Canonical {
	var c Canonical
	form, _ := in.Form.(map[string]any)

	switch {
	case isObject(in.Schema):
		c.Compat |= CompatAngularSchemaForm
		c.Schema = cloneMap(in.Schema)
	case isObject(form["schema"]):
		c.Schema = cloneMap(form["schema"])
	case isObject(in.JSONSchema):
		c.Compat |= CompatReactJSONSchemaForm
		c.Schema = cloneMap(in.JSONSchema)
	case isObject(form["JSONSchema"]):
		c.Compat |= CompatReactJSONSchemaForm
		c.Schema = cloneMap(form["JSONSchema"])
	case isObject(form["properties"]):
		c.Schema = cloneMap(form)
	}

	switch {
	case isArray(in.Layout):
		c.Layout = cloneList(in.Layout)
	case isArray(in.Form):
		c.Compat |= CompatAngularSchemaForm
		c.Layout = cloneList(in.Form)
	case isArray(form["form"]):
		c.Compat |= CompatJSONForm
		c.Layout = fixJSONFormOptions(cloneList(form["form"]))
	case isArray(form["layout"]):
		c.Layout = cloneList(form["layout"])
	}

	switch {
	case isObject(in.UISchema):
		c.Compat |= CompatReactJSONSchemaForm
		c.AltLayout = cloneMap(in.UISchema)
	case isObject(form["UISchema"]):
		c.Compat |= CompatReactJSONSchemaForm
		c.AltLayout = cloneMap(form["UISchema"])
	case isObject(form["uiSchema"]):
		c.Compat |= CompatReactJSONSchemaForm
		c.AltLayout = cloneMap(form["uiSchema"])
	case isObject(form["customFormItems"]):
		c.AltLayout = cloneMap(form["customFormItems"])
	}

	switch {
	case jsonvalue.HasValue(in.Data):
		c.Data, c.DataSource = deepcopy.Copy(in.Data), "data"
	case jsonvalue.HasValue(in.Model):
		c.Compat |= CompatAngularSchemaForm
		c.Data, c.DataSource = deepcopy.Copy(in.Model), "model"
	case jsonvalue.HasValue(in.NgModel):
		c.Compat |= CompatAngularSchemaForm
		c.Data, c.DataSource = deepcopy.Copy(in.NgModel), "ngModel"
	case jsonvalue.HasValue(form["value"]):
		c.Compat |= CompatJSONForm
		c.Data, c.DataSource = deepcopy.Copy(form["value"]), "form.value"
	case jsonvalue.HasValue(form["data"]):
		c.Data, c.DataSource = deepcopy.Copy(form["data"]), "form.data"
	case jsonvalue.HasValue(form["model"]):
		c.Compat |= CompatAngularSchemaForm
		c.Data, c.DataSource = deepcopy.Copy(form["model"]), "form.model"
	case jsonvalue.HasValue(form["formData"]):
		c.Compat |= CompatReactJSONSchemaForm
		c.Data, c.DataSource = deepcopy.Copy(form["formData"]), "form.formData"
	}
	return c
}

// objectRoot gives a schema an object root. It reports true when the
// schema (and so the data) had to be wrapped under the key "1". A bare map
// of property schemas, as JSON Form allows, becomes the properties of a new
// object schema.
func objectRoot(schema map[string]any) (map[string]any, bool, bool) {
	if len(schema) == 0 {
		return schema, false, false
	}
	if types := jsonvalue.Strings(schema["type"]); len(types) > 1 && jsonvalue.Contains(types, "object") {
		schema["type"] = "object"
	}
	if t, ok := schema["type"]; ok {
		if t == "object" {
			return schema, false, false
		}
		wrapped := map[string]any{"type": "object", "properties": map[string]any{"1": schema}}
		// Keep definitions at the root so local references still resolve.
		for _, k := range []string{"$schema", "definitions", "$defs"} {
			if v, ok := schema[k]; ok {
				wrapped[k] = v
				delete(schema, k)
			}
		}
		return wrapped, true, false
	}
	if isObject(schema["properties"]) || isObject(schema["patternProperties"]) || isObject(schema["additionalProperties"]) {
		schema["type"] = "object"
		return schema, false, false
	}
	return map[string]any{"type": "object", "properties": schema}, false, true
}

// fixJSONFormOptions renames JSON Form's "options" (a title map) to
// "titleMap" throughout a layout.
func fixJSONFormOptions(layout []any) []any {
	jsonpointer.ForEachDeep(layout, func(v any, _ string) {
		m, ok := v.(map[string]any)
		if !ok {
			return
		}
		if opts, ok := m["options"]; ok && (isObject(opts) || isArray(opts)) {
			m["titleMap"] = opts
			delete(m, "options")
		}
	}, false)
	return layout
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

func cloneMap(v any) map[string]any {
	m, _ := deepcopy.Copy(v).(map[string]any)
	return m
}

func cloneList(v any) []any {
	l, _ := deepcopy.Copy(v).([]any)
	return l
}
