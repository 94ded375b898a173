package schemautil

import (
	"strings"

	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/jsonpointer"
)

// OrderKey is the schema keyword listing property display order.
const OrderKey = "ui:order"

// Sub returns the schema object at pointer, or nil.
func Sub(schema any, pointer string) map[string]any {
	v, ok := jsonpointer.Get(schema, pointer)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// Types returns the declared type list of a schema.
func Types(schema map[string]any) []string {
	return jsonvalue.Strings(schema["type"])
}

// PrimaryType picks the most inclusive single type of a schema.
func PrimaryType(schema map[string]any) string {
	types := Types(schema)
	if len(types) == 1 {
		return types[0]
	}
	has := func(k string) bool { _, ok := schema[k]; return ok }
	switch {
	case len(types) == 0:
		switch {
		case has("properties"):
			return "object"
		case has("items"):
			return "array"
		}
		return ""
	case jsonvalue.Contains(types, "object") && has("properties"):
		return "object"
	case jsonvalue.Contains(types, "array") && (has("items") || has("additionalItems")):
		return "array"
	}
	for _, t := range []string{"string", "number", "integer", "boolean", "null"} {
		if jsonvalue.Contains(types, t) {
			return t
		}
	}
	return "unknown"
}

// PropertyOrder returns the property names of an object schema in display
// order. A "ui:order" list wins; "*" in it stands for all unlisted keys.
// Without one, keys are sorted.
func PropertyOrder(schema map[string]any) []string {
	props, _ := schema["properties"].(map[string]any)
	if len(props) == 0 {
		return nil
	}
	order := jsonvalue.Strings(schema[OrderKey])
	if len(order) == 0 {
		if xsf, ok := schema["x-schema-form"].(map[string]any); ok {
			order = jsonvalue.Strings(xsf["order"])
		}
	}
	rest := jsonvalue.SortedKeys(props)
	if len(order) == 0 {
		return rest
	}
	listed := map[string]bool{}
	for _, k := range order {
		listed[k] = true
	}
	var unlisted []string
	for _, k := range rest {
		if !listed[k] {
			unlisted = append(unlisted, k)
		}
	}
	out := make([]string, 0, len(props))
	wild := false
	for _, k := range order {
		if k == "*" {
			out = append(out, unlisted...)
			wild = true
			continue
		}
		if _, ok := props[k]; ok {
			out = append(out, k)
		}
	}
	if !wild {
		out = append(out, unlisted...)
	}
	return out
}

func firstString(root any, pointers ...string) (string, bool) {
	for _, p := range pointers {
		if v, ok := jsonpointer.Get(root, p); ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func firstTrue(roots []any, pointers ...string) bool {
	for _, root := range roots {
		if root == nil {
			continue
		}
		for _, p := range pointers {
			if v, ok := jsonpointer.Get(root, p); ok {
				return v == true
			}
		}
	}
	return false
}

// InputType derives the widget type for a schema node. Explicit widget
// hints in x-schema-form or widget win over the schema type.
func InputType(schema map[string]any, layoutNode map[string]any) string {
	if t, ok := firstString(schema,
		"/x-schema-form/type",
		"/x-schema-form/widget/component",
		"/x-schema-form/widget",
		"/widget/component",
		"/widget",
	); ok {
		return CheckInlineType(t, schema, layoutNode)
	}
	if schema == nil {
		return "none"
	}
	_, hasRef := schema["$ref"]
	switch PrimaryType(schema) {
	case "boolean":
		return "checkbox"
	case "object":
		if _, ok := schema["properties"]; ok {
			return "section"
		}
		if _, ok := schema["additionalProperties"]; ok {
			return "section"
		}
		if hasRef {
			return "$ref"
		}
	case "array":
		items, _ := schema["items"].(map[string]any)
		if items == nil {
			items, _ = schema["additionalItems"].(map[string]any)
		}
		if _, hasEnum := items["enum"]; hasEnum {
			if mi, ok := jsonvalue.ToFloat(schema["maxItems"]); !ok || mi != 1 {
				return CheckInlineType("checkboxes", schema, layoutNode)
			}
		}
		return "array"
	case "null":
		return "none"
	case "number", "integer", "string":
		if jsonpointer.Has(layoutNode, "/options/titleMap") || schema["enum"] != nil || TitleMapFromOneOf(schema, false) != nil {
			return "select"
		}
		t := PrimaryType(schema)
		if t != "string" {
			_, hasMax := schema["maximum"]
			_, hasMin := schema["minimum"]
			_, hasMul := schema["multipleOf"]
			if (t == "integer" || hasMul) && hasMax && hasMin {
				return "range"
			}
			return t
		}
		switch schema["format"] {
		case "color":
			return "color"
		case "date":
			return "date"
		case "date-time":
			return "datetime-local"
		case "email":
			return "email"
		case "uri":
			return "url"
		}
		return "text"
	}
	if hasRef {
		return "$ref"
	}
	if _, ok := schema["oneOf"].([]any); ok {
		return "one-of"
	}
	if _, ok := schema["anyOf"].([]any); ok {
		return "one-of"
	}
	return "none"
}

// CheckInlineType turns checkbox and radio widget names into their list or
// inline variants.
func CheckInlineType(controlType string, schema, layoutNode map[string]any) string {
	isRadio := strings.HasPrefix(controlType, "radio")
	if !isRadio && !strings.HasPrefix(controlType, "checkbox") {
		return controlType
	}
	var roots []any
	if layoutNode != nil {
		roots = append(roots, layoutNode)
	}
	if schema != nil {
		roots = append(roots, schema)
	}
	inline := firstTrue(roots,
		"/inline",
		"/options/inline",
		"/x-schema-form/inline",
		"/x-schema-form/options/inline",
		"/x-schema-form/widget/inline",
		"/x-schema-form/widget/component/inline",
		"/x-schema-form/widget/component/options/inline",
		"/widget/inline",
		"/widget/component/inline",
		"/widget/component/options/inline",
	)
	switch {
	case isRadio && inline:
		return "radios-inline"
	case isRadio:
		return "radios"
	case controlType == "checkbox" && !inline:
		return "checkbox"
	case inline:
		return "checkboxes-inline"
	}
	return "checkboxes"
}

// IsInputRequired reports whether the parent of the node at schemaPointer
// lists it as required. Array items are required up to minItems.
func IsInputRequired(schema map[string]any, schemaPointer string) bool {
	keys := jsonpointer.Keys(schemaPointer)
	if len(keys) == 0 {
		return schema["required"] == true
	}
	name := keys[len(keys)-1]
	parentKeys := keys[:len(keys)-1]
	if n := len(parentKeys); n > 0 {
		switch parentKeys[n-1] {
		case "properties", "additionalProperties", "patternProperties", "items", "additionalItems":
			parentKeys = parentKeys[:n-1]
		}
	}
	v, _ := jsonpointer.GetKeys(schema, parentKeys)
	parent, _ := v.(map[string]any)
	if parent == nil {
		return false
	}
	if req, ok := parent["required"].([]any); ok {
		return jsonvalue.Contains(jsonvalue.Strings(req), name)
	}
	if jsonvalue.Contains(Types(parent), "array") && jsonpointer.IsArrayIndex(name) {
		if mi, ok := jsonvalue.ToFloat(parent["minItems"]); ok {
			idx, _ := jsonvalue.ToFloat(jsonvalue.ToJSType(name, []string{"integer"}))
			return mi > idx
		}
	}
	return false
}

// TitleMapFromOneOf builds a select option list from a oneOf/anyOf whose
// members each carry a title and a single enum or const value.
func TitleMapFromOneOf(schema map[string]any, flat bool) []any {
	list, ok := schema["oneOf"].([]any)
	if !ok {
		list, ok = schema["anyOf"].([]any)
	}
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		title, ok := m["title"].(string)
		if !ok {
			return nil
		}
		var value any
		if c, ok := m["const"]; ok {
			value = c
		} else if e, ok := m["enum"].([]any); ok && len(e) == 1 {
			value = e[0]
		} else {
			return nil
		}
		entry := map[string]any{"name": title, "value": value}
		if group, ok := m["group"].(string); ok && !flat {
			entry["group"] = group
		}
		out = append(out, entry)
	}
	return out
}

func fixUIKey(k string) string {
	if len(k) >= 3 && strings.EqualFold(k[:3], "ui:") {
		return k[3:]
	}
	return k
}

// MergeFiltered copies entries of source into target except those in
// exclude. Nested objects are merged one level deep. Keys are stripped of
// a "ui:" prefix.
func MergeFiltered(target map[string]any, source any, exclude ...string) {
	src, ok := source.(map[string]any)
	if !ok {
		return
	}
	for k, v := range src {
		if v == nil || jsonvalue.Contains(exclude, k) {
			continue
		}
		key := fixUIKey(k)
		cur, curOK := target[key].(map[string]any)
		nv, nvOK := v.(map[string]any)
		if curOK && nvOK {
			merged := make(map[string]any, len(cur)+len(nv))
			for ck, cv := range cur {
				merged[ck] = cv
			}
			for nk, nvv := range nv {
				merged[nk] = nvv
			}
			target[key] = merged
			continue
		}
		target[key] = v
	}
}

// InputOptions computes the effective option set of a layout node by
// layering widget defaults, schema keywords, schema extension options and
// explicit node options.
func InputOptions(node map[string]any, nodeOptions map[string]any, schema map[string]any, defaults map[string]any) map[string]any {
	out := map[string]any{}
	MergeFiltered(out, defaults)
	if schema != nil {
		MergeFiltered(out, Sub(schema, "/ui:widget/options"))
		MergeFiltered(out, Sub(schema, "/ui:widget"))
		MergeFiltered(out, schema, "additionalProperties", "additionalItems", "properties", "items",
			"required", "type", "x-schema-form", "$ref", OrderKey, "ui:widget")
		MergeFiltered(out, Sub(schema, "/x-schema-form/options"))
		MergeFiltered(out, Sub(schema, "/x-schema-form"), "items", "options")
	}
	MergeFiltered(out, node, "_id", "id", "$ref", "arrayItem", "arrayItemType", "dataPointer", "dataType",
		"items", "key", "name", "options", "recursiveReference", "type", "widget")
	MergeFiltered(out, nodeOptions)

	if schema != nil {
		if _, ok := out["titleMap"]; !ok {
			if tm := TitleMapFromOneOf(schema, jsonvalue.Truthy(out["flatList"])); tm != nil {
				out["titleMap"] = tm
			}
		}
		_, hasTM := out["titleMap"]
		_, hasEnum := out["enum"]
		if items, ok := schema["items"].(map[string]any); ok && !hasTM && !hasEnum {
			if tm, ok := items["titleMap"]; ok {
				out["titleMap"] = tm
			} else if e, ok := items["enum"]; ok {
				out["enum"] = e
				if names, ok := items["enumNames"]; ok {
					if _, has := out["enumNames"]; !has {
						out["enumNames"] = names
					}
				}
			} else if tm := TitleMapFromOneOf(items, jsonvalue.Truthy(out["flatList"])); tm != nil {
				out["titleMap"] = tm
			}
		}
		if PrimaryType(schema) == "integer" && !jsonvalue.HasValue(out["multipleOf"]) {
			out["multipleOf"] = 1.0
		}
	}

	switch {
	case jsonpointer.Has(out, "/autocomplete/source"):
		out["typeahead"] = out["autocomplete"]
	case jsonpointer.Has(out, "/tagsinput/source"):
		out["typeahead"] = out["tagsinput"]
	case jsonpointer.Has(out, "/tagsinput/typeahead/source"):
		v, _ := jsonpointer.Get(out, "/tagsinput/typeahead")
		out["typeahead"] = v
	}
	return out
}
