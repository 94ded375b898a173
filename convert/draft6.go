// Package convert rewrites JSON Schema draft 1-4 constructs into draft 6
// form. The conversion is pure: input schemas are never mutated.
package convert

import (
	"regexp"
	"strconv"

	"github.com/mohae/deepcopy"
	"github.com/shopspring/decimal"

	"github.com/reoring/jsonform/internal/jsonvalue"
)

// Draft6URI is the $schema identifier written on converted schemas.
const Draft6URI = "http://json-schema.org/draft-06/schema#"

var (
	draftURI       = regexp.MustCompile(`^https?://json-schema\.org/draft-0(\d)/schema#?$`)
	legacyDraftURI = regexp.MustCompile(`^https?://json-schema\.org/draft-0[1-4]/schema#?$`)
)

var (
	arrayKeys  = []string{"additionalItems", "items", "maxItems", "minItems", "uniqueItems", "contains"}
	numberKeys = []string{"multipleOf", "maximum", "exclusiveMaximum", "minimum", "exclusiveMinimum"}
	objectKeys = []string{"maxProperties", "minProperties", "required", "additionalProperties",
		"properties", "patternProperties", "dependencies", "propertyNames"}
	stringKeys = []string{"maxLength", "minLength", "pattern", "format"}
)

// keys that do not belong to a given type when a multi-type schema is
// split into anyOf branches.
var foreignKeys = map[string][]string{
	"array":   concat(numberKeys, objectKeys, stringKeys),
	"integer": concat(arrayKeys, objectKeys, stringKeys),
	"number":  concat(arrayKeys, objectKeys, stringKeys),
	"object":  concat(arrayKeys, numberKeys, stringKeys),
	"string":  concat(arrayKeys, numberKeys, objectKeys),
	"all":     concat(arrayKeys, numberKeys, objectKeys, stringKeys),
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// DetectDraft returns the draft number named by a $schema URI, or 0.
func DetectDraft(schemaURI string) int {
	m := draftURI.FindStringSubmatch(schemaURI)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// ToDraft6 converts schema to draft 6. Non-schema values are returned
// unchanged. The draft detected at the root (from $schema or legacy
// keywords) applies to the whole subtree.
func ToDraft6(schema any) any {
	return toDraft6(schema, 0)
}

func toDraft6(schema any, draft int) any {
	switch s := schema.(type) {
	case []any:
		out := make([]any, len(s))
		for i, sub := range s {
			out[i] = toDraft6(sub, draft)
		}
		return out
	case map[string]any:
		return convertNode(s, draft)
	default:
		return schema
	}
}

func convertNode(in map[string]any, draft int) any {
	n := make(map[string]any, len(in))
	for k, v := range in {
		n[k] = v
	}
	changed := false

	if uri, ok := n["$schema"].(string); ok {
		if d := DetectDraft(uri); d > 0 {
			draft = d
		}
	}

	if enc, ok := n["contentEncoding"]; ok && enc != nil {
		n["media"] = map[string]any{"binaryEncoding": enc}
		delete(n, "contentEncoding")
		changed = true
	}

	switch ext := n["extends"].(type) {
	case []any:
		n["allOf"] = toDraft6(ext, draft)
		delete(n, "extends")
		changed = true
	case map[string]any:
		n["allOf"] = []any{toDraft6(ext, draft)}
		delete(n, "extends")
		changed = true
	}

	if dis, ok := n["disallow"]; ok && dis != nil {
		switch d := dis.(type) {
		case string:
			n["not"] = map[string]any{"type": d}
		case []any:
			anyOf := make([]any, len(d))
			for i, t := range d {
				if _, isObj := t.(map[string]any); isObj {
					anyOf[i] = t
				} else {
					anyOf[i] = map[string]any{"type": t}
				}
			}
			n["not"] = map[string]any{"anyOf": anyOf}
		}
		delete(n, "disallow")
		changed = true
	}

	if deps, ok := n["dependencies"].(map[string]any); ok {
		var fixed map[string]any
		for k, v := range deps {
			if s, isStr := v.(string); isStr {
				if fixed == nil {
					fixed = make(map[string]any, len(deps))
					for kk, vv := range deps {
						fixed[kk] = vv
					}
				}
				fixed[k] = []any{s}
			}
		}
		if fixed != nil {
			n["dependencies"] = fixed
			changed = true
		}
	}

	if md, ok := jsonvalue.ToFloat(n["maxDecimal"]); ok {
		n["multipleOf"] = decimal.New(1, -int32(md)).InexactFloat64()
		delete(n, "maxDecimal")
		changed = true
		if draft == 0 || draft == 2 {
			draft = 1
		}
	}

	if div, ok := jsonvalue.ToFloat(n["divisibleBy"]); ok {
		n["multipleOf"] = div
		delete(n, "divisibleBy")
		changed = true
	}

	for _, bound := range []struct{ value, canEqual, exclusive string }{
		{"minimum", "minimumCanEqual", "exclusiveMinimum"},
		{"maximum", "maximumCanEqual", "exclusiveMaximum"},
	} {
		if ce, ok := n[bound.canEqual].(bool); ok {
			if v, isNum := jsonvalue.ToFloat(n[bound.value]); isNum && !ce {
				n[bound.exclusive] = v
				delete(n, bound.value)
			}
			delete(n, bound.canEqual)
			changed = true
			if draft == 0 {
				draft = 2
			}
		}
		if ex, ok := n[bound.exclusive].(bool); ok {
			if v, isNum := jsonvalue.ToFloat(n[bound.value]); isNum && ex {
				n[bound.exclusive] = v
				delete(n, bound.value)
			} else {
				delete(n, bound.exclusive)
			}
			changed = true
		}
	}

	if props, ok := n["properties"].(map[string]any); ok {
		if convertPropertyFlags(n, props, draft) {
			changed = true
			if draft == 0 {
				draft = 2
			}
		}
	}

	if _, ok := n["optional"].(bool); ok {
		delete(n, "optional")
		changed = true
		if draft == 0 {
			draft = 2
		}
	}
	if _, ok := n["required"].(bool); ok {
		delete(n, "required")
		changed = true
	}
	if _, ok := n["requires"]; ok {
		delete(n, "requires")
		changed = true
	}

	if id, ok := n["id"].(string); ok && draft <= 4 {
		if len(id) > 0 && id[len(id)-1] == '#' {
			id = id[:len(id)-1]
		}
		n["$id"] = id + "-CONVERTED-TO-DRAFT-06#"
		delete(n, "id")
		changed = true
	}

	if list, ok := n["type"].([]any); ok && len(list) == 1 {
		if t, ok := list[0].(string); ok && jsonvalue.IsSimpleType(t) {
			n["type"] = t
		}
	}
	nonStandard := hasNonStandardType(n["type"])
	if nonStandard {
		changed = true
	}

	if uri, ok := n["$schema"].(string); ok {
		if legacyDraftURI.MatchString(uri) {
			n["$schema"] = Draft6URI
		} else if changed && uri != Draft6URI {
			note := "Converted to draft 6 from " + uri
			if desc, ok := n["description"].(string); ok && desc != "" {
				n["description"] = desc + "\n" + note
			} else {
				n["description"] = note
			}
			delete(n, "$schema")
		}
	}

	if nonStandard {
		if split, done := fixType(n); done {
			return toDraft6(split, draft)
		}
	}

	for k, v := range n {
		switch k {
		case "definitions", "dependencies", "properties", "patternProperties":
			if m, ok := v.(map[string]any); ok {
				out := make(map[string]any, len(m))
				for sk, sv := range m {
					out[sk] = toDraft6(sv, draft)
				}
				n[k] = out
				continue
			}
			n[k] = deepcopy.Copy(v)
		case "items", "additionalItems", "additionalProperties", "allOf", "anyOf", "oneOf", "not":
			n[k] = toDraft6(v, draft)
		default:
			switch v.(type) {
			case map[string]any, []any:
				n[k] = deepcopy.Copy(v)
			}
		}
	}
	return n
}

// convertPropertyFlags moves per-property optional/required/requires flags
// up to the parent schema. It reports whether anything changed.
func convertPropertyFlags(n, props map[string]any, draft int) bool {
	changed := false
	var requiredKeys []string
	seen := map[string]bool{}
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			requiredKeys = append(requiredKeys, k)
		}
	}
	for _, k := range jsonvalue.Strings(n["required"]) {
		add(k)
	}
	keys := jsonvalue.SortedKeys(props)

	anyOptional := false
	for _, k := range keys {
		if p, ok := props[k].(map[string]any); ok && p["optional"] == true {
			anyOptional = true
			break
		}
	}
	if draft == 1 || draft == 2 || anyOptional {
		for _, k := range keys {
			if p, ok := props[k].(map[string]any); !ok || p["optional"] != true {
				add(k)
			}
		}
		changed = true
	}

	for _, k := range keys {
		if p, ok := props[k].(map[string]any); ok && p["required"] == true {
			add(k)
			changed = true
		}
	}
	if len(requiredKeys) > 0 {
		req := make([]any, len(requiredKeys))
		for i, k := range requiredKeys {
			req[i] = k
		}
		n["required"] = req
	}

	var deps map[string]any
	for _, k := range keys {
		p, ok := props[k].(map[string]any)
		if !ok || !jsonvalue.Truthy(p["requires"]) {
			continue
		}
		if deps == nil {
			deps = map[string]any{}
			if existing, ok := n["dependencies"].(map[string]any); ok {
				for dk, dv := range existing {
					deps[dk] = dv
				}
			}
		}
		if s, isStr := p["requires"].(string); isStr {
			deps[k] = []any{s}
		} else {
			deps[k] = p["requires"]
		}
	}
	if deps != nil {
		n["dependencies"] = deps
		changed = true
	}
	return changed
}

func hasNonStandardType(t any) bool {
	switch tt := t.(type) {
	case nil:
		return false
	case string:
		return !jsonvalue.IsSimpleType(tt)
	case []any:
		for _, x := range tt {
			s, ok := x.(string)
			if !ok || !jsonvalue.IsSimpleType(s) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// fixType rewrites a non-standard "type". When the type list carries
// schema objects the node is split into an anyOf and returned with done set.
func fixType(n map[string]any) (map[string]any, bool) {
	t := n["type"]
	if list, ok := t.([]any); ok && len(list) == 1 {
		t = list[0]
		n["type"] = t
	}
	switch tt := t.(type) {
	case string:
		if tt == "any" {
			n["type"] = allSimpleTypes()
		} else if !jsonvalue.IsSimpleType(tt) {
			delete(n, "type")
		}
	case []any:
		allStrings := true
		hasAny := false
		for _, x := range tt {
			s, ok := x.(string)
			if !ok {
				allStrings = false
			}
			if s == "any" {
				hasAny = true
			}
		}
		switch {
		case allStrings && hasAny:
			n["type"] = allSimpleTypes()
		case allStrings:
			kept := []any{}
			for _, x := range tt {
				if jsonvalue.IsSimpleType(x.(string)) {
					kept = append(kept, x)
				}
			}
			n["type"] = kept
		case len(tt) > 1:
			return splitTypes(n, tt), true
		default:
			delete(n, "type")
		}
	default:
		delete(n, "type")
	}
	return n, false
}

func splitTypes(n map[string]any, types []any) map[string]any {
	anyOf := make([]any, 0, len(types))
	for _, t := range types {
		branch := map[string]any{}
		if m, ok := t.(map[string]any); ok {
			for k, v := range m {
				branch[k] = v
			}
		} else {
			branch["type"] = t
		}
		bt, _ := branch["type"].(string)
		skip, ok := foreignKeys[bt]
		if !ok {
			skip = foreignKeys["all"]
		}
		for k, v := range n {
			if _, exists := branch[k]; exists || k == "type" || k == "default" || jsonvalue.Contains(skip, k) {
				continue
			}
			branch[k] = v
		}
		anyOf = append(anyOf, branch)
	}
	out := map[string]any{"anyOf": anyOf}
	if def, ok := n["default"]; ok {
		out["default"] = def
	}
	return out
}

func allSimpleTypes() []any {
	out := make([]any, len(jsonvalue.SimpleTypes))
	for i, t := range jsonvalue.SimpleTypes {
		out[i] = t
	}
	return out
}
