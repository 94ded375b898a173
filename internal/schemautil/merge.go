// Package schemautil holds schema helpers shared by the resolver, layout
// and template builders.
package schemautil

import (
	"math"

	"github.com/mohae/deepcopy"

	"github.com/reoring/jsonform/internal/jsonvalue"
)

var annotationKeys = map[string]bool{
	"title": true, "description": true, "default": true, "examples": true,
	"$comment": true, "$id": true, "$schema": true, "readOnly": true,
	"writeOnly": true, "x-schema-form": true, "ui:order": true,
}

var lowerBounds = map[string]bool{
	"minimum": true, "exclusiveMinimum": true, "minLength": true,
	"minItems": true, "minProperties": true,
}

var upperBounds = map[string]bool{
	"maximum": true, "exclusiveMaximum": true, "maxLength": true,
	"maxItems": true, "maxProperties": true,
}

// MergeSchemas combines schemas the way allOf would constrain them. When
// two schemas contradict each other in a way that cannot be expressed as a
// single schema, ok is false.
func MergeSchemas(schemas ...map[string]any) (map[string]any, bool) {
	out := map[string]any{}
	for _, s := range schemas {
		for k, v := range s {
			cur, exists := out[k]
			if !exists {
				out[k] = deepcopy.Copy(v)
				continue
			}
			merged, ok := mergeKey(k, cur, v)
			if !ok {
				return nil, false
			}
			out[k] = merged
		}
	}
	return out, true
}

func mergeKey(k string, a, b any) (any, bool) {
	switch {
	case annotationKeys[k]:
		return deepcopy.Copy(b), true
	case lowerBounds[k] || upperBounds[k]:
		fa, okA := jsonvalue.ToFloat(a)
		fb, okB := jsonvalue.ToFloat(b)
		if !okA || !okB {
			return nil, false
		}
		if lowerBounds[k] {
			return math.Max(fa, fb), true
		}
		return math.Min(fa, fb), true
	}
	switch k {
	case "properties", "patternProperties", "definitions", "$defs", "dependencies":
		ma, okA := a.(map[string]any)
		mb, okB := b.(map[string]any)
		if !okA || !okB {
			return nil, false
		}
		out := deepcopy.Copy(ma).(map[string]any)
		for pk, pv := range mb {
			existing, ok := out[pk]
			if !ok {
				out[pk] = deepcopy.Copy(pv)
				continue
			}
			sa, okA := existing.(map[string]any)
			sb, okB := pv.(map[string]any)
			if okA && okB {
				m, ok := MergeSchemas(sa, sb)
				if !ok {
					return nil, false
				}
				out[pk] = m
				continue
			}
			// property dependencies given as key lists
			if u, ok := unionStrings(existing, pv); ok {
				out[pk] = u
				continue
			}
			return nil, false
		}
		return out, true
	case "required":
		return unionStrings(a, b)
	case "type":
		return intersectTypes(a, b)
	case "enum":
		return intersectValues(a, b)
	case "allOf":
		la, okA := a.([]any)
		lb, okB := b.([]any)
		if !okA || !okB {
			return nil, false
		}
		return append(deepcopy.Copy(la).([]any), deepcopy.Copy(lb).([]any)...), true
	case "items", "additionalProperties", "additionalItems", "not":
		sa, okA := a.(map[string]any)
		sb, okB := b.(map[string]any)
		if okA && okB {
			return MergeSchemas(sa, sb)
		}
	case "multipleOf":
		fa, okA := jsonvalue.ToFloat(a)
		fb, okB := jsonvalue.ToFloat(b)
		if okA && okB {
			if fa == fb || math.Mod(math.Max(fa, fb), math.Min(fa, fb)) == 0 {
				return math.Max(fa, fb), true
			}
		}
	case "uniqueItems":
		return jsonvalue.Truthy(a) || jsonvalue.Truthy(b), true
	}
	if jsonvalue.Equal(a, b) {
		return deepcopy.Copy(a), true
	}
	return nil, false
}

func unionStrings(a, b any) (any, bool) {
	la, okA := a.([]any)
	lb, okB := b.([]any)
	if !okA || !okB {
		return nil, false
	}
	seen := map[string]bool{}
	out := []any{}
	for _, x := range append(append([]any{}, la...), lb...) {
		s, ok := x.(string)
		if !ok {
			return nil, false
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, true
}

func intersectTypes(a, b any) (any, bool) {
	ta := jsonvalue.Strings(a)
	tb := jsonvalue.Strings(b)
	var out []any
	for _, t := range ta {
		switch {
		case jsonvalue.Contains(tb, t):
			out = append(out, t)
		case t == "number" && jsonvalue.Contains(tb, "integer"):
			out = append(out, "integer")
		case t == "integer" && jsonvalue.Contains(tb, "number"):
			out = append(out, "integer")
		}
	}
	switch len(out) {
	case 0:
		return nil, false
	case 1:
		return out[0], true
	}
	return out, true
}

func intersectValues(a, b any) (any, bool) {
	la, okA := a.([]any)
	lb, okB := b.([]any)
	if !okA || !okB {
		return nil, false
	}
	out := []any{}
	for _, x := range la {
		for _, y := range lb {
			if jsonvalue.Equal(x, y) {
				out = append(out, deepcopy.Copy(x))
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
