package control

import (
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/reoring/jsonform/internal/jsonvalue"
)

// Keywords lists the schema keywords that have a control validator, in
// the order they are applied.
var Keywords = []string{
	"type", "enum", "const", "minLength", "maxLength", "pattern", "format",
	"minimum", "exclusiveMinimum", "maximum", "exclusiveMaximum", "multipleOf",
	"minProperties", "maxProperties", "dependencies", "minItems", "maxItems",
	"uniqueItems", "contains",
}

// Required fails on empty values.
func Required() ValidatorFn {
	return func(c Control) map[string]any {
		if c.Disabled() || !jsonvalue.IsEmpty(c.Value()) {
			return nil
		}
		return map[string]any{"required": true}
	}
}

func fail(name string, detail map[string]any) map[string]any {
	return map[string]any{name: detail}
}

func asNumber(v any) (float64, bool) {
	n := jsonvalue.ToJSType(v, []string{"number"})
	if n == nil {
		return 0, false
	}
	return jsonvalue.ToFloat(n)
}

// FromSchema returns the validator for one schema keyword. Validators pass
// empty values; emptiness is the concern of Required.
func FromSchema(keyword string, param any) (ValidatorFn, bool) {
	var check func(v any) map[string]any
	switch keyword {
	case "type":
		types := jsonvalue.Strings(param)
		if len(types) == 0 {
			return nil, false
		}
		check = func(v any) map[string]any {
			for _, t := range types {
				if matchesType(v, t) {
					return nil
				}
			}
			return fail("type", map[string]any{"requiredType": param, "currentValue": v})
		}
	case "enum":
		allowed, ok := param.([]any)
		if !ok {
			return nil, false
		}
		check = func(v any) map[string]any {
			values, isList := v.([]any)
			if !isList {
				values = []any{v}
			}
			for _, item := range values {
				if !inList(allowed, item) {
					return fail("enum", map[string]any{"allowedValues": allowed, "currentValue": v})
				}
			}
			return nil
		}
	case "const":
		check = func(v any) map[string]any {
			if jsonvalue.Equal(v, param) || jsonvalue.Equal(jsonvalue.ToJSType(v, []string{jsonvalue.TypeOf(param)}), param) {
				return nil
			}
			return fail("const", map[string]any{"requiredValue": param, "currentValue": v})
		}
	case "minLength", "maxLength":
		limit, ok := jsonvalue.ToFloat(param)
		if !ok {
			return nil, false
		}
		check = func(v any) map[string]any {
			s, isStr := v.(string)
			if !isStr {
				return nil
			}
			n := utf8.RuneCountInString(s)
			if keyword == "minLength" && float64(n) < limit {
				return fail(keyword, map[string]any{"minimumLength": limit, "currentLength": n})
			}
			if keyword == "maxLength" && float64(n) > limit {
				return fail(keyword, map[string]any{"maximumLength": limit, "currentLength": n})
			}
			return nil
		}
	case "pattern":
		src, ok := param.(string)
		if !ok {
			return nil, false
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, false
		}
		check = func(v any) map[string]any {
			s, isStr := v.(string)
			if !isStr || re.MatchString(s) {
				return nil
			}
			return fail("pattern", map[string]any{"requiredPattern": src, "currentValue": s})
		}
	case "format":
		format, ok := param.(string)
		if !ok || !KnownFormat(format) {
			return nil, false
		}
		check = func(v any) map[string]any {
			s, isStr := v.(string)
			if !isStr || CheckFormat(format, s) {
				return nil
			}
			return fail("format", map[string]any{"requiredFormat": format, "currentValue": s})
		}
	case "minimum", "exclusiveMinimum", "maximum", "exclusiveMaximum":
		limit, ok := jsonvalue.ToFloat(param)
		if !ok {
			return nil, false
		}
		check = func(v any) map[string]any {
			n, isNum := asNumber(v)
			if !isNum {
				return nil
			}
			var pass bool
			var key string
			switch keyword {
			case "minimum":
				pass, key = n >= limit, "minimumValue"
			case "exclusiveMinimum":
				pass, key = n > limit, "exclusiveMinimumValue"
			case "maximum":
				pass, key = n <= limit, "maximumValue"
			default:
				pass, key = n < limit, "exclusiveMaximumValue"
			}
			if pass {
				return nil
			}
			return fail(keyword, map[string]any{key: limit, "currentValue": v})
		}
	case "multipleOf":
		factor, ok := jsonvalue.ToFloat(param)
		if !ok || factor <= 0 {
			return nil, false
		}
		check = func(v any) map[string]any {
			n, isNum := asNumber(v)
			if !isNum {
				return nil
			}
			if decimal.NewFromFloat(n).Mod(decimal.NewFromFloat(factor)).IsZero() {
				return nil
			}
			return fail("multipleOf", map[string]any{"multipleOfValue": factor, "currentValue": v})
		}
	case "minProperties", "maxProperties", "minItems", "maxItems":
		limit, ok := jsonvalue.ToFloat(param)
		if !ok {
			return nil, false
		}
		check = func(v any) map[string]any {
			var n int
			switch t := v.(type) {
			case map[string]any:
				if keyword == "minItems" || keyword == "maxItems" {
					return nil
				}
				n = len(t)
			case []any:
				if keyword == "minProperties" || keyword == "maxProperties" {
					return nil
				}
				n = len(t)
			default:
				return nil
			}
			switch keyword {
			case "minProperties":
				if float64(n) < limit {
					return fail(keyword, map[string]any{"minimumProperties": limit, "currentProperties": n})
				}
			case "maxProperties":
				if float64(n) > limit {
					return fail(keyword, map[string]any{"maximumProperties": limit, "currentProperties": n})
				}
			case "minItems":
				if float64(n) < limit {
					return fail(keyword, map[string]any{"minimumItems": limit, "currentItems": n})
				}
			case "maxItems":
				if float64(n) > limit {
					return fail(keyword, map[string]any{"maximumItems": limit, "currentItems": n})
				}
			}
			return nil
		}
	case "dependencies":
		deps, ok := param.(map[string]any)
		if !ok {
			return nil, false
		}
		check = func(v any) map[string]any {
			obj, isObj := v.(map[string]any)
			if !isObj {
				return nil
			}
			missing := map[string]any{}
			for _, key := range jsonvalue.SortedKeys(deps) {
				if !jsonvalue.HasValue(obj[key]) {
					continue
				}
				var lacking []any
				for _, need := range jsonvalue.Strings(deps[key]) {
					if !jsonvalue.HasValue(obj[need]) {
						lacking = append(lacking, need)
					}
				}
				if len(lacking) > 0 {
					missing[key] = lacking
				}
			}
			if len(missing) == 0 {
				return nil
			}
			return fail("dependencies", missing)
		}
	case "uniqueItems":
		if param != true {
			return nil, false
		}
		check = func(v any) map[string]any {
			list, isList := v.([]any)
			if !isList {
				return nil
			}
			var dups []any
			for i := range list {
				for j := i + 1; j < len(list); j++ {
					if jsonvalue.Equal(list[i], list[j]) && !inList(dups, list[i]) {
						dups = append(dups, list[i])
					}
				}
			}
			if len(dups) == 0 {
				return nil
			}
			return fail("uniqueItems", map[string]any{"duplicateItems": dups})
		}
	case "contains":
		want, ok := param.(map[string]any)
		if !ok {
			return nil, false
		}
		check = func(v any) map[string]any {
			list, isList := v.([]any)
			if !isList {
				return nil
			}
			if c, has := want["const"]; has && !inList(list, c) {
				return fail("contains", map[string]any{"requiredItem": c})
			}
			return nil
		}
	default:
		return nil, false
	}
	return func(c Control) map[string]any {
		v := c.Value()
		if jsonvalue.IsEmpty(v) {
			return nil
		}
		return check(v)
	}, true
}

// FromSpecs builds validators for every recognized keyword of specs in the
// order of Keywords. A "required": true entry adds Required.
func FromSpecs(specs map[string]any) []ValidatorFn {
	var out []ValidatorFn
	if specs["required"] == true {
		out = append(out, Required())
	}
	for _, k := range Keywords {
		param, ok := specs[k]
		if !ok {
			continue
		}
		if fn, ok := FromSchema(k, param); ok {
			out = append(out, fn)
		}
	}
	return out
}

func matchesType(v any, t string) bool {
	switch t {
	case "number":
		return jsonvalue.IsNumeric(v)
	case "integer":
		return jsonvalue.IsIntegral(v)
	case "boolean":
		_, ok := v.(bool)
		return ok || jsonvalue.IsBooleanLike(v, true) || jsonvalue.IsBooleanLike(v, false)
	case "string":
		_, ok := v.(string)
		return ok
	case "null":
		return v == nil
	default:
		return jsonvalue.TypeOf(v) == t
	}
}

func inList(list []any, v any) bool {
	for _, x := range list {
		if jsonvalue.Equal(x, v) {
			return true
		}
	}
	return false
}

// SortedErrorKeys lists the validator names of an error map in order.
func SortedErrorKeys(errs map[string]any) []string {
	out := make([]string, 0, len(errs))
	for k := range errs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
