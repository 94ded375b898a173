// Package jsonvalue holds predicates and coercions over decoded JSON values.
package jsonvalue

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SimpleTypes lists the draft 6 primitive type names in canonical order.
var SimpleTypes = []string{"array", "boolean", "integer", "null", "number", "object", "string"}

// IsSimpleType reports whether t is one of SimpleTypes.
func IsSimpleType(t string) bool {
	for _, s := range SimpleTypes {
		if s == t {
			return true
		}
	}
	return false
}

type floater interface{ Float64() (float64, error) }

// ToFloat converts any Go numeric (or json.Number) to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case floater:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// IsNumber reports whether v is a numeric value (strings excluded).
func IsNumber(v any) bool {
	f, ok := ToFloat(v)
	return ok && !math.IsNaN(f)
}

// IsInteger reports whether v is a numeric value with no fraction.
func IsInteger(v any) bool {
	f, ok := ToFloat(v)
	return ok && f == math.Trunc(f) && !math.IsInf(f, 0)
}

var (
	integerString = regexp.MustCompile(`^\s*[+-]?\d+\s*$`)
	numberString  = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?\s*$`)
)

// IsNumeric is IsNumber that also accepts numeric strings.
func IsNumeric(v any) bool {
	if s, ok := v.(string); ok {
		return numberString.MatchString(s)
	}
	return IsNumber(v)
}

// IsIntegral is IsInteger that also accepts integer strings.
func IsIntegral(v any) bool {
	if s, ok := v.(string); ok {
		return integerString.MatchString(s)
	}
	return IsInteger(v)
}

// IsBooleanLike reports whether v spells the boolean want (true, "true", 1, "1").
func IsBooleanLike(v any, want bool) bool {
	switch t := v.(type) {
	case bool:
		return t == want
	case string:
		if want {
			return t == "true" || t == "1"
		}
		return t == "false" || t == "0"
	}
	if f, ok := ToFloat(v); ok {
		if want {
			return f == 1
		}
		return f == 0
	}
	return false
}

// TypeOf returns the JSON type name of v.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if IsInteger(v) {
		return "integer"
	}
	if IsNumber(v) {
		return "number"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return "null"
}

// HasValue reports whether v is neither nil nor the empty string.
func HasValue(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// IsEmpty reports whether v is nil, "", or an empty container.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// Truthy mirrors loose boolean evaluation used by visibility conditions.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := ToFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Strings converts a []any of strings (or a []string) to []string.
// Non-string members are skipped.
func Strings(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	}
	return nil
}

// Contains reports whether list holds s.
func Contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize converts every numeric leaf to float64 so that values built in
// Go compare equal to decoded JSON.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = Normalize(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = Normalize(x)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out
	}
	if f, ok := ToFloat(v); ok {
		return f
	}
	return v
}

// Equal compares two JSON values structurally.
func Equal(a, b any) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}

// ToJSType coerces a raw control value to the first applicable type in
// types, returning nil when no coercion applies.
func ToJSType(v any, types []string) any {
	if v == nil {
		return nil
	}
	if Contains(types, "integer") {
		if IsInteger(v) {
			return v
		}
		if s, ok := v.(string); ok && integerString.MatchString(s) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err == nil {
				return float64(n)
			}
		}
	}
	if Contains(types, "number") {
		if IsNumber(v) {
			return v
		}
		if s, ok := v.(string); ok && numberString.MatchString(s) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err == nil {
				return f
			}
		}
	}
	if Contains(types, "string") {
		switch t := v.(type) {
		case string:
			return t
		case time.Time:
			return t.UTC().Format(time.RFC3339)
		}
		if f, ok := ToFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	if Contains(types, "boolean") {
		if IsBooleanLike(v, true) {
			return true
		}
		if IsBooleanLike(v, false) {
			return false
		}
	}
	return nil
}

// ToSchemaType forces v into one of types, falling back to a zero value of
// the best matching type. Used when fixing invalid data.
func ToSchemaType(v any, types []string) any {
	if Contains(types, "null") && !HasValue(v) {
		return nil
	}
	if _, isBool := v.(bool); Contains(types, "boolean") && !isBool && len(types) == 1 && !IsBooleanLike(v, true) && !IsBooleanLike(v, false) {
		return v
	}
	if Contains(types, "integer") {
		if n := ToJSType(v, []string{"integer"}); n != nil {
			return n
		}
	}
	if Contains(types, "number") {
		if n := ToJSType(v, []string{"number"}); n != nil {
			return n
		}
	}
	if _, isStr := v.(string); (isStr || IsNumber(v)) && Contains(types, "string") {
		return ToJSType(v, []string{"string"})
	}
	if Contains(types, "boolean") && (IsBooleanLike(v, true) || IsBooleanLike(v, false)) {
		return ToJSType(v, []string{"boolean"})
	}
	if Contains(types, "string") {
		if v == nil {
			return ""
		}
		if s := ToJSType(v, []string{"string"}); s != nil {
			return s
		}
	}
	if Contains(types, "number") || Contains(types, "integer") {
		switch v {
		case true:
			return 1.0
		case false, nil, "":
			return 0.0
		}
	}
	if Contains(types, "boolean") {
		return Truthy(v)
	}
	if (Contains(types, "number") || Contains(types, "integer")) && !Contains(types, "null") {
		return 0.0
	}
	return v
}

// ToFloatOr is ToFloat with a fallback for non-numbers.
func ToFloatOr(v any, def float64) float64 {
	if f, ok := ToFloat(v); ok {
		return f
	}
	return def
}

// ToString renders scalars the way they appear in form inputs.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	}
	if f, ok := ToFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
