package validate

import (
	"strings"

	"github.com/reoring/jsonform/internal/schemautil"
)

// schemaKeywords hold subschemas, or maps and lists of them.
var schemaKeywords = map[string]bool{
	"additionalProperties": true, "propertyNames": true, "contains": true,
	"not": true, "if": true, "then": true, "else": true,
	"properties": true, "patternProperties": true, "$defs": true, "dependentSchemas": true,
	"allOf": true, "anyOf": true, "oneOf": true,
	"items": true, "prefixItems": true,
}

// toValidatorDialect rewrites a draft 6 schema into the 2020-12 keyword set
// understood by the validator. The input is not modified.
func toValidatorDialect(schema any) any {
	switch t := schema.(type) {
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = toValidatorDialect(v)
		}
		return out
	case map[string]any:
		return convertNode(t)
	}
	return schema
}

func convertNode(in map[string]any) map[string]any {
	n := make(map[string]any, len(in))
	for k, v := range in {
		switch {
		case k == "$schema", k == schemautil.OrderKey, k == "x-schema-form", strings.HasPrefix(k, "ui:"):
		case k == "definitions":
			if _, clash := in["$defs"]; !clash {
				n["$defs"] = v
			}
		case k == "$ref":
			ref, _ := v.(string)
			n[k] = strings.Replace(ref, "#/definitions/", "#/$defs/", 1)
		default:
			n[k] = v
		}
	}

	if tuple, ok := n["items"].([]any); ok {
		n["prefixItems"] = tuple
		delete(n, "items")
		if extra, ok := n["additionalItems"]; ok {
			n["items"] = extra
		}
	}
	delete(n, "additionalItems")

	if deps, ok := n["dependencies"].(map[string]any); ok {
		required := map[string]any{}
		schemas := map[string]any{}
		for k, v := range deps {
			switch d := v.(type) {
			case []any:
				required[k] = d
			case string:
				required[k] = []any{d}
			default:
				schemas[k] = d
			}
		}
		delete(n, "dependencies")
		if len(required) > 0 {
			n["dependentRequired"] = required
		}
		if len(schemas) > 0 {
			n["dependentSchemas"] = schemas
		}
	}

	for k, v := range n {
		if !schemaKeywords[k] {
			continue
		}
		switch k {
		case "properties", "patternProperties", "$defs", "dependentSchemas":
			m, ok := v.(map[string]any)
			if !ok {
				continue
			}
			out := make(map[string]any, len(m))
			for name, sub := range m {
				out[name] = toValidatorDialect(sub)
			}
			n[k] = out
		default:
			n[k] = toValidatorDialect(v)
		}
	}
	return n
}
