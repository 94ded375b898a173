package formdata

import (
	"github.com/reoring/jsonform/convert"
	"github.com/reoring/jsonform/internal/jsonvalue"
)

// SchemaFromData guesses a draft 6 schema describing data. Integers are
// widened to number and nulls to string. Arrays whose items share one type
// get a single items schema, others a tuple.
func SchemaFromData(data any, requireAll bool) map[string]any {
	s := schemaFromData(data, requireAll)
	s["$schema"] = convert.Draft6URI
	return s
}

func fieldType(v any) string {
	switch t := jsonvalue.TypeOf(v); t {
	case "integer":
		return "number"
	case "null":
		return "string"
	default:
		return t
	}
}

func schemaFromData(data any, requireAll bool) map[string]any {
	s := map[string]any{"type": fieldType(data)}
	switch t := data.(type) {
	case map[string]any:
		props := make(map[string]any, len(t))
		keys := jsonvalue.SortedKeys(t)
		for _, k := range keys {
			props[k] = schemaFromData(t[k], requireAll)
		}
		s["properties"] = props
		if requireAll {
			req := make([]any, len(keys))
			for i, k := range keys {
				req[i] = k
			}
			s["required"] = req
		}
	case []any:
		types := map[string]bool{}
		items := make([]any, len(t))
		for i, v := range t {
			types[fieldType(v)] = true
			items[i] = schemaFromData(v, requireAll)
		}
		switch len(types) {
		case 0:
			s["items"] = map[string]any{}
		case 1:
			merged := map[string]any{}
			for _, it := range items {
				for k, v := range it.(map[string]any) {
					merged[k] = v
				}
			}
			s["items"] = merged
		default:
			s["items"] = items
		}
		if requireAll {
			s["minItems"] = 1
		}
	}
	return s
}
