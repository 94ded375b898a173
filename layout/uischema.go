package layout

import (
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/reoring/jsonform/internal/schemautil"
)

// MergeUISchema folds a react-jsonschema-form style uiSchema into a copy of
// schema. Each "ui:" key lands in the x-schema-form object of the matching
// schema node with the prefix stripped; "ui:order" becomes the property
// order of that node.
func MergeUISchema(schema, ui map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	out, _ := deepcopy.Copy(schema).(map[string]any)
	if len(ui) > 0 {
		mergeUI(out, ui)
	}
	return out
}

func mergeUI(node, ui map[string]any) {
	for k, v := range ui {
		if len(k) > 3 && strings.EqualFold(k[:3], "ui:") {
			name := k[3:]
			if name == "order" {
				node[schemautil.OrderKey] = v
				continue
			}
			xsf, ok := node["x-schema-form"].(map[string]any)
			if !ok {
				xsf = map[string]any{}
				node["x-schema-form"] = xsf
			}
			xsf[name] = v
			continue
		}
		child, ok := v.(map[string]any)
		if !ok {
			continue
		}
		switch k {
		case "items":
			switch items := node["items"].(type) {
			case map[string]any:
				mergeUI(items, child)
			case []any:
				for _, it := range items {
					if m, ok := it.(map[string]any); ok {
						mergeUI(m, child)
					}
				}
			}
			continue
		case "additionalProperties", "additionalItems":
			if sub, ok := node[k].(map[string]any); ok {
				mergeUI(sub, child)
			}
			continue
		}
		props, _ := node["properties"].(map[string]any)
		if sub, ok := props[k].(map[string]any); ok {
			mergeUI(sub, child)
		}
	}
}
