package refs

import (
	"strconv"
	"strings"

	"github.com/reoring/jsonform/jsonpointer"
)

// DataPointer translates a pointer into a resolved schema to the generic
// data pointer it describes ("/properties/a/items/properties/b" becomes
// "/a/-/b"). Pointers into definitions or open-ended keywords such as
// additionalProperties have no data counterpart and report false.
func DataPointer(schemaPointer string) (string, bool) {
	keys, err := jsonpointer.Parse(schemaPointer)
	if err != nil {
		return "", false
	}
	var data []string
	for i := 0; i < len(keys); i++ {
		switch keys[i] {
		case "properties":
			if i+1 >= len(keys) {
				return "", false
			}
			data = append(data, keys[i+1])
			i++
		case "items":
			if i+1 < len(keys) && jsonpointer.IsArrayIndex(keys[i+1]) {
				data = append(data, keys[i+1])
				i++
			} else {
				data = append(data, "-")
			}
		case "additionalItems":
			data = append(data, "-")
		case "allOf", "anyOf", "oneOf":
			i++
		case "not", "if", "then", "else":
		default:
			return "", false
		}
	}
	return jsonpointer.Compile(data), true
}

// SchemaPointer finds the schema pointer describing dataPointer inside a
// resolved schema. Recursion markers are followed back to their targets,
// so arbitrarily deep data paths map to a finite schema location.
func SchemaPointer(schema map[string]any, dataPointer string) (string, bool) {
	keys, err := jsonpointer.Parse(dataPointer)
	if err != nil {
		return "", false
	}
	at := ""
	node := schema
	for _, key := range keys {
		node, at = followMarker(schema, node, at)
		if node == nil {
			return "", false
		}
		var next string
		switch {
		case hasKey(node, "properties", key):
			next = at + "/properties/" + jsonpointer.Escape(key)
		case isMap(node["items"]) && (key == "-" || jsonpointer.IsArrayIndex(key)):
			next = at + "/items"
		case isList(node["items"]) && (key == "-" || jsonpointer.IsArrayIndex(key)):
			tuple := node["items"].([]any)
			idx, err := strconv.Atoi(key)
			if err == nil && idx < len(tuple) {
				next = at + "/items/" + key
			} else if isMap(node["additionalItems"]) {
				next = at + "/additionalItems"
			} else {
				return "", false
			}
		case isMap(node["additionalProperties"]):
			next = at + "/additionalProperties"
		default:
			return "", false
		}
		v, ok := jsonpointer.Get(schema, next)
		m, isObj := v.(map[string]any)
		if !ok || !isObj {
			return "", false
		}
		node, at = m, next
	}
	return at, true
}

func followMarker(root, node map[string]any, at string) (map[string]any, string) {
	for i := 0; i < 8; i++ {
		ref, ok := node["$ref"].(string)
		if !ok || !strings.HasPrefix(ref, "#") {
			return node, at
		}
		target := ref[1:]
		v, ok := jsonpointer.Get(root, target)
		m, isObj := v.(map[string]any)
		if !ok || !isObj || target == at {
			return node, at
		}
		node, at = m, target
	}
	return node, at
}

func hasKey(node map[string]any, key, sub string) bool {
	m, ok := node[key].(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[sub]
	return ok
}

func isMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// RemoveRecursiveReferences rewrites pointer into generic form and folds
// every recursive expansion back onto the location it repeats, so that a
// data pointer of any depth maps to a key of the builders' data maps.
func RemoveRecursiveReferences(pointer string, recursiveMap map[string]string, arrayMap map[string]int) string {
	if pointer == "" {
		return ""
	}
	generic := jsonpointer.ToGenericPointer(pointer, arrayMap)
	for changed := true; changed; {
		changed = false
		for from, to := range recursiveMap {
			if from == to || !jsonpointer.IsSubPointer(to, from, true) {
				continue
			}
			for jsonpointer.IsSubPointer(from, generic, true) {
				generic = jsonpointer.ToGenericPointer(to+generic[len(from):], arrayMap)
				changed = true
			}
		}
	}
	return generic
}

// CanonicalDataPointer applies RemoveRecursiveReferences with the data maps
// of c.
func (c *Context) CanonicalDataPointer(dataPointer string) string {
	return RemoveRecursiveReferences(dataPointer, c.DataRecursiveRefMap, c.ArrayMap)
}

// CanonicalSchemaPointer is CanonicalDataPointer for schema pointers.
func (c *Context) CanonicalSchemaPointer(schemaPointer string) string {
	return RemoveRecursiveReferences(schemaPointer, c.SchemaRecursiveRefMap, nil)
}
