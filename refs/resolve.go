// Package refs inlines local $ref pointers of a draft 6 schema.
//
// Recursive references are not expanded. They are replaced by a marker
// {"$ref": "#<pointer>"} addressing the place in the resolved schema where
// the recursion bottoms out, and are recorded in the returned Context so
// that builders can expand them lazily.
package refs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/internal/schemautil"
	"github.com/reoring/jsonform/jsonpointer"
)

// DefaultMaxDepth bounds the nesting of the resolved schema.
const DefaultMaxDepth = 64

// Options tune Resolve.
type Options struct {
	// MaxDepth stops expansion below this nesting depth (0 = DefaultMaxDepth).
	MaxDepth int
}

// Context carries everything learned while resolving a schema.
type Context struct {
	// RefLibrary maps a pointer to its resolved fragment. Keys are either
	// original $ref targets ("/definitions/node") or, for recursion markers,
	// the pointer inside the resolved schema they address ("" for the root).
	RefLibrary map[string]any
	// SchemaRecursiveRefMap maps the schema pointer of each recursion marker
	// to the schema pointer it refers back to.
	SchemaRecursiveRefMap map[string]string
	// DataRecursiveRefMap is SchemaRecursiveRefMap translated to generic
	// data pointers.
	DataRecursiveRefMap map[string]string
	// ArrayMap maps the generic data pointer of every array to its tuple
	// length (0 for list arrays).
	ArrayMap map[string]int
	// HasRootReference is set when some part of the schema recurses to the root.
	HasRootReference bool
	// Warnings lists non-fatal problems such as unresolvable targets.
	Warnings []string
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{
		RefLibrary:            map[string]any{},
		SchemaRecursiveRefMap: map[string]string{},
		DataRecursiveRefMap:   map[string]string{},
		ArrayMap:              map[string]int{},
	}
}

// HasWarnings reports whether resolution produced diagnostics.
func (c *Context) HasWarnings() bool { return len(c.Warnings) > 0 }

func (c *Context) warnf(f string, a ...any) { c.Warnings = append(c.Warnings, fmt.Sprintf(f, a...)) }

type frame struct {
	orig     string
	compiled string
}

type resolver struct {
	root     map[string]any
	ctx      *Context
	maxDepth int
	// original target -> compiled pointer of its first expansion
	expanded map[string]string
	markers  map[string]bool
}

// Resolve returns a copy of schema with every resolvable $ref inlined,
// together with the resolution Context. Unresolvable references are left in
// place and reported as warnings.
func Resolve(schema map[string]any, opts ...Options) (map[string]any, *Context) {
	ctx := NewContext()
	if schema == nil {
		return nil, ctx
	}
	r := &resolver{
		root:     schema,
		ctx:      ctx,
		maxDepth: DefaultMaxDepth,
		expanded: map[string]string{},
		markers:  map[string]bool{},
	}
	if len(opts) > 0 && opts[0].MaxDepth > 0 {
		r.maxDepth = opts[0].MaxDepth
	}

	out, _ := r.walk(schema, "", "", nil, 0).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	for _, key := range []string{"definitions", "$defs"} {
		defs, ok := schema[key].(map[string]any)
		if !ok {
			continue
		}
		resolved := make(map[string]any, len(defs))
		for _, name := range jsonvalue.SortedKeys(defs) {
			p := "/" + key + "/" + jsonpointer.Escape(name)
			resolved[name] = r.walk(defs[name], p, p, nil, 1)
		}
		out[key] = resolved
	}

	for target, at := range r.expanded {
		if v, ok := jsonpointer.Get(out, at); ok {
			ctx.RefLibrary[target] = deepcopy.Copy(v)
		}
	}
	for at := range r.markers {
		if v, ok := jsonpointer.Get(out, at); ok {
			ctx.RefLibrary[at] = deepcopy.Copy(v)
		}
	}
	return out, ctx
}

func (r *resolver) walk(node any, orig, compiled string, chain []frame, depth int) any {
	switch n := node.(type) {
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = r.walk(item, orig+"/"+fmt.Sprint(i), compiled+"/"+fmt.Sprint(i), chain, depth)
		}
		return out
	case map[string]any:
		return r.walkSchema(n, orig, compiled, chain, depth)
	default:
		return node
	}
}

func (r *resolver) walkSchema(n map[string]any, orig, compiled string, chain []frame, depth int) any {
	if depth > r.maxDepth {
		r.ctx.warnf("maximum schema depth %d exceeded at %s", r.maxDepth, compiled)
		return deepcopy.Copy(n)
	}
	chain = append(chain[:len(chain):len(chain)], frame{orig: orig, compiled: compiled})

	if ref, ok := n["$ref"].(string); ok {
		target, err := normalizeRef(ref)
		if err != nil {
			r.ctx.warnf("unsupported $ref %q at %s", ref, compiled)
			return deepcopy.Copy(n)
		}
		for i := len(chain) - 1; i >= 0; i-- {
			if chain[i].orig == target {
				return r.marker(n, compiled, chain[i].compiled)
			}
		}
		base, ok := jsonpointer.Get(r.root, target)
		baseMap, isMap := base.(map[string]any)
		if !ok || !isMap {
			r.ctx.warnf("cannot resolve $ref %q at %s", ref, compiled)
			return deepcopy.Copy(n)
		}
		siblings := make(map[string]any, len(n))
		for k, v := range n {
			if k != "$ref" {
				siblings[k] = v
			}
		}
		merged, ok := schemautil.MergeSchemas(baseMap, siblings)
		if !ok {
			merged = map[string]any{"allOf": []any{deepcopy.Copy(baseMap), siblings}}
		}
		if _, seen := r.expanded[target]; !seen {
			r.expanded[target] = compiled
		}
		return r.walk(merged, target, compiled, chain, depth+1)
	}

	out := make(map[string]any, len(n))
	for _, k := range jsonvalue.SortedKeys(n) {
		v := n[k]
		switch k {
		case "definitions", "$defs":
			// resolved separately
			continue
		case "properties", "patternProperties", "dependencies":
			m, ok := v.(map[string]any)
			if !ok {
				out[k] = deepcopy.Copy(v)
				continue
			}
			sub := make(map[string]any, len(m))
			for _, pk := range jsonvalue.SortedKeys(m) {
				seg := "/" + k + "/" + jsonpointer.Escape(pk)
				sub[pk] = r.walk(m[pk], orig+seg, compiled+seg, chain, depth+1)
			}
			out[k] = sub
		case "items", "additionalItems", "additionalProperties", "allOf", "anyOf", "oneOf",
			"not", "if", "then", "else", "contains", "propertyNames":
			out[k] = r.walk(v, orig+"/"+k, compiled+"/"+k, chain, depth+1)
		default:
			out[k] = deepcopy.Copy(v)
		}
	}

	out = combineAllOf(out)
	out = fixRequiredArrayProperties(out)
	r.recordArray(out, compiled)
	return out
}

func (r *resolver) marker(n map[string]any, at, target string) map[string]any {
	m := make(map[string]any, len(n))
	for k, v := range n {
		m[k] = deepcopy.Copy(v)
	}
	m["$ref"] = "#" + target
	r.markers[target] = true
	r.ctx.SchemaRecursiveRefMap[at] = target
	if target == "" {
		r.ctx.HasRootReference = true
	}
	if from, ok := DataPointer(at); ok {
		if to, ok := DataPointer(target); ok {
			r.ctx.DataRecursiveRefMap[from] = to
		}
	}
	return m
}

func (r *resolver) recordArray(n map[string]any, compiled string) {
	isArray := jsonvalue.Contains(jsonvalue.Strings(n["type"]), "array")
	if _, hasItems := n["items"]; !isArray && !hasItems {
		return
	}
	dp, ok := DataPointer(compiled)
	if !ok {
		return
	}
	tuple := 0
	if items, ok := n["items"].([]any); ok {
		tuple = len(items)
	}
	r.ctx.ArrayMap[dp] = tuple
}

// normalizeRef turns a local reference ("#", "#/definitions/x") into a
// JSON pointer.
func normalizeRef(ref string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return "", fmt.Errorf("non-local reference %q", ref)
	}
	keys, err := jsonpointer.Parse(ref)
	if err != nil {
		return "", err
	}
	return jsonpointer.Compile(keys), nil
}

// combineAllOf folds an allOf of plain schemas into its parent when the
// members are compatible.
func combineAllOf(n map[string]any) map[string]any {
	list, ok := n["allOf"].([]any)
	if !ok || len(list) == 0 {
		return n
	}
	parts := make([]map[string]any, 0, len(list)+1)
	rest := make(map[string]any, len(n))
	for k, v := range n {
		if k != "allOf" {
			rest[k] = v
		}
	}
	parts = append(parts, rest)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return n
		}
		if _, isRef := m["$ref"]; isRef {
			return n
		}
		parts = append(parts, m)
	}
	merged, ok := schemautil.MergeSchemas(parts...)
	if !ok {
		return n
	}
	return merged
}

// fixRequiredArrayProperties moves a required list placed on an array
// schema down to its item schema.
func fixRequiredArrayProperties(n map[string]any) map[string]any {
	if !jsonvalue.Contains(jsonvalue.Strings(n["type"]), "array") {
		return n
	}
	required, ok := n["required"].([]any)
	if !ok {
		return n
	}
	for _, key := range []string{"items", "additionalItems"} {
		items, ok := n[key].(map[string]any)
		if !ok {
			continue
		}
		props, ok := items["properties"].(map[string]any)
		if !ok {
			continue
		}
		if _, has := items["required"]; has {
			return n
		}
		_, open := items["additionalProperties"]
		all := true
		for _, rk := range jsonvalue.Strings(required) {
			if _, ok := props[rk]; !ok {
				all = false
				break
			}
		}
		if !open && !all {
			return n
		}
		items["required"] = required
		delete(n, "required")
		return n
	}
	return n
}

// RecursiveTargets returns the marker pointers of the schema map in a
// stable order.
func (c *Context) RecursiveTargets() []string {
	out := make([]string, 0, len(c.SchemaRecursiveRefMap))
	for k := range c.SchemaRecursiveRefMap {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
