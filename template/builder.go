package template

import (
	"strconv"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/reoring/jsonform/control"
	"github.com/reoring/jsonform/formdata"
	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/internal/logging"
	"github.com/reoring/jsonform/internal/schemautil"
	"github.com/reoring/jsonform/jsonpointer"
	"github.com/reoring/jsonform/refs"
)

const defaultMaxItems = 1000

// controlKeywords are copied from a schema node onto the validators of the
// template built for it, grouped by kind.
var controlKeywords = map[Kind][]string{
	KindControl: {"type", "enum", "const", "minLength", "maxLength", "pattern", "format",
		"minimum", "exclusiveMinimum", "maximum", "exclusiveMaximum", "multipleOf",
		"minItems", "maxItems", "uniqueItems"},
	KindGroup: {"minProperties", "maxProperties", "dependencies"},
	KindArray: {"minItems", "maxItems", "uniqueItems", "contains"},
}

// Config wires a Builder to one form.
type Config struct {
	Schema map[string]any
	Refs   *refs.Context
	// DataMap is the map filled by the layout builder. The template builder
	// adds TemplateType to its entries.
	DataMap formdata.Map
	// SetSchemaDefaults and SetLayoutDefaults are true, false or "auto".
	// "auto" applies defaults to items added later and to forms started
	// without values.
	SetSchemaDefaults any
	SetLayoutDefaults any
	// LayoutDefaults maps generic data pointers to "default" options found
	// in the layout.
	LayoutDefaults map[string]any
	Logger         logging.Logger
}

// Builder produces templates and keeps the library of item templates.
type Builder struct {
	cfg    Config
	values any
	// Library maps a generic data pointer to the template of the array item
	// or recursive node found there.
	Library map[string]*Template
}

// NewBuilder returns a Builder with defaults for unset Config fields.
func NewBuilder(cfg Config) *Builder {
	if cfg.Refs == nil {
		cfg.Refs = refs.NewContext()
	}
	if cfg.DataMap == nil {
		cfg.DataMap = formdata.Map{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.SetSchemaDefaults == nil {
		cfg.SetSchemaDefaults = "auto"
	}
	if cfg.SetLayoutDefaults == nil {
		cfg.SetLayoutDefaults = "auto"
	}
	return &Builder{cfg: cfg, Library: map[string]*Template{}}
}

// Build returns the template of the whole form. With setValues, values
// are used as initial control values.
func (b *Builder) Build(values any, setValues bool) *Template {
	b.values = values
	if b.cfg.Refs.HasRootReference {
		if _, ok := b.Library[""]; !ok {
			b.Library[""] = nil
			if root := b.build(nil, false, "", ""); root != nil {
				b.Library[""] = root
			} else {
				delete(b.Library, "")
			}
		}
	}
	t := b.build(values, setValues, "", "")
	if t == nil {
		return &Template{Kind: KindGroup}
	}
	return t
}

// Item returns a copy of the library template stored at ref.
func (b *Builder) Item(ref string) (*Template, bool) {
	t := b.Library[ref]
	if t == nil {
		return nil, false
	}
	return t.Clone(), true
}

// ItemRef maps the pointer of an array item or recursive node to its key
// in Library.
func (b *Builder) ItemRef(pointer string) (string, bool) {
	short := b.cfg.Refs.CanonicalDataPointer(pointer)
	if to, ok := b.cfg.Refs.DataRecursiveRefMap[short]; ok {
		return to, true
	}
	return short, short != jsonpointer.ToGenericPointer(pointer, b.cfg.Refs.ArrayMap)
}

func applies(policy any, dynamic, noValues bool) bool {
	switch v := policy.(type) {
	case bool:
		return v
	case string:
		return v == "auto" && (dynamic || noValues)
	}
	return false
}

// initialValue applies the default policy: the initial value wins, then a
// layout default, then a schema default, then the empty value of the type.
func (b *Builder) initialValue(value any, setValues bool, schema map[string]any, dataPointer string) any {
	if setValues && value != nil {
		return value
	}
	noValues := jsonvalue.IsEmpty(b.values)
	if applies(b.cfg.SetLayoutDefaults, !setValues, noValues) {
		generic := jsonpointer.ToGenericPointer(dataPointer, b.cfg.Refs.ArrayMap)
		if d, ok := b.cfg.LayoutDefaults[generic]; ok {
			return deepcopy.Copy(d)
		}
	}
	if !applies(b.cfg.SetSchemaDefaults, !setValues, noValues) {
		return nil
	}
	if d, ok := schema["default"]; ok {
		return deepcopy.Copy(d)
	}
	return emptyValue(schemautil.PrimaryType(schema))
}

func emptyValue(t string) any {
	switch t {
	case "string":
		return ""
	case "number", "integer":
		return 0.0
	case "boolean":
		return false
	case "array":
		return []any{}
	case "object":
		return map[string]any{}
	}
	return nil
}

func (b *Builder) isMarker(schemaPointer string) bool {
	_, ok := b.cfg.Refs.SchemaRecursiveRefMap[schemaPointer]
	return ok
}

func (b *Builder) kind(schema map[string]any, entry *formdata.Entry) Kind {
	if _, ok := schema["$ref"]; ok {
		return KindRef
	}
	if entry.InputType == "checkboxes" {
		return KindControl
	}
	switch schemautil.PrimaryType(schema) {
	case "object":
		if _, ok := schema["properties"].(map[string]any); ok {
			return KindGroup
		}
	case "array":
		if items, ok := schema["items"].(map[string]any); ok {
			if _, hasEnum := items["enum"]; hasEnum {
				return KindControl
			}
		}
		return KindArray
	}
	return KindControl
}

func (b *Builder) build(value any, setValues bool, schemaPointer, dataPointer string) *Template {
	schema := schemautil.Sub(b.cfg.Schema, schemaPointer)
	if schema == nil {
		return nil
	}
	short := b.cfg.Refs.CanonicalDataPointer(dataPointer)
	entry := b.cfg.DataMap.Entry(short)
	if entry.SchemaPointer == "" {
		entry.SchemaPointer = schemaPointer
	}
	if entry.SchemaType == "" {
		entry.SchemaType = schemautil.PrimaryType(schema)
	}

	t := &Template{Kind: b.kind(schema, entry)}
	if t.Kind != KindRef {
		entry.TemplateType = string(t.Kind)
	}
	for _, k := range controlKeywords[t.Kind] {
		if p, ok := schema[k]; ok {
			t.setValidator(k, p)
		}
	}
	t.Disabled = entry.Disabled || schema["readOnly"] == true

	switch t.Kind {
	case KindRef:
		return b.ref(t, schema, schemaPointer, dataPointer, value, setValues)
	case KindGroup:
		values, _ := value.(map[string]any)
		for _, key := range schemautil.PropertyOrder(schema) {
			esc := jsonpointer.Escape(key)
			child := b.build(values[key], setValues, schemaPointer+"/properties/"+esc, dataPointer+"/"+esc)
			if child == nil {
				continue
			}
			if schemautil.IsInputRequired(schema, "/properties/"+esc) {
				child.setValidator("required", true)
			}
			t.addChild(key, child)
		}
	case KindArray:
		b.array(t, schema, value, setValues, schemaPointer, dataPointer, entry)
	default:
		t.Value = b.initialValue(value, setValues, schema, dataPointer)
	}
	return t
}

// ref leaves a "$ref" placeholder for a recursive node, or expands it from
// the target schema when values reach that deep.
func (b *Builder) ref(t *Template, schema map[string]any, schemaPointer, dataPointer string, value any, setValues bool) *Template {
	ref, _ := schema["$ref"].(string)
	if !strings.HasPrefix(ref, "#") || !b.isMarker(schemaPointer) {
		b.cfg.Logger.Warn("unresolved reference in template", "schemaPointer", schemaPointer, "ref", ref)
		return nil
	}
	dataRef, ok := refs.DataPointer(ref[1:])
	if !ok {
		return nil
	}
	t.Ref = dataRef
	if _, ok := b.Library[dataRef]; !ok {
		b.Library[dataRef] = nil
		if built := b.build(nil, false, ref[1:], dataRef); built != nil {
			b.Library[dataRef] = built
		} else {
			delete(b.Library, dataRef)
		}
	}
	if _, isObject := value.(map[string]any); setValues && isObject {
		if built := b.build(value, setValues, ref[1:], dataPointer); built != nil {
			return built
		}
	}
	return t
}

func (b *Builder) array(t *Template, schema map[string]any, value any, setValues bool, schemaPointer, dataPointer string, entry *formdata.Entry) {
	list, _ := value.([]any)
	if !setValues {
		list = nil
	}
	valueAt := func(i int) any {
		if i < len(list) {
			return list[i]
		}
		return nil
	}
	tuple, isTuple := schema["items"].([]any)
	t.Items = []*Template{}
	for i := range tuple {
		idx := strconv.Itoa(i)
		item := b.build(valueAt(i), setValues, schemaPointer+"/items/"+idx, dataPointer+"/"+idx)
		if item == nil {
			continue
		}
		if schemautil.IsInputRequired(b.cfg.Schema, schemaPointer+"/items/"+idx) {
			item.setValidator("required", true)
		}
		t.Items = append(t.Items, item)
	}

	additional := ""
	if isTuple {
		if _, ok := schema["additionalItems"].(map[string]any); ok {
			additional = schemaPointer + "/additionalItems"
		}
	} else if _, ok := schema["items"].(map[string]any); ok {
		additional = schemaPointer + "/items"
	}
	if additional == "" {
		return
	}

	itemRef, recursive := b.ItemRef(dataPointer + "/-")
	itemSchema := b.cfg.Refs.CanonicalSchemaPointer(additional)
	if to, ok := b.cfg.Refs.SchemaRecursiveRefMap[itemSchema]; ok {
		itemSchema = to
	}
	if _, ok := b.Library[itemRef]; !ok {
		b.Library[itemRef] = nil
		if built := b.build(nil, false, itemSchema, dataPointer+"/-"); built != nil {
			b.Library[itemRef] = built
		} else {
			delete(b.Library, itemRef)
		}
	}

	count := len(list)
	maxItems := defaultMaxItems
	if recursive {
		// recursive arrays hold only the items the data has
		additional = itemSchema
	} else if entry.HasArrayInfo {
		count = max(count, entry.TupleItems+entry.ListItems)
		maxItems = entry.MaxItems
	} else if mi, ok := jsonvalue.ToFloat(schema["minItems"]); ok {
		count = max(count, int(mi))
	}
	if mx, ok := jsonvalue.ToFloat(schema["maxItems"]); ok && int(mx) > 0 {
		maxItems = min(maxItems, int(mx))
	}
	count = min(count, maxItems)
	for i := len(t.Items); i < count; i++ {
		if v := valueAt(i); v != nil {
			if item := b.build(v, setValues, additional, dataPointer+"/"+strconv.Itoa(i)); item != nil {
				t.Items = append(t.Items, item)
			}
			continue
		}
		if item, ok := b.Item(itemRef); ok {
			t.Items = append(t.Items, item)
		}
	}
}

// BuildFormGroup instantiates the live control tree of a template. "$ref"
// nodes and nil templates produce no control.
func BuildFormGroup(t *Template) control.Control {
	if t == nil {
		return nil
	}
	var c control.Control
	switch t.Kind {
	case KindGroup:
		controls := map[string]control.Control{}
		for _, k := range t.Keys {
			if child := BuildFormGroup(t.Controls[k]); child != nil {
				controls[k] = child
			}
		}
		c = control.NewFormGroup(t.Keys, controls, control.FromSpecs(t.Validators)...)
	case KindArray:
		var items []control.Control
		for _, item := range t.Items {
			if ic := BuildFormGroup(item); ic != nil {
				items = append(items, ic)
			}
		}
		c = control.NewFormArray(items, control.FromSpecs(t.Validators)...)
	case KindControl:
		c = control.NewFormControl(deepcopy.Copy(t.Value), control.FromSpecs(t.Validators)...)
	default:
		return nil
	}
	if t.Disabled {
		c.Disable(control.OnlySelf(), control.NoEmit())
	}
	return c
}
