package layout

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/reoring/jsonform/formdata"
	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/internal/logging"
	"github.com/reoring/jsonform/internal/schemautil"
	"github.com/reoring/jsonform/jsonpointer"
	"github.com/reoring/jsonform/refs"
)

const defaultMaxItems = 1000

var (
	digitsRe  = regexp.MustCompile(`^\d+$`)
	addWordRe = regexp.MustCompile(`(?i)^add\b`)
)

// Config wires a Builder to the state of one form.
type Config struct {
	// Schema is the resolved schema.
	Schema map[string]any
	Refs   *refs.Context
	// Values are the initial form values; they decide how many array items
	// are laid out.
	Values any
	// AddSubmit is true, false or "auto" (only for generated layouts).
	AddSubmit any
	// SetSchemaDefaults is true, false or "auto" (only when Values is empty).
	SetSchemaDefaults    any
	DefaultWidgetOptions map[string]any
	Widgets              WidgetRegistry
	DataMap              formdata.Map
	IDs                  *IDs
	Logger               logging.Logger
}

// Builder turns an explicit layout, a schema or both into a tree of Nodes.
// It also fills the data map and a library of item templates used when
// items are added to arrays later.
type Builder struct {
	cfg Config
	// Library maps a generic data pointer to the layout template of the
	// array item or recursive node found there.
	Library map[string]*Node
	// FieldsRequired is set once any required input was laid out.
	FieldsRequired bool
}

// NewBuilder returns a Builder, filling unset Config fields with defaults.
func NewBuilder(cfg Config) *Builder {
	if cfg.Refs == nil {
		cfg.Refs = refs.NewContext()
	}
	if cfg.Widgets == nil {
		cfg.Widgets = DefaultWidgets()
	}
	if cfg.DataMap == nil {
		cfg.DataMap = formdata.Map{}
	}
	if cfg.IDs == nil {
		cfg.IDs = &IDs{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.AddSubmit == nil {
		cfg.AddSubmit = "auto"
	}
	if cfg.SetSchemaDefaults == nil {
		cfg.SetSchemaDefaults = "auto"
	}
	return &Builder{cfg: cfg, Library: map[string]*Node{}}
}

// DataMap returns the data map filled by the builder.
func (b *Builder) DataMap() formdata.Map { return b.cfg.DataMap }

// Build produces the layout. A nil explicit layout is generated from the
// schema as if it were ["*"].
func (b *Builder) Build(explicit []any) []*Node {
	generated := explicit == nil
	if generated {
		explicit = []any{"*"}
	}
	out := b.mapLayout(explicit, "")

	if b.cfg.Refs.HasRootReference {
		full := make([]*Node, 0, len(out))
		for _, n := range out {
			if n.Type != "submit" {
				full = append(full, n.Clone())
			}
		}
		root := &Node{
			DataType:           "object",
			Items:              full,
			Options:            deepcopy.Copy(b.cfg.DefaultWidgetOptions).(map[string]any),
			RecursiveReference: true,
			Type:               "section",
		}
		if root.Options == nil {
			root.Options = map[string]any{}
		}
		root.Walk(func(n *Node) { n.ID = "" })
		b.Library[""] = root
	}

	if b.wantSubmit(generated) && !containsType(out, "submit") {
		out = append(out, &Node{
			ID:      b.cfg.IDs.Next(),
			Type:    "submit",
			Options: map[string]any{"title": "Submit"},
		})
	}
	return out
}

func (b *Builder) wantSubmit(generated bool) bool {
	switch v := b.cfg.AddSubmit.(type) {
	case bool:
		return v
	case string:
		if v == "auto" {
			return generated
		}
		return v != ""
	}
	return false
}

func containsType(nodes []*Node, t string) bool {
	found := false
	for _, n := range nodes {
		n.Walk(func(c *Node) {
			if c.Type == t {
				found = true
			}
		})
	}
	return found
}

// ItemNode returns a fresh copy of the library template a "$ref" button
// points at, with new ids and, for recursive templates, data pointers
// prefixed by the button's own pointer.
func (b *Builder) ItemNode(ref *Node) *Node {
	return b.refNode(ref, nil, false)
}

func (b *Builder) mapLayout(items []any, parentType string) []*Node {
	var out []*Node
	for _, item := range items {
		out = append(out, b.explicitNode(item, parentType)...)
	}
	return out
}

// validation message codes used by older layout formats
var legacyMessageCodes = map[string]string{
	"0": "type", "1": "enum", "100": "multipleOf", "101": "minimum", "102": "exclusiveMinimum",
	"103": "maximum", "104": "exclusiveMaximum", "200": "minLength", "201": "maxLength",
	"202": "pattern", "300": "minProperties", "301": "maxProperties", "302": "required",
	"304": "dependencies", "400": "minItems", "401": "maxItems", "402": "uniqueItems", "500": "format",
}

func (b *Builder) explicitNode(item any, parentType string) []*Node {
	n := &Node{Options: map[string]any{}}
	key := ""
	switch it := item.(type) {
	case string:
		switch {
		case it == "":
			b.cfg.Logger.Warn("empty layout item ignored")
			return nil
		case jsonpointer.IsJSONPointer(it):
			n.DataPointer = it
		default:
			key = it
		}
	case map[string]any:
		rawType, _ := it["type"].(string)
		if rawType == "" {
			rawType, _ = it["widget"].(string)
		}
		children, ok := it["items"]
		if !ok {
			children = it["tabs"]
		}
		if children != nil {
			list, ok := children.([]any)
			if !ok {
				list = []any{children}
			}
			n.Items = b.mapLayout(list, rawType)
			if n.Items == nil {
				n.Items = []*Node{}
			}
		}
		if opts, ok := it["options"].(map[string]any); ok {
			for k, v := range opts {
				n.Options[k] = v
			}
		}
		for _, k := range jsonvalue.SortedKeys(it) {
			v := it[k]
			switch k {
			case "_id", "items", "tabs", "options":
			case "$ref":
				n.Ref, _ = v.(string)
			case "arrayItem":
				n.ArrayItem = v == true
			case "arrayItemType":
				n.ArrayItemType, _ = v.(string)
			case "dataPointer":
				n.DataPointer, _ = v.(string)
			case "dataType":
				n.DataType, _ = v.(string)
			case "key":
				key, _ = v.(string)
			case "name":
				n.Name, _ = v.(string)
			case "recursiveReference":
				n.RecursiveReference = v == true
			case "type":
				n.Type, _ = v.(string)
			case "widget":
				if s, ok := v.(string); ok {
					if _, hasType := it["type"]; !hasType {
						n.Type = s
					}
				} else {
					n.Options["widget"] = v
				}
			default:
				n.Options[k] = v
			}
		}
		fixLegacyOptions(n)
	default:
		b.cfg.Logger.Warn("layout item not recognized", "item", item)
		return nil
	}
	n.ID = b.cfg.IDs.Next()

	if n.DataPointer == "" {
		switch {
		case key == "*":
			n.DataPointer = "*"
		case key != "":
			n.DataPointer = jsonpointer.Compile(jsonpointer.ParseObjectPath(key), "-")
		case strings.HasSuffix(n.Type, "array") && n.Items != nil:
			if child := findItemPointer(n.Items); child != "" {
				n.DataPointer = child[:strings.LastIndex(child, "/-")]
			}
		}
	}

	switch {
	case n.DataPointer == "*":
		return b.schemaLayout()
	case n.DataPointer != "":
		b.bindNode(n)
	case n.Type != "" || n.Items != nil:
		if n.Type == "" {
			if parentType == "tabs" || parentType == "tabarray" {
				n.Type = "tab"
			} else {
				n.Type = "section"
			}
		}
		n.ArrayItem = parentType == "array"
		n.Options = schemautil.InputOptions(nil, n.Options, nil, b.cfg.DefaultWidgetOptions)
	default:
		n.Type = "none"
		n.Options = schemautil.InputOptions(nil, n.Options, nil, b.cfg.DefaultWidgetOptions)
	}
	return []*Node{n}
}

func fixLegacyOptions(n *Node) {
	if _, ok := n.Options["title"]; !ok {
		if legend, ok := n.Options["legend"]; ok {
			n.Options["title"] = legend
			delete(n.Options, "legend")
		}
	}
	if _, ok := n.Options["validationMessages"]; ok {
		return
	}
	if em, ok := n.Options["errorMessages"]; ok {
		n.Options["validationMessages"] = em
		delete(n.Options, "errorMessages")
		return
	}
	vm, ok := n.Options["validationMessage"]
	if !ok {
		return
	}
	if m, isMap := vm.(map[string]any); isMap {
		out := make(map[string]any, len(m))
		for code, msg := range m {
			if name, known := legacyMessageCodes[code]; known {
				out[name] = msg
			} else {
				out[code] = msg
			}
		}
		n.Options["validationMessages"] = out
	} else {
		n.Options["validationMessages"] = vm
	}
	delete(n.Options, "validationMessage")
}

func findItemPointer(items []*Node) string {
	for _, it := range items {
		if strings.Contains(it.DataPointer, "/-") {
			return it.DataPointer
		}
		if p := findItemPointer(it.Items); p != "" {
			return p
		}
	}
	return ""
}

// schemaLayout lays out the whole schema. The root object contributes its
// properties directly.
func (b *Builder) schemaLayout() []*Node {
	root := b.fromSchema(b.cfg.Values, "", "", false, "", true, false, "")
	if root == nil {
		return nil
	}
	if root.DataType == "object" {
		return root.Items
	}
	return []*Node{root}
}

func (b *Builder) schemaDefaultsApply() bool {
	switch v := b.cfg.SetSchemaDefaults.(type) {
	case bool:
		return v
	case string:
		return v == "auto" && jsonvalue.IsEmpty(b.cfg.Values)
	}
	return false
}

func (b *Builder) canonical(pointer string) string {
	return refs.RemoveRecursiveReferences(pointer, b.cfg.Refs.DataRecursiveRefMap, b.cfg.Refs.ArrayMap)
}

// itemRef maps an array item pointer to the library key of its template.
// Items whose schema is a recursion marker fold onto the marker's target.
func (b *Builder) itemRef(pointer string) (string, bool) {
	short := b.canonical(pointer)
	if to, ok := b.cfg.Refs.DataRecursiveRefMap[short]; ok {
		return to, true
	}
	return short, short != pointer
}

func (b *Builder) itemSchemaPointer(pointer string) string {
	short := b.cfg.Refs.CanonicalSchemaPointer(pointer)
	if to, ok := b.cfg.Refs.SchemaRecursiveRefMap[short]; ok {
		return to
	}
	return short
}

func (b *Builder) noteEntry(e *formdata.Entry, schema map[string]any) {
	if e.SchemaType == "" {
		e.SchemaType = schemautil.PrimaryType(schema)
	}
	if e.SchemaFormat == "" {
		e.SchemaFormat, _ = schema["format"].(string)
	}
}

func dataType(schema map[string]any) string {
	if t := schemautil.PrimaryType(schema); t != "" && t != "unknown" {
		return t
	}
	if _, ok := schema["$ref"]; ok {
		return "$ref"
	}
	return ""
}

func (b *Builder) setTitle(n *Node) {
	if n.OptString("title") == "" && n.Name != "" && !digitsRe.MatchString(n.Name) {
		n.SetOpt("title", schemautil.FixTitle(n.Name))
	}
}

// bindNode completes an explicit layout node that addresses data.
func (b *Builder) bindNode(n *Node) {
	valuePointer := strings.ReplaceAll(n.DataPointer, "/-", "/0")
	nodeValue, _ := jsonpointer.Get(b.cfg.Values, valuePointer)

	n.DataPointer = jsonpointer.ToGenericPointer(n.DataPointer, b.cfg.Refs.ArrayMap)
	if k := jsonpointer.ToKey(n.DataPointer); n.Name == "" && k != "-" {
		n.Name = k
	}
	short := b.canonical(n.DataPointer)
	recursive := short == "" || short != n.DataPointer

	schemaPointer, found := "", false
	if e, ok := b.cfg.DataMap.Lookup(short); ok && e.InputType != "" {
		schemaPointer, found = e.SchemaPointer, true
	} else {
		schemaPointer, found = refs.SchemaPointer(b.cfg.Schema, short)
	}
	schema := schemautil.Sub(b.cfg.Schema, schemaPointer)
	if !found || schema == nil {
		b.cfg.Logger.Warn("layout key not found in schema", "dataPointer", n.DataPointer)
		n.DataPointer = ""
		if n.Type == "" {
			n.Type = "none"
		}
		n.Options = schemautil.InputOptions(nil, n.Options, nil, b.cfg.DefaultWidgetOptions)
		b.setTitle(n)
		return
	}
	entry := b.cfg.DataMap.Entry(short)
	entry.SchemaPointer = schemaPointer
	b.noteEntry(entry, schema)

	nodeMap := map[string]any{"options": n.Options}
	switch {
	case n.Type == "":
		n.Type = schemautil.InputType(schema, nodeMap)
	case !b.cfg.Widgets.HasWidget(n.Type):
		old := n.Type
		n.Type = schemautil.InputType(schema, nodeMap)
		b.cfg.Logger.Warn("widget type not found, replacing", "widget", old, "replacement", n.Type)
	default:
		n.Type = schemautil.CheckInlineType(n.Type, schema, nodeMap)
	}
	if req, ok := schema["required"].([]any); ok && schemautil.PrimaryType(schema) == "object" {
		entry.Required = jsonvalue.Strings(req)
	}
	n.DataType = dataType(schema)
	n.Options = schemautil.InputOptions(nil, n.Options, schema, b.cfg.DefaultWidgetOptions)
	entry.Disabled = n.OptBool("disabled")

	items, itemsIsMap := schema["items"].(map[string]any)
	if n.Type == "checkboxes" && itemsIsMap {
		n.Options = schemautil.InputOptions(nil, n.Options, items, b.cfg.DefaultWidgetOptions)
	} else if n.DataType == "array" {
		listLen := 0
		if l, ok := nodeValue.([]any); ok {
			listLen = len(l)
		}
		b.arrayBounds(n, schema, max(n.OptInt("listItems", 0), listLen), entry, short)
	}
	if schemautil.IsInputRequired(b.cfg.Schema, schemaPointer) {
		n.SetOpt("required", true)
		n.Required = true
		b.FieldsRequired = true
	}
	b.setTitle(n)
	normalizeCopyValueTo(n)
	entry.InputType = n.Type

	switch {
	case n.DataType == "array" && n.Items != nil:
		b.explicitArrayItems(n, nodeValue, recursive)
	case n.DataType == "$ref":
		b.refButton(n, schema, schemaPointer, n.DataPointer, false)
	}
}

func normalizeCopyValueTo(n *Node) {
	v, ok := n.Options["copyValueTo"]
	if !ok {
		return
	}
	var targets []any
	switch t := v.(type) {
	case string:
		targets = []any{t}
	case []any:
		targets = t
	default:
		return
	}
	out := make([]any, 0, len(targets))
	for _, t := range targets {
		if s, ok := t.(string); ok {
			out = append(out, jsonpointer.Compile(jsonpointer.ParseObjectPath(s), "-"))
		}
	}
	n.Options["copyValueTo"] = out
}

// arrayBounds reconciles minItems, maxItems, tuple and list item counts of
// an array node.
func (b *Builder) arrayBounds(n *Node, schema map[string]any, listItems int, entry *formdata.Entry, short string) {
	orDefault := func(v any, def int) int {
		if f, ok := jsonvalue.ToFloat(v); ok && f != 0 {
			return int(f)
		}
		return def
	}
	maxItems := min(orDefault(schema["maxItems"], defaultMaxItems), n.OptInt("maxItems", defaultMaxItems))
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	minItems := max(orDefault(schema["minItems"], 0), n.OptInt("minItems", 0))
	tupleItems := 0
	if tuple, ok := schema["items"].([]any); ok {
		tupleItems = len(tuple)
	}
	switch {
	case maxItems <= tupleItems:
		tupleItems = maxItems
		listItems = 0
	case maxItems < tupleItems+listItems:
		listItems = maxItems - tupleItems
	case minItems > tupleItems+listItems:
		listItems = minItems - tupleItems
	}
	n.SetOpt("maxItems", maxItems)
	n.SetOpt("minItems", minItems)
	n.SetOpt("tupleItems", tupleItems)
	n.SetOpt("listItems", listItems)
	entry.SetArrayInfo(minItems, maxItems, tupleItems, listItems)
	if _, ok := b.cfg.Refs.ArrayMap[short]; !ok {
		b.cfg.Refs.ArrayMap[short] = tupleItems
	}
}

// explicitArrayItems turns the children of an explicit array node into an
// item template, lays out one copy per existing item and adds the "add"
// button.
func (b *Builder) explicitArrayItems(n *Node, nodeValue any, recursive bool) {
	itemPointer := n.DataPointer + "/-"
	if len(n.Items) == 0 {
		return
	}
	if len(n.Items) != 1 || n.Items[0].DataPointer != itemPointer {
		wrapper := &Node{
			ID:          b.cfg.IDs.Next(),
			Type:        "section",
			DataPointer: itemPointer,
			Items:       n.Items,
			Options:     schemautil.InputOptions(nil, nil, nil, b.cfg.DefaultWidgetOptions),
		}
		short := b.canonical(itemPointer)
		if sp, ok := refs.SchemaPointer(b.cfg.Schema, short); ok {
			entry := b.cfg.DataMap.Entry(short)
			if entry.InputType == "" {
				entry.SchemaPointer = sp
				entry.InputType = "section"
			}
			if s := schemautil.Sub(b.cfg.Schema, sp); s != nil {
				wrapper.DataType = dataType(s)
				b.noteEntry(entry, s)
			}
		}
		n.Items = []*Node{wrapper}
	}
	first := n.Items[0]
	first.ArrayItem = true
	first.ArrayItemType = "list"
	if !first.HasOpt("removable") {
		first.SetOpt("removable", true)
	}

	itemRef, _ := b.itemRef(itemPointer)
	if _, ok := b.Library[itemRef]; !ok {
		tpl := first.Clone()
		if recursive {
			tpl.RecursiveReference = true
		}
		tpl.Walk(func(c *Node) {
			c.ID = ""
			if recursive && c.DataPointer != "" {
				c.DataPointer = strings.TrimPrefix(c.DataPointer, n.DataPointer)
			}
		})
		b.Library[itemRef] = tpl
	}

	if !n.RecursiveReference || n.OptBool("required") {
		valueLen := 0
		if l, ok := nodeValue.([]any); ok {
			valueLen = len(l)
		}
		length := min(max(n.OptInt("tupleItems", 0)+n.OptInt("listItems", 0), valueLen), n.OptInt("maxItems", defaultMaxItems))
		for i := len(n.Items); i < length; i++ {
			if item := b.refNode(&Node{Type: "$ref", Ref: itemRef, DataPointer: n.DataPointer, RecursiveReference: n.RecursiveReference}, nil, true); item != nil {
				n.Items = append(n.Items, item)
			}
		}
	}

	if !n.OptFalse("addable") && n.OptInt("minItems", 0) < n.OptInt("maxItems", defaultMaxItems) && !n.Items[len(n.Items)-1].IsRef() {
		text := "Add"
		switch title := n.OptString("title"); {
		case title != "" && addWordRe.MatchString(title):
			text = title
		case title != "":
			text += " " + title
		case n.Name != "" && !digitsRe.MatchString(n.Name):
			text += " " + schemautil.FixTitle(n.Name)
		default:
			text += " to " + b.parentTitle(n.DataPointer)
		}
		button := b.addButton(n, itemRef, text, recursive, false)
		if style, ok := n.Options["style"].(map[string]any); ok {
			if add, ok := style["add"].(string); ok {
				button.SetOpt("fieldStyle", add)
				delete(style, "add")
				if len(style) == 0 {
					delete(n.Options, "style")
				}
			}
		}
		n.Items = append(n.Items, button)
	}
}

func (b *Builder) parentTitle(dataPointer string) string {
	if sp, ok := refs.SchemaPointer(b.cfg.Schema, jsonpointer.Parent(b.canonical(dataPointer))); ok {
		if t, ok := schemautil.Sub(b.cfg.Schema, sp)["title"].(string); ok && t != "" {
			return t
		}
	}
	keys := jsonpointer.Keys(dataPointer)
	if len(keys) >= 2 {
		return schemautil.FixTitle(keys[len(keys)-2])
	}
	return ""
}

func (b *Builder) addButton(n *Node, itemRef, title string, recursive, forRefLibrary bool) *Node {
	button := &Node{
		ArrayItem:     true,
		ArrayItemType: "list",
		DataPointer:   n.DataPointer + "/-",
		Options: map[string]any{
			"listItems":  n.OptInt("listItems", 0),
			"maxItems":   n.OptInt("maxItems", defaultMaxItems),
			"minItems":   n.OptInt("minItems", 0),
			"removable":  false,
			"title":      title,
			"tupleItems": n.OptInt("tupleItems", 0),
		},
		RecursiveReference: recursive,
		Type:               "$ref",
		Ref:                itemRef,
	}
	if !forRefLibrary {
		button.ID = b.cfg.IDs.Next()
	}
	return button
}

// refNode expands a "$ref" node. While the initial layout is built a
// recursive reference stays an "add" button so the layout is finite.
func (b *Builder) refNode(ref *Node, value any, building bool) *Node {
	if ref.RecursiveReference && building {
		n := ref.Clone()
		if n.Options == nil {
			n.Options = map[string]any{}
		}
		n.Type = "$ref"
		n.RecursiveReference = true
		n.Options["removable"] = false
		if n.OptString("title") == "" {
			n.Options["title"] = strings.TrimSpace("Add " + schemautil.FixTitle(lastNamedKey(ref.Ref)))
		}
		return n
	}
	lib := b.Library[ref.Ref]
	if lib == nil {
		b.cfg.Logger.Warn("layout template not found", "ref", ref.Ref)
		return nil
	}
	if value != nil && !ref.RecursiveReference {
		if sp, ok := refs.SchemaPointer(b.cfg.Schema, ref.Ref); ok {
			removable := !lib.OptFalse("removable")
			if n := b.fromSchema(value, sp, ref.Ref, lib.ArrayItem, lib.ArrayItemType, removable, false, ""); n != nil {
				return n
			}
		}
	}
	n := lib.Clone()
	n.Walk(func(c *Node) {
		c.ID = b.cfg.IDs.Next()
		if ref.RecursiveReference && (c == n || c.DataPointer != "") {
			c.DataPointer = ref.DataPointer + c.DataPointer
		}
	})
	if ref.RecursiveReference {
		n.RecursiveReference = false
		if n.Name == "" {
			if k := jsonpointer.ToKey(n.DataPointer); k != "-" {
				n.Name = k
				b.setTitle(n)
			}
		}
	}
	return n
}

func lastNamedKey(pointer string) string {
	keys := jsonpointer.Keys(pointer)
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i] != "-" && !digitsRe.MatchString(keys[i]) {
			return keys[i]
		}
	}
	return ""
}

// fromSchema lays out the schema node at schemaPointer. Nodes built for
// the library use dataPointer relative to prefix when they sit below a
// recursive reference.
func (b *Builder) fromSchema(value any, schemaPointer, dataPointer string, arrayItem bool, arrayItemType string, removable, forRefLibrary bool, prefix string) *Node {
	schema := schemautil.Sub(b.cfg.Schema, schemaPointer)
	if schema == nil {
		return nil
	}
	_, hasRef := schema["$ref"]
	_, hasXSF := schema["x-schema-form"]
	if dt := dataType(schema); dt == "" && !hasRef && !hasXSF {
		return nil
	}
	if value == nil && b.schemaDefaultsApply() {
		value = schema["default"]
	}
	t := schemautil.InputType(schema, nil)
	n := &Node{
		ArrayItem:   arrayItem,
		DataPointer: jsonpointer.ToGenericPointer(dataPointer, b.cfg.Refs.ArrayMap),
		DataType:    dataType(schema),
		Options:     map[string]any{},
		Required:    schemautil.IsInputRequired(b.cfg.Schema, schemaPointer),
		Type:        t,
	}
	if !forRefLibrary {
		n.ID = b.cfg.IDs.Next()
	}
	if k := jsonpointer.ToKey(n.DataPointer); k != "-" {
		n.Name = k
	}
	if arrayItem {
		n.ArrayItemType = arrayItemType
		n.Options["removable"] = removable
	}
	short := b.canonical(prefix + dataPointer)
	entry := b.cfg.DataMap.Entry(short)
	if entry.InputType == "" {
		entry.SchemaPointer = schemaPointer
		entry.InputType = t
	}
	b.noteEntry(entry, schema)
	n.Options = schemautil.InputOptions(nil, n.Options, schema, b.cfg.DefaultWidgetOptions)
	entry.Disabled = n.OptBool("disabled")
	b.setTitle(n)

	switch n.DataType {
	case "object":
		if req, ok := schema["required"].([]any); ok && entry.Required == nil {
			entry.Required = jsonvalue.Strings(req)
		}
		values, _ := value.(map[string]any)
		section := []*Node{}
		for _, key := range schemautil.PropertyOrder(schema) {
			esc := jsonpointer.Escape(key)
			inner := b.fromSchema(values[key], schemaPointer+"/properties/"+esc, dataPointer+"/"+esc, false, "", true, forRefLibrary, prefix)
			if inner == nil {
				continue
			}
			if schemautil.IsInputRequired(schema, "/properties/"+esc) {
				inner.SetOpt("required", true)
				inner.Required = true
				b.FieldsRequired = true
			}
			section = append(section, inner)
		}
		n.Items = section

	case "array":
		b.schemaArray(n, schema, value, schemaPointer, dataPointer, short, entry, forRefLibrary, prefix)

	case "$ref":
		b.refButton(n, schema, schemaPointer, dataPointer, forRefLibrary)
		if n.Ref == "" && !b.cfg.Refs.HasRootReference && !b.isMarker(schemaPointer) {
			return nil
		}
		if expanded := b.expandRef(n, schema, value, dataPointer, forRefLibrary, prefix); expanded != nil {
			return expanded
		}
	}
	return n
}

// expandRef lays out a recursive node that already has data as a regular
// section, so the layout reaches as deep as the values do.
func (b *Builder) expandRef(n *Node, schema map[string]any, value any, dataPointer string, forRefLibrary bool, prefix string) *Node {
	if _, isObject := value.(map[string]any); !isObject || forRefLibrary || !n.RecursiveReference {
		return nil
	}
	ref, _ := schema["$ref"].(string)
	expanded := b.fromSchema(value, ref[1:], dataPointer, n.ArrayItem, n.ArrayItemType, !n.OptFalse("removable"), false, prefix)
	if expanded == nil || expanded.DataType != "object" {
		return nil
	}
	return expanded
}

func (b *Builder) isMarker(schemaPointer string) bool {
	_, ok := b.cfg.Refs.SchemaRecursiveRefMap[schemaPointer]
	return ok
}

func (b *Builder) schemaArray(n *Node, schema map[string]any, value any, schemaPointer, dataPointer, short string, entry *formdata.Entry, forRefLibrary bool, prefix string) {
	list, _ := value.([]any)
	valueAt := func(i int) any {
		if i < len(list) {
			return list[i]
		}
		return nil
	}
	if !n.HasOpt("listItems") {
		n.SetOpt("listItems", 1)
	}
	if n.OptInt("minItems", 0) == 0 && jsonvalue.ToFloatOr(schema["minItems"], 0) == 0 && schemautil.IsInputRequired(b.cfg.Schema, schemaPointer) {
		n.SetOpt("minItems", 1)
	}
	b.arrayBounds(n, schema, n.OptInt("listItems", 1), entry, short)
	tupleItems := n.OptInt("tupleItems", 0)
	listItems := n.OptInt("listItems", 0)
	minItems := n.OptInt("minItems", 0)
	maxItems := n.OptInt("maxItems", defaultMaxItems)
	removable := !n.OptFalse("removable")
	n.Items = []*Node{}

	additional := ""
	if _, isTuple := schema["items"].([]any); isTuple {
		for i := 0; i < tupleItems; i++ {
			idx := strconv.Itoa(i)
			itemRef, itemRecursive := b.itemRef(short + "/" + idx)
			var item *Node
			if removable && i >= minItems {
				if _, ok := b.Library[itemRef]; !ok {
					b.Library[itemRef] = nil
					dp, pfx := dataPointer+"/"+idx, ""
					if itemRecursive {
						dp, pfx = "", dataPointer+"/"+idx
					}
					lib := b.fromSchema(valueAt(i), schemaPointer+"/items/"+idx, dp, true, "tuple", true, true, pfx)
					if lib != nil && itemRecursive {
						lib.RecursiveReference = true
					}
					b.Library[itemRef] = lib
				}
				if lib := b.Library[itemRef]; lib != nil {
					item = b.refNode(&Node{Type: "$ref", Ref: itemRef, DataPointer: dataPointer + "/" + idx, RecursiveReference: lib.RecursiveReference}, valueAt(i), true)
				}
			} else {
				item = b.fromSchema(valueAt(i), schemaPointer+"/items/"+idx, dataPointer+"/"+idx, true, "tuple", false, forRefLibrary, prefix)
			}
			if item != nil {
				n.Items = append(n.Items, item)
			}
		}
		if _, ok := schema["additionalItems"].(map[string]any); ok {
			additional = schemaPointer + "/additionalItems"
		}
	} else if _, ok := schema["items"].(map[string]any); ok {
		additional = schemaPointer + "/items"
	}
	if additional == "" {
		return
	}

	itemRef, itemRecursive := b.itemRef(short + "/-")
	itemSchema := b.itemSchemaPointer(additional)
	if _, ok := b.Library[itemRef]; itemRef != "" && !ok {
		b.Library[itemRef] = nil
		dp, pfx := dataPointer+"/-", ""
		if itemRecursive {
			dp, pfx = "", dataPointer+"/-"
		}
		lib := b.fromSchema(nil, itemSchema, dp, true, "list", removable, true, pfx)
		if lib == nil {
			delete(b.Library, itemRef)
		} else {
			if itemRecursive {
				lib.RecursiveReference = true
			}
			b.Library[itemRef] = lib
		}
	}

	base := tupleItems + listItems
	if itemRecursive {
		// only the items the data has, laid out from the data itself
		base = 0
	}
	length := min(max(base, len(list)), maxItems)
	for i := len(n.Items); i < length; i++ {
		lib := b.Library[itemRef]
		if lib == nil {
			break
		}
		var item *Node
		if itemRecursive {
			item = b.fromSchema(valueAt(i), itemSchema, dataPointer+"/-", true, "list", removable, forRefLibrary, prefix)
		} else {
			item = b.refNode(&Node{Type: "$ref", Ref: itemRef, DataPointer: dataPointer + "/-", RecursiveReference: lib.RecursiveReference}, valueAt(i), true)
		}
		if item != nil {
			n.Items = append(n.Items, item)
		}
	}

	if !n.OptFalse("addable") && minItems < maxItems && (len(n.Items) == 0 || !n.Items[len(n.Items)-1].IsRef()) {
		text := ""
		if lib := b.Library[itemRef]; lib != nil {
			text = lib.OptString("title")
		}
		lead := "Add "
		if text == "" {
			lead = "Add to "
			text = n.OptString("title")
			if text == "" {
				text = schemautil.FixTitle(jsonpointer.ToKey(dataPointer))
			}
		}
		if !addWordRe.MatchString(text) {
			text = strings.TrimSpace(lead + text)
		}
		n.Items = append(n.Items, b.addButton(n, itemRef, text, itemRecursive, forRefLibrary))
	}
}

// refButton turns a node whose schema is a recursion marker into an "add"
// button and makes sure the library holds the template it expands to.
func (b *Builder) refButton(n *Node, schema map[string]any, schemaPointer, dataPointer string, forRefLibrary bool) {
	ref, _ := schema["$ref"].(string)
	if !strings.HasPrefix(ref, "#") || !b.isMarker(schemaPointer) {
		b.cfg.Logger.Warn("unresolved reference in layout", "schemaPointer", schemaPointer, "ref", ref)
		return
	}
	schemaRef := ref[1:]
	dataRef, ok := refs.DataPointer(schemaRef)
	if !ok {
		b.cfg.Logger.Warn("reference target has no data location", "ref", ref)
		return
	}

	text := n.OptString("add")
	switch {
	case text != "":
	case n.Name != "" && !digitsRe.MatchString(n.Name):
		if addWordRe.MatchString(n.Name) {
			text = schemautil.FixTitle(n.Name)
		} else {
			text = "Add " + schemautil.FixTitle(n.Name)
		}
	default:
		parent, _ := jsonpointer.GetSlice(b.cfg.Schema, schemaPointer, 0, -1)
		if m, ok := parent.(map[string]any); ok && m["title"] != nil {
			text = "Add to " + jsonvalue.ToString(m["title"])
		} else {
			keys := jsonpointer.Keys(n.DataPointer)
			if len(keys) >= 2 {
				text = "Add to " + schemautil.FixTitle(keys[len(keys)-2])
			} else {
				text = "Add"
			}
		}
	}
	n.Type = "$ref"
	n.RecursiveReference = true
	n.Ref = dataRef
	n.SetOpt("removable", false)
	n.SetOpt("title", text)

	if dataRef == "" {
		return
	}
	lib, exists := b.Library[dataRef]
	switch {
	case !exists:
		b.Library[dataRef] = nil
		built := b.fromSchema(nil, schemaRef, "", n.ArrayItem, n.ArrayItemType, true, true, dataPointer)
		if built == nil {
			delete(b.Library, dataRef)
			return
		}
		built.RecursiveReference = true
		b.Library[dataRef] = built
	case lib != nil:
		lib.RecursiveReference = true
	}
}
