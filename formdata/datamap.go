// Package formdata holds per-field metadata gathered while building a form
// and uses it to turn raw control values into schema-typed output data.
package formdata

import "sort"

// Entry is what the builders learned about one generic data pointer.
type Entry struct {
	SchemaPointer string
	SchemaType    string
	SchemaFormat  string
	InputType     string
	TemplateType  string
	Disabled      bool
	// Required lists the required keys of an object node.
	Required []string

	HasArrayInfo bool
	MinItems     int
	MaxItems     int
	TupleItems   int
	ListItems    int
}

// Map is keyed by generic data pointer.
type Map map[string]*Entry

// Entry returns the entry for pointer, creating it when missing.
func (m Map) Entry(pointer string) *Entry {
	e, ok := m[pointer]
	if !ok {
		e = &Entry{}
		m[pointer] = e
	}
	return e
}

// Lookup returns the entry for pointer without creating it.
func (m Map) Lookup(pointer string) (*Entry, bool) {
	e, ok := m[pointer]
	return e, ok
}

// Pointers lists the keys of the map in order.
func (m Map) Pointers() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SetArrayInfo records array bounds once; later calls are ignored.
func (e *Entry) SetArrayInfo(minItems, maxItems, tupleItems, listItems int) {
	if e.HasArrayInfo {
		return
	}
	e.HasArrayInfo = true
	e.MinItems, e.MaxItems, e.TupleItems, e.ListItems = minItems, maxItems, tupleItems, listItems
}
