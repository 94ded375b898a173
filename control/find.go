package control

import (
	"strconv"

	"github.com/reoring/jsonform/jsonpointer"
)

// Get returns the control at dataPointer below root. The empty pointer
// returns root itself.
func Get(root Control, dataPointer string) (Control, bool) {
	if root == nil {
		return nil, false
	}
	cur := root
	for _, key := range jsonpointer.Keys(dataPointer) {
		switch c := cur.(type) {
		case *FormGroup:
			next, ok := c.Get(key)
			if !ok {
				return nil, false
			}
			cur = next
		case *FormArray:
			i, err := strconv.Atoi(key)
			if err != nil {
				return nil, false
			}
			next, ok := c.At(i)
			if !ok {
				return nil, false
			}
			cur = next
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetParent returns the container holding the control at dataPointer, along
// with the last key of the pointer.
func GetParent(root Control, dataPointer string) (Control, string, bool) {
	keys := jsonpointer.Keys(dataPointer)
	if len(keys) == 0 {
		return nil, "", false
	}
	parent, ok := Get(root, jsonpointer.Parent(dataPointer))
	if !ok {
		return nil, "", false
	}
	return parent, keys[len(keys)-1], true
}

// Walk visits c and every descendant depth first, passing the data pointer
// of each control relative to c.
func Walk(c Control, fn func(pointer string, c Control)) {
	walk(c, "", fn)
}

func walk(c Control, pointer string, fn func(string, Control)) {
	fn(pointer, c)
	switch t := c.(type) {
	case *FormGroup:
		for _, k := range t.keys {
			walk(t.controls[k], jsonpointer.Append(pointer, k), fn)
		}
	case *FormArray:
		for i, item := range t.controls {
			walk(item, jsonpointer.Append(pointer, strconv.Itoa(i)), fn)
		}
	}
}
