// Package jsonpointer addresses values inside decoded JSON trees
// (map[string]any, []any and scalars) using RFC 6901 pointers.
//
// Lookups never fail loudly: a missing path reports ok=false. Mutations
// that need an existing parent container (Insert, Remove) return an error
// when the parent is absent.
package jsonpointer

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/mohae/deepcopy"
)

var (
	// ErrInvalidPointer is returned for strings that are not JSON pointers.
	ErrInvalidPointer = errors.New("jsonpointer: invalid pointer")
	// ErrNoParent is returned when the parent container of a target is missing.
	ErrNoParent = errors.New("jsonpointer: parent container does not exist")
	// ErrNotContainer is returned when a path walks through a scalar.
	ErrNotContainer = errors.New("jsonpointer: value is not a container")
)

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape encodes a single key for use as a pointer segment.
func Escape(key string) string { return escaper.Replace(key) }

// Unescape decodes a single pointer segment.
func Unescape(seg string) string { return unescaper.Replace(seg) }

// IsJSONPointer reports whether s looks like a pointer ("", "/..." or "#/...").
func IsJSONPointer(s string) bool {
	return s == "" || s == "#" || strings.HasPrefix(s, "/") || strings.HasPrefix(s, "#/")
}

// Parse splits a pointer into unescaped keys. The empty pointer and "#"
// address the root and yield an empty slice. URI fragment pointers ("#/a%20b")
// are percent-decoded first.
func Parse(pointer string) ([]string, error) {
	if strings.HasPrefix(pointer, "#") {
		dec, err := url.PathUnescape(pointer[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPointer, pointer, err)
		}
		pointer = dec
	}
	if pointer == "" {
		return []string{}, nil
	}
	if pointer[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPointer, pointer)
	}
	parts := strings.Split(pointer[1:], "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts, nil
}

// Keys is Parse without the error: invalid pointers yield nil.
func Keys(pointer string) []string {
	keys, err := Parse(pointer)
	if err != nil {
		return nil
	}
	return keys
}

// Compile joins keys into a pointer. Empty keys are replaced by
// defaultValue when one is supplied.
func Compile(keys []string, defaultValue ...string) string {
	if len(keys) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, k := range keys {
		if k == "" && len(defaultValue) > 0 {
			k = defaultValue[0]
		}
		b.WriteByte('/')
		b.WriteString(Escape(k))
	}
	return b.String()
}

// ToKey returns the last key of a pointer, or "" for the root.
func ToKey(pointer string) string {
	keys := Keys(pointer)
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}

// Parent returns the pointer of the container holding pointer.
func Parent(pointer string) string {
	keys := Keys(pointer)
	if len(keys) == 0 {
		return ""
	}
	return Compile(keys[:len(keys)-1])
}

// Append adds keys to the end of a pointer.
func Append(pointer string, keys ...string) string {
	b := &strings.Builder{}
	b.WriteString(pointer)
	for _, k := range keys {
		b.WriteByte('/')
		b.WriteString(Escape(k))
	}
	return b.String()
}

// IsArrayIndex reports whether a key addresses a sequence element.
func IsArrayIndex(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

// Get returns the value at pointer.
func Get(root any, pointer string) (any, bool) {
	keys, err := Parse(pointer)
	if err != nil {
		return nil, false
	}
	return GetKeys(root, keys)
}

// GetKeys returns the value addressed by keys.
func GetKeys(root any, keys []string) (any, bool) {
	cur := root
	for _, k := range keys {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[k]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			if !IsArrayIndex(k) {
				return nil, false
			}
			i, _ := strconv.Atoi(k)
			if i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetSlice walks only keys[start:end] of a pointer. A negative end counts
// back from the last key.
func GetSlice(root any, pointer string, start, end int) (any, bool) {
	keys, err := Parse(pointer)
	if err != nil {
		return nil, false
	}
	if end <= 0 {
		end += len(keys)
	}
	if start < 0 || start > end || end > len(keys) {
		return nil, false
	}
	return GetKeys(root, keys[start:end])
}

// GetFirst returns the first non-nil value found at any of the pointers.
func GetFirst(root any, pointers ...string) (any, string, bool) {
	for _, p := range pointers {
		if v, ok := Get(root, p); ok && v != nil {
			return v, p, true
		}
	}
	return nil, "", false
}

// Has reports whether a value exists at pointer.
func Has(root any, pointer string) bool {
	_, ok := Get(root, pointer)
	return ok
}

// Set writes value at pointer, creating intermediate containers. A numeric
// or "-" key creates a sequence, anything else a mapping. The returned root
// replaces the argument since sequences may be reallocated when they grow.
func Set(root any, pointer string, value any) (any, error) {
	keys, err := Parse(pointer)
	if err != nil {
		return root, err
	}
	return setKeys(root, keys, value, false)
}

// SetCopy is Set on a deep copy of root.
func SetCopy(root any, pointer string, value any) (any, error) {
	return Set(deepcopy.Copy(root), pointer, value)
}

// Insert places value at pointer. For sequences the element is inserted
// before the addressed index instead of overwriting it. The parent
// container must already exist.
func Insert(root any, pointer string, value any) (any, error) {
	keys, err := Parse(pointer)
	if err != nil {
		return root, err
	}
	if len(keys) == 0 {
		return value, nil
	}
	if _, ok := GetKeys(root, keys[:len(keys)-1]); !ok {
		return root, fmt.Errorf("%w: %s", ErrNoParent, pointer)
	}
	return setKeys(root, keys, value, true)
}

// Remove deletes the value at pointer. Removing a missing key from an
// existing parent is a no-op; a missing parent is an error.
func Remove(root any, pointer string) (any, error) {
	keys, err := Parse(pointer)
	if err != nil {
		return root, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	parentKeys, last := keys[:len(keys)-1], keys[len(keys)-1]
	parent, ok := GetKeys(root, parentKeys)
	if !ok {
		return root, fmt.Errorf("%w: %s", ErrNoParent, pointer)
	}
	switch p := parent.(type) {
	case map[string]any:
		delete(p, last)
		return root, nil
	case []any:
		if !IsArrayIndex(last) {
			return root, nil
		}
		i, _ := strconv.Atoi(last)
		if i >= len(p) {
			return root, nil
		}
		next := append(p[:i:i], p[i+1:]...)
		return setKeys(root, parentKeys, next, false)
	default:
		return root, fmt.Errorf("%w: %s", ErrNotContainer, Compile(parentKeys))
	}
}

func setKeys(cur any, keys []string, value any, insert bool) (any, error) {
	if len(keys) == 0 {
		return value, nil
	}
	k := keys[0]
	if cur == nil {
		cur = newContainer(k)
	}
	switch c := cur.(type) {
	case map[string]any:
		child := c[k]
		if child == nil && len(keys) > 1 {
			child = newContainer(keys[1])
		}
		nv, err := setKeys(child, keys[1:], value, insert)
		if err != nil {
			return cur, err
		}
		c[k] = nv
		return c, nil
	case []any:
		i := len(c)
		if k != "-" {
			if !IsArrayIndex(k) {
				return cur, fmt.Errorf("%w: %q is not an index", ErrInvalidPointer, k)
			}
			i, _ = strconv.Atoi(k)
		}
		if len(keys) == 1 && insert {
			if i > len(c) {
				i = len(c)
			}
			c = append(c, nil)
			copy(c[i+1:], c[i:])
			c[i] = value
			return c, nil
		}
		for len(c) <= i {
			c = append(c, nil)
		}
		child := c[i]
		if child == nil && len(keys) > 1 {
			child = newContainer(keys[1])
		}
		nv, err := setKeys(child, keys[1:], value, insert)
		if err != nil {
			return cur, err
		}
		c[i] = nv
		return c, nil
	default:
		return cur, fmt.Errorf("%w: cannot set %q", ErrNotContainer, k)
	}
}

func newContainer(key string) any {
	if key == "-" || IsArrayIndex(key) {
		return []any{}
	}
	return map[string]any{}
}

// WalkFunc receives every visited value and its pointer.
type WalkFunc func(value any, pointer string)

// ForEachDeep visits root and all nested values. Mapping keys are visited in
// sorted order. With bottomUp set children are visited before their parent.
func ForEachDeep(root any, fn WalkFunc, bottomUp bool) {
	forEachDeep(root, "", fn, bottomUp)
}

func forEachDeep(v any, pointer string, fn WalkFunc, bottomUp bool) {
	if !bottomUp {
		fn(v, pointer)
	}
	switch c := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			forEachDeep(c[k], pointer+"/"+Escape(k), fn, bottomUp)
		}
	case []any:
		for i, item := range c {
			forEachDeep(item, pointer+"/"+strconv.Itoa(i), fn, bottomUp)
		}
	}
	if bottomUp {
		fn(v, pointer)
	}
}
