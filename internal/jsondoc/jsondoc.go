// Package jsondoc decodes JSON and YAML documents into plain Go trees
// (map[string]any, []any, float64, string, bool, nil).
//
// Go maps do not keep key order, yet forms must show properties in the order
// the schema author wrote them. In schema mode the decoder therefore stamps
// the key order of every "properties" object into a sibling "ui:order" list
// unless the author already supplied one.
package jsondoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonform/jsonpointer"
)

// OrderKey is the schema keyword holding the display order of properties.
const OrderKey = "ui:order"

// Mode selects whether property order is captured and whether duplicate
// keys are rejected. Modes combine with |.
type Mode int

const (
	// Data decodes values as-is.
	Data Mode = 0
	// Schema additionally records property order under OrderKey.
	Schema Mode = 1 << iota
	// Strict rejects JSON objects that repeat a key. YAML input always
	// rejects them.
	Strict
)

// ErrTrailingData is returned when a document holds more than one value.
var ErrTrailingData = errors.New("jsondoc: unexpected data after top-level value")

// DuplicateKeyError lists the pointers of repeated object keys. Without
// Strict the last occurrence wins.
type DuplicateKeyError struct {
	Pointers []string
}

func (e *DuplicateKeyError) Error() string {
	return "jsondoc: duplicate keys at " + strings.Join(e.Pointers, ", ")
}

// DecodeJSON decodes a single JSON value.
func DecodeJSON(b []byte, mode Mode) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	d := &tokenDecoder{dec: dec, mode: mode}
	v, _, err := d.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	if mode&Strict != 0 && len(d.dups) > 0 {
		return nil, &DuplicateKeyError{Pointers: d.dups}
	}
	return v, nil
}

type tokenDecoder struct {
	dec  *j.Decoder
	mode Mode
	path []string
	dups []string
}

// value reads the next value. For objects it also returns the key order.
func (d *tokenDecoder) value() (any, []string, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("jsondoc: %w", err)
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return d.object()
		case '[':
			arr, err := d.array()
			return arr, nil, err
		}
		return nil, nil, fmt.Errorf("jsondoc: unexpected delimiter %q", rune(v))
	case j.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, nil, fmt.Errorf("jsondoc: number %q: %w", string(v), err)
		}
		return f, nil, nil
	default:
		return v, nil, nil
	}
}

func (d *tokenDecoder) object() (any, []string, error) {
	obj := map[string]any{}
	var order []string
	var propsOrder []string
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("jsondoc: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("jsondoc: object key is %T", tok)
		}
		d.path = append(d.path, key)
		val, keys, err := d.value()
		if err != nil {
			return nil, nil, err
		}
		if _, dup := obj[key]; dup {
			d.dups = append(d.dups, d.pointer())
		} else {
			order = append(order, key)
		}
		d.path = d.path[:len(d.path)-1]
		obj[key] = val
		if key == "properties" {
			propsOrder = keys
		}
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("jsondoc: %w", err)
	}
	stampOrder(obj, propsOrder, d.mode)
	return obj, order, nil
}

func (d *tokenDecoder) array() ([]any, error) {
	arr := []any{}
	for d.dec.More() {
		d.path = append(d.path, strconv.Itoa(len(arr)))
		v, _, err := d.value()
		if err != nil {
			return nil, err
		}
		d.path = d.path[:len(d.path)-1]
		arr = append(arr, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, fmt.Errorf("jsondoc: %w", err)
	}
	return arr, nil
}

func (d *tokenDecoder) pointer() string {
	var b strings.Builder
	for _, k := range d.path {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(k))
	}
	return b.String()
}

func stampOrder(obj map[string]any, propsOrder []string, mode Mode) {
	if mode&Schema == 0 || len(propsOrder) == 0 {
		return
	}
	if _, ok := obj[OrderKey]; ok {
		return
	}
	if _, ok := obj["properties"].(map[string]any); !ok {
		return
	}
	list := make([]any, len(propsOrder))
	for i, k := range propsOrder {
		list[i] = k
	}
	obj[OrderKey] = list
}

// DecodeYAML decodes the first document of a YAML stream. Mapping keys that
// are not strings are formatted with %v.
func DecodeYAML(b []byte, mode Mode) (any, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(b)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("jsondoc: %w", err)
	}
	v, _, err := fromNode(&root, mode)
	return v, err
}

func fromNode(n *yaml.Node, mode Mode) (any, []string, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil, nil
		}
		return fromNode(n.Content[0], mode)
	case yaml.AliasNode:
		return fromNode(n.Alias, mode)
	case yaml.MappingNode:
		obj := make(map[string]any, len(n.Content)/2)
		var order, propsOrder []string
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key any
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, nil, fmt.Errorf("jsondoc: line %d: %w", n.Content[i].Line, err)
			}
			ks, ok := key.(string)
			if !ok {
				ks = fmt.Sprint(key)
			}
			val, keys, err := fromNode(n.Content[i+1], mode)
			if err != nil {
				return nil, nil, err
			}
			if _, dup := obj[ks]; !dup {
				order = append(order, ks)
			}
			obj[ks] = val
			if ks == "properties" {
				propsOrder = keys
			}
		}
		stampOrder(obj, propsOrder, mode)
		return obj, order, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, _, err := fromNode(c, mode)
			if err != nil {
				return nil, nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("jsondoc: line %d: %w", n.Line, err)
		}
		return normalizeScalar(v), nil, nil
	}
}

func normalizeScalar(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return v
}

// Decode picks the JSON or YAML decoder by sniffing the first non-space byte.
func Decode(b []byte, mode Mode) (any, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '{', '[', '"':
		return DecodeJSON(trimmed, mode)
	}
	return DecodeYAML(trimmed, mode)
}

// ReadFile loads a document from disk. The extension decides the format;
// unknown extensions are sniffed.
func ReadFile(path string, mode Mode) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(b, mode)
	case ".yaml", ".yml":
		return DecodeYAML(b, mode)
	}
	return Decode(b, mode)
}

// Marshal encodes v as indented JSON.
func Marshal(v any) ([]byte, error) {
	return j.MarshalIndent(v, "", "  ")
}

// MarshalYAML encodes v as YAML.
func MarshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
