// Package template derives the serializable control-tree template of a form
// from its resolved schema and instantiates live control trees from it.
package template

import (
	"github.com/mohae/deepcopy"
)

// Kind names the control a template node becomes.
type Kind string

const (
	KindGroup   Kind = "FormGroup"
	KindArray   Kind = "FormArray"
	KindControl Kind = "FormControl"
	// KindRef stands for a recursive part of the form. It is expanded from
	// the template library only when an item is added there.
	KindRef Kind = "$ref"
)

// Template is one node of the control-tree template.
type Template struct {
	Kind Kind `json:"controlType"`
	// Keys orders Controls.
	Keys     []string             `json:"keys,omitempty"`
	Controls map[string]*Template `json:"controls,omitempty"`
	Items    []*Template          `json:"items,omitempty"`
	Value    any                  `json:"value,omitempty"`
	Disabled bool                 `json:"disabled,omitempty"`
	// Validators maps validator names to their schema parameters.
	Validators map[string]any `json:"validators,omitempty"`
	Ref        string         `json:"$ref,omitempty"`
}

// Clone returns a deep copy of t.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	return deepcopy.Copy(t).(*Template)
}

// Child returns the group member named key.
func (t *Template) Child(key string) *Template {
	if t == nil || t.Controls == nil {
		return nil
	}
	return t.Controls[key]
}

// Walk visits t and its descendants in order.
func (t *Template) Walk(fn func(*Template)) {
	if t == nil {
		return
	}
	fn(t)
	for _, k := range t.Keys {
		t.Controls[k].Walk(fn)
	}
	for _, item := range t.Items {
		item.Walk(fn)
	}
}

func (t *Template) setValidator(name string, param any) {
	if t.Validators == nil {
		t.Validators = map[string]any{}
	}
	t.Validators[name] = param
}

func (t *Template) addChild(key string, c *Template) {
	if t.Controls == nil {
		t.Controls = map[string]*Template{}
	}
	if _, ok := t.Controls[key]; !ok {
		t.Keys = append(t.Keys, key)
	}
	t.Controls[key] = c
}
