package control

import "fmt"

// FormGroup holds named child controls in insertion order.
type FormGroup struct {
	base
	keys     []string
	controls map[string]Control
}

// NewFormGroup builds a group from ordered keys and their controls.
func NewFormGroup(keys []string, controls map[string]Control, validators ...ValidatorFn) *FormGroup {
	g := &FormGroup{controls: map[string]Control{}}
	g.init(g, validators)
	for _, k := range keys {
		if c, ok := controls[k]; ok && c != nil {
			g.keys = append(g.keys, k)
			g.controls[k] = c
			c.core().parent = g
		}
	}
	g.UpdateValueAndValidity(OnlySelf(), NoEmit())
	return g
}

// Keys returns the child names in order.
func (g *FormGroup) Keys() []string { return append([]string(nil), g.keys...) }

// Get returns a child by name.
func (g *FormGroup) Get(name string) (Control, bool) {
	c, ok := g.controls[name]
	return c, ok
}

// Contains reports whether an enabled child named name exists.
func (g *FormGroup) Contains(name string) bool {
	c, ok := g.controls[name]
	return ok && !c.Disabled()
}

// AddControl appends a child unless the name is taken.
func (g *FormGroup) AddControl(name string, c Control, opts ...Option) {
	if _, ok := g.controls[name]; ok {
		return
	}
	g.SetControl(name, c, opts...)
}

// SetControl adds or replaces a child.
func (g *FormGroup) SetControl(name string, c Control, opts ...Option) {
	if old, ok := g.controls[name]; ok {
		old.core().parent = nil
	} else {
		g.keys = append(g.keys, name)
	}
	g.controls[name] = c
	c.core().parent = g
	g.UpdateValueAndValidity(opts...)
}

// RemoveControl drops a child.
func (g *FormGroup) RemoveControl(name string, opts ...Option) {
	c, ok := g.controls[name]
	if !ok {
		return
	}
	c.core().parent = nil
	delete(g.controls, name)
	for i, k := range g.keys {
		if k == name {
			g.keys = append(g.keys[:i:i], g.keys[i+1:]...)
			break
		}
	}
	g.UpdateValueAndValidity(opts...)
}

func (g *FormGroup) children() []Control {
	out := make([]Control, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, g.controls[k])
	}
	return out
}

func (g *FormGroup) computeValue() {
	v := make(map[string]any, len(g.keys))
	allDisabled := len(g.keys) > 0
	for _, k := range g.keys {
		if !g.controls[k].Disabled() {
			allDisabled = false
		}
	}
	for _, k := range g.keys {
		c := g.controls[k]
		if allDisabled || !c.Disabled() {
			v[k] = c.Value()
		}
	}
	g.value = v
}

// SetValue assigns every child from a map. Missing keys are set to nil.
func (g *FormGroup) SetValue(v any, opts ...Option) {
	m, _ := v.(map[string]any)
	for _, k := range g.keys {
		g.controls[k].SetValue(m[k], childOpts(opts)...)
	}
	g.UpdateValueAndValidity(opts...)
}

// PatchValue assigns only the children present in v.
func (g *FormGroup) PatchValue(v any, opts ...Option) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	for _, k := range g.keys {
		if cv, ok := m[k]; ok {
			g.controls[k].PatchValue(cv, childOpts(opts)...)
		}
	}
	g.UpdateValueAndValidity(opts...)
}

// Reset resets every child from v and clears the dirty and touched flags.
func (g *FormGroup) Reset(v any, opts ...Option) {
	m, _ := v.(map[string]any)
	for _, k := range g.keys {
		g.controls[k].Reset(m[k], childOpts(opts)...)
	}
	g.markPristine()
	g.UpdateValueAndValidity(opts...)
}

// FormArray holds an ordered list of child controls.
type FormArray struct {
	base
	controls []Control
}

// NewFormArray builds an array control.
func NewFormArray(controls []Control, validators ...ValidatorFn) *FormArray {
	a := &FormArray{}
	a.init(a, validators)
	for _, c := range controls {
		if c != nil {
			a.controls = append(a.controls, c)
			c.core().parent = a
		}
	}
	a.UpdateValueAndValidity(OnlySelf(), NoEmit())
	return a
}

// Len returns the number of items.
func (a *FormArray) Len() int { return len(a.controls) }

// At returns the item at i.
func (a *FormArray) At(i int) (Control, bool) {
	if i < 0 || i >= len(a.controls) {
		return nil, false
	}
	return a.controls[i], true
}

// Controls returns the items.
func (a *FormArray) Controls() []Control { return append([]Control(nil), a.controls...) }

// Push appends an item.
func (a *FormArray) Push(c Control, opts ...Option) {
	a.Insert(len(a.controls), c, opts...)
}

// Insert places c before index i.
func (a *FormArray) Insert(i int, c Control, opts ...Option) {
	if i < 0 {
		i = 0
	}
	if i > len(a.controls) {
		i = len(a.controls)
	}
	a.controls = append(a.controls, nil)
	copy(a.controls[i+1:], a.controls[i:])
	a.controls[i] = c
	c.core().parent = a
	a.UpdateValueAndValidity(opts...)
}

// RemoveAt drops the item at i.
func (a *FormArray) RemoveAt(i int, opts ...Option) error {
	if i < 0 || i >= len(a.controls) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(a.controls))
	}
	a.controls[i].core().parent = nil
	a.controls = append(a.controls[:i:i], a.controls[i+1:]...)
	a.UpdateValueAndValidity(opts...)
	return nil
}

// Move relocates the item at from to index to.
func (a *FormArray) Move(from, to int, opts ...Option) error {
	n := len(a.controls)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d->%d out of range [0,%d)", from, to, n)
	}
	c := a.controls[from]
	rest := append(a.controls[:from:from], a.controls[from+1:]...)
	a.controls = append(rest[:to:to], append([]Control{c}, rest[to:]...)...)
	a.UpdateValueAndValidity(opts...)
	return nil
}

// Clear removes every item.
func (a *FormArray) Clear(opts ...Option) {
	for _, c := range a.controls {
		c.core().parent = nil
	}
	a.controls = nil
	a.UpdateValueAndValidity(opts...)
}

func (a *FormArray) children() []Control { return a.controls }

func (a *FormArray) computeValue() {
	v := make([]any, 0, len(a.controls))
	for _, c := range a.controls {
		if !c.Disabled() || a.disabled {
			v = append(v, c.Value())
		}
	}
	a.value = v
}

// SetValue assigns items by position; extra values are ignored.
func (a *FormArray) SetValue(v any, opts ...Option) {
	list, _ := v.([]any)
	for i, c := range a.controls {
		var item any
		if i < len(list) {
			item = list[i]
		}
		c.SetValue(item, childOpts(opts)...)
	}
	a.UpdateValueAndValidity(opts...)
}

// PatchValue assigns the items present in v.
func (a *FormArray) PatchValue(v any, opts ...Option) {
	list, ok := v.([]any)
	if !ok {
		return
	}
	for i, item := range list {
		if i < len(a.controls) {
			a.controls[i].PatchValue(item, childOpts(opts)...)
		}
	}
	a.UpdateValueAndValidity(opts...)
}

// Reset resets the items from v and clears the dirty and touched flags.
func (a *FormArray) Reset(v any, opts ...Option) {
	list, _ := v.([]any)
	for i, c := range a.controls {
		var item any
		if i < len(list) {
			item = list[i]
		}
		c.Reset(item, childOpts(opts)...)
	}
	a.markPristine()
	a.UpdateValueAndValidity(opts...)
}
