package jsonform

import (
	"github.com/reoring/jsonform/internal/jsonvalue"
)

// Form feeds successive Inputs to a Service the way a host component
// does when its bindings change.
type Form struct {
	*Service
	last     *Canonical
	lastOpts map[string]any
}

// NewForm returns a Form over a new Service.
func NewForm(opts ...Option) (*Form, error) {
	s, err := NewService(opts...)
	if err != nil {
		return nil, err
	}
	return &Form{Service: s}, nil
}

// Update applies in. When only the data changed since the last call, the
// new values are patched into the live form; any other change rebuilds it.
// It reports whether the form was rebuilt.
func (f *Form) Update(in Input) (bool, error) {
	c := Canonicalize(in)
	if f.last != nil && f.dataOnly(c, in.Options) {
		if err := f.applyInput(in); err != nil {
			return false, err
		}
		f.last = &c
		return false, f.SetFormValues(c.Data, true)
	}
	if err := f.applyInput(in); err != nil {
		return false, err
	}
	f.last, f.lastOpts = &c, in.Options
	return true, f.initialize(c)
}

// dataOnly reports whether c differs from the last input in data alone.
func (f *Form) dataOnly(c Canonical, opts map[string]any) bool {
	if _, ok := f.session(); !ok {
		return false
	}
	prev := f.last
	return c.DataSource == prev.DataSource &&
		c.Compat == prev.Compat &&
		jsonvalue.Equal(normalizeMap(c.Schema), normalizeMap(prev.Schema)) &&
		jsonvalue.Equal(normalizeList(c.Layout), normalizeList(prev.Layout)) &&
		jsonvalue.Equal(normalizeMap(c.AltLayout), normalizeMap(prev.AltLayout)) &&
		jsonvalue.Equal(normalizeMap(opts), normalizeMap(f.lastOpts))
}

func normalizeMap(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}

func normalizeList(l []any) any {
	if l == nil {
		return nil
	}
	return l
}
