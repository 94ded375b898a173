// Package control implements the live tree of form controls: values,
// validation state and change notification for every bound field.
package control

import (
	"github.com/mohae/deepcopy"
)

// Status is the validation state of a control.
type Status string

const (
	Valid    Status = "VALID"
	Invalid  Status = "INVALID"
	Disabled Status = "DISABLED"
)

// ValidatorFn inspects a control and returns its errors keyed by validator
// name, or nil when the control passes.
type ValidatorFn func(c Control) map[string]any

// Control is implemented by FormControl, FormGroup and FormArray.
type Control interface {
	Value() any
	SetValue(v any, opts ...Option)
	PatchValue(v any, opts ...Option)
	Reset(v any, opts ...Option)

	Status() Status
	Valid() bool
	Errors() map[string]any
	SetErrors(errs map[string]any)
	SetValidators(fns ...ValidatorFn)
	UpdateValueAndValidity(opts ...Option)

	Parent() Control
	Dirty() bool
	Touched() bool
	MarkAsDirty()
	MarkAsTouched()
	Disabled() bool
	Disable(opts ...Option)
	Enable(opts ...Option)

	ValueChanges() *Subject[any]
	StatusChanges() *Subject[Status]

	core() *base
	computeValue()
	children() []Control
}

type emitOpts struct {
	onlySelf bool
	noEmit   bool
}

// Option tunes how a change propagates.
type Option func(*emitOpts)

// OnlySelf stops the change from updating ancestors.
func OnlySelf() Option { return func(o *emitOpts) { o.onlySelf = true } }

// NoEmit suppresses value and status notifications.
func NoEmit() Option { return func(o *emitOpts) { o.noEmit = true } }

func collect(opts []Option) emitOpts {
	var o emitOpts
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// childOpts keeps the emit choice of a container update for its children
// while stopping them from updating the container themselves.
func childOpts(opts []Option) []Option {
	out := []Option{OnlySelf()}
	if collect(opts).noEmit {
		out = append(out, NoEmit())
	}
	return out
}

type base struct {
	self       Control
	parent     Control
	value      any
	errors     map[string]any
	status     Status
	validators []ValidatorFn
	dirty      bool
	touched    bool
	disabled   bool

	valueChanges  *Subject[any]
	statusChanges *Subject[Status]
}

func (b *base) init(self Control, validators []ValidatorFn) {
	b.self = self
	b.validators = validators
	b.status = Valid
	b.valueChanges = NewSubject[any]()
	b.statusChanges = NewSubject[Status]()
}

func (b *base) core() *base                      { return b }
func (b *base) Value() any                       { return b.value }
func (b *base) Status() Status                   { return b.status }
func (b *base) Valid() bool                      { return b.status == Valid }
func (b *base) Errors() map[string]any           { return b.errors }
func (b *base) Parent() Control                  { return b.parent }
func (b *base) Dirty() bool                      { return b.dirty }
func (b *base) Touched() bool                    { return b.touched }
func (b *base) Disabled() bool                   { return b.disabled }
func (b *base) ValueChanges() *Subject[any]      { return b.valueChanges }
func (b *base) StatusChanges() *Subject[Status]  { return b.statusChanges }
func (b *base) SetValidators(fns ...ValidatorFn) { b.validators = fns }

// MarkAsDirty flags the control and its ancestors as changed by the user.
func (b *base) MarkAsDirty() {
	b.dirty = true
	if b.parent != nil {
		b.parent.MarkAsDirty()
	}
}

// MarkAsTouched flags the control and its ancestors as visited.
func (b *base) MarkAsTouched() {
	b.touched = true
	if b.parent != nil {
		b.parent.MarkAsTouched()
	}
}

func (b *base) markPristine() {
	b.dirty = false
	b.touched = false
	for _, c := range b.self.children() {
		c.core().markPristine()
	}
}

// SetErrors replaces the errors of the control without running validators
// and updates the status of its ancestors.
func (b *base) SetErrors(errs map[string]any) {
	b.errors = errs
	b.status = b.calculateStatus()
	b.statusChanges.Next(b.status)
	if b.parent != nil {
		p := b.parent.core()
		p.status = p.calculateStatus()
		p.statusChanges.Next(p.status)
	}
}

// Disable excludes the control from validation and from its parent's value.
func (b *base) Disable(opts ...Option) {
	b.setDisabled(true)
	b.self.UpdateValueAndValidity(opts...)
}

// Enable reverses Disable.
func (b *base) Enable(opts ...Option) {
	b.setDisabled(false)
	b.self.UpdateValueAndValidity(opts...)
}

func (b *base) setDisabled(d bool) {
	b.disabled = d
	for _, c := range b.self.children() {
		c.core().setDisabled(d)
		c.computeValue()
		c.core().status = c.core().calculateStatus()
	}
}

// UpdateValueAndValidity recomputes value, errors and status, notifies
// subscribers and then updates the ancestors.
func (b *base) UpdateValueAndValidity(opts ...Option) {
	o := collect(opts)
	b.self.computeValue()
	b.errors = nil
	if !b.disabled {
		b.errors = b.runValidators()
	}
	b.status = b.calculateStatus()
	if !o.noEmit {
		b.valueChanges.Next(b.value)
		b.statusChanges.Next(b.status)
	}
	if b.parent != nil && !o.onlySelf {
		b.parent.UpdateValueAndValidity(opts...)
	}
}

func (b *base) runValidators() map[string]any {
	var errs map[string]any
	for _, fn := range b.validators {
		for k, v := range fn(b.self) {
			if errs == nil {
				errs = map[string]any{}
			}
			errs[k] = v
		}
	}
	return errs
}

func (b *base) calculateStatus() Status {
	if b.disabled {
		return Disabled
	}
	if len(b.errors) > 0 {
		return Invalid
	}
	for _, c := range b.self.children() {
		if c.Status() == Invalid {
			return Invalid
		}
	}
	return Valid
}

// FormControl holds a single value.
type FormControl struct {
	base
}

// NewFormControl returns a control with value v.
func NewFormControl(v any, validators ...ValidatorFn) *FormControl {
	c := &FormControl{}
	c.init(c, validators)
	c.value = v
	c.UpdateValueAndValidity(OnlySelf(), NoEmit())
	return c
}

func (c *FormControl) computeValue()       {}
func (c *FormControl) children() []Control { return nil }

// SetValue replaces the value.
func (c *FormControl) SetValue(v any, opts ...Option) {
	c.value = v
	c.UpdateValueAndValidity(opts...)
}

// PatchValue is SetValue for single controls.
func (c *FormControl) PatchValue(v any, opts ...Option) { c.SetValue(v, opts...) }

// Reset sets the value and clears the dirty and touched flags.
func (c *FormControl) Reset(v any, opts ...Option) {
	c.markPristine()
	c.SetValue(v, opts...)
}

// Snapshot returns a deep copy of a control's value.
func Snapshot(c Control) any {
	if c == nil {
		return nil
	}
	return deepcopy.Copy(c.Value())
}
