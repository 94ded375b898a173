package jsonform

import (
	"strconv"
	"strings"

	"github.com/reoring/jsonform/control"
	"github.com/reoring/jsonform/i18n"
	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/jsonpointer"
	"github.com/reoring/jsonform/layout"
	"github.com/reoring/jsonform/template"
)

// WidgetContext locates one rendered widget: its layout node, the path of
// indexes leading to that node in the layout, and the indexes of the array
// items enclosing it in the data. InitializeControl fills the rest.
type WidgetContext struct {
	LayoutNode  *layout.Node
	LayoutIndex []int
	DataIndex   []int

	FormControl     control.Control
	ControlName     string
	ControlValue    any
	ControlDisabled bool
	BoundControl    bool
	ErrorMessage    string
}

// Options returns the options of the layout node.
func (ctx *WidgetContext) Options() map[string]any {
	if ctx == nil || ctx.LayoutNode == nil {
		return nil
	}
	return ctx.LayoutNode.Options
}

// InitializeControl binds ctx to its control and keeps ControlValue,
// ControlDisabled and ErrorMessage current. It reports whether a control
// was found; with bind set a bound node without a control is logged.
func (s *Service) InitializeControl(ctx *WidgetContext, bind bool) bool {
	if ctx == nil || ctx.LayoutNode == nil {
		return false
	}
	sess, ok := s.session()
	if !ok {
		return false
	}
	node := ctx.LayoutNode
	if c := s.GetFormControl(ctx); c != nil {
		ctx.FormControl = c
		ctx.BoundControl = true
		ctx.ControlName = s.GetFormControlName(ctx)
		ctx.ControlValue = c.Value()
		ctx.ControlDisabled = c.Disabled()
		ctx.ErrorMessage = s.controlErrors(node, c)
		sess.subs = append(sess.subs,
			c.StatusChanges().Subscribe(func(control.Status) {
				ctx.ControlDisabled = c.Disabled()
				ctx.ErrorMessage = s.controlErrors(node, c)
			}),
			c.ValueChanges().Subscribe(func(v any) {
				ctx.ControlValue = v
			}),
		)
		return true
	}
	ctx.BoundControl = false
	ctx.ControlName = node.Name
	ctx.ControlValue = node.Opt("value")
	if bind && node.IsBound() && !node.IsRef() {
		s.logger.Warn("control is not bound to the form", "dataPointer", s.GetDataPointer(ctx))
	}
	return false
}

func (s *Service) controlErrors(node *layout.Node, c control.Control) string {
	if c.Valid() || len(c.Errors()) == 0 || !s.showErrors(c) {
		return ""
	}
	return s.FormatErrors(c.Errors(), node.Opt("validationMessages"))
}

// showErrors applies validateOnRender: errors of untouched controls show
// always (true), never (false) or once the control has a value ("auto").
func (s *Service) showErrors(c control.Control) bool {
	if c.Dirty() || c.Touched() {
		return true
	}
	switch v := s.options.ValidateOnRender.(type) {
	case bool:
		return v
	case string:
		return v == "auto" && !jsonvalue.IsEmpty(c.Value())
	}
	return false
}

// FormatErrors renders a control error map as one string, messages joined
// by "<br>". validationMessages overrides the default message per error.
func (s *Service) FormatErrors(errs map[string]any, validationMessages any) string {
	if len(errs) == 0 {
		return ""
	}
	custom, _ := validationMessages.(map[string]any)
	return strings.Join(i18n.Format(s.translator, errs, control.SortedErrorKeys(errs), custom), "<br>")
}

// GetDataPointer returns the node's data pointer with the context's array
// indexes filled in.
func (s *Service) GetDataPointer(ctx *WidgetContext) string {
	if ctx == nil || !ctx.LayoutNode.IsBound() {
		return ""
	}
	var arrayMap map[string]int
	if sess, ok := s.session(); ok {
		arrayMap = sess.refs.ArrayMap
	}
	return jsonpointer.ToIndexedPointer(ctx.LayoutNode.DataPointer, ctx.DataIndex, arrayMap)
}

// GetLayoutPointer returns the pointer of the node inside the layout, such
// as "/0/items/2".
func (s *Service) GetLayoutPointer(ctx *WidgetContext) string {
	if ctx == nil || len(ctx.LayoutIndex) == 0 {
		return ""
	}
	parts := make([]string, len(ctx.LayoutIndex))
	for i, idx := range ctx.LayoutIndex {
		parts[i] = strconv.Itoa(idx)
	}
	return "/" + strings.Join(parts, "/items/")
}

// GetFormControl returns the control bound to the node, or nil for
// unbound and decorative nodes.
func (s *Service) GetFormControl(ctx *WidgetContext) control.Control {
	sess, ok := s.session()
	if !ok || ctx == nil || !ctx.LayoutNode.IsBound() || ctx.LayoutNode.IsRef() {
		return nil
	}
	c, ok := control.Get(sess.root, s.GetDataPointer(ctx))
	if !ok {
		return nil
	}
	return c
}

// GetFormControlValue returns the value of the node's control, or nil.
func (s *Service) GetFormControlValue(ctx *WidgetContext) any {
	if c := s.GetFormControl(ctx); c != nil {
		return c.Value()
	}
	return nil
}

// GetFormControlGroup returns the group or array holding the node's
// control. It also works for "$ref" buttons, whose control does not exist
// yet.
func (s *Service) GetFormControlGroup(ctx *WidgetContext) control.Control {
	sess, ok := s.session()
	if !ok || ctx == nil || !ctx.LayoutNode.IsBound() {
		return nil
	}
	parent, _, ok := control.GetParent(sess.root, s.GetDataPointer(ctx))
	if !ok {
		return nil
	}
	return parent
}

// GetFormControlName returns the key of the node's control in its parent.
func (s *Service) GetFormControlName(ctx *WidgetContext) string {
	if ctx == nil || !ctx.LayoutNode.IsBound() {
		return ""
	}
	return jsonpointer.ToKey(s.GetDataPointer(ctx))
}

// IsControlBound reports whether the node has a live control.
func (s *Service) IsControlBound(ctx *WidgetContext) bool {
	return s.GetFormControl(ctx) != nil
}

// items returns the child list addressed by a layout index path; an empty
// path addresses the top level.
func (sess *session) items(path []int) *[]*layout.Node {
	list := &sess.layout
	for _, idx := range path {
		if idx < 0 || idx >= len(*list) {
			return nil
		}
		list = &(*list)[idx].Items
	}
	return list
}

// GetLayoutArray returns the list of sibling nodes the context's node
// belongs to.
func (s *Service) GetLayoutArray(ctx *WidgetContext) []*layout.Node {
	sess, ok := s.session()
	if !ok || ctx == nil || len(ctx.LayoutIndex) == 0 {
		return nil
	}
	if list := sess.items(ctx.LayoutIndex[:len(ctx.LayoutIndex)-1]); list != nil {
		return *list
	}
	return nil
}

// GetParentNode returns the container of the context's node, or nil for
// top-level nodes.
func (s *Service) GetParentNode(ctx *WidgetContext) *layout.Node {
	sess, ok := s.session()
	if !ok || ctx == nil || len(ctx.LayoutIndex) < 2 {
		return nil
	}
	path := ctx.LayoutIndex[:len(ctx.LayoutIndex)-1]
	list := sess.items(path[:len(path)-1])
	if list == nil || path[len(path)-1] >= len(*list) {
		return nil
	}
	return (*list)[path[len(path)-1]]
}

// UpdateValue writes value into the node's control and the controls named
// by its copyValueTo option. It reports false, after logging, when the
// node has no control.
func (s *Service) UpdateValue(ctx *WidgetContext, value any) bool {
	if ctx == nil || ctx.LayoutNode == nil {
		return false
	}
	ctx.ControlValue = value
	c := s.GetFormControl(ctx)
	if c == nil {
		s.logger.Warn("update of an unbound control ignored", "dataPointer", ctx.LayoutNode.DataPointer, "error", ErrUnbound)
		return false
	}
	c.MarkAsDirty()
	c.SetValue(value)
	s.copyValueTo(ctx, value)
	return true
}

func (s *Service) copyValueTo(ctx *WidgetContext, value any) {
	sess, _ := s.session()
	for _, target := range jsonvalue.Strings(ctx.LayoutNode.Opt("copyValueTo")) {
		pointer := jsonpointer.ToIndexedPointer(target, ctx.DataIndex, sess.refs.ArrayMap)
		if c, ok := control.Get(sess.root, pointer); ok {
			c.MarkAsDirty()
			c.SetValue(value)
		}
	}
}

// CheckboxItem is one entry of a checkbox list.
type CheckboxItem struct {
	Name    string `json:"name"`
	Value   any    `json:"value"`
	Checked bool   `json:"checked"`
}

// UpdateArrayCheckboxList replaces the value of a checkbox list with the
// values of its checked items.
func (s *Service) UpdateArrayCheckboxList(ctx *WidgetContext, list []CheckboxItem) bool {
	sess, ok := s.session()
	c := s.GetFormControl(ctx)
	if !ok || c == nil {
		s.logger.Warn("checkbox list is not bound", "error", ErrUnbound)
		return false
	}
	checked := make([]any, 0, len(list))
	for _, item := range list {
		if item.Checked {
			checked = append(checked, item.Value)
		}
	}
	arr, isArray := c.(*control.FormArray)
	if !isArray {
		c.MarkAsDirty()
		c.SetValue(checked)
		return true
	}
	ref, _ := sess.templates.ItemRef(ctx.LayoutNode.DataPointer + "/-")
	arr.Clear(control.NoEmit())
	for _, v := range checked {
		tpl, ok := sess.templates.Item(ref)
		if !ok {
			tpl = &template.Template{Kind: template.KindControl}
		}
		item := template.BuildFormGroup(tpl)
		if item == nil {
			continue
		}
		item.SetValue(v, control.NoEmit())
		arr.Push(item, control.NoEmit())
	}
	arr.MarkAsDirty()
	arr.UpdateValueAndValidity()
	return true
}

// AddItem instantiates the template behind a "$ref" button: a new control
// is added to the parent array (or, for recursive references, to the
// parent group under name) and the matching layout node is inserted at
// the button's position.
func (s *Service) AddItem(ctx *WidgetContext, name string) bool {
	sess, ok := s.session()
	if !ok || ctx == nil || !ctx.LayoutNode.IsRef() || len(ctx.LayoutIndex) == 0 {
		return false
	}
	node := ctx.LayoutNode
	list := sess.items(ctx.LayoutIndex[:len(ctx.LayoutIndex)-1])
	at := ctx.LayoutIndex[len(ctx.LayoutIndex)-1]
	if list == nil || at < 0 || at > len(*list) {
		return false
	}
	tpl, ok := sess.templates.Item(node.Ref)
	if !ok {
		s.logger.Warn("no template for added item", "ref", node.Ref)
		return false
	}
	newControl := template.BuildFormGroup(tpl)
	newNode := sess.layouts.ItemNode(node)
	if newControl == nil || newNode == nil {
		return false
	}

	parent := s.GetFormControlGroup(ctx)
	if node.ArrayItem {
		arr, ok := parent.(*control.FormArray)
		if !ok {
			s.logger.Warn("add item: parent is not an array", "dataPointer", node.DataPointer)
			return false
		}
		arr.Push(newControl)
	} else {
		group, ok := parent.(*control.FormGroup)
		if !ok {
			s.logger.Warn("add item: parent is not a group", "dataPointer", node.DataPointer)
			return false
		}
		if name == "" {
			name = s.GetFormControlName(ctx)
		}
		group.AddControl(name, newControl)
	}
	*list = append((*list)[:at], append([]*layout.Node{newNode}, (*list)[at:]...)...)
	return true
}

// RemoveItem removes an array item or an added recursive node from both
// the control tree and the layout.
func (s *Service) RemoveItem(ctx *WidgetContext) bool {
	sess, ok := s.session()
	if !ok || ctx == nil || ctx.LayoutNode == nil || ctx.LayoutNode.IsRef() || len(ctx.LayoutIndex) == 0 {
		return false
	}
	list := sess.items(ctx.LayoutIndex[:len(ctx.LayoutIndex)-1])
	at := ctx.LayoutIndex[len(ctx.LayoutIndex)-1]
	if list == nil || at < 0 || at >= len(*list) {
		return false
	}
	parent := s.GetFormControlGroup(ctx)
	if ctx.LayoutNode.ArrayItem {
		arr, ok := parent.(*control.FormArray)
		if !ok || len(ctx.DataIndex) == 0 {
			return false
		}
		if err := arr.RemoveAt(ctx.DataIndex[len(ctx.DataIndex)-1]); err != nil {
			s.logger.Warn("remove item", "error", err)
			return false
		}
	} else {
		group, ok := parent.(*control.FormGroup)
		if !ok {
			return false
		}
		group.RemoveControl(s.GetFormControlName(ctx))
	}
	*list = append((*list)[:at], (*list)[at+1:]...)
	return true
}

// MoveArrayItem moves an array item from one index to another in the
// control array and the layout alike.
func (s *Service) MoveArrayItem(ctx *WidgetContext, from, to int) bool {
	sess, ok := s.session()
	if !ok || ctx == nil || !ctx.LayoutNode.IsBound() || len(ctx.DataIndex) == 0 || len(ctx.LayoutIndex) == 0 || from == to {
		return false
	}
	list := sess.items(ctx.LayoutIndex[:len(ctx.LayoutIndex)-1])
	if list == nil || from < 0 || to < 0 || from >= len(*list) || to >= len(*list) {
		return false
	}
	arr, ok := s.GetFormControlGroup(ctx).(*control.FormArray)
	if !ok {
		return false
	}
	if err := arr.Move(from, to); err != nil {
		s.logger.Warn("move item", "error", err)
		return false
	}
	items := *list
	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]*layout.Node{moved}, items[to:]...)...)
	*list = items
	return true
}

// EvaluateCondition reports whether node is visible for the current data.
// Nodes without a condition are visible, and so are nodes whose condition
// fails.
func (s *Service) EvaluateCondition(node *layout.Node, dataIndex []int) bool {
	if node == nil {
		return true
	}
	return s.conditions.Evaluate(node.Opt("condition"), s.Data(), dataIndex)
}
