package layout

import "sort"

// WidgetRegistry answers whether a widget type can be rendered.
type WidgetRegistry interface {
	HasWidget(name string) bool
}

// Widgets is a set of widget type names.
type Widgets map[string]bool

// HasWidget implements WidgetRegistry.
func (w Widgets) HasWidget(name string) bool { return w[name] }

// With returns a copy of w extended by names.
func (w Widgets) With(names ...string) Widgets {
	out := make(Widgets, len(w)+len(names))
	for k, v := range w {
		out[k] = v
	}
	for _, n := range names {
		out[n] = true
	}
	return out
}

// Names lists the registered widget types in order.
func (w Widgets) Names() []string {
	out := make([]string, 0, len(w))
	for k, ok := range w {
		if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultWidgets lists the widget types every framework understands.
func DefaultWidgets() Widgets {
	return Widgets{}.With(
		"none", "$ref", "actions", "advancedfieldset", "alt-date", "alt-datetime", "array",
		"authfieldset", "button", "checkbox", "checkboxbuttons", "checkboxes", "checkboxes-inline",
		"color", "conditional", "date", "date-time", "datetime-local", "email", "fieldset", "file",
		"help", "hidden", "html", "image", "integer", "message", "month", "msg", "number", "one-of",
		"optionfieldset", "password", "radio", "radiobuttons", "radios", "radios-inline", "range",
		"reset", "search", "section", "select", "selectfieldset", "submit", "tab", "tabarray", "tabs",
		"tagsinput", "tel", "template", "text", "textarea", "textline", "time", "updown", "url",
		"week", "wizard",
	)
}
