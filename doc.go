// Package jsonform compiles a JSON Schema, an optional layout and optional
// data into a live form model: a normalized layout tree, a reactive tree
// of controls, formatted data and validation results that stay in sync as
// values change.
//
// The pipeline runs in a fixed order:
//
//	convert.ToDraft6   draft 1-4 keywords to draft 6
//	validate.Engine    compile the validator once per schema
//	refs.Resolve       inline $ref, record recursion
//	layout.Builder     canonical layout nodes and the data map
//	template.Builder   serializable control templates
//	BuildFormGroup     the live control tree
//
// Typical usage:
//
//	svc, err := jsonform.NewService()
//	err = svc.Initialize(jsonform.Input{Schema: schema, Data: data})
//	svc.DataChanges.Subscribe(func(v any) { ... })
//	ok := svc.UpdateValue(&jsonform.WidgetContext{LayoutNode: node}, "x")
//
// Design policy:
//   - Session state is a sum type; operations before Initialize return
//     ErrNotInitialized or zero values.
//   - Recoverable problems (unresolvable references, failing conditions,
//     unbound controls) are logged, never returned as errors.
//   - A Service is used from one goroutine at a time.
package jsonform
