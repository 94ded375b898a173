package jsonform

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/reoring/jsonform/condition"
	"github.com/reoring/jsonform/control"
	"github.com/reoring/jsonform/convert"
	"github.com/reoring/jsonform/formdata"
	"github.com/reoring/jsonform/framework"
	"github.com/reoring/jsonform/i18n"
	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/internal/logging"
	"github.com/reoring/jsonform/jsonpointer"
	"github.com/reoring/jsonform/layout"
	"github.com/reoring/jsonform/refs"
	"github.com/reoring/jsonform/template"
	"github.com/reoring/jsonform/validate"
)

// Phase is the progress of a form session through the build pipeline.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseOptionsReady
	PhaseSchemaReady
	PhaseLayoutReady
	PhaseDataReady
	PhaseActivated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseOptionsReady:
		return "OptionsReady"
	case PhaseSchemaReady:
		return "SchemaReady"
	case PhaseLayoutReady:
		return "LayoutReady"
	case PhaseDataReady:
		return "DataReady"
	case PhaseActivated:
		return "Activated"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// state is either uninitialized or *session.
type state interface{ phase() Phase }

type uninitialized struct{ optionsReady bool }

func (u uninitialized) phase() Phase {
	if u.optionsReady {
		return PhaseOptionsReady
	}
	return PhaseUninitialized
}

// session holds everything built by one Initialize call.
type session struct {
	id         string
	step       Phase
	compat     Compat
	objectWrap bool
	dataSource string

	schema    map[string]any
	refs      *refs.Context
	dataMap   formdata.Map
	layouts   *layout.Builder
	layout    []*layout.Node
	templates *template.Builder
	template  *template.Template
	root      control.Control

	data   any
	result validate.Result
	assets *framework.Manifest
	subs   []*control.Subscription
}

func (s *session) phase() Phase { return s.step }

// Service compiles a schema, layout and data into a live form and keeps
// them in sync while the form is edited. A Service is not safe for
// concurrent use.
type Service struct {
	options    FormOptions
	logger     logging.Logger
	translator i18n.Translator
	frameworks *framework.Registry
	manifests  *framework.ManifestLoader
	validator  *validate.Engine
	conditions *condition.Evaluator
	state      state

	// DataChanges emits the formatted form value after every change.
	DataChanges *control.Subject[any]
	// IsValidChanges emits the validity after every change.
	IsValidChanges *control.Subject[bool]
	// ValidationErrorChanges emits the error map (nil when valid).
	ValidationErrorChanges *control.Subject[validate.ErrorMap]
	// Submits emits the value passed by Submit.
	Submits *control.Subject[any]
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Components log warnings for recoverable
// problems such as unresolvable references or failing conditions.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry replaces the framework registry.
func WithRegistry(r *framework.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.frameworks = r
		}
	}
}

// WithManifestLoader replaces the loader used by LoadAssets.
func WithManifestLoader(l *framework.ManifestLoader) Option {
	return func(s *Service) {
		if l != nil {
			s.manifests = l
		}
	}
}

// NewService returns an uninitialized Service.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		options:                DefaultFormOptions(),
		logger:                 logging.Default(),
		state:                  uninitialized{},
		DataChanges:            control.NewSubject[any](),
		IsValidChanges:         control.NewSubject[bool](),
		ValidationErrorChanges: control.NewSubject[validate.ErrorMap](),
		Submits:                control.NewSubject[any](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.frameworks == nil {
		s.frameworks = framework.NewRegistry()
	}
	if s.manifests == nil {
		s.manifests = framework.NewManifestLoader(framework.WithLogger(s.logger))
	}
	conditions, err := condition.New(s.logger)
	if err != nil {
		return nil, fmt.Errorf("create condition evaluator: %w", err)
	}
	s.conditions = conditions
	s.validator = validate.NewEngine(s.logger)
	s.SetLanguage(s.options.Language)
	return s, nil
}

// Close tears the session down and releases caches.
func (s *Service) Close() {
	s.teardown()
	s.state = uninitialized{}
	s.conditions.Close()
}

// Phase reports how far the pipeline has run.
func (s *Service) Phase() Phase { return s.state.phase() }

// Options returns a copy of the current form options.
func (s *Service) Options() FormOptions { return s.options.clone() }

// Frameworks returns the framework registry.
func (s *Service) Frameworks() *framework.Registry { return s.frameworks }

// SetOptions merges partial into the form options. Options take effect on
// the next Initialize, except language, framework, debug and
// loadExternalAssets which apply immediately.
func (s *Service) SetOptions(partial map[string]any) error {
	merged, err := s.options.Merge(partial)
	if err != nil {
		return err
	}
	s.options = merged
	if _, ok := partial["language"]; ok {
		s.SetLanguage(merged.Language)
	}
	if _, ok := partial["framework"]; ok {
		if err := s.SetFramework(merged.Framework); err != nil {
			return err
		}
	}
	if _, ok := partial["debug"]; ok {
		s.setDebug(merged.Debug)
	}
	if _, ok := partial["loadExternalAssets"]; ok {
		s.frameworks.SetLoadExternalAssets(merged.LoadExternalAssets)
	}
	if u, ok := s.state.(uninitialized); ok && !u.optionsReady {
		s.state = uninitialized{optionsReady: true}
	}
	return nil
}

func (s *Service) setDebug(debug bool) {
	s.options.Debug = debug
	if debug {
		logging.SetLevel(s.logger, logging.DebugLevel)
	} else {
		logging.SetLevel(s.logger, logging.WarnLevel)
	}
}

// SetLanguage selects the validation message language. Region subtags are
// ignored ("de-AT" uses "de"); unknown languages fall back to English.
func (s *Service) SetLanguage(lang string) {
	code := "en"
	if tag, err := language.Parse(lang); err == nil {
		base, _ := tag.Base()
		code = base.String()
	}
	if !jsonvalue.Contains(i18n.Languages, code) {
		code = "en"
	}
	s.options.Language = code
	s.translator = i18n.New(code)
	if s.options.DefaultWidgetOptions == nil {
		s.options.DefaultWidgetOptions = map[string]any{}
	}
	s.options.DefaultWidgetOptions["validationMessages"] = i18n.Messages(code)
}

// Language returns the current message language.
func (s *Service) Language() string { return s.options.Language }

// SetFramework selects a registered framework.
func (s *Service) SetFramework(name string) error {
	if err := s.frameworks.SetFramework(name); err != nil {
		return err
	}
	if f := s.frameworks.Framework(); f != nil {
		s.options.Framework = f.Name
	}
	return nil
}

func (s *Service) session() (*session, bool) {
	sess, ok := s.state.(*session)
	return sess, ok
}

// current reports whether sess is still the live session.
func (s *Service) current(sess *session) bool {
	live, ok := s.session()
	return ok && live == sess
}

func (s *Service) teardown() {
	sess, ok := s.session()
	if !ok {
		return
	}
	for _, sub := range sess.subs {
		sub.Unsubscribe()
	}
	sess.subs = nil
}

// ResetAllValues discards the session. Options are kept.
func (s *Service) ResetAllValues() {
	s.teardown()
	s.state = uninitialized{}
	s.validator.Reset()
}

// Initialize builds the form from in, replacing any previous session.
// The steps run in a fixed order: draft conversion, validator compilation,
// reference resolution, ui-schema merge, layout, template, control tree and
// the first validation. Schema problems are logged and leave the form
// invalid; only a missing schema is an error.
func (s *Service) Initialize(in Input) error {
	if err := s.applyInput(in); err != nil {
		return err
	}
	return s.initialize(Canonicalize(in))
}

func (s *Service) applyInput(in Input) error {
	if len(in.Options) > 0 {
		if err := s.SetOptions(in.Options); err != nil {
			return err
		}
	}
	if len(in.Widgets) > 0 {
		if err := s.SetOptions(map[string]any{"widgets": in.Widgets}); err != nil {
			return err
		}
	}
	if in.Language != "" {
		s.SetLanguage(in.Language)
	}
	if in.Framework != "" {
		if err := s.SetFramework(in.Framework); err != nil {
			return err
		}
	}
	if in.LoadExternalAssets != nil {
		s.options.LoadExternalAssets = *in.LoadExternalAssets
		s.frameworks.SetLoadExternalAssets(*in.LoadExternalAssets)
	}
	if in.Debug != nil {
		s.setDebug(*in.Debug)
	}
	if in.Theme != "" {
		if ok, err := s.frameworks.RequestThemeChange(in.Theme); ok && err != nil {
			s.logger.Warn("theme not available", "theme", in.Theme, "error", err)
		}
	}
	return nil
}

func (s *Service) initialize(c Canonical) error {
	s.ResetAllValues()
	s.state = uninitialized{optionsReady: true}

	schema, data := c.Schema, c.Data
	if len(schema) == 0 && !jsonvalue.IsEmpty(data) {
		schema = formdata.SchemaFromData(data, false)
		s.logger.Debug("schema built from data")
	}
	if len(schema) == 0 {
		return ErrNoSchema
	}

	sess := &session{
		id:         uuid.NewString(),
		compat:     c.Compat,
		dataSource: c.DataSource,
		dataMap:    formdata.Map{},
	}
	schema, wrapped, shorthand := objectRoot(schema)
	if shorthand {
		sess.compat |= CompatJSONForm
	}
	if wrapped {
		sess.objectWrap = true
		if data != nil {
			data = map[string]any{"1": data}
		}
	}

	draft6, _ := convert.ToDraft6(schema).(map[string]any)
	if err := s.validator.Compile(draft6); err != nil {
		s.logger.Warn("schema did not compile, form stays invalid", "error", err)
	}
	resolved, rc := refs.Resolve(draft6)
	for _, w := range rc.Warnings {
		s.logger.Warn("schema reference", "warning", w)
	}
	if len(c.AltLayout) > 0 {
		resolved = layout.MergeUISchema(resolved, c.AltLayout)
	}
	sess.schema, sess.refs = resolved, rc
	sess.step = PhaseSchemaReady
	s.state = sess

	sess.layouts = layout.NewBuilder(layout.Config{
		Schema:               resolved,
		Refs:                 rc,
		Values:               data,
		AddSubmit:            s.options.AddSubmit,
		SetSchemaDefaults:    s.options.SetSchemaDefaults,
		DefaultWidgetOptions: s.options.widgetOptions(),
		Widgets:              s.widgets(),
		DataMap:              sess.dataMap,
		Logger:               s.logger,
	})
	sess.layout = sess.layouts.Build(c.Layout)
	sess.step = PhaseLayoutReady

	sess.data = data
	sess.step = PhaseDataReady

	sess.templates = template.NewBuilder(template.Config{
		Schema:            resolved,
		Refs:              rc,
		DataMap:           sess.dataMap,
		SetSchemaDefaults: s.options.SetSchemaDefaults,
		SetLayoutDefaults: s.options.SetLayoutDefaults,
		LayoutDefaults:    layoutDefaults(sess.layout, rc.ArrayMap),
		Logger:            s.logger,
	})
	sess.template = sess.templates.Build(data, true)
	sess.root = template.BuildFormGroup(sess.template)
	if sess.root == nil {
		sess.root = control.NewFormGroup(nil, nil)
	}
	if s.options.FormDisabled {
		sess.root.Disable(control.NoEmit())
	}
	sess.subs = append(sess.subs, sess.root.ValueChanges().Subscribe(func(any) {
		s.refresh(sess)
	}))
	sess.step = PhaseActivated
	s.refresh(sess)
	s.logger.Debug("form initialized", "session", sess.id, "compat", sess.compat.String(), "objectWrap", sess.objectWrap)
	return nil
}

// widgets lists the widget types the layout may use: the built-in ones,
// those registered through options and those of the current framework.
func (s *Service) widgets() layout.Widgets {
	w := layout.DefaultWidgets()
	for name := range s.options.Widgets {
		w = w.With(name)
	}
	if f := s.frameworks.Framework(); f != nil {
		w = w.With(f.Widgets...)
	}
	return w
}

// layoutDefaults collects the "default" options of bound layout nodes by
// generic data pointer.
func layoutDefaults(nodes []*layout.Node, arrayMap map[string]int) map[string]any {
	out := map[string]any{}
	for _, n := range nodes {
		n.Walk(func(c *layout.Node) {
			if c.IsBound() && !c.IsRef() && c.HasOpt("default") {
				out[jsonpointer.ToGenericPointer(c.DataPointer, arrayMap)] = c.Opt("default")
			}
		})
	}
	return out
}

// refresh formats the control values, validates them and notifies
// subscribers. Results for a superseded session are dropped.
func (s *Service) refresh(sess *session) {
	if !s.current(sess) {
		return
	}
	sess.data = formdata.Format(control.Snapshot(sess.root), sess.dataMap, sess.refs, formdata.Options{
		ReturnEmptyFields: s.options.ReturnEmptyFields,
		Logger:            s.logger,
	})
	sess.result = s.validator.Validate(sess.data)
	s.DataChanges.Next(s.Value())
	s.IsValidChanges.Next(sess.result.Valid)
	s.ValidationErrorChanges.Next(s.ValidationErrors())
}

// SetFormValues patches new values into the live form without rebuilding
// it. With resetFirst every control is reset before the patch.
func (s *Service) SetFormValues(values any, resetFirst bool) error {
	sess, ok := s.session()
	if !ok {
		return ErrNotInitialized
	}
	if sess.objectWrap {
		values = map[string]any{"1": values}
	}
	if resetFirst {
		sess.root.Reset(nil, control.NoEmit())
	}
	if values != nil {
		sess.root.PatchValue(values, control.NoEmit())
	}
	sess.root.UpdateValueAndValidity()
	return nil
}

// Value returns the formatted form value, unwrapped for scalar schemas.
func (s *Service) Value() any {
	sess, ok := s.session()
	if !ok {
		return nil
	}
	if sess.objectWrap {
		if m, ok := sess.data.(map[string]any); ok {
			return m["1"]
		}
		return nil
	}
	return sess.data
}

// Data returns the formatted form value as validated, always object rooted.
func (s *Service) Data() any {
	if sess, ok := s.session(); ok {
		return sess.data
	}
	return nil
}

// ValidData returns Value when the form is valid and nil otherwise.
func (s *Service) ValidData() any {
	if !s.IsValid() {
		return nil
	}
	return s.Value()
}

// IsValid reports whether the current data passed validation.
func (s *Service) IsValid() bool {
	sess, ok := s.session()
	return ok && sess.result.Valid
}

// ValidationErrors maps data pointers (or "ROOT") to messages. It is nil
// when the form is valid.
func (s *Service) ValidationErrors() validate.ErrorMap {
	sess, ok := s.session()
	if !ok || sess.result.Valid {
		return nil
	}
	return sess.result.Errors
}

// Issues returns the validation problems of the current data.
func (s *Service) Issues() Issues {
	if sess, ok := s.session(); ok {
		return sess.result.Issues
	}
	return nil
}

// Schema returns the resolved schema.
func (s *Service) Schema() map[string]any {
	if sess, ok := s.session(); ok {
		return sess.schema
	}
	return nil
}

// Layout returns the layout tree.
func (s *Service) Layout() []*layout.Node {
	if sess, ok := s.session(); ok {
		return sess.layout
	}
	return nil
}

// Template returns the template the control tree was built from.
func (s *Service) Template() *template.Template {
	if sess, ok := s.session(); ok {
		return sess.template
	}
	return nil
}

// FormGroup returns the root of the live control tree.
func (s *Service) FormGroup() control.Control {
	if sess, ok := s.session(); ok {
		return sess.root
	}
	return nil
}

// RefContext returns what reference resolution recorded about the schema.
func (s *Service) RefContext() *refs.Context {
	if sess, ok := s.session(); ok {
		return sess.refs
	}
	return nil
}

// DataMap returns the per-pointer facts gathered while building the layout.
func (s *Service) DataMap() formdata.Map {
	if sess, ok := s.session(); ok {
		return sess.dataMap
	}
	return nil
}

// ObjectWrap reports whether a non-object schema was wrapped under "1".
func (s *Service) ObjectWrap() bool {
	sess, ok := s.session()
	return ok && sess.objectWrap
}

// Compat reports the legacy input dialects the form was given in.
func (s *Service) Compat() Compat {
	if sess, ok := s.session(); ok {
		return sess.compat
	}
	return 0
}

// SessionID identifies the current session ("" before Initialize).
func (s *Service) SessionID() string {
	if sess, ok := s.session(); ok {
		return sess.id
	}
	return ""
}

// FieldsRequired reports whether any laid out input is required.
func (s *Service) FieldsRequired() bool {
	sess, ok := s.session()
	return ok && sess.layouts.FieldsRequired
}

// Submit returns the value to submit. When disableInvalidSubmit is set an
// invalid form marks every control touched and returns ErrInvalid with the
// issues attached.
func (s *Service) Submit() (any, error) {
	sess, ok := s.session()
	if !ok {
		return nil, ErrNotInitialized
	}
	if !sess.result.Valid && s.options.DisableInvalidSubmit {
		control.Walk(sess.root, func(_ string, c control.Control) { c.MarkAsTouched() })
		return nil, fmt.Errorf("%w: %w", ErrInvalid, sess.result.Err())
	}
	v := s.Value()
	s.Submits.Next(v)
	return v, nil
}

// RemoteError is an error reported for a field by a server.
type RemoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BuildRemoteError attaches server-side errors to controls. Keys are
// control names of the root group or data pointers. It returns the issues
// that found a control.
func (s *Service) BuildRemoteError(errs map[string][]RemoteError) Issues {
	sess, ok := s.session()
	if !ok {
		return nil
	}
	var applied Issues
	for key, list := range errs {
		pointer := key
		if !strings.HasPrefix(pointer, "/") {
			pointer = "/" + key
		}
		c, ok := control.Get(sess.root, pointer)
		if !ok {
			s.logger.Warn("remote error for unknown control", "key", key)
			continue
		}
		controlErrs := map[string]any{}
		for _, e := range list {
			controlErrs[e.Code] = e.Message
			applied = append(applied, Issue{Path: pointer, Code: validate.CodeRemote, Message: e.Message, Params: map[string]any{"code": e.Code}})
		}
		if len(controlErrs) > 0 {
			c.SetErrors(controlErrs)
		}
	}
	return applied
}
