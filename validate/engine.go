// Package validate checks form data against the form schema with a
// compiled JSON Schema validator and maps the errors to data pointers.
package validate

import (
	"crypto/sha256"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonschema"

	"github.com/reoring/jsonform/internal/logging"
)

// RootKey is the ErrorMap key of errors about the whole document.
const RootKey = "ROOT"

// ErrorMap maps instance pointers to their error messages.
type ErrorMap map[string][]string

// Pointers lists the keys in order.
func (m ErrorMap) Pointers() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Result is the outcome of one Validate call.
type Result struct {
	Valid  bool
	Errors ErrorMap
	Issues Issues
}

// Err returns the issues as an error, or nil when the data is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Issues
}

// Engine holds one compiled schema. Compiling the same schema again is a
// no-op. An Engine is not safe for concurrent use.
type Engine struct {
	logger      logging.Logger
	schemaPtr   uintptr
	fingerprint [32]byte
	compiled    *jsonschema.Schema
	compileErr  error
	compiles    int
}

// NewEngine returns an Engine without a schema. Validate on it reports
// every document as valid.
func NewEngine(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{logger: logger}
}

// Compile prepares schema for validation. A failure is returned and also
// remembered: later Validate calls report it as a ROOT error.
func (e *Engine) Compile(schema map[string]any) error {
	raw, err := json.Marshal(toValidatorDialect(schema))
	if err != nil {
		e.compiled, e.compileErr = nil, fmt.Errorf("marshal schema: %w", err)
		return e.compileErr
	}
	ptr := reflect.ValueOf(schema).Pointer()
	sum := sha256.Sum256(raw)
	if (e.compiled != nil || e.compileErr != nil) && ptr == e.schemaPtr && sum == e.fingerprint {
		return e.compileErr
	}
	e.schemaPtr, e.fingerprint = ptr, sum
	e.compiles++
	compiled, err := jsonschema.NewCompiler().Compile(raw)
	if err != nil {
		e.logger.Error("schema compile failed", "error", err)
		e.compiled, e.compileErr = nil, fmt.Errorf("compile schema: %w", err)
		return e.compileErr
	}
	e.compiled, e.compileErr = compiled, nil
	return nil
}

// Compiled reports whether a schema is ready.
func (e *Engine) Compiled() bool { return e.compiled != nil }

// Reset drops the compiled schema.
func (e *Engine) Reset() {
	e.compiled, e.compileErr, e.schemaPtr, e.fingerprint = nil, nil, 0, [32]byte{}
}

// Validate checks data against the compiled schema.
func (e *Engine) Validate(data any) Result {
	if e.compileErr != nil {
		iss := Issues{{Code: CodeCompile, Message: e.compileErr.Error()}}
		return Result{Valid: false, Errors: toErrorMap(iss), Issues: iss}
	}
	if e.compiled == nil {
		return Result{Valid: true, Errors: ErrorMap{}}
	}
	res := e.compiled.Validate(data)
	if res.Valid {
		return Result{Valid: true, Errors: ErrorMap{}}
	}
	var iss Issues
	collect(res, "", &iss)
	sort.SliceStable(iss, func(i, j int) bool {
		if iss[i].Path != iss[j].Path {
			return iss[i].Path < iss[j].Path
		}
		return iss[i].Code < iss[j].Code
	})
	return Result{Valid: false, Errors: toErrorMap(iss), Issues: iss}
}

// collect flattens a result tree. Instance locations of nested details
// are relative to their parent, so base carries the absolute location.
func collect(r *jsonschema.EvaluationResult, base string, out *Issues) {
	if r == nil {
		return
	}
	path := base + strings.TrimPrefix(r.InstanceLocation, "#")
	if !r.Valid {
		keys := make([]string, 0, len(r.Errors))
		for k := range r.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ev := r.Errors[k]
			if ev == nil {
				continue
			}
			code := ev.Keyword
			if code == "" {
				code = k
			}
			*out = append(*out, Issue{Path: path, Code: code, Message: ev.Error(), Params: ev.Params})
		}
	}
	for _, d := range r.Details {
		collect(d, path, out)
	}
}

func toErrorMap(iss Issues) ErrorMap {
	m := ErrorMap{}
	for _, it := range iss {
		key := it.Path
		if key == "" {
			key = RootKey
		}
		m[key] = append(m[key], it.Message)
	}
	return m
}
