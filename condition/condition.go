// Package condition evaluates the visibility conditions of layout nodes.
//
// A condition is one of:
//   - a string: an object path ("model.a.b", "list[arrayIndex].c") looked up
//     in the form data, visible when the value is truthy;
//   - a func(any) bool called with the data;
//   - a map with "expression" or "functionBody": a CEL expression over the
//     variables model and arrayIndices.
//
// Conditions that fail to compile or evaluate count as visible.
package condition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/cel-go/cel"

	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/internal/logging"
	"github.com/reoring/jsonform/jsonpointer"
)

// costLimit bounds the work of one expression evaluation.
const costLimit = 10000

// Func is a Go predicate over the form data.
type Func func(data any) bool

// Evaluator evaluates conditions. Compiled expressions are cached.
type Evaluator struct {
	env      *cel.Env
	programs *ristretto.Cache[string, cel.Program]
	logger   logging.Logger
	compiles int
}

// New returns an Evaluator.
func New(logger logging.Logger) (*Evaluator, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	env, err := cel.NewEnv(
		cel.Variable("model", cel.DynType),
		cel.Variable("arrayIndices", cel.ListType(cel.IntType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, cel.Program]{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create program cache: %w", err)
	}
	return &Evaluator{env: env, programs: cache, logger: logger}, nil
}

// Close releases the program cache.
func (e *Evaluator) Close() {
	e.programs.Close()
}

// Evaluate reports whether a node with condition cond is visible for data.
// dataIndex holds the indexes of the enclosing array items, innermost last.
// A nil condition is visible.
func (e *Evaluator) Evaluate(cond any, data any, dataIndex []int) bool {
	switch c := cond.(type) {
	case nil:
		return true
	case string:
		return e.path(c, data, dataIndex)
	case Func:
		return c(data)
	case func(any) bool:
		return c(data)
	case map[string]any:
		src, _ := c["expression"].(string)
		if src == "" {
			src, _ = c["functionBody"].(string)
		}
		if src == "" {
			return true
		}
		return e.expression(src, data, dataIndex)
	}
	e.logger.Warn("unsupported condition", "type", fmt.Sprintf("%T", cond))
	return true
}

func (e *Evaluator) path(cond string, data any, dataIndex []int) bool {
	if len(dataIndex) > 0 {
		cond = strings.ReplaceAll(cond, "[arrayIndex]", "["+strconv.Itoa(dataIndex[len(dataIndex)-1])+"]")
	}
	keys := jsonpointer.ParseObjectPath(cond)
	if v, ok := jsonpointer.GetKeys(data, keys); ok && jsonvalue.Truthy(v) {
		return true
	}
	if len(keys) > 0 && keys[0] == "model" {
		v, ok := jsonpointer.GetKeys(map[string]any{"model": data}, keys)
		return ok && jsonvalue.Truthy(v)
	}
	return false
}

var (
	leadingReturn = regexp.MustCompile(`^\s*return\s+`)
	strictEq      = strings.NewReplacer("===", "==", "!==", "!=")
)

// normalize accepts the short function bodies written for older forms,
// such as "return model.a === 'x';".
func normalize(src string) string {
	src = strings.TrimSpace(src)
	src = leadingReturn.ReplaceAllString(src, "")
	src = strings.TrimSuffix(src, ";")
	return strictEq.Replace(src)
}

func (e *Evaluator) program(src string) (cel.Program, error) {
	if prg, ok := e.programs.Get(src); ok {
		return prg, nil
	}
	e.compiles++
	ast, iss := e.env.Compile(normalize(src))
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile condition: %w", iss.Err())
	}
	prg, err := e.env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("build condition program: %w", err)
	}
	e.programs.Set(src, prg, 1)
	e.programs.Wait()
	return prg, nil
}

func (e *Evaluator) expression(src string, data any, dataIndex []int) bool {
	prg, err := e.program(src)
	if err != nil {
		e.logger.Error("condition failed, showing node", "condition", src, "error", err)
		return true
	}
	indices := make([]int64, len(dataIndex))
	for i, d := range dataIndex {
		indices[i] = int64(d)
	}
	if data == nil {
		data = map[string]any{}
	}
	out, _, err := prg.Eval(map[string]any{"model": data, "arrayIndices": indices})
	if err != nil {
		e.logger.Error("condition failed, showing node", "condition", src, "error", err)
		return true
	}
	return jsonvalue.Truthy(out.Value())
}
