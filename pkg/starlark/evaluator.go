package starlark

import (
	"fmt"

	"github.com/artigo/artigo/pkg/template"
	"go.starlark.net/starlark"
)

// Evaluator runs Starlark scripts that compute template contexts. Values
// already in the context are visible to the script as globals, and the
// globals the script defines are exported back as context values.
type Evaluator struct {
	thread   *starlark.Thread
	builtins starlark.StringDict
	globals  starlark.StringDict
}

// NewEvaluator creates a new Starlark evaluator. engine backs the render
// builtin and may be nil.
func NewEvaluator(engine *template.Engine) *Evaluator {
	return &Evaluator{
		thread:   newThread("artigo"),
		builtins: CreateBuiltins(engine),
		globals:  make(starlark.StringDict),
	}
}

// SetGlobal sets a global variable in the Starlark environment
func (e *Evaluator) SetGlobal(name string, value template.Value) {
	e.globals[name] = ConvertToStarlark(value)
}

func (e *Evaluator) predeclared() starlark.StringDict {
	predeclared := make(starlark.StringDict, len(e.builtins)+len(e.globals))
	for k, v := range e.builtins {
		predeclared[k] = v
	}
	for k, v := range e.globals {
		predeclared[k] = v
	}
	return predeclared
}

// Eval evaluates a Starlark expression
func (e *Evaluator) Eval(expr string) (template.Value, error) {
	val, err := starlark.Eval(e.thread, "<eval>", expr, e.predeclared())
	if err != nil {
		return nil, fmt.Errorf("starlark evaluation error: %w", err)
	}
	return ConvertFromStarlark(val), nil
}

// ExecFile executes a Starlark file and returns the globals it defined.
// src follows starlark.ExecFile: nil reads filename from disk.
func (e *Evaluator) ExecFile(filename string, src any) (starlark.StringDict, error) {
	globals, err := starlark.ExecFile(e.thread, filename, src, e.predeclared())
	if err != nil {
		return nil, fmt.Errorf("starlark execution error: %w", err)
	}
	for k, v := range globals {
		e.globals[k] = v
	}
	return globals, nil
}

// ExecString executes a Starlark script from a string
func (e *Evaluator) ExecString(script string) (starlark.StringDict, error) {
	return e.ExecFile("<script>", script)
}

// GetGlobal retrieves a global variable as a template Value
func (e *Evaluator) GetGlobal(name string) (template.Value, bool) {
	if val, ok := e.globals[name]; ok {
		return ConvertFromStarlark(val), true
	}
	return nil, false
}

// LoadContext makes every context value a script global.
func (e *Evaluator) LoadContext(ctx template.Context) {
	for key, value := range ctx {
		e.SetGlobal(key, value)
	}
}

// ExportContext returns the exportable globals as a context.
func (e *Evaluator) ExportContext() template.Context {
	ctx := make(template.Context)
	for key, value := range e.globals {
		if !isExportable(key, value) {
			continue
		}
		ctx[key] = ConvertFromStarlark(value)
	}
	return ctx
}

// isExportable skips private names and functions.
func isExportable(key string, value starlark.Value) bool {
	if key == "" || key[0] == '_' {
		return false
	}
	_, callable := value.(starlark.Callable)
	return !callable
}

// LoadScript runs the script at filename (or src, if non-nil) on top of base
// and returns the resulting context.
func LoadScript(filename string, src any, base template.Context, engine *template.Engine) (template.Context, error) {
	e := NewEvaluator(engine)
	e.LoadContext(base)
	if _, err := e.ExecFile(filename, src); err != nil {
		return nil, err
	}
	return e.ExportContext(), nil
}
