package starlark

import (
	"fmt"
	"log/slog"

	"github.com/artigo/artigo/pkg/template"
	"go.starlark.net/starlark"
)

// CreateBuiltins returns the functions available to context scripts.
// render(tpl, **vars) renders tpl with vars through engine.
func CreateBuiltins(engine *template.Engine) starlark.StringDict {
	if engine == nil {
		engine = template.NewEngine(nil, nil)
	}
	return starlark.StringDict{
		"render": starlark.NewBuiltin("render", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 1 {
				return starlark.None, fmt.Errorf("%s: expected 1 positional argument, got %d", fn.Name(), len(args))
			}
			tpl, ok := starlark.AsString(args[0])
			if !ok {
				return starlark.None, fmt.Errorf("%s: template must be a string, got %s", fn.Name(), args[0].Type())
			}

			ctx := make(template.Context, len(kwargs))
			for _, kv := range kwargs {
				name, _ := starlark.AsString(kv[0])
				ctx[name] = ConvertFromStarlark(kv[1])
			}

			out, err := engine.Render(tpl, ctx)
			if err != nil {
				return starlark.None, fmt.Errorf("%s: %w", fn.Name(), err)
			}
			return starlark.String(out), nil
		}),
	}
}

func newThread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(thread *starlark.Thread, msg string) {
			slog.Info("starlark print", "thread", thread.Name, "msg", msg)
		},
	}
}
