package template

import (
	"log/slog"
	"os"
)

// TreeCache stores parsed trees keyed by template source. Trees depend only
// on the source text, so a cached tree renders exactly like a fresh one.
type TreeCache interface {
	Get(src string) (*Tree, bool)
	Put(src string, tree *Tree)
}

// Engine ties parsing, optional caching and rendering together. An Engine
// is safe for concurrent use when its Loader and Cache are.
type Engine struct {
	Loader   Loader
	Cache    TreeCache
	Renderer *Renderer
}

// NewEngine returns an engine. loader and cache may be nil.
func NewEngine(loader Loader, cache TreeCache, opts ...Option) *Engine {
	return &Engine{Loader: loader, Cache: cache, Renderer: NewRenderer(opts...)}
}

var defaultEngine = NewEngine(nil, nil)

// Render renders template text against ctx.
func Render(text string, ctx Context) (string, error) {
	return defaultEngine.Render(text, ctx)
}

// RenderFile reads the template at path and renders it against ctx. A read
// failure is reported with KindIO.
func RenderFile(path string, ctx Context) (string, error) {
	return defaultEngine.RenderFile(path, ctx)
}

// Parse builds the tree for src, consulting the cache first.
func (e *Engine) Parse(src string) (*Tree, error) {
	if e.Cache != nil {
		if tree, ok := e.Cache.Get(src); ok {
			return tree, nil
		}
	}
	tree, err := Build(src)
	if err != nil {
		return nil, err
	}
	if e.Cache != nil {
		e.Cache.Put(src, tree)
	}
	return tree, nil
}

func (e *Engine) renderer() *Renderer {
	if e.Renderer == nil {
		return NewRenderer()
	}
	return e.Renderer
}

func (e *Engine) Render(src string, ctx Context) (string, error) {
	tree, err := e.Parse(src)
	if err != nil {
		return "", err
	}
	return e.renderer().Render(tree, ctx)
}

func (e *Engine) RenderFile(path string, ctx Context) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: KindIO, Message: "reading template", Offset: -1, Name: path, Cause: err}
	}
	slog.Debug("rendering template file", "path", path, "bytes", len(b))
	out, err := e.Render(string(b), ctx)
	if err != nil {
		return "", withName(err, path)
	}
	return out, nil
}

// RenderNamed loads name through the engine's Loader and renders it.
func (e *Engine) RenderNamed(name string, ctx Context) (string, error) {
	if e.Loader == nil {
		return "", &Error{Kind: KindIO, Message: "no loader configured", Offset: -1, Name: name}
	}
	src, err := e.Loader.Load(name)
	if err != nil {
		return "", &Error{Kind: KindIO, Message: "loading template", Offset: -1, Name: name, Cause: err}
	}
	out, err := e.Render(src, ctx)
	if err != nil {
		return "", withName(err, name)
	}
	return out, nil
}
