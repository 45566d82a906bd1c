// Package ctxdata builds template contexts from files and command-line
// assignments.
package ctxdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/artigo/artigo/pkg/common"
	"github.com/artigo/artigo/pkg/starlark"
	"github.com/artigo/artigo/pkg/template"
	v "github.com/artigo/artigo/pkg/validator"

	"go.yaml.in/yaml/v4"
)

// Loader reads context sources. Engine backs the render builtin of Starlark
// scripts and may be nil.
type Loader struct {
	Engine *template.Engine
}

// Load reads a single context file. Starlark scripts see an empty context.
func (l Loader) Load(path string) (template.Context, error) {
	return l.LoadOnto(template.Context{}, path)
}

// LoadAll reads paths in order, later files overriding earlier keys.
// Starlark scripts see everything loaded before them.
func (l Loader) LoadAll(paths ...string) (template.Context, error) {
	ctx := template.Context{}
	for _, p := range paths {
		next, err := l.LoadOnto(ctx, p)
		if err != nil {
			return nil, err
		}
		ctx = next
	}
	return ctx, nil
}

// LoadOnto reads path and returns base overlaid with its values.
func (l Loader) LoadOnto(base template.Context, path string) (template.Context, error) {
	format, ok := common.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("context file %s: unknown format, expected one of %v", path, common.AllFormats)
	}
	slog.Debug("loading context", "path", path, "format", format)

	switch format {
	case common.FormatStarlark:
		ctx, err := starlark.LoadScript(path, nil, base, l.Engine)
		if err != nil {
			return nil, fmt.Errorf("context file %s: %w", path, err)
		}
		return ctx, nil
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading context file: %w", err)
		}
		ctx, err := Decode(b)
		if err != nil {
			return nil, fmt.Errorf("context file %s: %w", path, err)
		}
		return Merge(base, ctx), nil
	}
}

// Decode parses a YAML or JSON document whose top level is a mapping.
func Decode(b []byte) (template.Context, error) {
	var m map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return template.Context{}, nil
		}
		return nil, fmt.Errorf("decoding context: %w", err)
	}
	ctx := template.NewContextFromAny(m)
	if err := Validate(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Validate rejects keys that no value block could reference.
func Validate(ctx template.Context) error {
	reserved := template.ReservedWords()
	return v.MapDict(ctx, func(key string, _ template.Value) error {
		return v.Identifier(key, reserved, "context key")
	}, "context")
}

// ParseAssignments turns key=value pairs into string values.
func ParseAssignments(pairs []string) (template.Context, error) {
	ctx := template.Context{}
	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", p)
		}
		key = strings.TrimSpace(key)
		if err := v.Identifier(key, template.ReservedWords(), "assignment key"); err != nil {
			return nil, err
		}
		ctx[key] = template.StringValue(val)
	}
	return ctx, nil
}

// Merge returns a new context with the keys of each layer applied in order.
func Merge(layers ...template.Context) template.Context {
	out := template.Context{}
	for _, layer := range layers {
		for k, val := range layer {
			out[k] = val
		}
	}
	return out
}
