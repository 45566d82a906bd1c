package starlark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artigo/artigo/pkg/template"
	"go.starlark.net/starlark"
)

func TestConvertToStarlark(t *testing.T) {
	tests := []struct {
		name     string
		input    template.Value
		expected starlark.Value
	}{
		{
			name:     "string value",
			input:    template.StringValue("hello"),
			expected: starlark.String("hello"),
		},
		{
			name:     "int value",
			input:    template.IntValue(42),
			expected: starlark.MakeInt64(42),
		},
		{
			name:     "float value",
			input:    template.FloatValue(3.14),
			expected: starlark.Float(3.14),
		},
		{
			name:     "bool value true",
			input:    template.BoolValue(true),
			expected: starlark.Bool(true),
		},
		{
			name:     "none value",
			input:    template.NoneValue{},
			expected: starlark.None,
		},
		{
			name:     "nil value",
			input:    nil,
			expected: starlark.None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToStarlark(tt.input)
			if result.String() != tt.expected.String() {
				t.Errorf("ConvertToStarlark() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestConvertFromStarlark(t *testing.T) {
	tests := []struct {
		name     string
		input    starlark.Value
		expected template.Value
	}{
		{"string value", starlark.String("hello"), template.StringValue("hello")},
		{"int value", starlark.MakeInt64(42), template.IntValue(42)},
		{"float value", starlark.Float(3.5), template.FloatValue(3.5)},
		{"bool value", starlark.Bool(false), template.BoolValue(false)},
		{"none value", starlark.None, template.NoneValue{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertFromStarlark(tt.input)
			if result != tt.expected {
				t.Errorf("ConvertFromStarlark() = %#v, want %#v", result, tt.expected)
			}
		})
	}
}

func TestListAndDictConversion(t *testing.T) {
	list := template.ListValue{template.StringValue("a"), template.IntValue(1)}
	back, ok := ConvertFromStarlark(ConvertToStarlark(list)).(template.ListValue)
	if !ok || len(back) != 2 || back[0] != template.StringValue("a") {
		t.Fatalf("list round trip failed: %#v", back)
	}

	dict := template.DictValue{"key1": template.StringValue("value1")}
	backDict, ok := ConvertFromStarlark(ConvertToStarlark(dict)).(template.DictValue)
	if !ok || backDict["key1"] != template.StringValue("value1") {
		t.Fatalf("dict round trip failed: %#v", backDict)
	}
}

func TestEvaluatorWithGlobals(t *testing.T) {
	eval := NewEvaluator(nil)
	eval.SetGlobal("test_var", template.StringValue("hello"))

	result, err := eval.Eval("test_var + ' world'")
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if result.String() != "hello world" {
		t.Errorf("Expected 'hello world', got %v", result.String())
	}
}

func TestContextScript(t *testing.T) {
	base := template.Context{
		"first": template.StringValue("Ada"),
		"last":  template.StringValue("Lovelace"),
	}
	script := `
def full(a, b):
    return a + " " + b

name = full(first, last)
greeting = render("Hello {{ n |> upper }}", n = first)
_private = "hidden"
count = 3
`
	ctx, err := LoadScript("ctx.star", script, base, nil)
	if err != nil {
		t.Fatalf("LoadScript error: %v", err)
	}

	want := map[string]template.Value{
		"first":    template.StringValue("Ada"),
		"name":     template.StringValue("Ada Lovelace"),
		"greeting": template.StringValue("Hello ADA"),
		"count":    template.IntValue(3),
	}
	for k, v := range want {
		if ctx[k] != v {
			t.Errorf("%s = %#v, want %#v", k, ctx[k], v)
		}
	}
	for _, hidden := range []string{"_private", "full", "render"} {
		if _, ok := ctx[hidden]; ok {
			t.Errorf("%s should not be exported", hidden)
		}
	}
}

func TestRenderBuiltinPropagatesErrors(t *testing.T) {
	_, err := LoadScript("bad.star", `x = render("{{ missing }}")`, nil, nil)
	if err == nil {
		t.Fatalf("expected error from render builtin")
	}
}

func TestLoadScriptFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.star")
	if err := os.WriteFile(path, []byte("title = 'Report'\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, err := LoadScript(path, nil, nil, nil)
	if err != nil {
		t.Fatalf("LoadScript error: %v", err)
	}
	out, err := template.Render("{{ title |> lower }}", ctx)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "report" {
		t.Fatalf("got %q", out)
	}
}
