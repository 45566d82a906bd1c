package library

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/artigo/artigo/pkg/template"
	v "github.com/artigo/artigo/pkg/validator"

	"go.yaml.in/yaml/v4"
)

// TestCase is an example render stored alongside a manifest. A plain string
// entry is shorthand for an expected output rendered with the defaults only.
type TestCase struct {
	Name    string            `yaml:"name"`
	Context map[string]string `yaml:"context,omitempty"`
	Expect  string            `yaml:"expect,omitempty"`
	// Error names the expected error kind, e.g. "context lookup error".
	Error string `yaml:"error,omitempty"`
}

var invalidNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

func (t *TestCase) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		t.Expect = value.Value
		t.Name = deriveTestName(value.Value)
		return nil
	case yaml.MappingNode:
		type alias TestCase
		var tmp alias
		if err := value.Decode(&tmp); err != nil {
			return err
		}
		if tmp.Expect != "" && tmp.Error != "" {
			return fmt.Errorf("test %q: expect and error are mutually exclusive", tmp.Name)
		}
		tmp.Name = strings.TrimSpace(tmp.Name)
		if tmp.Name == "" {
			tmp.Name = deriveTestName(tmp.Expect + tmp.Error)
		}
		*t = TestCase(tmp)
		return nil
	default:
		return fmt.Errorf("unsupported test entry type: %v", value.Kind)
	}
}

func (t TestCase) Validate() error {
	reserved := template.ReservedWords()
	return v.All(
		v.NotEmpty(t.Name, "test name"),
		v.MapDict(t.Context, func(key string, _ string) error {
			return v.Identifier(key, reserved, "context key")
		}, fmt.Sprintf("test %q", t.Name)),
	)
}

func deriveTestName(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "test"
	}
	name := strings.ToLower(fields[0])
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "test"
	}
	return name
}

func (t Template) testNames() []string {
	names := make([]string, len(t.Tests))
	for i, tc := range t.Tests {
		names[i] = tc.Name
	}
	return names
}

// Run renders the test's context through tpl and compares the outcome.
func (tc TestCase) Run(tpl Template, engine *template.Engine) error {
	ctx := template.Context{}
	for k, val := range tc.Context {
		ctx[k] = template.StringValue(val)
	}
	out, err := tpl.Execute(engine, ctx)
	if tc.Error != "" {
		if err == nil {
			return fmt.Errorf("expected %s, rendered %q", tc.Error, out)
		}
		if !strings.Contains(err.Error(), tc.Error) {
			return fmt.Errorf("expected %s, got: %w", tc.Error, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if out != tc.Expect {
		return fmt.Errorf("output mismatch:\n got: %q\nwant: %q", out, tc.Expect)
	}
	return nil
}
