package library

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/artigo/artigo/pkg/template"
	v "github.com/artigo/artigo/pkg/validator"

	"go.yaml.in/yaml/v4"
)

// Template is a named template manifest.
type Template struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description,omitempty"`
	Source      template.TemplateString `yaml:"source"`
	Defaults    map[string]string       `yaml:"defaults,omitempty"`
	Required    []string                `yaml:"required,omitempty"`
	Tests       []TestCase              `yaml:"tests,omitempty"`
}

func (t Template) Validate() error {
	reserved := template.ReservedWords()
	return v.All(
		v.NotEmpty(t.Name, "name"),
		v.HasNoDelimiters(t.Name, "name"),
		v.NotEmpty(string(t.Source), "source"),
		t.Source.Validate(),
		v.MapDict(t.Defaults, func(key string, _ string) error {
			return v.Identifier(key, reserved, "default key")
		}, "defaults"),
		v.Map(t.Required, func(key string, desc string) error {
			return v.Identifier(key, reserved, desc)
		}, "required"),
		v.NoDuplicates(t.Required, "required"),
		v.Each(t.Tests),
		v.NoDuplicates(t.testNames(), "tests"),
	)
}

// Context layers ctx over the manifest defaults and checks that every
// required key is present.
func (t Template) Context(ctx template.Context) (template.Context, error) {
	merged := make(template.Context, len(t.Defaults)+len(ctx))
	for k, val := range t.Defaults {
		merged[k] = template.StringValue(val)
	}
	for k, val := range ctx {
		merged[k] = val
	}
	var missing []string
	for _, k := range t.Required {
		if _, ok := merged[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("template %q: missing required values: %s", t.Name, strings.Join(missing, ", "))
	}
	return merged, nil
}

// Execute renders the manifest source through engine.
func (t Template) Execute(engine *template.Engine, ctx template.Context) (string, error) {
	merged, err := t.Context(ctx)
	if err != nil {
		return "", err
	}
	out, err := t.Source.RenderWith(engine, merged)
	if err != nil {
		return "", fmt.Errorf("rendering template %q: %w", t.Name, err)
	}
	return out, nil
}

//go:embed *.yaml
var Files embed.FS

var (
	mu          sync.RWMutex
	builtins    = map[string]Template{}
	templateDir string
)

// SetTemplateDir makes manifests in dir shadow the built-in ones. An empty
// dir removes the override.
func SetTemplateDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	templateDir = dir
}

func currentDir() string {
	mu.RLock()
	defer mu.RUnlock()
	return templateDir
}

// Get returns the named template, preferring the override directory.
func Get(name string) (Template, error) {
	if dir := currentDir(); dir != "" {
		tpl, err := loadFile(filepath.Join(dir, name+".yaml"))
		if err == nil {
			return tpl, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Template{}, err
		}
	}
	if tpl, ok := builtins[name]; ok {
		return tpl, nil
	}
	return Template{}, fmt.Errorf("template %q not found", name)
}

// Names lists every available template name in sorted order.
func Names() []string {
	seen := map[string]bool{}
	for name := range builtins {
		seen[name] = true
	}
	if dir := currentDir(); dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.Warn("reading template dir", "dir", dir, "error", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
				continue
			}
			seen[strings.TrimSuffix(entry.Name(), ".yaml")] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadFile(path string) (Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	slog.Debug("loading template manifest", "path", path)
	return decode(content, path)
}

func decode(content []byte, name string) (Template, error) {
	var tpl Template
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&tpl); err != nil {
		return Template{}, fmt.Errorf("failed to decode template %q: %w", name, err)
	}
	if err := tpl.Validate(); err != nil {
		return Template{}, fmt.Errorf("invalid template %q: %w", name, err)
	}
	return tpl, nil
}

func init() {
	entries, err := Files.ReadDir(".")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		content, err := Files.ReadFile(name)
		if err != nil {
			panic(err)
		}
		tpl, err := decode(content, name)
		if err != nil {
			panic(err)
		}
		builtins[strings.TrimSuffix(name, ".yaml")] = tpl
	}
}
