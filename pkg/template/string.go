package template

import (
	"fmt"
)

// TemplateString is template source carried in configuration, such as a
// yaml field.
type TemplateString string

// Validate checks delimiters and the grammar of every value block.
func (t TemplateString) Validate() error {
	tree, err := Build(string(t))
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	if err := Check(tree); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	return nil
}

func (t TemplateString) Render(ctx Context) (string, error) {
	return Render(string(t), ctx)
}

// RenderWith renders through e, sharing its cache and options.
func (t TemplateString) RenderWith(e *Engine, ctx Context) (string, error) {
	return e.Render(string(t), ctx)
}
