package template

import (
	"io"
)

// TemplateRenderer is the rendering seam of a language generator. The
// generator seeds values shared by all of its modules once, then renders
// each output module from the template of the same name. Per call data wins
// over global values on key clashes.
type TemplateRenderer interface {
	GlobalContext(data any) error
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
