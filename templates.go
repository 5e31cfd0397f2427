package vkgen

import (
	"io/fs"

	"github.com/goliatone/go-vkgen/pkg/dlang"
)

// EmbeddedTemplates exposes the built-in D module templates so callers can
// reuse or extend them without importing the generator package directly.
func EmbeddedTemplates() fs.FS {
	return dlang.TemplatesFS()
}
