package dlang

import (
	"io/fs"
	"os"

	rendertemplate "github.com/goliatone/go-vkgen/pkg/render/template"
)

// Defaults for the generated package.
const (
	DefaultPackagePrefix = "erupted"
	DefaultNamePrefix    = "Erupted"
	DefaultIndent        = "    "
)

// Option configures the generator.
type Option func(*config)

type config struct {
	packagePrefix    string
	namePrefix       string
	indent           string
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithPackagePrefix sets the D package the modules are generated into.
func WithPackagePrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix != "" {
			cfg.packagePrefix = prefix
		}
	}
}

// WithNamePrefix sets the binding name used in module documentation.
func WithNamePrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix != "" {
			cfg.namePrefix = prefix
		}
	}
}

// WithIndent sets the indentation unit. An empty string keeps the default.
func WithIndent(indent string) Option {
	return func(cfg *config) {
		if indent != "" {
			cfg.indent = indent
		}
	}
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}
