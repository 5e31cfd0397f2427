package registry

import "context"

// DefaultAPIName is the API whose elements are kept when a registry carries
// variants for several APIs (vulkan, vulkansc).
const DefaultAPIName = "vulkan"

// Parser turns a registry Document into the Registry model walked by
// generators.
type Parser interface {
	Parse(ctx context.Context, doc Document) (*Registry, error)
}

// ParserOptions configures parsing.
type ParserOptions struct {
	// APIName selects which `api` attribute values are kept. Elements without
	// an api attribute are always kept.
	APIName string
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithAPIName overrides the API used to filter api-specific elements.
func WithAPIName(name string) ParserOption {
	return func(opts *ParserOptions) {
		if name != "" {
			opts.APIName = name
		}
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		APIName: DefaultAPIName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
