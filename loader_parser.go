package vkgen

import (
	internalLoader "github.com/goliatone/go-vkgen/internal/registry/loader"
	internalParser "github.com/goliatone/go-vkgen/internal/registry/parser"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...registry.LoaderOption) registry.Loader {
	cfg := registry.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...registry.ParserOption) registry.Parser {
	cfg := registry.NewParserOptions(options...)
	return internalParser.New(cfg)
}
