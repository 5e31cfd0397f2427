package vkgen

import (
	"context"

	"github.com/goliatone/go-vkgen/pkg/orchestrator"
	"github.com/goliatone/go-vkgen/pkg/registry"
	"github.com/goliatone/go-vkgen/pkg/render"
)

// Request aliases orchestrator.Request for callers of the top-level package.
type Request = orchestrator.Request

// Files aliases render.Files, the ordered set of generated modules.
type Files = render.Files

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateDir loads vk.xml from source, generates the D bindings and writes
// them below outputDir. It is the simplest entry point for callers that just
// want the files on disk.
func GenerateDir(ctx context.Context, source registry.Source, outputDir string, options ...orchestrator.Option) (Files, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:    source,
		OutputDir: outputDir,
	})
}

// GenerateFromDocument renders bindings from a pre-loaded document, bypassing
// the loader stage while still delegating to the orchestrator. Nothing is
// written to disk.
func GenerateFromDocument(ctx context.Context, doc registry.Document, walk []registry.WalkOption, options ...orchestrator.Option) (Files, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: &doc,
		Walk:     walk,
	})
}
