package render

import (
	"context"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

// Generator turns a parsed registry into a set of output files for one target
// language.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (Files, error)
}

// Request carries the parsed registries and traversal options handed to a
// Generator.
type Request struct {
	// Registry is the main API registry (vk.xml).
	Registry *registry.Registry
	// Video is the optional video codec registry (video.xml).
	Video *registry.Registry
	// Walk selects the features and extensions visited.
	Walk registry.WalkOptions
}
