package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-vkgen/internal/ctxlog"
	internalLoader "github.com/goliatone/go-vkgen/internal/registry/loader"
	internalParser "github.com/goliatone/go-vkgen/internal/registry/parser"
	"github.com/goliatone/go-vkgen/pkg/dlang"
	"github.com/goliatone/go-vkgen/pkg/registry"
	"github.com/goliatone/go-vkgen/pkg/render"
)

const defaultGeneratorName = "dlang"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom registry loader.
func WithLoader(loader registry.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom registry parser.
func WithParser(parser registry.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithRegistry injects a generator registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultGenerator overrides the generator used when a request omits an
// explicit Generator field.
func WithDefaultGenerator(name string) Option {
	return func(o *Orchestrator) {
		o.defaultGenerator = name
	}
}

// WithGeneratorOptions configures the default D generator registered when no
// registry is injected.
func WithGeneratorOptions(options ...dlang.Option) Option {
	return func(o *Orchestrator) {
		o.generatorOptions = append(o.generatorOptions, options...)
	}
}

// WithLogger attaches a logger to every Generate call.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the end-to-end generation flow.
type Orchestrator struct {
	loader           registry.Loader
	parser           registry.Parser
	registry         *render.Registry
	defaultGenerator string
	generatorOptions []dlang.Option
	logger           *slog.Logger

	defaultsApplied bool
	initialiseErr   error
}

// Request describes a single generation run. Either Source or Document must
// be provided; Document wins when both are set. The video registry is
// optional and follows the same rule; a docs video source whose file is
// missing is skipped.
type Request struct {
	Source   registry.Source
	Document *registry.Document

	VideoSource   registry.Source
	VideoDocument *registry.Document

	// OutputDir receives the generated files. Empty skips writing.
	OutputDir string
	// Generator selects a registered generator by name.
	Generator string
	// Walk configures feature and extension selection.
	Walk []registry.WalkOption
}

// New constructs an Orchestrator applying the provided options and falling
// back to sensible defaults (built-in loader, parser and D generator).
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Generate loads and parses the registries, renders them with the selected
// generator and writes the result when an output directory is given.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (render.Files, error) {
	if o == nil {
		return nil, errors.New("orchestrator: nil receiver")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.applyDefaults()
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	if o.logger != nil {
		ctx = ctxlog.WithLogger(ctx, o.logger)
	}
	logger := ctxlog.FromContext(ctx)

	generator, err := o.generatorFor(req.Generator)
	if err != nil {
		return nil, err
	}

	walk := registry.NewWalkOptions(req.Walk...)

	reg, err := o.registryFor(ctx, req.Source, req.Document, "registry")
	if err != nil {
		return nil, err
	}

	var video *registry.Registry
	if req.VideoSource != nil || req.VideoDocument != nil {
		video, err = o.registryFor(ctx, req.VideoSource, req.VideoDocument, "video registry")
		switch {
		case err == nil:
		case optionalVideo(req, err):
			logger.Info("orchestrator: no video registry in checkout", "location", req.VideoSource.Location())
		default:
			return nil, err
		}
	}

	files, err := generator.Generate(ctx, render.NewRequest(reg,
		render.WithVideo(video),
		render.WithWalkOptions(walk),
	))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: generate %s: %w", generator.Name(), err)
	}

	if req.OutputDir != "" {
		if err := files.WriteDir(req.OutputDir); err != nil {
			return nil, fmt.Errorf("orchestrator: write output: %w", err)
		}
		logger.Info("orchestrator: files written", "dir", req.OutputDir, "files", len(files))
	}

	return files, nil
}

// optionalVideo reports a video.xml missing from a Vulkan-Docs checkout.
// Older checkouts predate it.
func optionalVideo(req Request, err error) bool {
	return req.VideoDocument == nil &&
		req.VideoSource != nil &&
		req.VideoSource.Kind() == registry.SourceKindDocs &&
		errors.Is(err, fs.ErrNotExist)
}

func (o *Orchestrator) registryFor(ctx context.Context, src registry.Source, doc *registry.Document, label string) (*registry.Registry, error) {
	resolved, err := o.resolveDocument(ctx, src, doc, label)
	if err != nil {
		return nil, err
	}
	reg, err := o.parser.Parse(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse %s: %w", label, err)
	}
	return reg, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, src registry.Source, doc *registry.Document, label string) (registry.Document, error) {
	if doc != nil {
		return *doc, nil
	}
	if src == nil {
		return registry.Document{}, fmt.Errorf("orchestrator: %s source or document is required", label)
	}
	loaded, err := o.loader.Load(ctx, src)
	if err != nil {
		return registry.Document{}, fmt.Errorf("orchestrator: load %s: %w", label, err)
	}
	return loaded, nil
}

func (o *Orchestrator) generatorFor(name string) (render.Generator, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: generator registry is nil")
	}
	generator, err := o.registry.Resolve(name, o.defaultGenerator)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return generator, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(registry.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(registry.NewParserOptions())
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		generator, err := dlang.New(o.generatorOptions...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default generator: %w", err)
		} else {
			o.registry.MustRegister(generator)
		}
	}
	if o.defaultGenerator == "" {
		o.defaultGenerator = defaultGeneratorName
	}

	o.defaultsApplied = true
}
