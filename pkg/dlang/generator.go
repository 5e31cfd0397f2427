package dlang

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-vkgen/internal/ctxlog"
	"github.com/goliatone/go-vkgen/pkg/registry"
	"github.com/goliatone/go-vkgen/pkg/render"
	rendertemplate "github.com/goliatone/go-vkgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-vkgen/pkg/render/template/gotemplate"
)

// Output module names. Templates share the name plus the .tpl extension.
const (
	FilePackage            = "package.d"
	FileTypes              = "types.d"
	FileFunctions          = "functions.d"
	FileDispatchDevice     = "dispatch_device.d"
	FilePlatformExtensions = "platform_extensions.d"
	FileLibLoader          = "vulkan_lib_loader.d"
	FileVideo              = "vk_video.d"
)

// Generator renders D bindings from a Vulkan registry.
type Generator struct {
	cfg       config
	templates rendertemplate.TemplateRenderer
}

var _ render.Generator = (*Generator)(nil)

// New constructs the D generator applying any provided options.
func New(options ...Option) (*Generator, error) {
	cfg := config{
		packagePrefix: DefaultPackagePrefix,
		namePrefix:    DefaultNamePrefix,
		indent:        DefaultIndent,
		templateFS:    TemplatesFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithName("dlang"),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("dlang: configure template renderer: %w", err)
		}
		renderer = engine
	}

	err := renderer.GlobalContext(map[string]any{
		"IND":            cfg.indent,
		"PACKAGE_PREFIX": cfg.packagePrefix,
		"NAME_PREFIX":    cfg.namePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("dlang: seed template context: %w", err)
	}

	return &Generator{cfg: cfg, templates: renderer}, nil
}

func (g *Generator) Name() string {
	return "dlang"
}

// Generate walks the registry and renders every D module. The video module
// is only produced when the request carries a video registry.
func (g *Generator) Generate(ctx context.Context, req render.Request) (render.Files, error) {
	if g == nil || g.templates == nil {
		return nil, errors.New("dlang: template renderer is nil")
	}
	if req.Registry == nil {
		return nil, errors.New("dlang: registry is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := ctxlog.FromContext(ctx)

	core := newEmitter(g.cfg.indent, logger)
	if err := registry.Walk(ctx, req.Registry, req.Walk, core); err != nil {
		return nil, fmt.Errorf("dlang: walk registry: %w", err)
	}

	var video *emitter
	if req.Video != nil {
		video = newEmitter(g.cfg.indent, logger)
		opts := registry.NewWalkOptions(registry.WithWalkAPIName(req.Walk.APIName))
		if err := registry.Walk(ctx, req.Video, opts, video); err != nil {
			return nil, fmt.Errorf("dlang: walk video registry: %w", err)
		}
	}

	data := core.templateData()
	data["VIDEO"] = video != nil

	modules := []struct {
		name string
		data map[string]any
	}{
		{FilePackage, nil},
		{FileTypes, data},
		{FileFunctions, data},
		{FileDispatchDevice, data},
		{FilePlatformExtensions, core.platformData()},
		{FileLibLoader, nil},
	}
	if video != nil {
		modules = append(modules, struct {
			name string
			data map[string]any
		}{FileVideo, map[string]any{"TYPE_DEFINITIONS": video.typesSection()}})
	}

	var files render.Files
	for _, module := range modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := g.templates.RenderTemplate(module.name, module.data)
		if err != nil {
			return nil, fmt.Errorf("dlang: render %s: %w", module.name, err)
		}
		files.Add(module.name, []byte(out))
	}

	logger.Info("dlang: bindings generated",
		"files", len(files),
		"features", len(core.featureOrder),
		"platform_extensions", len(core.platformOrder),
		"video", video != nil,
	)
	return files, nil
}
