package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	vkgen "github.com/goliatone/go-vkgen"
	"github.com/goliatone/go-vkgen/internal/config"
	"github.com/goliatone/go-vkgen/pkg/orchestrator"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

const fetchTimeout = 30 * time.Second

// Deps carries collaborators that tests replace.
type Deps struct {
	Prompter Prompter
	Options  []orchestrator.Option
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := NewRootCmd(Deps{})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the vkgen command.
func NewRootCmd(deps Deps) *cobra.Command {
	var (
		configPath  string
		interactive bool
		flags       = config.Default()
	)

	cmd := &cobra.Command{
		Use:   "vkgen [vulkan-docs-dir] <output-dir>",
		Short: "Generate D bindings from the Vulkan registry",
		Long: `vkgen reads the Vulkan API registry (vk.xml) and writes D language
bindings: types, function pointers, loaders and a device dispatch table.

With two arguments the registry is read from <vulkan-docs-dir>/xml/vk.xml,
together with video.xml when present. With one argument the registry comes
from --registry or the config file, falling back to ./vk.xml.`,
		Args:         cobra.RangeArgs(0, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, flags, args)
			if err != nil {
				return err
			}
			if interactive {
				prompter := deps.Prompter
				if prompter == nil {
					prompter = newSurveyPrompter()
				}
				if err := promptMissing(cmd.Context(), prompter, &cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg, deps.Options)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML or JSON file with generation settings")
	f.BoolVar(&interactive, "interactive", false, "prompt for the registry and output directory when missing")
	f.StringVar(&flags.PackagePrefix, "packagePrefix", flags.PackagePrefix, "D package of the generated modules")
	f.StringVar(&flags.NamePrefix, "namePrefix", flags.NamePrefix, "binding name used in module documentation")
	f.StringVar(&flags.IndentString, "indentString", flags.IndentString, "indentation unit of the generated code")
	f.StringVar(&flags.Registry, "registry", "", "path or URL of vk.xml, overrides the docs directory")
	f.StringVar(&flags.Video, "video", "", "path or URL of video.xml")
	f.StringVar(&flags.DefaultExtensions, "defaultExtensions", flags.DefaultExtensions, "class of extensions selected by default")
	f.StringArrayVar(&flags.Extensions, "extension", nil, "extension name or pattern to add (repeatable)")
	f.StringArrayVar(&flags.RemoveExtensions, "removeExtensions", nil, "extension name or pattern to remove (repeatable)")
	f.StringArrayVar(&flags.EmitExtensions, "emitExtensions", nil, "extension name or pattern to emit (repeatable)")
	f.StringArrayVar(&flags.Features, "feature", nil, "core feature name or pattern to include (repeatable)")
	f.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "log level: debug, info, warn or error")
	f.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "log format: text or json")

	return cmd
}

// resolveConfig layers the config file, changed flags and positional
// arguments, in that order.
func resolveConfig(cmd *cobra.Command, configPath string, flags config.Config, args []string) (config.Config, error) {
	cfg := flags
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded

		overrides := map[string]func(){
			"packagePrefix":     func() { cfg.PackagePrefix = flags.PackagePrefix },
			"namePrefix":        func() { cfg.NamePrefix = flags.NamePrefix },
			"indentString":      func() { cfg.IndentString = flags.IndentString },
			"registry":          func() { cfg.Registry = flags.Registry },
			"video":             func() { cfg.Video = flags.Video },
			"defaultExtensions": func() { cfg.DefaultExtensions = flags.DefaultExtensions },
			"extension":         func() { cfg.Extensions = flags.Extensions },
			"removeExtensions":  func() { cfg.RemoveExtensions = flags.RemoveExtensions },
			"emitExtensions":    func() { cfg.EmitExtensions = flags.EmitExtensions },
			"feature":           func() { cfg.Features = flags.Features },
			"log-level":         func() { cfg.LogLevel = flags.LogLevel },
			"log-format":        func() { cfg.LogFormat = flags.LogFormat },
		}
		for name, apply := range overrides {
			if cmd.Flags().Changed(name) {
				apply()
			}
		}
	}

	switch len(args) {
	case 2:
		cfg.DocsDir = args[0]
		cfg.OutputDir = args[1]
	case 1:
		cfg.OutputDir = args[0]
	}
	return cfg, nil
}

func run(cmd *cobra.Command, cfg config.Config, extra []orchestrator.Option) error {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	walk, err := cfg.WalkOptions()
	if err != nil {
		return err
	}

	source, err := cfg.RegistrySource()
	if err != nil {
		return err
	}
	video, err := cfg.VideoSource()
	if err != nil {
		return err
	}
	req := orchestrator.Request{
		Source:      source,
		VideoSource: video,
		OutputDir:   cfg.OutputDir,
		Walk:        walk,
	}

	options := []orchestrator.Option{
		orchestrator.WithLoader(vkgen.NewLoader(registry.WithHTTPFallback(fetchTimeout))),
		orchestrator.WithLogger(logger),
		orchestrator.WithGeneratorOptions(cfg.GeneratorOptions()...),
	}
	options = append(options, extra...)

	logger.Debug("vkgen: generating", "registry", source.Location(), "video", video != nil, "output", cfg.OutputDir)

	files, err := vkgen.NewOrchestrator(options...).Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", len(files), cfg.OutputDir)
	return nil
}
