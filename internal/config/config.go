// Package config holds the settings of a generation run, loaded from an
// optional YAML or JSON file and overridden by command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vkgen/pkg/dlang"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

// Config describes one generation run.
type Config struct {
	// DocsDir is a Vulkan-Docs checkout; the registry is read from its xml
	// directory unless Registry is set. Without either, ./vk.xml is read.
	DocsDir   string `yaml:"docsDir" json:"docsDir"`
	OutputDir string `yaml:"outputDir" json:"outputDir"`
	Registry  string `yaml:"registry" json:"registry"`
	Video     string `yaml:"video" json:"video"`

	PackagePrefix string `yaml:"packagePrefix" json:"packagePrefix"`
	NamePrefix    string `yaml:"namePrefix" json:"namePrefix"`
	IndentString  string `yaml:"indentString" json:"indentString"`

	DefaultExtensions string   `yaml:"defaultExtensions" json:"defaultExtensions"`
	Extensions        []string `yaml:"extensions" json:"extensions"`
	RemoveExtensions  []string `yaml:"removeExtensions" json:"removeExtensions"`
	EmitExtensions    []string `yaml:"emitExtensions" json:"emitExtensions"`
	Features          []string `yaml:"features" json:"features"`

	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
}

// Default returns the settings used when neither a file nor a flag
// overrides them.
func Default() Config {
	return Config{
		PackagePrefix:     dlang.DefaultPackagePrefix,
		NamePrefix:        dlang.DefaultNamePrefix,
		IndentString:      dlang.DefaultIndent,
		DefaultExtensions: registry.DefaultExtensionClass,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load reads a YAML or JSON file over the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings that cannot produce a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("config: output directory is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid log format %q: must be 'text' or 'json'", c.LogFormat)
	}
	return nil
}

// RegistrySource resolves vk.xml: the explicit registry first, then the docs
// checkout, then vk.xml in the working directory.
func (c Config) RegistrySource() (registry.Source, error) {
	switch {
	case c.Registry != "":
		return parseSource(c.Registry)
	case c.DocsDir != "":
		return registry.SourceFromDocs(c.DocsDir, registry.RegistryFile), nil
	}
	return parseSource(registry.DefaultRegistryPath)
}

// VideoSource resolves video.xml. Without an explicit path the docs checkout
// candidate is used; nil means no video module.
func (c Config) VideoSource() (registry.Source, error) {
	switch {
	case c.Video != "":
		return parseSource(c.Video)
	case c.DocsDir != "":
		return registry.SourceFromDocs(c.DocsDir, registry.VideoFile), nil
	}
	return nil, nil
}

func parseSource(raw string) (registry.Source, error) {
	src, err := registry.ParseSource(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return src, nil
}

// WalkOptions turns the feature and extension selections into registry walk
// options.
func (c Config) WalkOptions() ([]registry.WalkOption, error) {
	add, err := registry.NamePattern(c.Extensions)
	if err != nil {
		return nil, fmt.Errorf("config: extensions: %w", err)
	}
	remove, err := registry.NamePattern(c.RemoveExtensions)
	if err != nil {
		return nil, fmt.Errorf("config: remove extensions: %w", err)
	}
	emit, err := registry.NamePattern(c.EmitExtensions)
	if err != nil {
		return nil, fmt.Errorf("config: emit extensions: %w", err)
	}
	features, err := registry.NamePattern(c.Features)
	if err != nil {
		return nil, fmt.Errorf("config: features: %w", err)
	}

	return []registry.WalkOption{
		registry.WithDefaultExtensions(c.DefaultExtensions),
		registry.WithAddExtensions(add),
		registry.WithRemoveExtensions(remove),
		registry.WithEmitExtensions(emit),
		registry.WithVersions(features),
	}, nil
}

// GeneratorOptions returns the D generator settings.
func (c Config) GeneratorOptions() []dlang.Option {
	return []dlang.Option{
		dlang.WithPackagePrefix(c.PackagePrefix),
		dlang.WithNamePrefix(c.NamePrefix),
		dlang.WithIndent(c.IndentString),
	}
}
