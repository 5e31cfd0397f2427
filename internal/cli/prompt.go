package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-vkgen/internal/config"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("cli: prompt aborted")

// InputConfig configures a text input prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// Prompter asks the user for missing settings. The survey implementation
// is used on a terminal; tests inject their own.
type Prompter interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
}

type surveyPrompter struct{}

func newSurveyPrompter() Prompter {
	return surveyPrompter{}
}

func (surveyPrompter) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	var opts []survey.AskOpt
	if cfg.Validator != nil {
		validate := cfg.Validator
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			value, _ := ans.(string)
			return validate(value)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return strings.TrimSpace(out), nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func required(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("a value is required")
	}
	return nil
}

// promptMissing asks for the registry and output directory when neither
// arguments, flags nor the config file provided them.
func promptMissing(ctx context.Context, prompter Prompter, cfg *config.Config) error {
	if cfg.Registry == "" && cfg.DocsDir == "" {
		path, err := prompter.Input(ctx, InputConfig{
			Message:   "Path to vk.xml",
			Default:   registry.DefaultRegistryPath,
			Help:      "The Vulkan registry, usually <Vulkan-Docs>/xml/vk.xml.",
			Validator: required,
		})
		if err != nil {
			return err
		}
		cfg.Registry = path
	}
	if cfg.OutputDir == "" {
		dir, err := prompter.Input(ctx, InputConfig{
			Message:   "Output directory",
			Default:   "source/" + strings.ReplaceAll(cfg.PackagePrefix, ".", "/"),
			Validator: required,
		})
		if err != nil {
			return err
		}
		cfg.OutputDir = dir
	}
	return nil
}
