// Package config loads the optional configuration file of lnedit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"src.lnedit.sh/pkg/cli/tk"
	"src.lnedit.sh/pkg/errutil"
	"src.lnedit.sh/pkg/ui"
)

// DefaultPrompt is the prompt used when none is configured.
const DefaultPrompt = "> "

// Config is the configuration of lnedit.
type Config struct {
	// Written before the line being edited.
	Prompt string `toml:"prompt" yaml:"prompt"`
	// Style of the prompt, in the syntax of ui.ParseStyle.
	PromptStyle string `toml:"prompt-style" yaml:"prompt-style"`
	// Maps action names to lists of keys, overriding the default bindings
	// of those actions.
	Bindings map[string][]string `toml:"bindings" yaml:"bindings"`
}

// ErrUnknownFormat is returned by Load when the extension of the file is not
// one of .toml, .yaml and .yml.
var ErrUnknownFormat = errors.New("unknown config format")

// DefaultConfig returns the configuration used without a configuration file.
func DefaultConfig() *Config {
	return &Config{Prompt: DefaultPrompt}
}

// Load reads the configuration file at path, choosing the format by its
// extension. Fields missing from the file keep their default values. An empty
// path means no configuration file and returns DefaultConfig().
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return cfg, nil
}

// Validate checks that the prompt is printable ASCII, so that each byte takes
// one column. It also checks the prompt style and the bindings.
func (c *Config) Validate() error {
	var errs []error
	for i := 0; i < len(c.Prompt); i++ {
		if b := c.Prompt[i]; b < 0x20 || b >= 0x7f {
			errs = append(errs,
				fmt.Errorf("prompt: byte %q at position %d is not printable ASCII", b, i))
			break
		}
	}
	if _, err := c.Style(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.KeyBindings(); err != nil {
		errs = append(errs, err)
	}
	return errutil.Multi(errs...)
}

// Style returns the parsed prompt style.
func (c *Config) Style() (ui.Style, error) {
	style, err := ui.ParseStyle(c.PromptStyle)
	if err != nil {
		return ui.Style{}, fmt.Errorf("prompt-style: %w", err)
	}
	return style, nil
}

// KeyBindings returns the default bindings with the configured overrides
// applied.
func (c *Config) KeyBindings() (tk.Bindings, error) {
	b := tk.DefaultBindings()
	if err := b.Override(c.Bindings); err != nil {
		return nil, fmt.Errorf("bindings: %w", err)
	}
	return b, nil
}
