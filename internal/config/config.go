// Package config loads and saves the engine's administrative settings.
// Invalid settings are rejected here, at load/save time; rendering with an
// invalid grammar is out of contract.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/blockweave/blockweave"
)

// ConfigFileName is the default config file, looked up in the working
// directory.
const ConfigFileName = "blockweave.yaml"

// Config represents the blockweave configuration
type Config struct {
	// Grammar holds the four marker words.
	Grammar GrammarConfig `yaml:"grammar"`

	// DefaultLanguage is the language lookups fall back to (BCP 47).
	DefaultLanguage string `yaml:"default_language,omitempty" validate:"omitempty,bcp47_language_tag"`

	// Capability is the tag fields declare to opt into block handling.
	Capability string `yaml:"capability,omitempty"`

	// DatabasePath is the corpus SQLite file.
	DatabasePath string `yaml:"database_path,omitempty"`

	// OverridesDir holds per-block template override files.
	OverridesDir string `yaml:"overrides_dir,omitempty"`

	// MinifyOverrides minifies HTML produced by template overrides.
	MinifyOverrides bool `yaml:"minify_overrides,omitempty"`
}

// GrammarConfig mirrors blockweave.Grammar in YAML form.
type GrammarConfig struct {
	StartWord string `yaml:"start_word"`
	StopWord  string `yaml:"stop_word"`
	ShowWord  string `yaml:"show_word"`
	SplitChar string `yaml:"split_char"`
}

var validate = validator.New()

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	g := blockweave.DefaultGrammar()
	return &Config{
		Grammar: GrammarConfig{
			StartWord: g.Start,
			StopWord:  g.Stop,
			ShowWord:  g.Show,
			SplitChar: g.Sep,
		},
		DefaultLanguage: "en",
		Capability:      blockweave.DefaultCapability,
		DatabasePath:    "blockweave.db",
		OverridesDir:    "overrides",
	}
}

// LoadConfig loads the configuration from path, or returns the defaults
// when no file exists there.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileName
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig validates and saves the configuration to path.
func SaveConfig(config *Config, path string) error {
	if path == "" {
		path = ConfigFileName
	}
	if err := config.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks field-level constraints and grammar word rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.BlockGrammar().Validate()
}

// BlockGrammar converts the YAML grammar section into the engine type.
func (c *Config) BlockGrammar() blockweave.Grammar {
	return blockweave.Grammar{
		Start: c.Grammar.StartWord,
		Stop:  c.Grammar.StopWord,
		Show:  c.Grammar.ShowWord,
		Sep:   c.Grammar.SplitChar,
	}
}

// Language parses the configured default language tag.
func (c *Config) Language() language.Tag {
	if c.DefaultLanguage == "" {
		return language.English
	}
	tag, err := language.Parse(c.DefaultLanguage)
	if err != nil {
		return language.English
	}
	return tag
}
