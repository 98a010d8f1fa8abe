// Package config handles configuration loading and validation for agenda.
package config

import (
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// ErrorPolicy controls what happens when a structured-input row cannot be decoded.
type ErrorPolicy string

const (
	// ErrorPolicyStop ends ingestion at the first bad row, keeping earlier records.
	ErrorPolicyStop ErrorPolicy = "stop"
	// ErrorPolicySkip logs bad rows and keeps reading.
	ErrorPolicySkip ErrorPolicy = "skip"
)

// EscapeMode controls how field values are interpolated into HTML.
type EscapeMode string

const (
	// EscapeNone writes field values verbatim.
	EscapeNone EscapeMode = "none"
	// EscapeHTML escapes reserved HTML characters.
	EscapeHTML EscapeMode = "html"
	// EscapeSanitize keeps safe inline markup and strips everything else.
	EscapeSanitize EscapeMode = "sanitize"
)

// Config holds the application configuration.
type Config struct {
	StyleFile string      `yaml:"style_file" json:"style_file"`
	OnError   ErrorPolicy `yaml:"on_error" json:"on_error"`
	Escape    EscapeMode  `yaml:"escape" json:"escape"`
	Comment   string      `yaml:"comment" json:"comment"`
	Prompts   Prompts     `yaml:"prompts" json:"prompts"`
}

// Prompts holds the labels shown when collecting records interactively.
type Prompts struct {
	Time      string `yaml:"time" json:"time"`
	Subject   string `yaml:"subject" json:"subject"`
	Presenter string `yaml:"presenter" json:"presenter"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OnError: ErrorPolicyStop,
		Escape:  EscapeNone,
		Comment: "#",
		Prompts: Prompts{
			Time:      "Time",
			Subject:   "Subject",
			Presenter: "Presenter",
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.OnError == "" {
		c.OnError = defaults.OnError
	}
	if c.Escape == "" {
		c.Escape = defaults.Escape
	}
	if c.Comment == "" {
		c.Comment = defaults.Comment
	}
	if c.Prompts.Time == "" {
		c.Prompts.Time = defaults.Prompts.Time
	}
	if c.Prompts.Subject == "" {
		c.Prompts.Subject = defaults.Prompts.Subject
	}
	if c.Prompts.Presenter == "" {
		c.Prompts.Presenter = defaults.Prompts.Presenter
	}
}

// CommentRune returns the comment marker as a rune.
func (c *Config) CommentRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Comment)
	return r
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	switch c.OnError {
	case ErrorPolicyStop, ErrorPolicySkip:
	default:
		errs = errs.Append("on_error", fmt.Errorf("must be %q or %q, got %q", ErrorPolicyStop, ErrorPolicySkip, c.OnError))
	}

	switch c.Escape {
	case EscapeNone, EscapeHTML, EscapeSanitize:
	default:
		errs = errs.Append("escape", fmt.Errorf("must be one of none, html, sanitize, got %q", c.Escape))
	}

	if utf8.RuneCountInString(c.Comment) != 1 {
		errs = errs.Append("comment", fmt.Errorf("must be a single character, got %q", c.Comment))
	} else if r := c.CommentRune(); r == ',' || r == '"' || r == utf8.RuneError || unicode.IsSpace(r) {
		errs = errs.Append("comment", fmt.Errorf("%q cannot be used as a comment marker", c.Comment))
	}

	return errs.ToError()
}
