// Package config handles YAML configuration loading, defaulting, and
// startup validation. The resulting Config is immutable after Load:
// components receive it by value at construction time and never mutate it.
package config

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "500ms" parse directly.
type Duration time.Duration

// UnmarshalYAML parses Go duration strings (e.g. "2s", "500ms").
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in Go's standard notation.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// AsDuration converts to time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// MatchMode controls how extracted tool names are compared to the allow-list.
type MatchMode string

const (
	// MatchExact requires the extracted tool name to equal an allow-list
	// entry (case-insensitive). This is the default: substring matching lets
	// a destructive command piggyback on an allowed tool's name.
	MatchExact MatchMode = "exact"

	// MatchSubstring accepts when an allow-list entry appears anywhere in
	// the extracted text (case-insensitive).
	MatchSubstring MatchMode = "substring"
)

// Config holds all runtime settings. Read-only after Load.
type Config struct {
	// AppName is the target application name pattern, matched
	// case-insensitively as exact or substring against window owners.
	AppName string `yaml:"app_name"`

	// AllowedTools is the ordered allow-list of tool names. First match wins.
	AllowedTools []string `yaml:"allowed_tools"`

	// MatchMode selects exact or substring allow-list matching.
	MatchMode MatchMode `yaml:"match_mode"`

	// ButtonLabel is the approval button title to look for.
	ButtonLabel string `yaml:"button_label"`

	// Confidence is the minimum template-match score for the approval
	// button. The boundary is inclusive: score == threshold is accepted.
	Confidence float64 `yaml:"confidence"`

	// DialogConfidence is the minimum template-match score for the dialog
	// frame. A dialog match below this short-circuits before button
	// matching and OCR.
	DialogConfidence float64 `yaml:"dialog_confidence"`

	// PollInterval is the delay between poll ticks.
	PollInterval Duration `yaml:"poll_interval"`

	// Cooldown suppresses re-acting on an identical dialog fingerprint
	// within this window.
	Cooldown Duration `yaml:"cooldown"`

	// MaxDepth bounds accessibility tree traversal (0 = unlimited).
	MaxDepth int `yaml:"max_depth"`

	// VisualFallback enables the pixel/OCR strategy when the accessibility
	// strategy finds nothing or is unavailable.
	VisualFallback bool `yaml:"visual_fallback"`

	// DialogTemplate and ButtonTemplate are paths to the reference images
	// used by the visual strategy. Required when VisualFallback is true.
	DialogTemplate string `yaml:"dialog_template"`
	ButtonTemplate string `yaml:"button_template"`

	// DumpDir receives accessibility hierarchy dumps from the dump command.
	DumpDir string `yaml:"dump_dir"`
}

// Default returns the built-in configuration, mirroring the tool's stock
// behavior against the Claude desktop app.
func Default() Config {
	return Config{
		AppName: "Claude",
		AllowedTools: []string{
			"list-allowed-directories",
			"list-denied-directories",
			"ls",
			"google_search",
			"read-file",
			"codemcp",
		},
		MatchMode:        MatchExact,
		ButtonLabel:      "Allow for This Chat",
		Confidence:       0.8,
		DialogConfidence: 0.7,
		PollInterval:     Duration(500 * time.Millisecond),
		Cooldown:         Duration(5 * time.Second),
		MaxDepth:         25,
		VisualFallback:   false,
		DumpDir:          "debug",
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults unchanged. The result is validated: the process must
// not enter the poll loop with a broken configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for fatal startup errors.
func (c Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("config: app_name must not be empty")
	}
	if len(c.AllowedTools) == 0 {
		return fmt.Errorf("config: allowed_tools must list at least one tool")
	}
	if c.MatchMode != MatchExact && c.MatchMode != MatchSubstring {
		return fmt.Errorf("config: match_mode must be %q or %q, got %q", MatchExact, MatchSubstring, c.MatchMode)
	}
	if c.Confidence <= 0 || c.Confidence > 1 {
		return fmt.Errorf("config: confidence must be in (0,1], got %v", c.Confidence)
	}
	if c.DialogConfidence <= 0 || c.DialogConfidence > 1 {
		return fmt.Errorf("config: dialog_confidence must be in (0,1], got %v", c.DialogConfidence)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("config: cooldown must not be negative, got %v", c.Cooldown)
	}
	if c.VisualFallback {
		for name, path := range map[string]string{
			"dialog_template": c.DialogTemplate,
			"button_template": c.ButtonTemplate,
		} {
			if path == "" {
				return fmt.Errorf("config: %s is required when visual_fallback is enabled", name)
			}
			if err := checkImage(path); err != nil {
				return fmt.Errorf("config: %s: %w", name, err)
			}
		}
	}
	return nil
}

// checkImage verifies a template image exists and decodes.
func checkImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, _, err := image.Decode(f); err != nil {
		return fmt.Errorf("unreadable template image %s: %w", path, err)
	}
	return nil
}
