// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
// API keys are never read from the file, only from the environment.
type Config struct {
	// Paths
	Profile string `json:"profile,omitempty"` // Path to profile text file
	Out     string `json:"out,omitempty"`     // Path to write the analysis report

	// Behavior
	Provider       string `json:"provider,omitempty"`  // LLM provider: "openrouter" or "gemini"
	Model          string `json:"model,omitempty"`     // Explicit model override
	Grounding      string `json:"grounding,omitempty"` // Search grounding: "market", "courses", or "off"
	TimeoutSeconds int    `json:"timeout,omitempty"`   // Per-request LLM timeout in seconds
	Verbose        bool   `json:"verbose,omitempty"`   // Print detailed run information
}

// Env holds secrets and endpoints read from the process environment.
type Env struct {
	OpenRouterKey     string
	OpenRouterBaseURL string
	GeminiKey         string
	TavilyKey         string
}

// FromEnv reads API keys and endpoint overrides from the environment.
func FromEnv() Env {
	return Env{
		OpenRouterKey:     os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		GeminiKey:         os.Getenv("GEMINI_API_KEY"),
		TavilyKey:         os.Getenv("TAVILY_API_KEY"),
	}
}

// ProviderKey returns the API key matching the chosen provider.
func (e Env) ProviderKey(provider string) string {
	if provider == "gemini" {
		return e.GeminiKey
	}
	return e.OpenRouterKey
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", "openrouter", "gemini":
	default:
		return fmt.Errorf("config error: unknown provider %q (expected \"openrouter\" or \"gemini\")", c.Provider)
	}

	switch c.Grounding {
	case "", "market", "courses", "off":
	default:
		return fmt.Errorf("config error: unknown grounding mode %q (expected \"market\", \"courses\", or \"off\")", c.Grounding)
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}

	return nil
}

// ValidateKeys checks that the environment carries the key the chosen
// provider needs. A missing Tavily key is not an error; it only
// disables search grounding.
func (c *Config) ValidateKeys(env Env) error {
	switch c.Provider {
	case "gemini":
		if env.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set")
		}
	default:
		if env.OpenRouterKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is not set")
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Grounding == "" {
		result.Grounding = defaults.Grounding
	}

	// Int fields: use default if zero
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
