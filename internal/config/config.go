// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings. Values come from a config file
// (cherrypick.yaml), CHERRYPICK_* environment variables, or CLI flags, in
// increasing order of precedence.
type Config struct {
	// Server
	Port int `mapstructure:"port"`

	// Storage
	DatabaseURL string `mapstructure:"database_url"`

	// LLM
	Provider      string `mapstructure:"provider"`        // "ollama" (default) or "gemini"
	OllamaBaseURL string `mapstructure:"ollama_base_url"` // OpenAI-compatible endpoint
	PickerModel   string `mapstructure:"picker_model"`
	EmbedModel    string `mapstructure:"embed_model"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`

	// Rendering
	TypstBin string `mapstructure:"typst_bin"`

	// Tailoring
	TailorTimeout time.Duration `mapstructure:"tailor_timeout"`

	// Logging
	LogJSON bool `mapstructure:"log_json"`
	Debug   bool `mapstructure:"debug"`
}

// Load reads configuration from the given file path (optional) and the
// environment, applying defaults for everything unset.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8000)
	v.SetDefault("provider", "ollama")
	v.SetDefault("ollama_base_url", "http://localhost:11434/v1")
	v.SetDefault("picker_model", "llama3")
	v.SetDefault("embed_model", "nomic-embed-text")
	v.SetDefault("typst_bin", "typst")
	v.SetDefault("tailor_timeout", 5*time.Minute)

	v.SetEnvPrefix("cherrypick")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cherrypick")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine; env and defaults apply.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in (0, 65535], got %d", c.Port)
	}
	switch c.Provider {
	case "ollama":
		if c.OllamaBaseURL == "" {
			return fmt.Errorf("config error: 'ollama_base_url' is required for the ollama provider")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: 'gemini_api_key' is required for the gemini provider")
		}
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}
	if c.TailorTimeout <= 0 {
		return fmt.Errorf("config error: 'tailor_timeout' must be positive")
	}
	return nil
}
