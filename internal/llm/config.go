// Package llm provides provider-switchable LLM client abstractions.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOllama talks to a locally hosted model through Ollama's
	// OpenAI-compatible API (the default)
	ProviderOllama Provider = "ollama"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
	BaseURL  string // OpenAI-compatible endpoint, Ollama only
	APIKey   string
	Timeout  time.Duration
}

// DefaultConfig returns the default configuration (local Ollama)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		Model:    "llama3",
		BaseURL:  "http://localhost:11434/v1",
		Timeout:  60 * time.Second,
	}
}
