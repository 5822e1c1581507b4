package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OllamaClient implements Client against Ollama's OpenAI-compatible API.
// Ollama ignores the API key, but the underlying client requires a non-empty
// value.
type OllamaClient struct {
	client *openai.Client
	config *Config
}

// NewOllamaClient creates a client for a locally hosted Ollama instance
func NewOllamaClient(config *Config) (*OllamaClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("ollama base URL is required")
	}

	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = config.BaseURL

	return &OllamaClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// GenerateContent generates text content via chat completion
func (c *OllamaClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	timeout := c.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1, // Low temperature for consistent output
	})
	if err != nil {
		return "", fmt.Errorf("ollama API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in ollama response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateJSON generates content expected to be JSON
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	text, err := c.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	return cleanJSONBlock(text), nil
}

// Model returns the configured model name
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *OllamaClient) Close() error {
	return nil
}
