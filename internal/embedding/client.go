// Package embedding generates and compares bullet-point embeddings via a
// locally hosted Ollama model.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// defaultCacheTTL bounds how long a query embedding is reused. Bullet
	// embeddings are persisted; only ad-hoc query texts are cached here.
	defaultCacheTTL = 15 * time.Minute
	// cacheCleanupInterval is how often expired entries are purged
	cacheCleanupInterval = 30 * time.Minute
)

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder generates embeddings through Ollama's OpenAI-compatible
// embeddings endpoint. Identical query texts within a run hit an in-memory
// cache instead of the model.
type OllamaEmbedder struct {
	client *openai.Client
	model  string
	cache  *gocache.Cache
}

// NewOllamaEmbedder creates an embedder against the given OpenAI-compatible
// base URL (e.g. http://localhost:11434/v1) and embedding model.
func NewOllamaEmbedder(baseURL, model string) (*OllamaEmbedder, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("embedder base URL is required")
	}
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = baseURL

	return &OllamaEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		cache:  gocache.New(defaultCacheTTL, cacheCleanupInterval),
	}, nil
}

// Embed returns the embedding vector for the given text
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if cached, found := e.cache.Get(key); found {
		return cached.([]float32), nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	vector := resp.Data[0].Embedding
	e.cache.Set(key, vector, gocache.DefaultExpiration)
	return vector, nil
}

// cacheKey hashes the text so long job descriptions don't become map keys
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
