package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names
const (
	EnvProvider = "STRUDEL_EMBEDDING_PROVIDER"
	EnvHFToken  = "HF_API_TOKEN"
	EnvHFURL    = "HF_API_URL"
	EnvOpenAI   = "OPENAI_API_KEY"
)

// Config holds embedder configuration.
type Config struct {
	Provider  string
	APIKey    string
	APIURL    string
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
//  1. STRUDEL_EMBEDDING_PROVIDER (huggingface, openai, local)
//  2. Check for API keys: HF_API_TOKEN, OPENAI_API_KEY
//  3. Default to local if no API keys found
func NewFromEnv() (Embedder, error) {
	provider := os.Getenv(EnvProvider)
	hfToken := os.Getenv(EnvHFToken)
	openaiKey := os.Getenv(EnvOpenAI)

	cache := NewCache(10000)

	if provider != "" {
		provider = strings.ToLower(provider)
		switch provider {
		case ProviderHuggingFace:
			return NewHuggingFaceProvider(hfToken, os.Getenv(EnvHFURL), cache)
		case ProviderOpenAI:
			return NewOpenAIProvider(openaiKey, cache)
		case ProviderLocal:
			return NewLocalProvider(cache)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
		}
	}

	// Auto-detect based on available API keys
	if hfToken != "" {
		return NewHuggingFaceProvider(hfToken, os.Getenv(EnvHFURL), cache)
	}
	if openaiKey != "" {
		return NewOpenAIProvider(openaiKey, cache)
	}

	return NewLocalProvider(cache)
}

// New creates an embedder with explicit configuration.
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderHuggingFace:
		return NewHuggingFaceProvider(cfg.APIKey, cfg.APIURL, cache)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// DetectProvider returns the provider that would be used for the current
// environment.
func DetectProvider() string {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvHFToken) != "" {
		return ProviderHuggingFace
	}
	if os.Getenv(EnvOpenAI) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}
