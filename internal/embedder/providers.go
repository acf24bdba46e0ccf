package embedder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Provider configuration
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderLocal       = "local"

	// DefaultHFURL is the Hugging Face Inference API endpoint for the
	// bge-small feature-extraction pipeline the docs index was built with.
	DefaultHFURL = "https://router.huggingface.co/hf-inference/models/BAAI/bge-small-en-v1.5/pipeline/feature-extraction"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "text-embedding-3-small"

	// Dimensions
	HFDimension     = 384
	OpenAIDimension = 1536
	LocalDimension  = 384

	// Batch limits
	MaxBatchSize = 100

	requestTimeout = 30 * time.Second
)

// withRetryAfter wraps apiErr with the server-requested delay when the
// response is throttling (429) or overloaded (503) and carries a parsable
// Retry-After header in seconds.
func withRetryAfter(resp *http.Response, apiErr error) error {
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return apiErr
	}
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return apiErr
	}
	return &retryAfterError{delay: time.Duration(secs) * time.Second, err: apiErr}
}

// HuggingFaceProvider implements Embedder using the Hugging Face Inference
// API feature-extraction pipeline.
type HuggingFaceProvider struct {
	apiToken   string
	apiURL     string
	dimension  int
	httpClient *http.Client
	cache      *Cache
}

// NewHuggingFaceProvider creates a Hugging Face embedder. apiURL defaults
// to DefaultHFURL when empty.
func NewHuggingFaceProvider(apiToken, apiURL string, cache *Cache) (*HuggingFaceProvider, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("%w: HF_API_TOKEN not set", ErrNoProviderEnabled)
	}
	if apiURL == "" {
		apiURL = DefaultHFURL
	}
	return &HuggingFaceProvider{
		apiToken:  apiToken,
		apiURL:    apiURL,
		dimension: HFDimension,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cache: cache,
	}, nil
}

func (h *HuggingFaceProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if h.cache != nil {
		if vec, ok := h.cache.Get(hash); ok {
			return vec, nil
		}
	}

	vectors, err := h.callAPI(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrProviderFailed)
	}

	if h.cache != nil {
		h.cache.Set(hash, vectors[0])
	}
	return vectors[0], nil
}

func (h *HuggingFaceProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: max %d texts allowed", ErrBatchTooLarge, MaxBatchSize)
	}

	config := DefaultRetryConfig()
	vectors, err := retryWithBackoff(ctx, config, func() ([][]float32, error) {
		return h.callAPI(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, MaxRetries, err)
	}

	if h.cache != nil {
		for i, vec := range vectors {
			h.cache.Set(ComputeHash(texts[i]), vec)
		}
	}
	return vectors, nil
}

func (h *HuggingFaceProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	// The pipeline accepts a single string or a list; always send a list
	// so the response shape is uniform.
	body, err := json.Marshal(map[string]interface{}{"inputs": texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiToken)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("HF API error: %d - %s", resp.StatusCode, string(bodyBytes))
		return nil, withRetryAfter(resp, apiErr)
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	for _, vec := range vectors {
		if len(vec) != h.dimension {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, h.dimension, len(vec))
		}
	}
	return vectors, nil
}

func (h *HuggingFaceProvider) Dimension() int {
	return h.dimension
}

func (h *HuggingFaceProvider) Provider() string {
	return ProviderHuggingFace
}

func (h *HuggingFaceProvider) Close() error {
	h.httpClient.CloseIdleConnections()
	return nil
}

// OpenAIProvider implements Embedder using an OpenAI-compatible
// /embeddings endpoint.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	cache      *Cache
}

// NewOpenAIProvider creates a new OpenAI-compatible embedder.
func NewOpenAIProvider(apiKey string, cache *Cache) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrNoProviderEnabled)
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: DefaultOpenAIBaseURL,
		model:   DefaultOpenAIModel,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cache: cache,
	}, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if o.cache != nil {
		if vec, ok := o.cache.Get(hash); ok {
			return vec, nil
		}
	}

	vectors, err := o.callAPI(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrProviderFailed)
	}

	if o.cache != nil {
		o.cache.Set(hash, vectors[0])
	}
	return vectors[0], nil
}

func (o *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: max %d texts allowed", ErrBatchTooLarge, MaxBatchSize)
	}

	config := DefaultRetryConfig()
	vectors, err := retryWithBackoff(ctx, config, func() ([][]float32, error) {
		return o.callAPI(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, MaxRetries, err)
	}

	if o.cache != nil {
		for i, vec := range vectors {
			o.cache.Set(ComputeHash(texts[i]), vec)
		}
	}
	return vectors, nil
}

func (o *OpenAIProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(map[string]interface{}{
		"input": texts,
		"model": o.model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
		return nil, withRetryAfter(resp, apiErr)
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	vectors := make([][]float32, len(apiResp.Data))
	for i, data := range apiResp.Data {
		vectors[i] = data.Embedding
	}
	return vectors, nil
}

func (o *OpenAIProvider) Dimension() int {
	return OpenAIDimension
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// LocalProvider produces deterministic hash-derived vectors. It exists for
// development and tests where no inference API is reachable; vectors are
// stable per input but carry no semantic meaning.
type LocalProvider struct {
	cache *Cache
}

// NewLocalProvider creates a new local embedder.
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{cache: cache}, nil
}

func (l *LocalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if l.cache != nil {
		if vec, ok := l.cache.Get(hash); ok {
			return vec, nil
		}
	}

	vector := make([]float32, LocalDimension)
	textHash := sha256.Sum256([]byte(text))
	for i := 0; i < LocalDimension; i++ {
		vector[i] = float32(textHash[i%len(textHash)]) / 255.0
	}

	if l.cache != nil {
		l.cache.Set(hash, vector)
	}
	return vector, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Close() error {
	return nil
}
