package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaConfig holds the local model endpoint settings.
type OllamaConfig struct {
	Host           string // host:port, default "localhost:11434"
	EmbeddingModel string // default "nomic-embed-text"
	LLMModel       string // default "gemma3:12b"
	Temperature    float32
	Timeout        time.Duration
}

// OllamaClient talks to a local Ollama server for embeddings and generation.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	cfg        OllamaConfig
}

func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.Host == "" {
		cfg.Host = "localhost:11434"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "nomic-embed-text"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "gemma3:12b"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "http://" + cfg.Host,
		cfg:        cfg,
	}
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed generates one embedding per input text.
func (c *OllamaClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		var resp embeddingResponse
		err := c.post(ctx, "/api/embeddings", embeddingRequest{Model: c.cfg.EmbeddingModel, Prompt: t}, &resp)
		if err != nil {
			return nil, fmt.Errorf("embed: %w", err)
		}
		if len(resp.Embedding) == 0 {
			return nil, fmt.Errorf("embed: empty embedding from model %s", c.cfg.EmbeddingModel)
		}
		out = append(out, resp.Embedding)
	}
	return out, nil
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate produces a completion for the prompt (non-streaming).
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Model:  c.cfg.LLMModel,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": c.cfg.Temperature,
		},
	}
	var resp generateResponse
	if err := c.post(ctx, "/api/generate", req, &resp); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp.Response, nil
}

func (c *OllamaClient) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama %s: status %d: %s", path, resp.StatusCode, truncate(string(raw), 512))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
