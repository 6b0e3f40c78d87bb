package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Defaults for the local Ollama deployment.
const (
	DefaultOllamaURL     = "http://ollama:11434"
	DefaultModel         = "gemma3:1b"
	DefaultTemperature   = 0.6
	DefaultTimeout       = 180 * time.Second
	DefaultPullInterval  = 10 * time.Second
	DefaultPullAttempts  = 30
	DefaultPullTimeout   = 10 * time.Minute
	maxErrorBodyToReport = 512
)

// OllamaConfig configures an OllamaClient.
type OllamaConfig struct {
	BaseURL      string
	Timeout      time.Duration
	PullInterval time.Duration
	PullAttempts int
}

// OllamaClient talks to the Ollama HTTP API.
type OllamaClient struct {
	baseURL      string
	client       *http.Client
	pullInterval time.Duration
	pullAttempts int
}

var (
	_ Generator        = (*OllamaClient)(nil)
	_ ModelProvisioner = (*OllamaClient)(nil)
)

// NewOllamaClient creates an OllamaClient, filling unset fields with defaults.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PullInterval <= 0 {
		cfg.PullInterval = DefaultPullInterval
	}
	if cfg.PullAttempts <= 0 {
		cfg.PullAttempts = DefaultPullAttempts
	}
	return &OllamaClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       &http.Client{Timeout: cfg.Timeout},
		pullInterval: cfg.PullInterval,
		pullAttempts: cfg.PullAttempts,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// Generate sends a non-streaming completion request and returns the trimmed
// response text. All failures wrap ErrServiceUnavailable.
func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	payload := generateRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: generateOptions{Temperature: req.Temperature},
	}

	log.Printf("[Ollama] calling %s with model %s", c.baseURL, req.Model)
	body, err := c.do(ctx, http.MethodPost, "/api/generate", payload)
	if err != nil {
		return "", err
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrServiceUnavailable, err)
	}
	return strings.TrimSpace(result.Response), nil
}

// ListModels returns the names of the models installed on the server.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, err
	}

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("%w: failed to decode tags: %v", ErrServiceUnavailable, err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// EnsureModel returns nil when the model is installed. Otherwise it asks the
// server to pull it and polls the tag list until it shows up.
func (c *OllamaClient) EnsureModel(ctx context.Context, model string) error {
	names, err := c.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to check models: %w", err)
	}
	if containsModel(names, model) {
		return nil
	}

	log.Printf("[Ollama] pulling model %s", model)
	if _, err := c.do(ctx, http.MethodPost, "/api/pull", pullRequest{Name: model, Stream: false}); err != nil {
		return fmt.Errorf("failed to pull model %s: %w", model, err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.pullInterval), uint64(c.pullAttempts)),
		ctx,
	)
	return backoff.Retry(func() error {
		names, err := c.ListModels(ctx)
		if err != nil {
			return err
		}
		if !containsModel(names, model) {
			return fmt.Errorf("model %s not yet available", model)
		}
		return nil
	}, policy)
}

func (c *OllamaClient) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBodyToReport {
			body = body[:maxErrorBodyToReport]
		}
		return nil, fmt.Errorf("%w: %s %s returned status %d: %s", ErrServiceUnavailable, method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func containsModel(names []string, model string) bool {
	for _, n := range names {
		if n == model {
			return true
		}
	}
	return false
}
