package llm

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/siherrmann/paperrag/helper"
)

// Config holds the connection and sampling parameters of the Ollama
// generation capability.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	NumPredict  int
	NumCtx      int
	Timeout     time.Duration
	MaxRetries  int
}

// NewConfigFromEnv creates a configuration from OLLAMA_* environment
// variables with working local defaults.
func NewConfigFromEnv() Config {
	config := Config{
		BaseURL:     "http://localhost:11434",
		Model:       "mistral",
		Temperature: 0.2,
		NumPredict:  300,
		NumCtx:      2048,
		Timeout:     120 * time.Second,
		MaxRetries:  2,
	}

	if v := strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL")); v != "" {
		config.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("OLLAMA_MODEL")); v != "" {
		config.Model = v
	}
	if v := os.Getenv("OLLAMA_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			config.Timeout = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("OLLAMA_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			config.MaxRetries = parsed
		}
	}

	return config
}

// Client calls the Ollama generate endpoint. Generation is synchronous
// and single-shot, bounded by the configured timeout; transient failures
// are retried a bounded number of times before surfacing as
// GenerationFailed.
type Client struct {
	client *resty.Client
	config Config
}

// NewClient creates a new Ollama client
func NewClient(config Config) *Client {
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Client{
		client: client,
		config: config,
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
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate maps a prompt string to a generated string
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:  c.config.Model,
			Prompt: prompt,
			Stream: false,
			Options: generateOptions{
				Temperature: c.config.Temperature,
				NumPredict:  c.config.NumPredict,
				NumCtx:      c.config.NumCtx,
			},
		}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", helper.NewKindError(helper.KindGenerationFailed, "generate", err)
	}
	if resp.IsError() {
		return "", helper.NewKindError(helper.KindGenerationFailed, "generate", fmt.Errorf("unexpected status %s: %s", resp.Status(), resp.String()))
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", helper.NewKindError(helper.KindGenerationFailed, "generate", fmt.Errorf("empty completion"))
	}

	return out.Response, nil
}
