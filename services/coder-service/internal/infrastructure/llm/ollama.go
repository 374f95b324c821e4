package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
)

// OllamaClient calls the native, non-streaming /api/generate endpoint.
type OllamaClient struct {
	resolver Resolver
	model    string
	timeout  time.Duration
	client   *http.Client
}

func NewOllamaClient(resolver Resolver, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		resolver: resolver,
		model:    model,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Message  *struct {
		Content string `json:"content"`
	} `json:"message,omitempty"`
	Done bool `json:"done"`
}

func (c *OllamaClient) Generate(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Options.Temperature,
			NumPredict:  req.Options.MaxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.resolver.BaseURL(ctx) + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, classify(ctx, fmt.Errorf("decode response: %w", err))
	}

	text := out.Response
	if text == "" && out.Message != nil {
		text = out.Message.Content
	}
	log.FromContext(ctx).Debug("model responded",
		"provider", "ollama", "model", model, "chars", len(text), "elapsed", time.Since(start))

	if out.Model != "" {
		model = out.Model
	}
	return &domain.GenerateResponse{Text: text, Model: model}, nil
}
