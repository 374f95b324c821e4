package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks the chat-completions API of any OpenAI-compatible server.
// The base URL is resolved per request, so a client is built for each call.
type OpenAIClient struct {
	resolver Resolver
	apiKey   string
	model    string
	timeout  time.Duration
	client   *http.Client
}

func NewOpenAIClient(resolver Resolver, apiKey, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		resolver: resolver,
		apiKey:   apiKey,
		model:    model,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	clientConfig := openai.DefaultConfig(c.apiKey)
	clientConfig.BaseURL = c.resolver.BaseURL(ctx) + "/v1"
	clientConfig.HTTPClient = c.client
	client := openai.NewClientWithConfig(clientConfig)

	model := req.Model
	if model == "" {
		model = c.model
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.Options.MaxTokens,
		Temperature: float32(req.Options.Temperature),
	})
	if err != nil {
		return nil, classify(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", domain.ErrUpstreamUnavailable)
	}

	text := resp.Choices[0].Message.Content
	log.FromContext(ctx).Debug("model responded",
		"provider", "openai", "model", model, "chars", len(text), "elapsed", time.Since(start))

	if resp.Model != "" {
		model = resp.Model
	}
	return &domain.GenerateResponse{Text: text, Model: model}, nil
}
