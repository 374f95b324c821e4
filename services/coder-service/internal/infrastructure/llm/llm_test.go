package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-coder/config"
	"ai-coder/infra/registry"
	"ai-coder/services/coder-service/internal/domain"
)

func TestOllamaGenerate(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "deepseek-coder",
			"response": "```python\nprint(1)\n```",
			"done":     true,
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(StaticResolver(srv.URL+"/"), "deepseek-coder", time.Second)
	resp, err := c.Generate(context.Background(), &domain.GenerateRequest{
		Prompt:  "hi",
		System:  "be helpful",
		Options: domain.GenerateOptions{Temperature: 0.9, MaxTokens: 2000},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "```python\nprint(1)\n```" {
		t.Errorf("Text = %q", resp.Text)
	}
	if got.Model != "deepseek-coder" || got.Prompt != "hi" || got.System != "be helpful" {
		t.Errorf("request = %+v", got)
	}
	if got.Stream {
		t.Error("request asked for streaming")
	}
	if got.Options.Temperature != 0.9 || got.Options.NumPredict != 2000 {
		t.Errorf("options = %+v", got.Options)
	}
}

func TestOllamaGenerateMessageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"from chat"},"done":true}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(StaticResolver(srv.URL), "m", time.Second)
	resp, err := c.Generate(context.Background(), &domain.GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "from chat" {
		t.Errorf("Text = %q, want from chat", resp.Text)
	}
}

func TestOllamaGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		timeout time.Duration
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			},
			timeout: time.Second,
			want:    domain.ErrUpstreamUnavailable,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			timeout: time.Second,
			want:    domain.ErrUpstreamUnavailable,
		},
		{
			name: "slow model",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout: 50 * time.Millisecond,
			want:    domain.ErrModelTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewOllamaClient(StaticResolver(srv.URL), "m", tt.timeout)
			_, err := c.Generate(context.Background(), &domain.GenerateRequest{Prompt: "x"})
			if !errors.Is(err, tt.want) {
				t.Errorf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOllamaClient(StaticResolver(url), "m", time.Second)
	_, err := c.Generate(context.Background(), &domain.GenerateRequest{Prompt: "x"})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("Generate() error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"deepseek-coder",
			"choices":[{"index":0,"message":{"role":"assistant","content":"done"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(StaticResolver(srv.URL), "", "deepseek-coder", time.Second)
	resp, err := c.Generate(context.Background(), &domain.GenerateRequest{
		Prompt:  "hi",
		System:  "sys",
		Options: domain.GenerateOptions{Temperature: 0.7, MaxTokens: 2000},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "done" {
		t.Errorf("Text = %q", resp.Text)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hi" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.MaxTokens != 2000 {
		t.Errorf("max_tokens = %d", got.MaxTokens)
	}
}

func TestOpenAIGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewOpenAIClient(StaticResolver(srv.URL), "", "m", time.Second)
	_, err := c.Generate(context.Background(), &domain.GenerateRequest{Prompt: "x"})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("Generate() error = %v, want ErrUpstreamUnavailable", err)
	}
}

type fakeDiscoverer struct {
	instances []*registry.ServiceInstance
	err       error
}

func (f fakeDiscoverer) DiscoverService(string) ([]*registry.ServiceInstance, error) {
	return f.instances, f.err
}

func TestDiscoveryResolver(t *testing.T) {
	tests := []struct {
		name string
		d    fakeDiscoverer
		want string
	}{
		{
			name: "healthy instance",
			d:    fakeDiscoverer{instances: []*registry.ServiceInstance{{Address: "10.0.0.5", Port: 11434}}},
			want: "http://10.0.0.5:11434",
		},
		{name: "no instance", d: fakeDiscoverer{}, want: "http://fallback:11434"},
		{name: "registry down", d: fakeDiscoverer{err: errors.New("dial tcp")}, want: "http://fallback:11434"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDiscoveryResolver(tt.d, "ollama", "http://fallback:11434/")
			if got := r.BaseURL(context.Background()); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewModelClient(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
	}{
		{provider: ""},
		{provider: ProviderOllama},
		{provider: ProviderOpenAI},
		{provider: "bard", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := NewModelClient(config.LLMConfig{Provider: tt.provider, BaseURL: "http://x"}, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewModelClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && c == nil {
				t.Error("NewModelClient() returned nil client")
			}
		})
	}
}
