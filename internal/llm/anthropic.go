package llm

import (
	"context"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicModel   = "claude-3-5-haiku-latest"
	anthropicVersion = "2023-06-01"
)

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Anthropic calls the Messages API.
type Anthropic struct {
	transport
	baseURL string
	apiKey  string
	model   string
}

func NewAnthropic(cfg Config) *Anthropic {
	a := &Anthropic{
		transport: newTransport("anthropic", cfg),
		baseURL:   anthropicBaseURL,
		apiKey:    cfg.APIKey,
		model:     anthropicModel,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		a.baseURL = cfg.BaseURL
	}
	if strings.TrimSpace(cfg.Model) != "" {
		a.model = cfg.Model
	}
	return a
}

func (a *Anthropic) Name() string { return a.name }

func (a *Anthropic) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := NewGenerateOptions(opts...)
	return a.retry.do(ctx, o.Retries, func(ctx context.Context) (string, error) {
		return a.complete(ctx, prompt, o.MaxTokens, o.Temperature)
	})
}

func (a *Anthropic) CheckAvailability(ctx context.Context) bool {
	if a.apiKey == "" {
		return false
	}
	return a.probe(ctx, func(ctx context.Context) error {
		_, err := a.complete(ctx, probePrompt, probeMaxTokens, 0)
		return err
	})
}

func (a *Anthropic) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	req := messagesRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}
	var resp messagesResponse
	err := a.postJSON(ctx, joinURL(a.baseURL, "messages"), map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}, req, &resp)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
