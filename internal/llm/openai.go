package llm

import (
	"context"
	"strings"
)

const (
	groqBaseURL    = "https://api.groq.com/openai/v1"
	groqModel      = "llama-3.1-8b-instant"
	openAIBaseURL  = "https://api.openai.com/v1"
	openAIModel    = "gpt-4o-mini"
	probePrompt    = "Reply with OK."
	probeMaxTokens = 5
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompletions speaks the OpenAI chat-completions dialect, which Groq
// also serves.
type ChatCompletions struct {
	transport
	baseURL string
	apiKey  string
	model   string
}

func NewGroq(cfg Config) *ChatCompletions {
	return newChatCompletions("groq", groqBaseURL, groqModel, cfg)
}

func NewOpenAI(cfg Config) *ChatCompletions {
	return newChatCompletions("openai", openAIBaseURL, openAIModel, cfg)
}

func newChatCompletions(name, baseURL, model string, cfg Config) *ChatCompletions {
	if strings.TrimSpace(cfg.BaseURL) != "" {
		baseURL = cfg.BaseURL
	}
	if strings.TrimSpace(cfg.Model) != "" {
		model = cfg.Model
	}
	return &ChatCompletions{
		transport: newTransport(name, cfg),
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		model:     model,
	}
}

func (p *ChatCompletions) Name() string { return p.name }

func (p *ChatCompletions) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := NewGenerateOptions(opts...)
	return p.retry.do(ctx, o.Retries, func(ctx context.Context) (string, error) {
		return p.complete(ctx, prompt, o.MaxTokens, o.Temperature)
	})
}

func (p *ChatCompletions) CheckAvailability(ctx context.Context) bool {
	if p.apiKey == "" {
		return false
	}
	return p.probe(ctx, func(ctx context.Context) error {
		_, err := p.complete(ctx, probePrompt, probeMaxTokens, 0)
		return err
	})
}

func (p *ChatCompletions) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	req := chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	var resp chatResponse
	err := p.postJSON(ctx, joinURL(p.baseURL, "chat/completions"), map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	}, req, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
