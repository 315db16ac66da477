package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

const (
	geminiAPIVersion = "v1beta"
	geminiModel      = "gemini-1.5-flash"
)

// Gemini calls generateContent through the genai SDK. Retries, timeouts and
// error kinds stay with the shared retrier so every provider behaves alike.
type Gemini struct {
	transport
	client *genai.Client
	apiKey string
	model  string
}

func NewGemini(cfg Config) (*Gemini, error) {
	t := newTransport("gemini", cfg)
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: t.client,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimSpace(cfg.BaseURL),
			APIVersion: geminiAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	g := &Gemini{
		transport: t,
		client:    client,
		apiKey:    cfg.APIKey,
		model:     geminiModel,
	}
	if strings.TrimSpace(cfg.Model) != "" {
		g.model = cfg.Model
	}
	return g, nil
}

func (g *Gemini) Name() string { return g.name }

func (g *Gemini) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := NewGenerateOptions(opts...)
	return g.retry.do(ctx, o.Retries, func(ctx context.Context) (string, error) {
		return g.complete(ctx, prompt, o.MaxTokens, o.Temperature)
	})
}

func (g *Gemini) CheckAvailability(ctx context.Context) bool {
	if g.apiKey == "" {
		return false
	}
	return g.probe(ctx, func(ctx context.Context) error {
		_, err := g.complete(ctx, probePrompt, probeMaxTokens, 0)
		return err
	})
}

func (g *Gemini) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     genai.Ptr[float32](float32(temperature)),
	})
	if err != nil {
		return "", g.providerError(err)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", &ProviderError{Provider: g.name, Kind: KindBlocked, Err: fmt.Errorf("prompt blocked: %s", fb.BlockReason)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// providerError maps SDK failures onto the shared error kinds.
func (g *Gemini) providerError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return g.apiError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return g.apiError(*apiErrPtr)
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	return &ProviderError{Provider: g.name, Kind: classifyTransport(err), Err: err}
}

func (g *Gemini) apiError(apiErr genai.APIError) error {
	detail := strings.TrimSpace(apiErr.Status + " " + apiErr.Message)
	return &ProviderError{
		Provider:   g.name,
		Kind:       classifyStatus(apiErr.Code, []byte(detail)),
		StatusCode: apiErr.Code,
		Err:        errors.New(truncateBody([]byte(detail))),
	}
}
