package llm

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

const (
	huggingFaceBaseURL = "https://router.huggingface.co/hf-inference/models"
	huggingFaceModel   = "mistralai/Mistral-7B-Instruct-v0.2"
)

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
	Text          string `json:"text"`
	Error         string `json:"error"`
}

// HuggingFace calls the hosted text-generation inference API.
type HuggingFace struct {
	transport
	baseURL string
	apiKey  string
	model   string
}

func NewHuggingFace(cfg Config) *HuggingFace {
	h := &HuggingFace{
		transport: newTransport("huggingface", cfg),
		baseURL:   huggingFaceBaseURL,
		apiKey:    cfg.APIKey,
		model:     huggingFaceModel,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		h.baseURL = cfg.BaseURL
	}
	if strings.TrimSpace(cfg.Model) != "" {
		h.model = cfg.Model
	}
	return h
}

func (h *HuggingFace) Name() string { return h.name }

func (h *HuggingFace) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := NewGenerateOptions(opts...)
	return h.retry.do(ctx, o.Retries, func(ctx context.Context) (string, error) {
		return h.complete(ctx, prompt, o.MaxTokens, o.Temperature)
	})
}

// CheckAvailability treats a model that is still loading as available: the
// endpoint exists and will answer once warm.
func (h *HuggingFace) CheckAvailability(ctx context.Context) bool {
	if h.apiKey == "" {
		return false
	}
	return h.probe(ctx, func(ctx context.Context) error {
		_, err := h.complete(ctx, probePrompt, probeMaxTokens, 0)
		if isModelLoading(err) {
			return nil
		}
		return err
	})
}

func (h *HuggingFace) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	req := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: maxTokens,
			Temperature:  temperature,
		},
	}
	endpoint := joinURL(h.baseURL, modelPath(h.model))

	var raw json.RawMessage
	err := h.postJSON(ctx, endpoint, map[string]string{"Authorization": "Bearer " + h.apiKey}, req, &raw)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) && strings.Contains(strings.ToLower(pe.Err.Error()), "loading") {
			// A loading model is retried like a rate limit.
			pe.Kind = KindRateLimited
			pe.Err = errModelLoading
		}
		return "", err
	}
	return decodeGeneration(raw)
}

var errModelLoading = errors.New("model is loading")

func isModelLoading(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && errors.Is(pe.Err, errModelLoading)
}

// decodeGeneration accepts both the list and the single object response
// shapes.
func decodeGeneration(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	var gen hfGeneration
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []hfGeneration
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", &ProviderError{Provider: "huggingface", Kind: KindUpstream, Err: err}
		}
		if len(list) == 0 {
			return "", nil
		}
		gen = list[0]
	} else if err := json.Unmarshal(trimmed, &gen); err != nil {
		return "", &ProviderError{Provider: "huggingface", Kind: KindUpstream, Err: err}
	}

	if gen.Error != "" {
		if strings.Contains(strings.ToLower(gen.Error), "loading") {
			return "", &ProviderError{Provider: "huggingface", Kind: KindRateLimited, Err: errModelLoading}
		}
		return "", &ProviderError{Provider: "huggingface", Kind: KindUpstream, Err: errors.New(gen.Error)}
	}
	if gen.GeneratedText != "" {
		return gen.GeneratedText, nil
	}
	return gen.Text, nil
}

// modelPath escapes each segment of an "owner/name" model id.
func modelPath(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
