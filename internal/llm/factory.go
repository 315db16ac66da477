package llm

import (
	"fmt"
	"strings"
)

// New builds the provider named by cfg.Provider. It returns ErrNotConfigured
// when no credential is set, in which case callers run fallback-only.
func New(cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "groq":
		return NewGroq(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	case "gemini":
		g, err := NewGemini(cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "huggingface", "hf":
		return NewHuggingFace(cfg), nil
	case "anthropic", "claude":
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
