package main

import (
	"testing"

	"github.com/njprem/TripWise_APP_BackEnd/internal/config"
)

func TestNewProviderIgnoresForceFallback(t *testing.T) {
	p := newProvider(config.Config{LLMProvider: "groq", LLMAPIKey: "real-key", LLMForceFallback: true})
	if p == nil {
		t.Fatal("expected provider to be built while force fallback is set")
	}
	if p.Name() != "groq" {
		t.Fatalf("expected groq, got %s", p.Name())
	}

	p = newProvider(config.Config{LLMProvider: "groq", LLMAPIKey: "real-key", LLMBreakerEnabled: true})
	if p == nil || p.Name() != "groq" {
		t.Fatalf("expected breaker-wrapped groq provider, got %v", p)
	}
}

func TestNewProviderWithoutKey(t *testing.T) {
	if p := newProvider(config.Config{LLMProvider: "groq"}); p != nil {
		t.Fatalf("expected nil provider without credential, got %s", p.Name())
	}
}
