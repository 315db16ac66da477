// Package llm talks to remote text-generation providers, builds the prompts
// sent to them and turns their free-text answers into typed results.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

const (
	DefaultMaxTokens           = 500
	DefaultTemperature         = 0.7
	DefaultRetries             = 2
	DefaultGenerateTimeout     = 30 * time.Second
	DefaultAvailabilityTimeout = 10 * time.Second
)

// Provider is the contract every backing service implements. The orchestrator
// only ever holds this interface.
type Provider interface {
	Name() string
	// Generate returns the raw completion text. An empty string is a valid
	// result when the provider produced no content.
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
	// CheckAvailability performs a minimal real inference call.
	CheckAvailability(ctx context.Context) bool
}

type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
	Retries     int
}

type Option func(*GenerateOptions)

func WithMaxTokens(n int) Option {
	return func(o *GenerateOptions) { o.MaxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(o *GenerateOptions) { o.Temperature = t }
}

func WithRetries(n int) Option {
	return func(o *GenerateOptions) { o.Retries = n }
}

// NewGenerateOptions applies opts on top of the defaults (500 tokens,
// temperature 0.7, 2 retries).
func NewGenerateOptions(opts ...Option) GenerateOptions {
	o := GenerateOptions{
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Retries:     DefaultRetries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Temperature < 0 {
		o.Temperature = 0
	}
	return o
}

// ErrNotConfigured is returned by New when no credential is available.
var ErrNotConfigured = errors.New("llm provider not configured")

type ErrorKind string

const (
	KindRateLimited   ErrorKind = "rate_limited"
	KindQuotaExceeded ErrorKind = "quota_exceeded"
	KindTimeout       ErrorKind = "timeout"
	KindNetwork       ErrorKind = "network"
	KindAuth          ErrorKind = "auth"
	KindBadRequest    ErrorKind = "bad_request"
	KindBlocked       ErrorKind = "blocked"
	KindUpstream      ErrorKind = "upstream"
	KindCircuitOpen   ErrorKind = "circuit_open"
)

// Transient reports whether an error of this kind is worth another attempt.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimited, KindQuotaExceeded, KindTimeout, KindNetwork:
		return true
	}
	return false
}

type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, defaulting to upstream for foreign errors.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUpstream
}

// IsTransient reports whether err is a transient provider failure.
func IsTransient(err error) bool {
	return KindOf(err).Transient()
}

func classifyStatus(status int, body []byte) ErrorKind {
	mentionsQuota := bytes.Contains(bytes.ToLower(body), []byte("quota"))
	switch {
	case status == 429 && mentionsQuota:
		return KindQuotaExceeded
	case status == 429:
		return KindRateLimited
	case status == 403 && mentionsQuota:
		return KindQuotaExceeded
	case status == 401 || status == 403:
		return KindAuth
	case status == 408:
		return KindTimeout
	case status >= 400 && status < 500:
		return KindBadRequest
	default:
		return KindUpstream
	}
}

func classifyTransport(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

func truncateBody(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "...(truncated)"
	}
	return s
}
