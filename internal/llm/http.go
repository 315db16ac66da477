package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
)

const maxResponseBytes = 4 << 20

// Config selects and parameterises a provider. Zero values fall back to the
// provider's defaults.
type Config struct {
	Provider            string
	APIKey              string
	Model               string
	BaseURL             string
	GenerateTimeout     time.Duration
	AvailabilityTimeout time.Duration
	HTTPClient          *http.Client
}

// transport is the HTTP plumbing shared by every provider.
type transport struct {
	name                string
	client              *http.Client
	retry               retrier
	availabilityTimeout time.Duration
}

func newTransport(name string, cfg Config) transport {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.GenerateTimeout
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	probe := cfg.AvailabilityTimeout
	if probe <= 0 {
		probe = DefaultAvailabilityTimeout
	}
	return transport{
		name:                name,
		client:              client,
		retry:               retrier{provider: name, timeout: timeout, sleep: sleepContext},
		availabilityTimeout: probe,
	}
}

func (t transport) postJSON(ctx context.Context, endpoint string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ProviderError{Provider: t.name, Kind: KindBadRequest, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &ProviderError{Provider: t.name, Kind: KindBadRequest, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		// url.Error carries the request URL, which may contain a credential.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return &ProviderError{Provider: t.name, Kind: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ProviderError{Provider: t.name, Kind: classifyTransport(err), StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProviderError{
			Provider:   t.name,
			Kind:       classifyStatus(resp.StatusCode, raw),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncateBody(raw)),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &ProviderError{Provider: t.name, Kind: KindUpstream, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// probe runs call under the availability timeout and logs the failure
// category when it does not succeed.
func (t transport) probe(ctx context.Context, call func(ctx context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, t.availabilityTimeout)
	defer cancel()

	err := call(ctx)
	if err == nil {
		return true
	}
	kind := KindOf(err)
	ev := logging.Warn()
	if kind == KindAuth {
		ev = logging.Error()
	}
	ev.Str("provider", t.name).Str("kind", string(kind)).Err(err).Msg("llm availability check failed")
	return false
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
