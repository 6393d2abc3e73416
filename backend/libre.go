package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/luminareads/lingopress"
)

// Libre translates segments through a LibreTranslate-compatible HTTP API.
// It is the usual fallback when the primary model-based backend is
// unavailable or produces unusable output.
type Libre struct {
	baseURL string
	apiKey  string
	client  *http.Client
	runner  *runner
}

// LibreConfig holds configuration for the Libre backend.
type LibreConfig struct {
	BaseURL string        // service root, e.g. "https://libretranslate.com"
	APIKey  string        // optional API key
	Timeout time.Duration // per-request timeout (default: 30s)
	Policy  *Policy       // batching/pacing/retry policy (default: DefaultPolicy)
}

// NewLibre creates a LibreTranslate backend.
func NewLibre(cfg LibreConfig) *Libre {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	policy := DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	return &Libre{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		runner:  newRunner(policy),
	}
}

// Name returns "libre".
func (l *Libre) Name() string {
	return "libre"
}

// libreRequest is the /translate request body. The q field carries a whole
// batch; the service answers with one translatedText entry per element.
type libreRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText []string `json:"translatedText"`
	Error          string   `json:"error,omitempty"`
}

// Translate translates segments in batches.
func (l *Libre) Translate(ctx context.Context, req lingopress.TranslateRequest) ([]string, error) {
	source := lingopress.BaseLang(req.SourceLang)
	if source == "" {
		source = "auto"
	}
	target := lingopress.BaseLang(req.TargetLang)

	return l.runner.run(ctx, req, func(ctx context.Context, batch []string) ([]string, error) {
		return l.call(ctx, batch, source, target)
	})
}

func (l *Libre) call(ctx context.Context, batch []string, source, target string) ([]string, error) {
	body, err := json.Marshal(libreRequest{
		Q:      batch,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return nil, &lingopress.BackendError{
			Backend: l.Name(),
			Message: "failed to encode request",
			Cause:   err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, &lingopress.BackendError{
			Backend: l.Name(),
			Message: "failed to build request",
			Cause:   err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", lingopress.UserAgent())

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, &lingopress.BackendError{
			Backend:   l.Name(),
			Message:   "request failed",
			Cause:     err,
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &lingopress.BackendError{
			Backend:   l.Name(),
			Message:   "failed to read response",
			Cause:     err,
			Retryable: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, l.statusError(resp.StatusCode, data)
	}

	var parsed libreResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &lingopress.BackendError{
			Backend: l.Name(),
			Message: "invalid response body",
			Cause:   err,
		}
	}
	if parsed.Error != "" {
		return nil, &lingopress.BackendError{
			Backend: l.Name(),
			Message: parsed.Error,
		}
	}

	if len(parsed.TranslatedText) != len(batch) {
		return nil, &lingopress.CountMismatchError{
			Expected: len(batch),
			Got:      len(parsed.TranslatedText),
		}
	}
	return parsed.TranslatedText, nil
}

func (l *Libre) statusError(status int, body []byte) error {
	msg := fmt.Sprintf("unexpected status %d", status)
	var parsed libreResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		msg = parsed.Error
	}

	return &lingopress.BackendError{
		Backend:     l.Name(),
		Message:     msg,
		Retryable:   status == http.StatusTooManyRequests || status >= 500,
		RateLimited: status == http.StatusTooManyRequests,
	}
}

// Verify Libre implements Backend
var _ lingopress.Backend = (*Libre)(nil)
