// Package llm issues single-shot completions against a hosted model.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/code-explainer-backend/internal/observability"
	"github.com/yungbote/code-explainer-backend/internal/platform/ctxutil"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// ErrNotConfigured is returned by Complete when the provider credential is absent.
var ErrNotConfigured = errors.New("llm: provider not configured")

type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Client interface {
	Name() string
	Model() string
	// Configured reports whether a credential is present. No call is made.
	Configured() bool
	// CredentialEnv names the environment variable holding the credential.
	CredentialEnv() string
	// Complete returns the first text completion verbatim. No retries.
	Complete(ctx context.Context, req Request) (string, error)
}

// HTTPError is a non-2xx reply from the provider.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type result struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// backend is one provider's wire protocol.
type backend interface {
	complete(ctx context.Context, model string, req Request) (result, error)
}

type client struct {
	log        *logger.Logger
	provider   string
	model      string
	keyEnv     string
	configured bool
	be         backend
}

func (c *client) Name() string          { return c.provider }
func (c *client) Model() string         { return c.model }
func (c *client) Configured() bool      { return c.configured }
func (c *client) CredentialEnv() string { return c.keyEnv }

func (c *client) Complete(ctx context.Context, req Request) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("%w (missing %s)", ErrNotConfigured, c.keyEnv)
	}
	ctx, span := observability.StartSpan(ctx, "llm.complete",
		attribute.String("llm.provider", c.provider),
		attribute.String("llm.model", c.model),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	)
	defer span.End()

	start := time.Now()
	res, err := c.be.complete(ctx, c.model, req)
	dur := time.Since(start)
	status := statusFromErr(err)
	observability.Current().ObserveLLMRequest(c.provider, c.model, status, dur, res.InputTokens, res.OutputTokens)

	kv := append([]interface{}{
		"provider", c.provider,
		"model", c.model,
		"status", status,
		"duration_ms", dur.Milliseconds(),
	}, ctxutil.LogFields(ctx)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		c.log.Warn("llm completion failed", append(kv, "error", err)...)
		return "", err
	}
	span.SetAttributes(
		attribute.Int("llm.input_tokens", res.InputTokens),
		attribute.Int("llm.output_tokens", res.OutputTokens),
	)
	c.log.Debug("llm completion", append(kv, "input_tokens", res.InputTokens, "output_tokens", res.OutputTokens)...)
	return res.Text, nil
}

// postJSON sends body as JSON and decodes a 2xx reply into out.
func postJSON(ctx context.Context, hc *http.Client, provider, url string, headers map[string]string, body, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("%s read body: %w", provider, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Provider: provider, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s decode error: %w", provider, err)
	}
	return nil
}

func statusFromErr(err error) string {
	if err == nil {
		return "ok"
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return strconv.Itoa(httpErr.StatusCode)
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}

func trimBaseURL(raw, def string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = def
	}
	return strings.TrimRight(raw, "/")
}
