// Package docsearch looks up official documentation pages for a concept
// through the Bing Web Search v7 API.
package docsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/code-explainer-backend/internal/platform/envutil"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

const (
	DefaultEndpoint = "https://api.bing.microsoft.com/v7.0/search"
	DefaultLanguage = "python"
	resultCount     = 3
)

var DefaultTrustedDomains = []string{
	"docs.python.org",
	"docs.pydantic.dev",
	"fastapi.tiangolo.com",
	"developer.mozilla.org",
}

var ErrNotConfigured = errors.New("docsearch: BING_SEARCH_API_KEY not set")

type Config struct {
	APIKey         string
	Endpoint       string
	TrustedDomains []string
	// RequestsPerSecond throttles outbound calls; <= 0 disables throttling.
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:            envutil.String("BING_SEARCH_API_KEY", "", nil),
		Endpoint:          envutil.String("BING_SEARCH_ENDPOINT", DefaultEndpoint, log),
		TrustedDomains:    envutil.List("DOCSEARCH_TRUSTED_DOMAINS", DefaultTrustedDomains),
		RequestsPerSecond: envutil.Float("DOCSEARCH_RPS", 3),
		Timeout:           time.Duration(envutil.Int("DOCSEARCH_TIMEOUT_SECONDS", 10, log)) * time.Second,
	}
}

type Client struct {
	log     *logger.Logger
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if len(cfg.TrustedDomains) == 0 {
		cfg.TrustedDomains = DefaultTrustedDomains
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		log:     log.With("component", "DocSearch"),
		cfg:     cfg,
		http:    hc,
		limiter: lim,
	}
}

func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.cfg.APIKey) != ""
}

type searchResponse struct {
	WebPages struct {
		Value []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"value"`
	} `json:"webPages"`
}

// Search returns the first result hosted on a trusted domain. ok is false when
// no trusted page was found.
func (c *Client) Search(ctx context.Context, concept, language string) (string, bool, error) {
	if !c.Configured() {
		return "", false, ErrNotConfigured
	}
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", false, nil
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	q := url.Values{}
	q.Set("q", Query(concept, language))
	q.Set("count", fmt.Sprint(resultCount))
	q.Set("responseFilter", "Webpages")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("docsearch request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", false, fmt.Errorf("docsearch http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", false, fmt.Errorf("docsearch decode: %w", err)
	}
	for _, page := range sr.WebPages.Value {
		if c.trusted(page.URL) {
			c.log.Debug("docsearch hit", "concept", concept, "url", page.URL)
			return page.URL, true, nil
		}
	}
	return "", false, nil
}

func Query(concept, language string) string {
	return fmt.Sprintf("%s %s official documentation site:docs.python.org OR site:docs.pydantic.dev", concept, language)
}

// trusted matches on the URL host, not a substring of the whole URL.
func (c *Client) trusted(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range c.cfg.TrustedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
