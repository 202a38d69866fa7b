package linkcheck

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/code-explainer-backend/internal/observability"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultConcurrency = 8
	DefaultCacheSize   = 512
	DefaultCacheTTL    = 10 * time.Minute
)

// Result of probing one URL. OK is true only for a final 200.
type Result struct {
	URL    string `json:"url"`
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Err    string `json:"error,omitempty"`
}

type Options struct {
	Timeout     time.Duration
	Concurrency int
	CacheSize   int
	CacheTTL    time.Duration
	HTTPClient  *http.Client
}

type Checker struct {
	log         *logger.Logger
	http        *http.Client
	timeout     time.Duration
	concurrency int
	cache       *expirable.LRU[string, Result]
}

func New(log *logger.Logger, opts Options) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	hc := opts.HTTPClient
	if hc == nil {
		// The default client follows redirects (HEAD included) up to 10 hops.
		hc = &http.Client{}
	}
	return &Checker{
		log:         log.With("component", "LinkChecker"),
		http:        hc,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
		cache:       expirable.NewLRU[string, Result](opts.CacheSize, nil, opts.CacheTTL),
	}
}

// Check sends a HEAD request to url. Failures never surface as errors; they
// are reported on the Result.
func (c *Checker) Check(ctx context.Context, url string) Result {
	url = strings.TrimSpace(url)
	if r, ok := c.cache.Get(url); ok {
		return r
	}
	r := c.probe(ctx, url)
	if ctx.Err() == nil {
		c.cache.Add(url, r)
	}
	observability.Current().IncLinkCheck(resultLabel(r))
	return r
}

func (c *Checker) probe(ctx context.Context, url string) Result {
	res := Result{URL: url}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	resp, err := c.http.Do(req)
	if err != nil {
		res.Err = err.Error()
		c.log.Debug("link unreachable", "url", url, "error", err)
		return res
	}
	_ = resp.Body.Close()
	res.Status = resp.StatusCode
	res.OK = resp.StatusCode == http.StatusOK
	return res
}

// CheckAll probes urls concurrently. Duplicates are checked once.
func (c *Checker) CheckAll(ctx context.Context, urls []string) (map[string]Result, error) {
	uniq := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		uniq = append(uniq, u)
	}
	sort.Strings(uniq)

	var mu sync.Mutex
	out := make(map[string]Result, len(uniq))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, u := range uniq {
		u := u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := c.Check(gctx, u)
			mu.Lock()
			out[u] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// FirstReachable tries candidates in order and returns the first that answers 200.
func (c *Checker) FirstReachable(ctx context.Context, candidates []string) (string, bool) {
	for _, u := range candidates {
		if ctx.Err() != nil {
			return "", false
		}
		if c.Check(ctx, u).OK {
			return strings.TrimSpace(u), true
		}
	}
	return "", false
}

func resultLabel(r Result) string {
	switch {
	case r.OK:
		return "ok"
	case r.Status != 0:
		return "bad_status"
	default:
		return "error"
	}
}
