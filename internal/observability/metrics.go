package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/code-explainer-backend/internal/platform/envutil"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	llmRequests   *CounterVec
	llmLatency    *HistogramVec
	llmTokens     *CounterVec
	interpret     *CounterVec
	tableUpdates  *CounterVec
	tableSize     *Gauge
	linkChecks    *CounterVec
	redisUp       *Gauge
	redisPingSecs *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide registry when METRICS_ENABLED is set.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics returns a standalone registry. Most callers want Init.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("ce_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"ce_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight: NewGauge("ce_api_inflight_requests", "In-flight API requests."),
		llmRequests: NewCounterVec("ce_llm_requests_total", "LLM requests by provider/model/status.", []string{"provider", "model", "status"}),
		llmLatency: NewHistogramVec(
			"ce_llm_request_duration_seconds",
			"LLM request latency in seconds.",
			[]string{"provider", "model", "status"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		),
		llmTokens:     NewCounterVec("ce_llm_tokens_total", "LLM tokens by provider/model/direction.", []string{"provider", "model", "direction"}),
		interpret:     NewCounterVec("ce_interpret_outcomes_total", "Completion interpretation outcomes.", []string{"outcome"}),
		tableUpdates:  NewCounterVec("ce_concept_table_updates_total", "Verified URL table updates by source.", []string{"source"}),
		tableSize:     NewGauge("ce_concept_table_size", "Entries in the verified URL table."),
		linkChecks:    NewCounterVec("ce_link_checks_total", "Documentation link reachability checks.", []string{"result"}),
		redisUp:       NewGauge("ce_redis_up", "1 when the last redis ping succeeded."),
		redisPingSecs: NewGauge("ce_redis_ping_seconds", "Latency of the last redis ping."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.llmTokens,
		m.interpret, m.tableUpdates, m.tableSize,
		m.linkChecks, m.redisUp, m.redisPingSecs,
	}
	for _, c := range writers {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveLLMRequest(provider, model, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	provider = orUnknown(provider)
	model = orUnknown(model)
	status = orUnknown(status)
	m.llmRequests.Inc(provider, model, status)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), provider, model, status)
	}
	if inputTokens > 0 {
		m.llmTokens.Add(float64(inputTokens), provider, model, "input")
	}
	if outputTokens > 0 {
		m.llmTokens.Add(float64(outputTokens), provider, model, "output")
	}
}

// IncInterpretOutcome counts one interpretation result: ok, no_json, malformed_json or schema.
func (m *Metrics) IncInterpretOutcome(outcome string) {
	if m == nil {
		return
	}
	m.interpret.Inc(orUnknown(outcome))
}

func (m *Metrics) ObserveTableUpdate(source string, size int) {
	if m == nil {
		return
	}
	m.tableUpdates.Inc(orUnknown(source))
	m.tableSize.Set(float64(size))
}

func (m *Metrics) SetTableSize(size int) {
	if m == nil {
		return
	}
	m.tableSize.Set(float64(size))
}

func (m *Metrics) IncLinkCheck(result string) {
	if m == nil {
		return
	}
	m.linkChecks.Inc(orUnknown(result))
}

// StartRedisCollector pings redis on an interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPingSecs.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
