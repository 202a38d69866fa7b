package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/code-explainer-backend/internal/domain"
	httpH "github.com/yungbote/code-explainer-backend/internal/http/handlers"
	httpMW "github.com/yungbote/code-explainer-backend/internal/http/middleware"
	"github.com/yungbote/code-explainer-backend/internal/modules/explain/conceptlinks"
	"github.com/yungbote/code-explainer-backend/internal/observability"
	"github.com/yungbote/code-explainer-backend/internal/platform/apierr"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type stubExplain struct {
	got types.ExplainRequest
	out *types.Explanation
	err error
}

func (s *stubExplain) Explain(ctx context.Context, req types.ExplainRequest) (*types.Explanation, error) {
	s.got = req
	return s.out, s.err
}

type stubChat struct {
	got types.ChatRequest
	err error
}

func (s *stubChat) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatAnswer, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &types.ChatAnswer{Answer: "because " + req.Question}, nil
}

type envelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Detail string `json:"detail"`
}

const adminSecret = "test-admin-secret"

type fixture struct {
	engine   *gin.Engine
	explain  *stubExplain
	chat     *stubChat
	concepts *conceptlinks.Service
	metrics  *observability.Metrics
}

func newFixture(t *testing.T, withAdmin bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seed, err := conceptlinks.DefaultSeed()
	require.NoError(t, err)
	f := &fixture{
		explain:  &stubExplain{out: &types.Explanation{Summary: "ok", Risks: []types.Risk{}}},
		chat:     &stubChat{},
		concepts: conceptlinks.NewService(logger.Nop(), seed, nil, nil),
		metrics:  observability.NewMetrics(),
	}
	cfg := RouterConfig{
		Log:            logger.Nop(),
		Metrics:        f.metrics,
		HealthHandler:  httpH.NewHealthHandler(),
		ExplainHandler: httpH.NewExplainHandler(f.explain, f.chat),
		ConceptHandler: httpH.NewConceptHandler(f.concepts),
	}
	if withAdmin {
		cfg.AdminAuth = httpMW.NewAdminAuth(logger.Nop(), adminSecret)
	}
	f.engine = NewRouter(cfg)
	return f
}

func (f *fixture) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(nethttp.MethodGet, "/health", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok": true}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(httpMW.HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(nethttp.MethodGet, "/health", "", map[string]string{httpMW.HeaderRequestID: "req-123"})
	require.Equal(t, "req-123", rec.Header().Get(httpMW.HeaderRequestID))
}

func TestExplainDefaultsLevel(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(nethttp.MethodPost, "/explain", `{"code": "print(1)"}`, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, types.LevelBeginner, f.explain.got.Level)
	assert.Nil(t, f.explain.got.Language)

	var exp types.Explanation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	assert.Equal(t, "ok", exp.Summary)
}

func TestExplainValidation(t *testing.T) {
	f := newFixture(t, false)
	cases := map[string]string{
		"missing code":  `{"language": "python"}`,
		"empty code":    `{"code": ""}`,
		"bad level":     `{"code": "x", "level": "guru"}`,
		"not json":      `code=x`,
		"too long code": `{"code": "` + strings.Repeat("a", 50001) + `"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(nethttp.MethodPost, "/explain", body, nil)
			require.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, apierr.CodeInvalidRequest, env.Error.Code)
			assert.Equal(t, env.Error.Message, env.Detail)
		})
	}
}

func TestExplainErrorEnvelope(t *testing.T) {
	f := newFixture(t, false)
	f.explain.err = apierr.Upstream(apierr.CodeNoJSON, "No valid JSON found in response.", nil)

	rec := f.do(nethttp.MethodPost, "/explain", `{"code": "x", "level": "expert"}`, nil)
	require.Equal(t, nethttp.StatusBadGateway, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, apierr.CodeNoJSON, env.Error.Code)
	assert.Equal(t, "No valid JSON found in response.", env.Detail)

	f.explain.err = apierr.NotConfigured("ANTHROPIC_API_KEY")
	rec = f.do(nethttp.MethodPost, "/explain", `{"code": "x"}`, nil)
	require.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server not configured (missing ANTHROPIC_API_KEY).", decodeEnvelope(t, rec).Detail)
}

func TestChat(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(nethttp.MethodPost, "/chat", `{"question": "why?", "code": "x", "language": "go"}`, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.JSONEq(t, `{"answer": "because why?"}`, rec.Body.String())
	require.NotNil(t, f.chat.got.Language)
	assert.Equal(t, "go", *f.chat.got.Language)

	rec = f.do(nethttp.MethodPost, "/chat", `{"question": "`+strings.Repeat("q", 1001)+`", "code": "x"}`, nil)
	require.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
}

func TestListConcepts(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(nethttp.MethodGet, "/api/concepts", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var body struct {
		Concepts []conceptlinks.Entry `json:"concepts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Concepts)
	found := false
	for _, e := range body.Concepts {
		if e.Concept == "pydantic" {
			found = true
		}
	}
	require.True(t, found, "seed concepts should be listed")
}

func TestUpsertConceptNotMountedWithoutSecret(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(nethttp.MethodPut, "/api/concepts", `{"concept": "x", "url": "https://example.com"}`, nil)
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestUpsertConceptRequiresAdmin(t *testing.T) {
	f := newFixture(t, true)
	body := `{"concept": "Goroutine", "url": "https://go.dev/tour/concurrency/1"}`

	rec := f.do(nethttp.MethodPut, "/api/concepts", body, nil)
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierr.CodeUnauthorized, decodeEnvelope(t, rec).Error.Code)

	forged, err := httpMW.SignAdminToken("wrong-secret", "mallory", time.Minute)
	require.NoError(t, err)
	rec = f.do(nethttp.MethodPut, "/api/concepts", body, map[string]string{"Authorization": "Bearer " + forged})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	expired, err := httpMW.SignAdminToken(adminSecret, "ops", -time.Hour)
	require.NoError(t, err)
	rec = f.do(nethttp.MethodPut, "/api/concepts", body, map[string]string{"Authorization": "Bearer " + expired})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	tok, err := httpMW.SignAdminToken(adminSecret, "ops", time.Minute)
	require.NoError(t, err)
	rec = f.do(nethttp.MethodPut, "/api/concepts", body, map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	u, ok := f.concepts.Lookup(" goroutine ")
	require.True(t, ok)
	assert.Equal(t, "https://go.dev/tour/concurrency/1", u)

	rec = f.do(nethttp.MethodPut, "/api/concepts", `{"concept": "x", "url": "javascript:alert(1)"}`, map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false)
	f.do(nethttp.MethodGet, "/health", "", nil)

	rec := f.do(nethttp.MethodGet, "/metrics", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ce_api_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/health"`)
	assert.NotContains(t, rec.Body.String(), `route="/metrics"`)
}
