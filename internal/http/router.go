package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/code-explainer-backend/internal/http/handlers"
	httpMW "github.com/yungbote/code-explainer-backend/internal/http/middleware"
	"github.com/yungbote/code-explainer-backend/internal/observability"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log          *logger.Logger
	ServiceName  string
	AllowOrigins []string
	// Metrics is nil when METRICS_ENABLED is off.
	Metrics *observability.Metrics

	HealthHandler  *httpH.HealthHandler
	ExplainHandler *httpH.ExplainHandler
	ConceptHandler *httpH.ConceptHandler
	// AdminAuth is nil when no admin secret is configured; the write route is not mounted then.
	AdminAuth *httpMW.AdminAuth
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "code-explainer"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	// Explain + chat
	if cfg.ExplainHandler != nil {
		r.POST("/explain", cfg.ExplainHandler.Explain)
		r.POST("/chat", cfg.ExplainHandler.Chat)
	}

	api := r.Group("/api")
	if cfg.ConceptHandler != nil {
		api.GET("/concepts", cfg.ConceptHandler.List)
		if cfg.AdminAuth != nil {
			api.PUT("/concepts", cfg.AdminAuth.RequireAdmin(), cfg.ConceptHandler.Upsert)
		}
	}

	return r
}
