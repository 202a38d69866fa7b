package app

import (
	"strings"

	apphttp "github.com/yungbote/code-explainer-backend/internal/http"
	httpH "github.com/yungbote/code-explainer-backend/internal/http/handlers"
	httpMW "github.com/yungbote/code-explainer-backend/internal/http/middleware"
	"github.com/yungbote/code-explainer-backend/internal/observability"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, svc Services, metrics *observability.Metrics) *apphttp.Server {
	log.Info("Wiring handlers...")

	var admin *httpMW.AdminAuth
	if strings.TrimSpace(cfg.AdminJWTSecret) != "" {
		admin = httpMW.NewAdminAuth(log, cfg.AdminJWTSecret)
	} else {
		log.Info("ADMIN_JWT_SECRET not set; PUT /api/concepts disabled")
	}

	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AllowOrigins:   cfg.AllowOrigins,
		Metrics:        metrics,
		HealthHandler:  httpH.NewHealthHandler(),
		ExplainHandler: httpH.NewExplainHandler(svc.Explain, svc.Chat),
		ConceptHandler: httpH.NewConceptHandler(svc.ConceptLinks),
		AdminAuth:      admin,
	})
}
