package app

import (
	"github.com/yungbote/code-explainer-backend/internal/data/db"
	httpMW "github.com/yungbote/code-explainer-backend/internal/http/middleware"
	"github.com/yungbote/code-explainer-backend/internal/platform/envutil"
	"github.com/yungbote/code-explainer-backend/internal/platform/llm"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
	"github.com/yungbote/code-explainer-backend/internal/platform/redisbus"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string

	AllowOrigins   []string
	AdminJWTSecret string

	DB    db.Config
	Redis redisbus.Config
	LLM   llm.Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:           envutil.String("PORT", "8000", log),
		ServiceName:    envutil.String("OTEL_SERVICE_NAME", "code-explainer", log),
		Environment:    envutil.String("APP_ENV", "development", log),
		Version:        envutil.String("APP_VERSION", "dev", log),
		AllowOrigins:   envutil.List("CORS_ALLOW_ORIGINS", httpMW.DefaultAllowOrigins),
		AdminJWTSecret: envutil.String("ADMIN_JWT_SECRET", "", nil),
		DB: db.Config{
			Driver: envutil.String("DB_DRIVER", "", log),
			DSN:    envutil.String("DATABASE_URL", "", nil),
			Silent: envutil.Bool("DB_SILENT", false),
		},
		Redis: redisbus.Config{
			Addr:    envutil.String("REDIS_ADDR", "", log),
			Channel: envutil.String("REDIS_CHANNEL", redisbus.DefaultChannel, log),
		},
		LLM: llm.ConfigFromEnv(log),
	}
}
