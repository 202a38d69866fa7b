package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/code-explainer-backend/internal/data/db"
	apphttp "github.com/yungbote/code-explainer-backend/internal/http"
	"github.com/yungbote/code-explainer-backend/internal/observability"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
	"github.com/yungbote/code-explainer-backend/internal/platform/redisbus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	var theDB *gorm.DB
	if cfg.DB.Enabled() {
		theDB, err = db.Open(cfg.DB, log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init database: %w", err)
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(ctx, log, clients, reposet)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Server:       wireServer(log, cfg, serviceset, metrics),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background loops: peer table updates and the redis health collector.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.Bus != nil {
		if err := a.Services.ConceptLinks.Follow(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Log.Error("concept update follower not started", "error", err)
		}
		a.Metrics.StartRedisCollector(ctx, a.Log, redisbus.Client(a.Clients.Bus), 15*time.Second)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Close stops the server and background work. Safe to call more than once.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		a.DB = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
		a.otelShutdown = nil
	}
	a.Log.Sync()
}
