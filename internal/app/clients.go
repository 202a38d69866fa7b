package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/code-explainer-backend/internal/platform/llm"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
	"github.com/yungbote/code-explainer-backend/internal/platform/redisbus"
)

type Clients struct {
	LLM llm.Client
	// Bus is nil unless REDIS_ADDR is set.
	Bus redisbus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	llmClient, err := llm.New(ctx, cfg.LLM, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}
	if !llmClient.Configured() {
		log.Warn("LLM credential missing; /explain and /chat will return 500", "provider", llmClient.Name(), "env_var", llmClient.CredentialEnv())
	}

	var bus redisbus.Bus
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		b, err := redisbus.New(ctx, cfg.Redis, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis concept bus: %w", err)
		}
		bus = b
	}

	return Clients{LLM: llmClient, Bus: bus}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
		c.Bus = nil
	}
}
