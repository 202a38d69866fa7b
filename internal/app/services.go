package app

import (
	"context"
	"fmt"

	"github.com/yungbote/code-explainer-backend/internal/modules/explain/conceptlinks"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
	"github.com/yungbote/code-explainer-backend/internal/services"
)

type Services struct {
	ConceptLinks *conceptlinks.Service
	Explain      services.ExplainService
	Chat         services.ChatService
}

func wireServices(ctx context.Context, log *logger.Logger, clients Clients, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	seed, err := conceptlinks.LoadSeed(log)
	if err != nil {
		return Services{}, fmt.Errorf("load concept seed: %w", err)
	}
	links := conceptlinks.NewService(log, seed, repos.ConceptURL, clients.Bus)
	if err := links.Load(ctx); err != nil {
		return Services{}, err
	}

	return Services{
		ConceptLinks: links,
		Explain:      services.NewExplainService(log, clients.LLM, links.Table()),
		Chat:         services.NewChatService(log, clients.LLM),
	}, nil
}
