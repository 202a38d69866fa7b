package services

import (
	"context"

	types "github.com/yungbote/code-explainer-backend/internal/domain"
	"github.com/yungbote/code-explainer-backend/internal/modules/explain/prompts"
	"github.com/yungbote/code-explainer-backend/internal/platform/apierr"
	"github.com/yungbote/code-explainer-backend/internal/platform/ctxutil"
	"github.com/yungbote/code-explainer-backend/internal/platform/llm"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type ChatService interface {
	// Chat returns the completion as-is; answers are not interpreted or enriched.
	Chat(ctx context.Context, req types.ChatRequest) (*types.ChatAnswer, error)
}

type chatService struct {
	log *logger.Logger
	llm llm.Client
}

func NewChatService(baseLog *logger.Logger, client llm.Client) ChatService {
	return &chatService{
		log: baseLog.With("service", "ChatService"),
		llm: client,
	}
}

func (s *chatService) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatAnswer, error) {
	if !s.llm.Configured() {
		return nil, apierr.NotConfigured(s.llm.CredentialEnv())
	}
	prompt, err := prompts.BuildChatPrompt(req.Question, req.Code, string(req.Level.OrDefault()), req.Language)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	raw, err := s.llm.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		return nil, completionError(s.llm, err)
	}
	s.log.Debug("chat completion", append(ctxutil.LogFields(ctx), "raw_head", head(raw, 200), "raw_len", len(raw))...)
	return &types.ChatAnswer{Answer: raw}, nil
}
