package services

import (
	"context"
	"errors"

	types "github.com/yungbote/code-explainer-backend/internal/domain"
	"github.com/yungbote/code-explainer-backend/internal/modules/explain/interpret"
	"github.com/yungbote/code-explainer-backend/internal/modules/explain/prompts"
	"github.com/yungbote/code-explainer-backend/internal/platform/apierr"
	"github.com/yungbote/code-explainer-backend/internal/platform/ctxutil"
	"github.com/yungbote/code-explainer-backend/internal/platform/llm"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

const (
	explainMaxTokens   = 2000
	explainTemperature = 0.1
	chatMaxTokens      = 1500
	chatTemperature    = 0.3
)

type ExplainService interface {
	// Explain makes exactly one model call. Errors are *apierr.Error.
	Explain(ctx context.Context, req types.ExplainRequest) (*types.Explanation, error)
}

type explainService struct {
	log    *logger.Logger
	llm    llm.Client
	interp *interpret.Interpreter
}

func NewExplainService(baseLog *logger.Logger, client llm.Client, links interpret.Links) ExplainService {
	return &explainService{
		log:    baseLog.With("service", "ExplainService"),
		llm:    client,
		interp: interpret.New(links),
	}
}

func (s *explainService) Explain(ctx context.Context, req types.ExplainRequest) (*types.Explanation, error) {
	if !s.llm.Configured() {
		return nil, apierr.NotConfigured(s.llm.CredentialEnv())
	}
	prompt, err := prompts.BuildExplainPrompt(req.Code, string(req.Level.OrDefault()), req.Language)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}

	raw, err := s.llm.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   explainMaxTokens,
		Temperature: explainTemperature,
	})
	if err != nil {
		return nil, completionError(s.llm, err)
	}
	s.log.Debug("explain completion", append(ctxutil.LogFields(ctx), "raw_head", head(raw, 500), "raw_len", len(raw))...)

	exp, err := s.interp.Interpret(raw)
	switch {
	case err == nil:
		return exp, nil
	case errors.Is(err, interpret.ErrNoJSON):
		s.log.Warn("no JSON in completion", append(ctxutil.LogFields(ctx), "raw_head", head(raw, 200))...)
		return nil, apierr.Upstream(apierr.CodeNoJSON, "No valid JSON found in response.", err)
	case errors.Is(err, interpret.ErrMalformedJSON):
		s.log.Warn("malformed JSON in completion", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Upstream(apierr.CodeInvalidJSON, "Model returned invalid JSON. Try again.", err)
	default:
		s.log.Warn("completion failed validation", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Unexpected(err)
	}
}

func completionError(c llm.Client, err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		return apierr.NotConfigured(c.CredentialEnv())
	}
	return apierr.Unexpected(err)
}

// head returns at most n runes of s.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
