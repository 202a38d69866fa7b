package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

type geminiBackend struct {
	cli *genai.Client
}

func newGemini(ctx context.Context, cfg Config) (backend, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions.BaseURL = strings.TrimRight(base, "/") + "/"
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &geminiBackend{cli: cli}, nil
}

func (g *geminiBackend) complete(ctx context.Context, model string, req Request) (result, error) {
	temp := float32(req.Temperature)
	resp, err := g.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:     &temp,
			MaxOutputTokens: int32(req.MaxTokens),
		},
	)
	if err != nil {
		return result{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return result{}, errors.New("gemini: no candidates in response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			res := result{Text: part.Text}
			if u := resp.UsageMetadata; u != nil {
				res.InputTokens = int(u.PromptTokenCount)
				res.OutputTokens = int(u.CandidatesTokenCount)
			}
			return res, nil
		}
	}
	return result{}, errors.New("gemini: no text part in response")
}
