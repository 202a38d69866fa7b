package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	DefaultAnthropicModel   = "claude-3-haiku-20240307"
)

type anthropicBackend struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
	StopReason string `json:"stop_reason,omitempty"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (b *anthropicBackend) complete(ctx context.Context, model string, req Request) (result, error) {
	body := anthropicRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	headers := map[string]string{
		"x-api-key":         b.apiKey,
		"anthropic-version": anthropicVersion,
	}
	var resp anthropicResponse
	if err := postJSON(ctx, b.http, ProviderAnthropic, b.baseURL+"/v1/messages", headers, body, &resp); err != nil {
		return result{}, err
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return result{
				Text:         block.Text,
				InputTokens:  resp.Usage.InputTokens,
				OutputTokens: resp.Usage.OutputTokens,
			}, nil
		}
	}
	return result{}, errors.New("anthropic: no text content in response")
}

func newAnthropic(cfg Config) backend {
	return &anthropicBackend{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: trimBaseURL(cfg.BaseURL, anthropicDefaultBaseURL),
		apiKey:  strings.TrimSpace(cfg.APIKey),
	}
}
