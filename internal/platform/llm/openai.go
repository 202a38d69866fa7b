package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com"
	DefaultOpenAIModel   = "gpt-4o-mini"
)

type openAIBackend struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model           string           `json:"model"`
	Input           []responsesInput `json:"input"`
	MaxOutputTokens int              `json:"max_output_tokens,omitempty"`
	Temperature     *float64         `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage,omitempty"`
}

// firstOutputText returns the first assistant output_text part.
func firstOutputText(resp responsesResponse) (string, bool) {
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				return c.Text, true
			}
		}
	}
	return "", false
}

func (b *openAIBackend) complete(ctx context.Context, model string, req Request) (result, error) {
	temp := req.Temperature
	body := responsesRequest{
		Model:           model,
		Input:           []responsesInput{{Role: "user", Content: req.Prompt}},
		MaxOutputTokens: req.MaxTokens,
		Temperature:     &temp,
	}
	headers := map[string]string{"Authorization": "Bearer " + b.apiKey}
	var resp responsesResponse
	if err := postJSON(ctx, b.http, ProviderOpenAI, b.baseURL+"/v1/responses", headers, body, &resp); err != nil {
		return result{}, err
	}
	if resp.Refusal != "" {
		return result{}, fmt.Errorf("openai: model refused: %s", resp.Refusal)
	}
	text, ok := firstOutputText(resp)
	if !ok {
		return result{}, errors.New("openai: no output_text found in response")
	}
	return result{Text: text, InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens}, nil
}

func newOpenAI(cfg Config) backend {
	return &openAIBackend{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: trimBaseURL(cfg.BaseURL, openAIDefaultBaseURL),
		apiKey:  strings.TrimSpace(cfg.APIKey),
	}
}
