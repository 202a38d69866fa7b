package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/code-explainer-backend/internal/platform/envutil"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// ConfigFromEnv reads LLM_PROVIDER, MODEL_NAME, LLM_TIMEOUT_SECONDS and the
// provider's credential/base URL variables.
func ConfigFromEnv(log *logger.Logger) Config {
	cfg := Config{
		Provider: strings.ToLower(envutil.String("LLM_PROVIDER", ProviderAnthropic, log)),
		Model:    envutil.String("MODEL_NAME", "", log),
		Timeout:  time.Duration(envutil.Int("LLM_TIMEOUT_SECONDS", 120, log)) * time.Second,
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		cfg.APIKey = envutil.String("OPENAI_API_KEY", "", nil)
		cfg.BaseURL = envutil.String("OPENAI_BASE_URL", "", log)
	case ProviderGemini:
		cfg.APIKey = envutil.String("GEMINI_API_KEY", "", nil)
		cfg.BaseURL = envutil.String("GEMINI_BASE_URL", "", log)
	default:
		cfg.APIKey = envutil.String("ANTHROPIC_API_KEY", "", nil)
		cfg.BaseURL = envutil.String("ANTHROPIC_BASE_URL", "", log)
	}
	return cfg
}

// New builds the client for cfg.Provider. A missing credential is not an
// error: the client reports Configured() == false and refuses to call out.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderAnthropic
	}
	c := &client{
		provider:   provider,
		model:      strings.TrimSpace(cfg.Model),
		configured: strings.TrimSpace(cfg.APIKey) != "",
	}

	switch provider {
	case ProviderAnthropic:
		c.keyEnv = "ANTHROPIC_API_KEY"
		c.model = orDefault(c.model, DefaultAnthropicModel)
		c.be = newAnthropic(cfg)
	case ProviderOpenAI:
		c.keyEnv = "OPENAI_API_KEY"
		c.model = orDefault(c.model, DefaultOpenAIModel)
		c.be = newOpenAI(cfg)
	case ProviderGemini:
		c.keyEnv = "GEMINI_API_KEY"
		c.model = orDefault(c.model, DefaultGeminiModel)
		if c.configured {
			be, err := newGemini(ctx, cfg)
			if err != nil {
				return nil, fmt.Errorf("gemini client: %w", err)
			}
			c.be = be
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}

	c.log = log.With("service", "LLMClient", "provider", provider, "model", c.model)
	if !c.configured {
		c.log.Warn("LLM credential missing; completions will be refused", "env_var", c.keyEnv)
	}
	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
