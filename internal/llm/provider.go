package llm

import (
	"context"
	"fmt"

	"ritcompass/pkg/config"

	"go.uber.org/zap"
)

// NewProvider builds the provider named by cfg.LLM.Provider.
func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Provider, error) {
	switch cfg.LLM.Provider {
	case "gigachat", "":
		return NewGigaChatProvider(ctx, &cfg.GigaChat, logger)
	case "gemini":
		return NewGeminiProvider(ctx, &cfg.Gemini, logger)
	case "openai":
		return NewOpenAIProvider(&cfg.OpenAI, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}

// NewModels builds the strict/free pair from one provider.
func NewModels(p Provider, cfg *config.LLMConfig) Models {
	return Models{
		Strict: p.Model(StrictConfig(cfg.StrictModel)),
		Free:   p.Model(FreeConfig(cfg.FreeModel)),
	}
}
