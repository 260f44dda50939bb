package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ritcompass/pkg/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIProvider calls an OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client     openai.Client
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOpenAIProvider(cfg *config.OpenAIConfig, logger *zap.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	httpClient := &http.Client{}
	// retries would call the model more than once per pipeline stage
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:     client,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (p *OpenAIProvider) Model(cfg ModelConfig) Model {
	return &openAIModel{provider: p, cfg: cfg}
}

func (p *OpenAIProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

type openAIModel struct {
	provider *OpenAIProvider
	cfg      ModelConfig
}

func (m *openAIModel) Config() ModelConfig {
	return m.cfg
}

func (m *openAIModel) Invoke(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       m.cfg.Name,
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
		Temperature: openai.Float(m.cfg.Temperature),
	}
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		} else {
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	completion, err := m.provider.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			m.provider.logger.Error("Chat completion request failed",
				zap.Int("status", apiErr.StatusCode),
				zap.String("model", m.cfg.Name),
				zap.String("response", apiErr.RawJSON()),
			)
			return "", fmt.Errorf("chat completion failed with status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return completion.Choices[0].Message.Content, nil
}
