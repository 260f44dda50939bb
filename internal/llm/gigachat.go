package llm

import (
	"context"
	"fmt"
	"strings"

	"ritcompass/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// GigaChatProvider talks to the GigaChat API through gigago.
type GigaChatProvider struct {
	client *gigago.Client
	logger *zap.Logger
}

func NewGigaChatProvider(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GIGACHAT_API_KEY is required")
	}

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.ChatURL != "" {
		opts = append(opts, gigago.WithCustomURLAI(cfg.ChatURL))
	}
	if cfg.OAuthURL != "" {
		opts = append(opts, gigago.WithCustomURLOauth(cfg.OAuthURL))
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	return &GigaChatProvider{client: client, logger: logger}, nil
}

func (p *GigaChatProvider) Model(cfg ModelConfig) Model {
	return &gigaChatModel{client: p.client, cfg: cfg, logger: p.logger}
}

func (p *GigaChatProvider) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

type gigaChatModel struct {
	client *gigago.Client
	cfg    ModelConfig
	logger *zap.Logger
}

func (m *gigaChatModel) Config() ModelConfig {
	return m.cfg
}

// Invoke builds a fresh GenerativeModel per call: SystemInstruction and
// Temperature are fields on the model, so sharing one would race.
func (m *gigaChatModel) Invoke(ctx context.Context, messages []Message) (string, error) {
	system, rest := splitMessages(messages)

	model := m.client.GenerativeModel(m.cfg.Name)
	model.SystemInstruction = system
	model.Temperature = m.cfg.Temperature

	chat := make([]gigago.Message, 0, len(rest))
	for _, msg := range rest {
		chat = append(chat, gigago.Message{Role: gigago.RoleUser, Content: msg.Content})
	}

	resp, err := model.Generate(ctx, chat)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	content := resp.Choices[0].Message.Content
	m.logger.Debug("GigaChat response received",
		zap.String("model", m.cfg.Name),
		zap.String("mode", string(m.cfg.Mode)),
		zap.Int("length", len(strings.TrimSpace(content))),
	)
	return content, nil
}
