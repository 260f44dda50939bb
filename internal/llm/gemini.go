package llm

import (
	"context"
	"fmt"

	"ritcompass/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiProvider talks to Google's Gemini API through the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiProvider(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{client: client, logger: logger}, nil
}

func (p *GeminiProvider) Model(cfg ModelConfig) Model {
	return &geminiModel{client: p.client, cfg: cfg, logger: p.logger}
}

func (p *GeminiProvider) Close() error {
	return nil
}

type geminiModel struct {
	client *genai.Client
	cfg    ModelConfig
	logger *zap.Logger
}

func (m *geminiModel) Config() ModelConfig {
	return m.cfg
}

func (m *geminiModel) Invoke(ctx context.Context, messages []Message) (string, error) {
	system, rest := splitMessages(messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, msg := range rest {
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(m.cfg.Temperature)),
	}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.cfg.Name, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return resp.Text(), nil
}
