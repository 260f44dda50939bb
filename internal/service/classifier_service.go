package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ritcompass/internal/knowledge"
	"ritcompass/internal/llm"

	"go.uber.org/zap"
)

// ClassifierService maps a user query onto knowledge base category keys using
// the deterministic model.
type ClassifierService struct {
	model       llm.Model
	instruction string
	logger      *zap.Logger
}

// NewClassifierService builds the taxonomy instruction once; the knowledge
// base never changes after startup.
func NewClassifierService(kb *knowledge.Base, model llm.Model, logger *zap.Logger) *ClassifierService {
	return &ClassifierService{
		model:       model,
		instruction: buildClassificationInstruction(kb),
		logger:      logger,
	}
}

func buildClassificationInstruction(kb *knowledge.Base) string {
	var categories strings.Builder
	for i, rec := range kb.Categories() {
		if i > 0 {
			categories.WriteString("\n")
		}
		categories.WriteString(fmt.Sprintf("- %s: [%s]", rec.Key, strings.Join(rec.Keywords, ", ")))
	}

	return fmt.Sprintf(`You are an intelligent assistant that helps categorize user queries into predefined topics.

You have the following categories and their associated keywords:

%s

Your task is to analyze the user query and determine which category (or multiple categories) it belongs to.
If the query fits multiple categories, return all relevant ones.

Return the category key(s) as a JSON array, for example:

["scholarship", "gym_membership"]

If the query does not match any category, return an empty array:

[]

Return only the JSON array, without markdown or any other text.
Now, analyze the following user query and provide the appropriate categories.`, categories.String())
}

// Instruction returns the system instruction sent to the classifier model.
func (s *ClassifierService) Instruction() string {
	return s.instruction
}

// Classify returns the matched category keys, deduplicated in first-seen
// order. An empty result means no category matched.
func (s *ClassifierService) Classify(ctx context.Context, query string) ([]string, error) {
	raw, err := s.model.Invoke(ctx, []llm.Message{
		llm.SystemMessage(s.instruction),
		llm.HumanMessage(query),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	categories, err := parseCategories(raw)
	if err != nil {
		s.logger.Error("Classifier returned malformed output",
			zap.String("query", query),
			zap.String("raw_output", raw),
			zap.Error(err),
		)
		return nil, err
	}

	return categories, nil
}

// parseCategories decodes raw strictly as a JSON array of strings.
func parseCategories(raw string) ([]string, error) {
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassificationParse, err)
	}
	if keys == nil {
		// literal null
		return nil, fmt.Errorf("%w: got null", ErrClassificationParse)
	}

	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}
