package service

import "ritcompass/internal/llm"

// SelectModel picks the extraction model. A query that matched no category
// goes to the free model for an open-ended answer; anything else needs the
// strict model for schema compliance.
func SelectModel(categories []string, models llm.Models) llm.Model {
	if len(categories) == 0 {
		return models.Free
	}
	return models.Strict
}
