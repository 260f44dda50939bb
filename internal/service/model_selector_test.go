package service

import (
	"testing"

	"ritcompass/internal/llm"

	"github.com/stretchr/testify/assert"
)

func TestSelectModel(t *testing.T) {
	models := llm.Models{
		Strict: newFakeModel(llm.StrictConfig("strict")),
		Free:   newFakeModel(llm.FreeConfig("free")),
	}

	tests := []struct {
		name       string
		categories []string
		want       llm.Mode
	}{
		{name: "nil set", categories: nil, want: llm.ModeFree},
		{name: "empty set", categories: []string{}, want: llm.ModeFree},
		{name: "one category", categories: []string{"scholarship"}, want: llm.ModeStrict},
		{name: "many categories", categories: []string{"scholarship", "housing"}, want: llm.ModeStrict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectModel(tt.categories, models).Config().Mode)
		})
	}
}

func TestModelConfigs(t *testing.T) {
	assert.Equal(t, 0.0, llm.StrictConfig("m").Temperature)
	assert.Equal(t, 1.0, llm.FreeConfig("m").Temperature)
}
