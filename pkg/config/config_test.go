package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_STRICT_MODEL", "")
	t.Setenv("LLM_CALL_TIMEOUT", "")
	t.Setenv("KNOWLEDGE_SOURCE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gigachat", cfg.LLM.Provider)
	assert.Equal(t, "GigaChat", cfg.LLM.StrictModel)
	assert.Equal(t, 60*time.Second, cfg.LLM.CallTimeout)
	assert.Equal(t, "file", cfg.Knowledge.Source)
	assert.Equal(t, "RITCompass", cfg.LLM.AssistantName)
}

func TestLoad_ProviderDefaultModel(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_STRICT_MODEL", "")
	t.Setenv("LLM_FREE_MODEL", "custom-free")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.StrictModel)
	assert.Equal(t, "custom-free", cfg.LLM.FreeModel)
}

func TestLoad_CallTimeout(t *testing.T) {
	t.Setenv("LLM_CALL_TIMEOUT", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.LLM.CallTimeout)
}
