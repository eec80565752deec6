package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Party.Name = ""
	cfg.LLM.Provider = "carrier-pigeon"
	cfg.Retrieval.TopK = 0
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, errs, 4)
	assert.Contains(t, err.Error(), "4 configuration error(s)")
}

func TestValidateOpenAIRequiresAPIKey(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestValidateMilvusRequiresHost(t *testing.T) {
	cfg := Default()
	cfg.VectorDB.Provider = "milvus"
	cfg.VectorDB.Host = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host")
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
party:
  name: "Test Party"
retrieval:
  top_k: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Party", cfg.Party.Name)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	// Untouched fields keep their defaults.
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 50, cfg.Retrieval.MinContentLength)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("SPOKESBOT_PARTY_NAME", "Env Party")
	t.Setenv("SPOKESBOT_PORT", "9001")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Env Party", cfg.Party.Name)
	assert.Equal(t, 9001, cfg.Server.Port)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`retrieval: {top_k: -1}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
