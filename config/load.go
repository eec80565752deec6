package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file layered over Default, then
// applies environment overrides. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file failed, err: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file failed, err: %w", err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides the settings most commonly varied between deployments.
func applyEnv(cfg *Config) {
	setString(&cfg.Party.Name, "SPOKESBOT_PARTY_NAME")
	setString(&cfg.LLM.Provider, "SPOKESBOT_LLM_PROVIDER")
	setString(&cfg.LLM.BaseURL, "SPOKESBOT_LLM_BASE_URL")
	setString(&cfg.LLM.APIKey, "SPOKESBOT_LLM_API_KEY")
	setString(&cfg.LLM.Model, "SPOKESBOT_LLM_MODEL")
	setString(&cfg.Embedding.Provider, "SPOKESBOT_EMBEDDING_PROVIDER")
	setString(&cfg.Embedding.BaseURL, "SPOKESBOT_EMBEDDING_BASE_URL")
	setString(&cfg.Embedding.APIKey, "SPOKESBOT_EMBEDDING_API_KEY")
	setString(&cfg.Embedding.Model, "SPOKESBOT_EMBEDDING_MODEL")
	setString(&cfg.VectorDB.Provider, "SPOKESBOT_VECTORDB_PROVIDER")
	setString(&cfg.VectorDB.Host, "SPOKESBOT_VECTORDB_HOST")
	setString(&cfg.VectorDB.Username, "SPOKESBOT_VECTORDB_USERNAME")
	setString(&cfg.VectorDB.Password, "SPOKESBOT_VECTORDB_PASSWORD")
	setString(&cfg.Corpus.PlatformDir, "SPOKESBOT_PLATFORM_DIR")
	setString(&cfg.Corpus.HistoryDir, "SPOKESBOT_HISTORY_DIR")
	setInt(&cfg.VectorDB.Port, "SPOKESBOT_VECTORDB_PORT")
	setInt(&cfg.Server.Port, "SPOKESBOT_PORT")
	setInt(&cfg.Server.RateLimitPerMinute, "SPOKESBOT_RATE_LIMIT_PER_MINUTE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
