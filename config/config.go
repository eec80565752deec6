// Package config holds the service configuration, loaded from YAML with
// environment overrides.
package config

// Config is the root configuration for the spokesbot service.
type Config struct {
	Party     PartyConfig       `json:"party" yaml:"party"`
	LLM       LLMConfig         `json:"llm" yaml:"llm"`
	Embedding EmbeddingConfig   `json:"embedding" yaml:"embedding"`
	VectorDB  VectorDBConfig    `json:"vectordb" yaml:"vectordb"`
	Retrieval RetrievalConfig   `json:"retrieval" yaml:"retrieval"`
	Corpus    CorpusConfig      `json:"corpus" yaml:"corpus"`
	Server    ServerConfig      `json:"server" yaml:"server"`
	Cache     CacheConfig       `json:"cache" yaml:"cache"`
	HTTP      *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
}

// PartyConfig names the party the bot speaks for.
type PartyConfig struct {
	Name    string `json:"name" yaml:"name"`
	BotName string `json:"bot_name" yaml:"bot_name"`
}

// LLMConfig defines the text-generation backend.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: ollama, openai
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	TopK        int     `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// GenerateTimeoutSeconds bounds a single generation round-trip.
	GenerateTimeoutSeconds int `json:"generate_timeout_seconds,omitempty" yaml:"generate_timeout_seconds,omitempty"`
	// TagsTimeoutSeconds bounds the model availability check.
	TagsTimeoutSeconds int `json:"tags_timeout_seconds,omitempty" yaml:"tags_timeout_seconds,omitempty"`
	// PullTimeoutSeconds bounds a best-effort model pull.
	PullTimeoutSeconds int `json:"pull_timeout_seconds,omitempty" yaml:"pull_timeout_seconds,omitempty"`
}

// EmbeddingConfig defines the embedding backend.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: ollama, openai
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// VectorDBConfig defines the vector index backend.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: milvus, memory
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
}

// RetrievalConfig tunes the retrieval ladder.
type RetrievalConfig struct {
	TopK      int     `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	// MinContentLength excludes noise fragments from results.
	MinContentLength int `json:"min_content_length,omitempty" yaml:"min_content_length,omitempty"`
	// MinViable is the result count below which the original question is
	// retried alongside the expanded one.
	MinViable int `json:"min_viable,omitempty" yaml:"min_viable,omitempty"`
	// ExtendedRecall enables the per-keyword recall searches.
	ExtendedRecall bool           `json:"extended_recall" yaml:"extended_recall"`
	Splitter       SplitterConfig `json:"splitter" yaml:"splitter"`
}

// SplitterConfig defines document splitter configuration.
type SplitterConfig struct {
	Provider     string `json:"provider" yaml:"provider"` // Available options: recursive, token
	ChunkSize    int    `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty" yaml:"chunk_overlap,omitempty"`
}

// CorpusConfig points at the document directories ingested at startup.
type CorpusConfig struct {
	PlatformDir string `json:"platform_dir" yaml:"platform_dir"`
	HistoryDir  string `json:"history_dir,omitempty" yaml:"history_dir,omitempty"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Host               string `json:"host,omitempty" yaml:"host,omitempty"`
	Port               int    `json:"port,omitempty" yaml:"port,omitempty"`
	RateLimitPerMinute int    `json:"rate_limit_per_minute,omitempty" yaml:"rate_limit_per_minute,omitempty"`
	MaxQuestionLength  int    `json:"max_question_length,omitempty" yaml:"max_question_length,omitempty"`
}

// CacheConfig controls the answer cache.
type CacheConfig struct {
	Enable     bool `json:"enable" yaml:"enable"`
	MaxEntries int  `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int  `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// HTTPClientConfig tunes the outbound HTTP client.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
}

// Default returns the configuration used when no file is provided, matching
// a local Ollama deployment.
func Default() *Config {
	return &Config{
		Party: PartyConfig{
			Name:    "Democratic Republicans",
			BotName: "Democratic Republican SpokesBot",
		},
		LLM: LLMConfig{
			Provider:               "ollama",
			BaseURL:                "http://localhost:11434",
			Model:                  "qwen3:0.6b",
			Temperature:            0.4,
			TopP:                   0.9,
			TopK:                   40,
			GenerateTimeoutSeconds: 60,
			TagsTimeoutSeconds:     10,
			PullTimeoutSeconds:     300,
		},
		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			BaseURL:    "http://localhost:11434",
			Model:      "qwen3-embedding:0.6b",
			Dimensions: 1024,
		},
		VectorDB: VectorDBConfig{
			Provider:   "memory",
			Collection: "spokesbot_passages",
		},
		Retrieval: RetrievalConfig{
			TopK:             8,
			MinContentLength: 50,
			MinViable:        3,
			ExtendedRecall:   true,
			Splitter: SplitterConfig{
				Provider:     "recursive",
				ChunkSize:    2000,
				ChunkOverlap: 200,
			},
		},
		Corpus: CorpusConfig{
			PlatformDir: "data/platform",
			HistoryDir:  "data/history",
		},
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8000,
			RateLimitPerMinute: 10,
			MaxQuestionLength:  1000,
		},
		Cache: CacheConfig{
			Enable:     true,
			MaxEntries: 500,
			TTLSeconds: 300,
		},
	}
}
