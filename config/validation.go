package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateParty()...)
	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateEmbedding()...)
	errs = append(errs, c.validateVectorDB()...)
	errs = append(errs, c.validateRetrieval()...)
	errs = append(errs, c.validateServer()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateParty() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(c.Party.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "party.name",
			Message: "party name is required",
		})
	}
	return errs
}

func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors

	switch c.LLM.Provider {
	case "ollama", "openai":
	case "":
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: "llm provider is required",
		})
	default:
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown llm provider %q (expected ollama or openai)", c.LLM.Provider),
		})
	}

	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.model",
			Message: "llm model is required",
		})
	}

	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.api_key",
			Message: "api key is required for the openai provider",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: fmt.Sprintf("llm.temperature must be in [0, 2], got %.2f", c.LLM.Temperature),
		})
	}

	if c.LLM.TopP < 0 || c.LLM.TopP > 1 {
		errs = append(errs, ValidationError{
			Field:   "llm.top_p",
			Message: fmt.Sprintf("llm.top_p must be in [0, 1], got %.2f", c.LLM.TopP),
		})
	}

	return errs
}

func (c *Config) validateEmbedding() ValidationErrors {
	var errs ValidationErrors

	if c.Embedding.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: "embedding provider is required",
		})
	}

	if c.Embedding.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "embedding.model",
			Message: "embedding model is required",
		})
	}

	if c.Embedding.Dimensions <= 0 {
		errs = append(errs, ValidationError{
			Field:   "embedding.dimensions",
			Message: fmt.Sprintf("embedding dimensions must be positive, got %d", c.Embedding.Dimensions),
		})
	}

	return errs
}

func (c *Config) validateVectorDB() ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(c.VectorDB.Provider) {
	case "milvus":
		if c.VectorDB.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.host",
				Message: "vectordb host is required for the milvus provider",
			})
		}
		if c.VectorDB.Collection == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.collection",
				Message: "collection name is required for the milvus provider",
			})
		}
	case "memory":
	case "":
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: "vectordb provider is required",
		})
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: fmt.Sprintf("unknown vectordb provider %q (expected milvus or memory)", c.VectorDB.Provider),
		})
	}

	return errs
}

func (c *Config) validateRetrieval() ValidationErrors {
	var errs ValidationErrors

	if c.Retrieval.TopK <= 0 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.top_k",
			Message: fmt.Sprintf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK),
		})
	}

	if c.Retrieval.TopK > 100 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.top_k",
			Message: fmt.Sprintf("retrieval.top_k %d is too large (max recommended: 100)", c.Retrieval.TopK),
		})
	}

	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.threshold",
			Message: fmt.Sprintf("retrieval.threshold must be in [0, 1], got %.2f", c.Retrieval.Threshold),
		})
	}

	if c.Retrieval.MinContentLength < 0 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.min_content_length",
			Message: fmt.Sprintf("retrieval.min_content_length must be non-negative, got %d", c.Retrieval.MinContentLength),
		})
	}

	if c.Retrieval.Splitter.ChunkOverlap >= c.Retrieval.Splitter.ChunkSize && c.Retrieval.Splitter.ChunkSize > 0 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.splitter.chunk_overlap",
			Message: fmt.Sprintf("chunk_overlap %d must be smaller than chunk_size %d", c.Retrieval.Splitter.ChunkOverlap, c.Retrieval.Splitter.ChunkSize),
		})
	}

	return errs
}

func (c *Config) validateServer() ValidationErrors {
	var errs ValidationErrors

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("server.port must be in [1, 65535], got %d", c.Server.Port),
		})
	}

	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_per_minute",
			Message: fmt.Sprintf("rate_limit_per_minute must be non-negative, got %d", c.Server.RateLimitPerMinute),
		})
	}

	if c.Server.MaxQuestionLength <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_question_length",
			Message: fmt.Sprintf("max_question_length must be positive, got %d", c.Server.MaxQuestionLength),
		})
	}

	return errs
}
