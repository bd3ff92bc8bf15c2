package appconfig

import (
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	HTTPPort    string `ini:"http_port"`
	Database    string `ini:"database"`
	CorsOrigins string `ini:"cors_origins"`

	// LLMProvider selects the backing model family: "anthropic", "groq" or
	// "ollama".
	LLMProvider string `ini:"llm_provider"`

	AnthropicModel     string `ini:"anthropic_model"`
	AnthropicMiniModel string `ini:"anthropic_mini_model"`
	GroqModel          string `ini:"groq_model"`
	GroqMiniModel      string `ini:"groq_mini_model"`
	OllamaModel        string `ini:"ollama_model"`
	OllamaMiniModel    string `ini:"ollama_mini_model"`

	// VectorSearchEnabled adds the embedding leg to document retrieval.
	// Needs a running Ollama server for embeddings.
	VectorSearchEnabled bool `ini:"vector_search_enabled"`

	// TwoStageSynthesis enables the design-then-implement pipeline instead
	// of single-call synthesis.
	TwoStageSynthesis bool `ini:"two_stage_synthesis"`

	RetrievalTimeoutSeconds int `ini:"retrieval_timeout_seconds"`
	SessionTTLMinutes       int `ini:"session_ttl_minutes"`
}
