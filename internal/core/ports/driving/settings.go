package driving

import "github.com/markwise-labs/markwise-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current AI and pipeline settings.
	Get() (*domain.AISettings, *domain.PipelineSettings, error)

	// SaveAI persists AI provider settings.
	SaveAI(settings *domain.AISettings) error

	// SavePipeline persists pipeline tuning settings.
	SavePipeline(settings *domain.PipelineSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that persisted settings are internally
	// consistent.
	Validate() error

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
