package driven

import "github.com/markwise-labs/markwise-cli/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateEmbedding validates the embedding configuration by pinging the provider.
	// Returns nil if the configuration is valid or not configured.
	ValidateEmbedding(settings *domain.AISettings) error

	// ValidateLLM validates the LLM configuration by pinging the provider.
	// Returns nil if the configuration is valid or not configured.
	ValidateLLM(settings *domain.AISettings) error
}
