package ai

import (
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.AISettings) error {
	return ValidateEmbeddingConfig(settings)
}

// ValidateLLM validates an LLM configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(settings *domain.AISettings) error {
	return ValidateLLMConfig(settings)
}
