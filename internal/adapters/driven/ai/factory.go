// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/markwise-labs/markwise-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/markwise-labs/markwise-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/markwise-labs/markwise-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/markwise-labs/markwise-cli/internal/adapters/driven/llm/openai"
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if a capability is unavailable.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// InitServices creates and validates both AI capabilities. A capability
// that fails stays nil and produces a warning rather than an error, so
// commands that only read stored results keep working without AI.
func InitServices(settings *domain.AISettings) *InitResult {
	result := &InitResult{}

	embedding, err := CreateAndValidateEmbeddingService(settings)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
	} else {
		result.EmbeddingService = embedding
	}

	llm, err := CreateAndValidateLLMService(settings)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
	} else {
		result.LLMService = llm
	}

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.AISettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.EmbeddingConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'markwise settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'markwise settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.AISettings) (driven.LLMService, error) {
	if settings == nil || !settings.LLMConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'markwise settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'markwise settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use in the settings commands to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.AISettings) error {
	if settings == nil || !settings.EmbeddingConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use in the settings commands to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.AISettings) error {
	if settings == nil || !settings.LLMConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.AISettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.EmbeddingConfigured() {
		return nil, nil
	}

	switch settings.EmbeddingProvider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.EmbeddingProvider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.AISettings) (driven.LLMService, error) {
	if settings == nil || !settings.LLMConfigured() {
		return nil, nil
	}

	switch settings.LLMProvider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.LLMProvider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.AISettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.EmbeddingModel]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.EmbeddingModel,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.AISettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.EmbeddingModel]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.EmbeddingModel,
		Dimensions: dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.AISettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.LLMModel,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.AISettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.LLMModel,
	})
}
