package services

import (
	"fmt"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "ai.embedding.provider"
	keyEmbedModel    = "ai.embedding.model"
	keyLLMProvider   = "ai.llm.provider"
	keyLLMModel      = "ai.llm.model"
	keyAPIKey        = "ai.api_key"
	keyBaseURL       = "ai.base_url"

	keyMaxChunkLen     = "pipeline.max_chunk_len"
	keyTopicSegments   = "pipeline.topic_segmentation"
	keyRetrievalTopK   = "pipeline.retrieval.top_k"
	keyRetrievalCutoff = "pipeline.retrieval.threshold"
	keyRetrievalMax    = "pipeline.retrieval.max_chunks"
	keyTotalScore      = "pipeline.total_score"
	keyBandWidth       = "pipeline.band_width"
	keyReviewThreshold = "pipeline.review_threshold"
	keyPipelineWorkers = "pipeline.workers"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current AI and pipeline settings, filling gaps with
// defaults.
func (s *SettingsService) Get() (*domain.AISettings, *domain.PipelineSettings, error) {
	aiDefaults := domain.DefaultAISettings()
	ai := &domain.AISettings{
		EmbeddingProvider: s.getProvider(keyEmbedProvider, aiDefaults.EmbeddingProvider),
		EmbeddingModel:    s.getString(keyEmbedModel, aiDefaults.EmbeddingModel),
		LLMProvider:       s.getProvider(keyLLMProvider, aiDefaults.LLMProvider),
		LLMModel:          s.getString(keyLLMModel, aiDefaults.LLMModel),
		APIKey:            s.configStore.GetString(keyAPIKey),
		BaseURL:           s.configStore.GetString(keyBaseURL), // No default - empty is valid for cloud providers
	}

	pipeDefaults := domain.DefaultPipelineSettings()
	pipeline := &domain.PipelineSettings{
		MaxChunkLen:          s.getInt(keyMaxChunkLen, pipeDefaults.MaxChunkLen),
		UseTopicSegmentation: s.getBool(keyTopicSegments, pipeDefaults.UseTopicSegmentation),
		Retrieval: domain.RetrievalOptions{
			TopK:                  s.getInt(keyRetrievalTopK, pipeDefaults.Retrieval.TopK),
			Threshold:             s.getFloat(keyRetrievalCutoff, pipeDefaults.Retrieval.Threshold),
			MaxChunksPerDimension: s.getInt(keyRetrievalMax, pipeDefaults.Retrieval.MaxChunksPerDimension),
		},
		TotalScore:      s.getFloat(keyTotalScore, pipeDefaults.TotalScore),
		BandWidth:       s.getFloat(keyBandWidth, pipeDefaults.BandWidth),
		ReviewThreshold: s.getFloat(keyReviewThreshold, pipeDefaults.ReviewThreshold),
		Workers:         s.getInt(keyPipelineWorkers, pipeDefaults.Workers),
	}

	return ai, pipeline, nil
}

// SaveAI persists AI provider settings.
func (s *SettingsService) SaveAI(settings *domain.AISettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.EmbeddingProvider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.EmbeddingModel); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyLLMProvider, settings.LLMProvider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLMModel); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyBaseURL, settings.BaseURL); err != nil {
		return fmt.Errorf("save base_url: %w", err)
	}
	if settings.APIKey != "" {
		if err := s.configStore.Set(keyAPIKey, settings.APIKey); err != nil {
			return fmt.Errorf("save api_key: %w", err)
		}
	}
	return nil
}

// SavePipeline persists pipeline tuning settings.
func (s *SettingsService) SavePipeline(settings *domain.PipelineSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("pipeline settings: %w", err)
	}

	values := map[string]any{
		keyMaxChunkLen:     settings.MaxChunkLen,
		keyTopicSegments:   settings.UseTopicSegmentation,
		keyRetrievalTopK:   settings.Retrieval.TopK,
		keyRetrievalCutoff: settings.Retrieval.Threshold,
		keyRetrievalMax:    settings.Retrieval.MaxChunksPerDimension,
		keyTotalScore:      settings.TotalScore,
		keyBandWidth:       settings.BandWidth,
		keyReviewThreshold: settings.ReviewThreshold,
		keyPipelineWorkers: settings.Workers,
	}
	for key, value := range values {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	ai, _, err := s.Get()
	if err != nil {
		return err
	}

	ai.EmbeddingProvider = provider
	ai.EmbeddingModel = model
	if model == "" {
		ai.EmbeddingModel = domain.DefaultEmbeddingModels()[provider]
	}
	if apiKey != "" {
		ai.APIKey = apiKey
	}
	s.applyBaseURL(ai, provider)

	return s.SaveAI(ai)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	ai, _, err := s.Get()
	if err != nil {
		return err
	}

	ai.LLMProvider = provider
	ai.LLMModel = model
	if model == "" {
		ai.LLMModel = domain.DefaultLLMModels()[provider]
	}
	if apiKey != "" {
		ai.APIKey = apiKey
	}
	s.applyBaseURL(ai, provider)

	return s.SaveAI(ai)
}

// Validate checks that persisted settings are internally consistent.
func (s *SettingsService) Validate() error {
	ai, pipeline, err := s.Get()
	if err != nil {
		return err
	}
	if err := ai.Validate(); err != nil {
		return fmt.Errorf("ai settings: %w", err)
	}
	if err := pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline settings: %w", err)
	}
	return nil
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	ai, _, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ai)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	ai, _, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ai)
}

// applyBaseURL sets the endpoint appropriate for the provider kind.
// Local providers need a reachable gateway; cloud providers use their
// published endpoint unless overridden.
func (s *SettingsService) applyBaseURL(ai *domain.AISettings, provider domain.AIProvider) {
	if provider.IsLocal() {
		if ai.BaseURL == "" {
			ai.BaseURL = "http://localhost:11434"
		}
		return
	}
	ai.BaseURL = ""
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getProvider(key string, fallback domain.AIProvider) domain.AIProvider {
	if v := s.configStore.GetString(key); v != "" {
		p := domain.AIProvider(v)
		if p.IsValid() {
			return p
		}
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return fallback
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return fallback
}

func (s *SettingsService) getBool(key string, fallback bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return fallback
}
