package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// AllAIProviders returns the selectable providers in menu order.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels maps each provider to its standard
// embedding model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each provider to its standard completion
// model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions maps known embedding models to their vector
// dimensions. Models absent from the map fall back to the adapter's
// provider default.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"all-minilm":             384,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}

// AISettings holds provider configuration for the embedding and
// completion capabilities.
type AISettings struct {
	// EmbeddingProvider generates chunk and keyword vectors.
	EmbeddingProvider AIProvider

	// EmbeddingModel is the provider-specific model name.
	EmbeddingModel string

	// LLMProvider drives keyword expansion, calibration and scoring.
	LLMProvider AIProvider

	// LLMModel is the provider-specific model name.
	LLMModel string

	// APIKey authenticates cloud providers.
	APIKey string

	// BaseURL overrides the provider endpoint (local gateways, Azure).
	BaseURL string
}

// DefaultAISettings returns the standard provider configuration:
// local embeddings, cloud completion.
func DefaultAISettings() AISettings {
	return AISettings{
		EmbeddingProvider: AIProviderOllama,
		EmbeddingModel:    "all-minilm",
		LLMProvider:       AIProviderOpenAI,
		LLMModel:          "gpt-4o-mini",
	}
}

// EmbeddingConfigured reports whether the embedding capability has a
// usable provider, model and credentials.
func (s AISettings) EmbeddingConfigured() bool {
	if !s.EmbeddingProvider.IsValid() || s.EmbeddingModel == "" {
		return false
	}
	return !s.EmbeddingProvider.RequiresAPIKey() || s.APIKey != ""
}

// LLMConfigured reports whether the completion capability has a usable
// provider, model and credentials.
func (s AISettings) LLMConfigured() bool {
	if !s.LLMProvider.IsValid() || s.LLMModel == "" {
		return false
	}
	return !s.LLMProvider.RequiresAPIKey() || s.APIKey != ""
}

// Validate checks provider names and key requirements.
func (s AISettings) Validate() error {
	if !s.EmbeddingProvider.IsValid() || !s.LLMProvider.IsValid() {
		return ErrInvalidInput
	}
	if s.EmbeddingModel == "" || s.LLMModel == "" {
		return ErrInvalidInput
	}
	if (s.EmbeddingProvider.RequiresAPIKey() || s.LLMProvider.RequiresAPIKey()) && s.APIKey == "" {
		return ErrInvalidInput
	}
	return nil
}

// PipelineSettings bound the retrieval-and-calibration pipeline.
type PipelineSettings struct {
	// MaxChunkLen is the chunk length ceiling in characters.
	MaxChunkLen int

	// UseTopicSegmentation enables topic-boundary chunk breaks.
	UseTopicSegmentation bool

	// Retrieval bounds the chunk-to-dimension mapping.
	Retrieval RetrievalOptions

	// TotalScore is the theoretical score range upper bound.
	TotalScore float64

	// BandWidth is the calibration band width.
	BandWidth float64

	// ReviewThreshold is the relative difference at which a record is
	// flagged for review.
	ReviewThreshold float64

	// Workers caps concurrent submission pipelines.
	Workers int
}

// DefaultPipelineSettings returns the standard pipeline bounds.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		MaxChunkLen:          1200,
		UseTopicSegmentation: false,
		Retrieval:            DefaultRetrievalOptions(),
		TotalScore:           30,
		BandWidth:            2.5,
		ReviewThreshold:      0.2,
		Workers:              4,
	}
}

// Validate checks the settings for values the pipeline cannot run with.
func (s PipelineSettings) Validate() error {
	if s.MaxChunkLen <= 0 {
		return ErrInvalidInput
	}
	if s.Retrieval.TopK <= 0 || s.Retrieval.MaxChunksPerDimension <= 0 {
		return ErrInvalidInput
	}
	if s.Retrieval.Threshold < 0 || s.Retrieval.Threshold > 1 {
		return ErrInvalidInput
	}
	if s.BandWidth <= 0 || s.TotalScore <= 0 {
		return ErrInvalidInput
	}
	if s.ReviewThreshold < 0 {
		return ErrInvalidInput
	}
	return nil
}
