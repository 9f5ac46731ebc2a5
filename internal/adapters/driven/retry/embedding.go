package retry

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService wraps an embedding service with rate limiting and
// bounded retries.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	policy  Policy
	limiter *rate.Limiter
}

// NewEmbeddingService decorates the given embedding service.
func NewEmbeddingService(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	return &EmbeddingService{
		inner:   inner,
		policy:  cfg.Policy.normalise(),
		limiter: newLimiter(cfg),
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var result []float32
	err := s.policy.do(ctx, "embed", func(ctx context.Context) error {
		if err := s.wait(ctx); err != nil {
			return err
		}
		var err error
		result, err = s.inner.Embed(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EmbedBatch generates embeddings for multiple texts. One rate-limit
// token covers the whole batch; the provider sees a single request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	err := s.policy.do(ctx, "embed batch", func(ctx context.Context) error {
		if err := s.wait(ctx); err != nil {
			return err
		}
		var err error
		result, err = s.inner.EmbedBatch(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the service is reachable. Health checks are not
// retried; the caller wants the current answer.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}

func (s *EmbeddingService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
