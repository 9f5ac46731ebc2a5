package services

import (
	"context"
	"fmt"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// MeanPool averages a set of vectors into one. All vectors must share
// a length; mismatches return domain.ErrDimensionMismatch. Pooling a
// dimension's keyword phrase vectors gives the dimension one stable
// position in embedding space.
func MeanPool(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("mean pool: %w", domain.ErrInvalidInput)
	}
	dim := len(vectors[0])
	pooled := make([]float32, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("mean pool: vector length %d != %d: %w", len(v), dim, domain.ErrDimensionMismatch)
		}
		for i, x := range v {
			pooled[i] += x
		}
	}
	n := float32(len(vectors))
	for i := range pooled {
		pooled[i] /= n
	}
	return pooled, nil
}

// EmbedChunks embeds chunk texts in one batch and attaches the
// vectors to the chunks in place.
func EmbedChunks(ctx context.Context, svc driven.EmbeddingService, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := svc.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed chunks: got %d vectors for %d chunks: %w", len(vectors), len(chunks), domain.ErrDimensionMismatch)
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}
