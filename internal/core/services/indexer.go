package services

import (
	"context"
	"fmt"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Indexer builds the rubric dimension index from rubric keywords.
// Building is a one-shot batch: every dimension's keyword phrases are
// embedded, mean-pooled and handed to the index together. A failure
// anywhere leaves the previous index untouched.
type Indexer struct {
	embedding driven.EmbeddingService
	index     driven.RubricIndex
	artifacts driven.ArtifactStore
}

// NewIndexer creates an indexer.
func NewIndexer(embedding driven.EmbeddingService, index driven.RubricIndex, artifacts driven.ArtifactStore) *Indexer {
	return &Indexer{
		embedding: embedding,
		index:     index,
		artifacts: artifacts,
	}
}

// Build embeds the rubric's dimensions and rebuilds the index. The
// dimension embedding is the mean over its keyword phrase vectors;
// dimensions without keywords fall back to embedding the dimension
// name. The rubric with its embeddings is persisted as an artifact so
// the index can be rebuilt without re-embedding.
func (ix *Indexer) Build(ctx context.Context, rubric *domain.Rubric) (int, error) {
	if rubric == nil || len(rubric.Dimensions) == 0 {
		return 0, fmt.Errorf("build index: empty rubric: %w", domain.ErrInvalidInput)
	}

	if err := ix.embedding.Ping(ctx); err != nil {
		return 0, fmt.Errorf("build index: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	entries := make([]driven.DimensionEmbedding, 0, len(rubric.Dimensions))
	for _, dim := range rubric.Dimensions {
		phrases := dim.Keywords
		if len(phrases) == 0 {
			phrases = []string{dim.Name}
		}

		vectors, err := ix.embedding.EmbedBatch(ctx, phrases)
		if err != nil {
			return 0, fmt.Errorf("embed dimension %q: %w", dim.ID, err)
		}
		pooled, err := MeanPool(vectors)
		if err != nil {
			return 0, fmt.Errorf("pool dimension %q: %w", dim.ID, err)
		}

		entries = append(entries, driven.DimensionEmbedding{
			DimensionID: dim.ID,
			Embedding:   pooled,
		})
		logger.Debug("Embedded dimension %s over %d phrases", dim.ID, len(phrases))
	}

	if err := ix.index.Build(ctx, entries); err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}

	key := fmt.Sprintf("%d", rubric.AssignmentID)
	if err := ix.artifacts.Save(driven.ArtifactRubric, key, rubric); err != nil {
		return 0, fmt.Errorf("save rubric artifact: %w", err)
	}

	logger.Info("Rubric index built: %d dimensions", len(entries))
	return len(entries), nil
}
