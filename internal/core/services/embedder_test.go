package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

func TestMeanPool(t *testing.T) {
	t.Run("averages component-wise", func(t *testing.T) {
		pooled, err := MeanPool([][]float32{
			{1, 2, 3},
			{3, 4, 5},
		})
		require.NoError(t, err)
		assert.Equal(t, []float32{2, 3, 4}, pooled)
	})

	t.Run("single vector is its own mean", func(t *testing.T) {
		pooled, err := MeanPool([][]float32{{0.5, -0.5}})
		require.NoError(t, err)
		assert.Equal(t, []float32{0.5, -0.5}, pooled)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := MeanPool(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := MeanPool([][]float32{{1, 2}, {1, 2, 3}})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

// countingEmbedding fails on demand and records batch sizes.
type countingEmbedding struct {
	fakeEmbedding
	batches []int
	err     error
}

func (c *countingEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batches = append(c.batches, len(texts))
	if c.err != nil {
		return nil, c.err
	}
	return c.fakeEmbedding.EmbedBatch(ctx, texts)
}

func TestEmbedChunks(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches vectors in place", func(t *testing.T) {
		chunks := []domain.Chunk{
			{Index: 0, Text: "first"},
			{Index: 1, Text: "second"},
		}
		svc := &countingEmbedding{}
		require.NoError(t, EmbedChunks(ctx, svc, chunks))

		assert.Equal(t, []int{2}, svc.batches)
		for _, c := range chunks {
			assert.NotEmpty(t, c.Embedding)
		}
	})

	t.Run("no chunks means no call", func(t *testing.T) {
		svc := &countingEmbedding{}
		require.NoError(t, EmbedChunks(ctx, svc, nil))
		assert.Empty(t, svc.batches)
	})

	t.Run("propagates batch failure", func(t *testing.T) {
		svc := &countingEmbedding{err: errors.New("model offline")}
		err := EmbedChunks(ctx, svc, []domain.Chunk{{Index: 0, Text: "only"}})
		assert.ErrorContains(t, err, "model offline")
	})
}
