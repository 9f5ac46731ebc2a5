package driven

import "context"

// DimensionEmbedding pairs a rubric dimension with its embedding.
type DimensionEmbedding struct {
	// DimensionID identifies the rubric dimension.
	DimensionID string

	// Embedding is the mean-pooled vector over the dimension's
	// keyword phrases.
	Embedding []float32
}

// DimensionHit is a similarity search result.
type DimensionHit struct {
	// DimensionID is the matched rubric dimension.
	DimensionID string

	// Similarity is the cosine similarity score.
	Similarity float64
}

// RubricIndex provides similarity search over rubric dimension
// embeddings. The index is built in one shot from the full dimension
// set and swapped in atomically; there is no incremental insert, and
// a failed build leaves any previous index untouched.
type RubricIndex interface {
	// Build replaces the index contents with the given entries.
	// Returns domain.ErrDimensionMismatch when entry vectors disagree
	// in length.
	Build(ctx context.Context, entries []DimensionEmbedding) error

	// Query finds the k nearest dimensions to the query vector.
	// Returns domain.ErrIndexUnavailable before the first successful
	// Build.
	Query(ctx context.Context, query []float32, k int) ([]DimensionHit, error)

	// Len returns the number of indexed dimensions, zero when unbuilt.
	Len() int

	// Close releases resources.
	Close() error
}
