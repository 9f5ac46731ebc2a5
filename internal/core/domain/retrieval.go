package domain

// ChunkScore pairs a chunk index with its similarity to a dimension.
type ChunkScore struct {
	// ChunkIndex identifies the chunk within its submission.
	ChunkIndex int `json:"chunk_index"`

	// Score is the cosine similarity (0-1).
	Score float64 `json:"score"`
}

// RetrievalResult is the ranked evidence list for one rubric dimension.
// Chunks are sorted descending by score, bounded by the retrieval
// options. An empty list means no chunk passed the threshold; downstream
// scoring must treat that as an explicit "no evidence" condition, not as
// a zero score.
type RetrievalResult struct {
	// DimensionID identifies the rubric dimension.
	DimensionID string `json:"dimension_id"`

	// Chunks is the ranked, bounded evidence list.
	Chunks []ChunkScore `json:"chunks"`
}

// HasEvidence returns true if at least one chunk qualified.
func (r RetrievalResult) HasEvidence() bool {
	return len(r.Chunks) > 0
}

// RetrievalOptions bound the chunk-to-dimension mapping.
type RetrievalOptions struct {
	// TopK is the number of nearest dimensions queried per chunk.
	TopK int

	// Threshold is the minimum cosine similarity for evidence.
	Threshold float64

	// MaxChunksPerDimension caps each dimension's evidence list.
	MaxChunksPerDimension int
}

// DefaultRetrievalOptions returns the standard retrieval bounds.
func DefaultRetrievalOptions() RetrievalOptions {
	return RetrievalOptions{
		TopK:                  3,
		Threshold:             0.35,
		MaxChunksPerDimension: 5,
	}
}
