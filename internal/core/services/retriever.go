package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Retriever maps submission chunks onto rubric dimensions. Each chunk
// queries the rubric index for its nearest dimensions; the hits are
// inverted into per-dimension candidate lists, filtered by the
// similarity threshold, sorted and capped.
type Retriever struct {
	index driven.RubricIndex
}

// NewRetriever creates a retriever over a built rubric index.
func NewRetriever(index driven.RubricIndex) *Retriever {
	return &Retriever{index: index}
}

// Retrieve builds the evidence map for a set of embedded chunks.
// Every indexed dimension appears in the result, with an empty chunk
// list when nothing qualifies; downstream scoring treats missing
// evidence as an explicit condition, never as a zero. Candidate order
// is deterministic: descending similarity, ties broken by ascending
// chunk index.
func (r *Retriever) Retrieve(ctx context.Context, chunks []domain.Chunk, dimensionIDs []string, opts domain.RetrievalOptions) (map[string]domain.RetrievalResult, error) {
	if r.index.Len() == 0 {
		return nil, fmt.Errorf("retrieve: %w", domain.ErrIndexUnavailable)
	}

	candidates := make(map[string][]domain.ChunkScore)
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return nil, fmt.Errorf("retrieve: chunk %d has no embedding: %w", chunk.Index, domain.ErrInvalidInput)
		}
		hits, err := r.index.Query(ctx, chunk.Embedding, opts.TopK)
		if err != nil {
			return nil, fmt.Errorf("query chunk %d: %w", chunk.Index, err)
		}
		for _, hit := range hits {
			candidates[hit.DimensionID] = append(candidates[hit.DimensionID], domain.ChunkScore{
				ChunkIndex: chunk.Index,
				Score:      hit.Similarity,
			})
		}
	}

	results := make(map[string]domain.RetrievalResult, len(dimensionIDs))
	for _, dimID := range dimensionIDs {
		kept := make([]domain.ChunkScore, 0, len(candidates[dimID]))
		for _, cs := range candidates[dimID] {
			if cs.Score >= opts.Threshold {
				kept = append(kept, cs)
			}
		}

		sort.SliceStable(kept, func(i, j int) bool {
			if kept[i].Score != kept[j].Score {
				return kept[i].Score > kept[j].Score
			}
			return kept[i].ChunkIndex < kept[j].ChunkIndex
		})

		if len(kept) > opts.MaxChunksPerDimension {
			kept = kept[:opts.MaxChunksPerDimension]
		}

		results[dimID] = domain.RetrievalResult{
			DimensionID: dimID,
			Chunks:      kept,
		}
		logger.Debug("Dimension %s: %d evidence chunks", dimID, len(kept))
	}

	return results, nil
}

// ResolveText joins a retrieval map with chunk texts, producing the
// per-dimension evidence passages handed to the scorer.
func ResolveText(results map[string]domain.RetrievalResult, chunks []domain.Chunk) map[string][]string {
	byIndex := make(map[int]string, len(chunks))
	for _, c := range chunks {
		byIndex[c.Index] = c.Text
	}

	resolved := make(map[string][]string, len(results))
	for dimID, res := range results {
		texts := make([]string, 0, len(res.Chunks))
		for _, cs := range res.Chunks {
			if text, ok := byIndex[cs.ChunkIndex]; ok {
				texts = append(texts, text)
			}
		}
		resolved[dimID] = texts
	}
	return resolved
}
