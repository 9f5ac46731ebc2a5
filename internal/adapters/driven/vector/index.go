// Package vector provides a flat cosine-similarity index over rubric
// dimension embeddings. Dimension sets are small (rarely more than a
// few dozen per rubric), so an exact linear scan beats an approximate
// structure on both accuracy and simplicity.
package vector

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.RubricIndex = (*Index)(nil)

// Index is an exact nearest-neighbour index over dimension embeddings.
// Build replaces the whole contents atomically; Query never observes a
// partially built index.
type Index struct {
	mu      sync.RWMutex
	path    string
	dims    int
	ids     []string
	vectors [][]float32
	norms   []float64
	built   bool
}

// snapshot is the on-disk representation.
type snapshot struct {
	Dims    int
	IDs     []string
	Vectors [][]float32
}

// NewIndex creates an index. When path is non-empty a previously
// persisted index is loaded from it and later builds are written back,
// so retrieval works across process restarts. An empty path keeps the
// index in memory only.
func NewIndex(path string) (*Index, error) {
	ix := &Index{path: path}

	if path == "" {
		return ix, nil
	}
	if err := ix.load(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Build replaces the index contents with the given entries. All entry
// vectors must share one dimensionality. On any failure the previous
// contents stay in place.
func (ix *Index) Build(ctx context.Context, entries []driven.DimensionEmbedding) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("build: no entries: %w", domain.ErrInvalidInput)
	}

	dims := len(entries[0].Embedding)
	if dims == 0 {
		return fmt.Errorf("build: empty vector for %q: %w", entries[0].DimensionID, domain.ErrDimensionMismatch)
	}

	ids := make([]string, len(entries))
	vectors := make([][]float32, len(entries))
	norms := make([]float64, len(entries))
	for i, entry := range entries {
		if len(entry.Embedding) != dims {
			return fmt.Errorf("build: vector for %q has %d dims, want %d: %w",
				entry.DimensionID, len(entry.Embedding), dims, domain.ErrDimensionMismatch)
		}
		ids[i] = entry.DimensionID
		vectors[i] = append([]float32(nil), entry.Embedding...)
		norms[i] = norm(entry.Embedding)
	}

	if ix.path != "" {
		if err := ix.persist(snapshot{Dims: dims, IDs: ids, Vectors: vectors}); err != nil {
			return fmt.Errorf("persist index: %w", err)
		}
	}

	ix.mu.Lock()
	ix.dims = dims
	ix.ids = ids
	ix.vectors = vectors
	ix.norms = norms
	ix.built = true
	ix.mu.Unlock()

	return nil
}

// Query returns the k nearest dimensions to the query vector by cosine
// similarity, most similar first. Equal similarities keep build order.
func (ix *Index) Query(ctx context.Context, query []float32, k int) ([]driven.DimensionHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.built {
		return nil, domain.ErrIndexUnavailable
	}
	if len(query) != ix.dims {
		return nil, fmt.Errorf("query has %d dims, index has %d: %w",
			len(query), ix.dims, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, fmt.Errorf("query: k must be positive: %w", domain.ErrInvalidInput)
	}

	queryNorm := norm(query)
	hits := make([]driven.DimensionHit, len(ix.ids))
	for i, vec := range ix.vectors {
		hits[i] = driven.DimensionHit{
			DimensionID: ix.ids[i],
			Similarity:  cosine(query, queryNorm, vec, ix.norms[i]),
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed dimensions, zero when unbuilt.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if !ix.built {
		return 0
	}
	return len(ix.ids)
}

// Close releases resources.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.ids = nil
	ix.vectors = nil
	ix.norms = nil
	ix.built = false
	return nil
}

// load restores a persisted snapshot, if any.
func (ix *Index) load() error {
	f, err := os.Open(ix.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("decode index %s: %w", ix.path, err)
	}

	norms := make([]float64, len(snap.Vectors))
	for i, vec := range snap.Vectors {
		norms[i] = norm(vec)
	}

	ix.dims = snap.Dims
	ix.ids = snap.IDs
	ix.vectors = snap.Vectors
	ix.norms = norms
	ix.built = len(snap.IDs) > 0
	return nil
}

// persist writes the snapshot next to the target path and renames it
// into place, so a crash mid-write never leaves a truncated index.
func (ix *Index) persist(snap snapshot) error {
	dir := filepath.Dir(ix.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(ix.path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, ix.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}
