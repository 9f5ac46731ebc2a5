package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches files to extractors by extension.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string][]driven.TextExtractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byExt: make(map[string][]driven.TextExtractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// NewDefaultRegistry creates a registry with the local extractors.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewPlaintextExtractor(),
		NewDocxExtractor(),
		NewPDFExtractor(),
	)
}

// Register adds an extractor to the registry. On equal priority the
// earlier registration wins.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range extractor.SupportedExtensions() {
		ext = strings.ToLower(ext)
		candidates := append(r.byExt[ext], extractor)
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].Priority() > candidates[b].Priority()
		})
		r.byExt[ext] = candidates
	}
}

// Extract dispatches to the highest-priority extractor claiming the
// file's extension.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := normaliseExt(path)

	r.mu.RLock()
	candidates := r.byExt[ext]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return "", fmt.Errorf("no extractor for %q files: %w", ext, domain.ErrUnsupportedType)
	}
	return candidates[0].Extract(ctx, path)
}

// SupportedExtensions returns all extensions that can be extracted,
// sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// normaliseExt returns the lower-case extension without the dot.
func normaliseExt(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
