package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	order     []string
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		s.order = append(s.order, doc.ID)
	}
	s.documents[doc.ID] = *doc
	return nil
}

// SaveChunks replaces the stored chunks for a submission.
func (s *DocumentStore) SaveChunks(_ context.Context, submissionID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)
	sort.Slice(copied, func(i, j int) bool { return copied[i].Index < copied[j].Index })
	s.chunks[submissionID] = copied
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunks retrieves all chunks for a submission, ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, submissionID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[submissionID]
	if !ok {
		return nil, nil
	}
	return chunks, nil
}

// ListDocuments returns documents of one kind in insertion order,
// optionally filtered by assignment.
func (s *DocumentStore) ListDocuments(
	_ context.Context,
	kind domain.DocumentKind,
	assignmentID *int64,
) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for _, id := range s.order {
		doc, ok := s.documents[id]
		if !ok || doc.Kind != kind {
			continue
		}
		if assignmentID != nil {
			if doc.AssignmentID == nil || *doc.AssignmentID != *assignmentID {
				continue
			}
		}
		result = append(result, doc)
	}
	return result, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.chunks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
