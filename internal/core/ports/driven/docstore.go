package driven

import (
	"context"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks replaces the stored chunks for a submission.
	SaveChunks(ctx context.Context, submissionID string, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a submission, ordered by
	// chunk index.
	GetChunks(ctx context.Context, submissionID string) ([]domain.Chunk, error)

	// ListDocuments returns documents of one kind, optionally
	// filtered by assignment. A nil assignmentID matches all.
	ListDocuments(ctx context.Context, kind domain.DocumentKind, assignmentID *int64) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
