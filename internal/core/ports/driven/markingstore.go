package driven

import (
	"context"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// MarkingStore persists marking sheets, one per course offering.
// Writes replace the whole sheet atomically; a crashed write must
// never leave a truncated sheet behind.
type MarkingStore interface {
	// LoadSheet reads the sheet for a course offering. A missing
	// sheet returns an empty initialised sheet, not an error.
	LoadSheet(ctx context.Context, key domain.CourseKey) (*domain.MarkingSheet, error)

	// SaveSheet writes the sheet atomically.
	SaveSheet(ctx context.Context, key domain.CourseKey, sheet *domain.MarkingSheet) error

	// UpdateSheet loads the sheet, applies the mutation and writes
	// the sheet back as one critical section. Concurrent callers
	// serialise here and never lose each other's updates; a mutation
	// error aborts the write.
	UpdateSheet(ctx context.Context, key domain.CourseKey, mutate func(*domain.MarkingSheet) error) error

	// UpsertRecord loads the sheet, upserts one record by its
	// (zid, assignment_id) identity and writes the sheet back.
	UpsertRecord(ctx context.Context, key domain.CourseKey, rec domain.MarkingRecord) error

	// ListSheets returns the course keys of all stored sheets.
	ListSheets(ctx context.Context) ([]domain.CourseKey, error)
}
