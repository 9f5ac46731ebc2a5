package driving

import (
	"context"
	"io"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// MarkingService reconciles automated and human scores and drives
// the review workflow over a course's marking sheet.
type MarkingService interface {
	// RecordAIScore upserts the automated score for one submission
	// and reconciles the record.
	RecordAIScore(ctx context.Context, key domain.CourseKey, score ScoreUpdate) (*domain.MarkingRecord, error)

	// RecordTutorScore upserts the human score for one submission
	// and reconciles the record.
	RecordTutorScore(ctx context.Context, key domain.CourseKey, score ScoreUpdate) (*domain.MarkingRecord, error)

	// ReconcileAll recomputes difference and review flags for every
	// record in the sheet. Replays are idempotent.
	ReconcileAll(ctx context.Context, key domain.CourseKey) (int, error)

	// List returns the sheet's records, optionally only those
	// flagged for review.
	List(ctx context.Context, key domain.CourseKey, needingReviewOnly bool) ([]domain.MarkingRecord, error)

	// SetReviewStatus moves a record through the review workflow and
	// re-reconciles it. Terminal statuses permanently clear the
	// review flag.
	SetReviewStatus(ctx context.Context, key domain.CourseKey, zid string, assignmentID *int64, status, comments string) error

	// ExportCSV writes the sheet as CSV with one column per rubric
	// dimension for each of the tutor and AI details.
	ExportCSV(ctx context.Context, key domain.CourseKey, w io.Writer) error
}

// ScoreUpdate carries one side's scores for a submission.
type ScoreUpdate struct {
	// ZID is the student identifier.
	ZID string

	// AssignmentID qualifies the record; nil means unqualified.
	AssignmentID *int64

	// StudentName is the display name, kept when non-empty.
	StudentName string

	// Assignment is the assignment's display label, kept when
	// non-empty.
	Assignment string

	// Detail holds per-dimension scores.
	Detail map[string]domain.DimensionMark

	// Total is the overall score.
	Total float64

	// Feedback is the overall commentary.
	Feedback string

	// MarkedBy records the writer, e.g. "ai" or a tutor name.
	MarkedBy string
}
