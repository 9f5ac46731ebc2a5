package driving

import (
	"context"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// ScoringService produces automated per-dimension scores for
// processed submissions, guided by the rubric and any learned
// calibration style.
type ScoringService interface {
	// ScoreSubmission scores one processed submission against the
	// assignment's rubric, using its persisted evidence map. A
	// dimension with no qualifying evidence is scored through the
	// explicit no-evidence path, never silently zeroed.
	ScoreSubmission(ctx context.Context, key domain.CourseKey, submissionID string) (*domain.MarkingRecord, error)

	// ScoreBatch scores every processed submission for an assignment,
	// skipping those that already carry an AI total. Failures are
	// collected per submission; the batch continues.
	ScoreBatch(ctx context.Context, key domain.CourseKey, assignmentID int64) (*ScoreReport, error)
}

// ScoreReport summarises a batch scoring run.
type ScoreReport struct {
	// Scored counts newly scored submissions.
	Scored int

	// Skipped counts submissions that already had an AI total.
	Skipped int

	// Failed lists submissions that errored.
	Failed []BatchFailure
}
