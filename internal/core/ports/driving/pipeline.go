package driving

import (
	"context"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// PipelineService runs the document processing pipeline: extract,
// normalise, chunk, embed, retrieve, persist.
type PipelineService interface {
	// ProcessRubric ingests a rubric document for an assignment:
	// clean, parse dimensions, expand keywords, embed and build the
	// rubric index. Rebuilding replaces the previous index atomically.
	ProcessRubric(ctx context.Context, path string, assignmentID int64) (*RubricReport, error)

	// ProcessSubmission runs one submission through the pipeline and
	// persists its evidence map. Fails with domain.ErrIndexUnavailable
	// when no rubric index exists for the assignment.
	ProcessSubmission(ctx context.Context, path string, assignmentID int64) (*SubmissionReport, error)

	// ProcessBatch processes every supported file in a directory.
	// Per-submission failures are collected, not fatal; the batch
	// continues and reports them.
	ProcessBatch(ctx context.Context, dir string, assignmentID int64) (*BatchReport, error)
}

// RubricReport summarises a rubric ingestion.
type RubricReport struct {
	// AssignmentID is the rubric's assignment.
	AssignmentID int64

	// Dimensions are the parsed rubric dimensions with expanded
	// keywords.
	Dimensions []domain.RubricDimension

	// IndexSize is the number of indexed dimensions.
	IndexSize int
}

// SubmissionReport summarises one processed submission.
type SubmissionReport struct {
	// SubmissionID is the stored document ID.
	SubmissionID string

	// StudentID is the student identifier parsed from the filename.
	StudentID string

	// Paragraphs is the cleaned paragraph count.
	Paragraphs int

	// Chunks is the chunk count.
	Chunks int

	// Evidence maps dimension ID to its retrieval result.
	Evidence map[string]domain.RetrievalResult
}

// BatchFailure records one submission that could not be processed.
type BatchFailure struct {
	// Path is the submission file.
	Path string

	// Err is the failure, kept as a string so reports serialise.
	Err string
}

// BatchReport summarises a directory run.
type BatchReport struct {
	// Processed counts successfully processed submissions.
	Processed int

	// Skipped counts files with unsupported extensions.
	Skipped int

	// Failed lists submissions that errored.
	Failed []BatchFailure
}

// JobRunner serialises assignment-level processing. A trigger while a
// job for the same assignment is running marks it to run again after;
// two jobs for one assignment never interleave.
type JobRunner interface {
	// Trigger requests processing for an assignment's upload
	// directory. Returns immediately; the job runs asynchronously.
	Trigger(assignmentID int64, dir string)

	// Wait blocks until all in-flight and queued jobs finish or the
	// context is cancelled.
	Wait(ctx context.Context) error
}
