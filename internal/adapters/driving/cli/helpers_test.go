package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

// Mock services for command tests. Each records the last call and
// returns canned data unless a function field overrides it.

type mockPipelineService struct {
	lastPath         string
	lastAssignmentID int64
	rubricFn         func() (*driving.RubricReport, error)
	submissionFn     func() (*driving.SubmissionReport, error)
	batchFn          func() (*driving.BatchReport, error)
}

func (m *mockPipelineService) ProcessRubric(_ context.Context, path string, assignmentID int64) (*driving.RubricReport, error) {
	m.lastPath = path
	m.lastAssignmentID = assignmentID
	if m.rubricFn != nil {
		return m.rubricFn()
	}
	return &driving.RubricReport{
		AssignmentID: assignmentID,
		Dimensions: []domain.RubricDimension{
			{ID: "technical contents", Name: "technical contents", Keywords: []string{"architecture"}, MaxScore: 10},
		},
		IndexSize: 1,
	}, nil
}

func (m *mockPipelineService) ProcessSubmission(_ context.Context, path string, assignmentID int64) (*driving.SubmissionReport, error) {
	m.lastPath = path
	m.lastAssignmentID = assignmentID
	if m.submissionFn != nil {
		return m.submissionFn()
	}
	return &driving.SubmissionReport{
		SubmissionID: "sub-1",
		StudentID:    "z1234567",
		Paragraphs:   12,
		Chunks:       4,
		Evidence: map[string]domain.RetrievalResult{
			"technical contents": {DimensionID: "technical contents"},
		},
	}, nil
}

func (m *mockPipelineService) ProcessBatch(_ context.Context, dir string, assignmentID int64) (*driving.BatchReport, error) {
	m.lastPath = dir
	m.lastAssignmentID = assignmentID
	if m.batchFn != nil {
		return m.batchFn()
	}
	return &driving.BatchReport{Processed: 2, Skipped: 1}, nil
}

type mockScoringService struct {
	lastKey          domain.CourseKey
	lastSubmissionID string
	lastAssignmentID int64
	submissionFn     func() (*domain.MarkingRecord, error)
	batchFn          func() (*driving.ScoreReport, error)
}

func (m *mockScoringService) ScoreSubmission(_ context.Context, key domain.CourseKey, submissionID string) (*domain.MarkingRecord, error) {
	m.lastKey = key
	m.lastSubmissionID = submissionID
	if m.submissionFn != nil {
		return m.submissionFn()
	}
	total := 24.5
	return &domain.MarkingRecord{
		ZID:     "z1234567",
		AITotal: &total,
		AIDetail: map[string]domain.DimensionMark{
			"technical contents": {Score: 8, Feedback: "solid design"},
		},
	}, nil
}

func (m *mockScoringService) ScoreBatch(_ context.Context, key domain.CourseKey, assignmentID int64) (*driving.ScoreReport, error) {
	m.lastKey = key
	m.lastAssignmentID = assignmentID
	if m.batchFn != nil {
		return m.batchFn()
	}
	return &driving.ScoreReport{Scored: 3, Skipped: 1}, nil
}

type mockCalibrationService struct {
	lastKey   domain.CourseKey
	analyseFn func() (*driving.CalibrationReport, error)
	learnFn   func() ([]domain.StyleNote, error)
}

func (m *mockCalibrationService) Analyse(_ context.Context, key domain.CourseKey, _ *int64) (*driving.CalibrationReport, error) {
	m.lastKey = key
	if m.analyseFn != nil {
		return m.analyseFn()
	}
	return &driving.CalibrationReport{
		TotalScore: 30,
		BandWidth:  2.5,
		Bands: []domain.ScoreBand{
			{Index: 0, Low: 0, High: 2.5},
			{Index: 11, Low: 27.5, High: 30, Closed: true, Samples: []domain.CalibrationSample{{StudentID: "z1111111", TotalScore: 29}}},
		},
		Representatives: []domain.Representative{
			{BandIndex: 11, Low: 27.5, High: 30, Sample: domain.CalibrationSample{StudentID: "z1111111", TotalScore: 29}},
		},
	}, nil
}

func (m *mockCalibrationService) LearnStyle(_ context.Context, key domain.CourseKey, _ *int64) ([]domain.StyleNote, error) {
	m.lastKey = key
	if m.learnFn != nil {
		return m.learnFn()
	}
	return []domain.StyleNote{
		{BandRange: "27.5-30", Guidance: map[string]any{"tone": "rewards precision"}},
	}, nil
}

type mockMarkingService struct {
	lastKey     domain.CourseKey
	lastUpdate  driving.ScoreUpdate
	lastStatus  string
	listFn      func() ([]domain.MarkingRecord, error)
	recordFn    func() (*domain.MarkingRecord, error)
	reconcileFn func() (int, error)
	exportFn    func(w io.Writer) error
}

func (m *mockMarkingService) RecordAIScore(_ context.Context, key domain.CourseKey, score driving.ScoreUpdate) (*domain.MarkingRecord, error) {
	m.lastKey = key
	m.lastUpdate = score
	if m.recordFn != nil {
		return m.recordFn()
	}
	return &domain.MarkingRecord{ZID: score.ZID}, nil
}

func (m *mockMarkingService) RecordTutorScore(_ context.Context, key domain.CourseKey, score driving.ScoreUpdate) (*domain.MarkingRecord, error) {
	m.lastKey = key
	m.lastUpdate = score
	if m.recordFn != nil {
		return m.recordFn()
	}
	return &domain.MarkingRecord{ZID: score.ZID}, nil
}

func (m *mockMarkingService) ReconcileAll(_ context.Context, key domain.CourseKey) (int, error) {
	m.lastKey = key
	if m.reconcileFn != nil {
		return m.reconcileFn()
	}
	return 5, nil
}

func (m *mockMarkingService) List(_ context.Context, key domain.CourseKey, _ bool) ([]domain.MarkingRecord, error) {
	m.lastKey = key
	if m.listFn != nil {
		return m.listFn()
	}
	ai, tutor, diff := 24.0, 20.0, 4.0
	return []domain.MarkingRecord{
		{ZID: "z1234567", StudentName: "Ada", AITotal: &ai, TutorTotal: &tutor, Difference: &diff, NeedsReview: true, ReviewStatus: domain.ReviewStatusPending},
		{ZID: "z7654321"},
	}, nil
}

func (m *mockMarkingService) SetReviewStatus(_ context.Context, key domain.CourseKey, _ string, _ *int64, status, _ string) error {
	m.lastKey = key
	m.lastStatus = status
	return nil
}

func (m *mockMarkingService) ExportCSV(_ context.Context, key domain.CourseKey, w io.Writer) error {
	m.lastKey = key
	if m.exportFn != nil {
		return m.exportFn(w)
	}
	_, err := fmt.Fprintln(w, "zid,ai_total,tutor_total")
	return err
}

// setupTestServices swaps mocks into the command tree and returns a
// cleanup restoring the previous services.
func setupTestServices() func() {
	oldPipeline := pipelineService
	oldScoring := scoringService
	oldCalibration := calibrationService
	oldMarking := markingService

	pipelineService = &mockPipelineService{}
	scoringService = &mockScoringService{}
	calibrationService = &mockCalibrationService{}
	markingService = &mockMarkingService{}

	return func() {
		pipelineService = oldPipeline
		scoringService = oldScoring
		calibrationService = oldCalibration
		markingService = oldMarking
	}
}
