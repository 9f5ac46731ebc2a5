package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Ensure ScoringService implements the interface.
var _ driving.ScoringService = (*ScoringService)(nil)

// scoringTemperature keeps guided scoring near-deterministic while
// leaving room for feedback phrasing.
const scoringTemperature = 0.25

// noEvidenceFeedback is recorded when retrieval surfaced nothing for
// a dimension. The zero score is explicit, not a silent default.
const noEvidenceFeedback = "No supporting evidence was found in the submission for this criterion."

// ScoringService scores processed submissions dimension by dimension.
// Each dimension's prompt carries the rubric entry, any learned
// marking style for the offering and the submission's retrieved
// evidence.
type ScoringService struct {
	docs      driven.DocumentStore
	artifacts driven.ArtifactStore
	llm       driven.LLMService
	prompts   driven.PromptStore
	marking   driving.MarkingService
}

// NewScoringService creates the service.
func NewScoringService(docs driven.DocumentStore, artifacts driven.ArtifactStore, llm driven.LLMService, prompts driven.PromptStore, marking driving.MarkingService) *ScoringService {
	return &ScoringService{
		docs:      docs,
		artifacts: artifacts,
		llm:       llm,
		prompts:   prompts,
		marking:   marking,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *ScoringService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// scorePayload is the expected completion for one dimension.
type scorePayload struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// ScoreSubmission scores one processed submission and records the
// result on the offering's marking sheet.
func (s *ScoringService) ScoreSubmission(ctx context.Context, key domain.CourseKey, submissionID string) (*domain.MarkingRecord, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("score %s: %w", submissionID, domain.ErrLLMUnavailable)
	}

	doc, err := s.docs.GetDocument(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", submissionID, err)
	}
	if doc.Kind != domain.KindSubmission {
		return nil, fmt.Errorf("score %s: not a submission: %w", submissionID, domain.ErrInvalidInput)
	}
	if doc.AssignmentID == nil {
		return nil, fmt.Errorf("score %s: no assignment: %w", submissionID, domain.ErrInvalidInput)
	}

	var rubric domain.Rubric
	rubricKey := fmt.Sprintf("%d", *doc.AssignmentID)
	if err := s.artifacts.Load(driven.ArtifactRubric, rubricKey, &rubric); err != nil {
		return nil, fmt.Errorf("load rubric for assignment %s: %w", rubricKey, err)
	}

	evidence := map[string][]string{}
	if err := s.artifacts.Load(driven.ArtifactRubricToText, submissionID, &evidence); err != nil {
		return nil, fmt.Errorf("load evidence for %s: %w", submissionID, err)
	}

	style := s.loadStyle(key, doc.AssignmentID)

	template, err := s.prompts.Load(driven.PromptGuidedScore)
	if err != nil {
		return nil, fmt.Errorf("load scoring prompt: %w", err)
	}

	detail := make(map[string]domain.DimensionMark, len(rubric.Dimensions))
	var total float64
	for _, dim := range rubric.Dimensions {
		mark, err := s.scoreDimension(ctx, template, dim, style, evidence[dim.ID])
		if err != nil {
			return nil, fmt.Errorf("score %s dimension %q: %w", submissionID, dim.Name, err)
		}
		detail[dim.Name] = mark
		total += mark.Score
	}

	rec, err := s.marking.RecordAIScore(ctx, key, driving.ScoreUpdate{
		ZID:          doc.StudentID,
		AssignmentID: doc.AssignmentID,
		Detail:       detail,
		Total:        total,
		MarkedBy:     "ai",
	})
	if err != nil {
		return nil, fmt.Errorf("record score for %s: %w", submissionID, err)
	}
	logger.Info("Scored %s: %.1f/%.1f across %d dimensions", doc.StudentID, total, rubric.TotalScore(), len(detail))
	return rec, nil
}

// ScoreBatch scores every processed submission for an assignment,
// skipping those already carrying an AI total.
func (s *ScoringService) ScoreBatch(ctx context.Context, key domain.CourseKey, assignmentID int64) (*driving.ScoreReport, error) {
	docs, err := s.docs.ListDocuments(ctx, domain.KindSubmission, &assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	scored := make(map[string]bool)
	records, err := s.marking.List(ctx, key, false)
	if err != nil {
		return nil, fmt.Errorf("load marking sheet: %w", err)
	}
	for _, rec := range records {
		if rec.AITotal != nil {
			scored[strings.ToLower(rec.ZID)] = true
		}
	}

	report := &driving.ScoreReport{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if scored[strings.ToLower(doc.StudentID)] {
			logger.Debug("Skipping %s: already scored", doc.StudentID)
			report.Skipped++
			continue
		}
		if _, err := s.ScoreSubmission(ctx, key, doc.ID); err != nil {
			logger.Warn("Scoring %s failed: %v", doc.StudentID, err)
			report.Failed = append(report.Failed, driving.BatchFailure{Path: doc.ID, Err: err.Error()})
			continue
		}
		report.Scored++
	}

	logger.Info("Batch scoring: %d scored, %d skipped, %d failed", report.Scored, report.Skipped, len(report.Failed))
	return report, nil
}

// scoreDimension asks the completion service where evidence exists,
// otherwise records the explicit no-evidence result.
func (s *ScoringService) scoreDimension(ctx context.Context, template string, dim domain.RubricDimension, style, evidence []string) (domain.DimensionMark, error) {
	if len(evidence) == 0 {
		return domain.DimensionMark{Score: 0, Feedback: noEvidenceFeedback}, nil
	}

	dimJSON, err := json.Marshal(dim)
	if err != nil {
		return domain.DimensionMark{}, fmt.Errorf("encode dimension: %w", err)
	}

	styleText := "N/A"
	if len(style) > 0 {
		styleText = strings.Join(style, "\n")
	}

	prompt := fmt.Sprintf(template, dimJSON, styleText, strings.Join(evidence, "\n\n"))
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature:  scoringTemperature,
		JSONResponse: true,
	})
	if err != nil {
		return domain.DimensionMark{}, err
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(answer), &payload); err != nil {
		return domain.DimensionMark{}, fmt.Errorf("unexpected scoring answer %q: %w", answer, err)
	}

	score := payload.Score
	if score < 0 {
		score = 0
	}
	if score > dim.MaxScore {
		score = dim.MaxScore
	}
	return domain.DimensionMark{Score: score, Feedback: payload.Feedback}, nil
}

// loadStyle fetches the learned marking style for the offering, when
// one has been calibrated. Missing notes are not an error.
func (s *ScoringService) loadStyle(key domain.CourseKey, assignmentID *int64) []string {
	var notes []domain.StyleNote
	if err := s.artifacts.Load(driven.ArtifactStyleNotes, styleKey(key, assignmentID), &notes); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Loading style notes failed: %v", err)
		}
		return nil
	}

	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		guidance, err := json.Marshal(n.Guidance)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", n.BandRange, guidance))
	}
	return lines
}
