package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Ensure MarkingService implements the interface.
var _ driving.MarkingService = (*MarkingService)(nil)

// MarkingService reconciles automated and human scores on a course's
// marking sheet and drives the review workflow.
type MarkingService struct {
	store    driven.MarkingStore
	settings domain.PipelineSettings
}

// NewMarkingService creates the service.
func NewMarkingService(store driven.MarkingStore, settings domain.PipelineSettings) *MarkingService {
	return &MarkingService{store: store, settings: settings}
}

// RecordAIScore upserts the automated score for one submission and
// reconciles the record.
func (m *MarkingService) RecordAIScore(ctx context.Context, key domain.CourseKey, score driving.ScoreUpdate) (*domain.MarkingRecord, error) {
	return m.record(ctx, key, score, true)
}

// RecordTutorScore upserts the human score for one submission and
// reconciles the record.
func (m *MarkingService) RecordTutorScore(ctx context.Context, key domain.CourseKey, score driving.ScoreUpdate) (*domain.MarkingRecord, error) {
	return m.record(ctx, key, score, false)
}

func (m *MarkingService) record(ctx context.Context, key domain.CourseKey, score driving.ScoreUpdate, ai bool) (*domain.MarkingRecord, error) {
	zid := strings.ToLower(strings.TrimSpace(score.ZID))
	if zid == "" {
		return nil, fmt.Errorf("record score: missing zid: %w", domain.ErrInvalidInput)
	}

	var out domain.MarkingRecord
	err := m.store.UpdateSheet(ctx, key, func(sheet *domain.MarkingSheet) error {
		now := time.Now()
		rec := sheet.Find(zid, score.AssignmentID)
		if rec == nil {
			sheet.Upsert(domain.MarkingRecord{
				ZID:          zid,
				AssignmentID: score.AssignmentID,
				ReviewStatus: domain.ReviewStatusPending,
				CreatedAt:    now,
			})
			rec = sheet.Find(zid, score.AssignmentID)
		}

		// An unqualified record adopted by a qualified score becomes
		// qualified; later unqualified updates resolve to it.
		if rec.AssignmentID == nil && score.AssignmentID != nil {
			rec.AssignmentID = score.AssignmentID
		}

		if score.StudentName != "" {
			rec.StudentName = score.StudentName
		}
		if score.Assignment != "" {
			rec.Assignment = score.Assignment
		}
		total := score.Total
		if ai {
			rec.AITotal = &total
			rec.AIDetail = score.Detail
			rec.AIFeedback = score.Feedback
		} else {
			rec.TutorTotal = &total
			rec.TutorDetail = score.Detail
			rec.TutorFeedback = score.Feedback
		}
		if score.MarkedBy != "" {
			rec.MarkedBy = score.MarkedBy
		}
		rec.UpdatedAt = now
		rec.Reconcile(m.settings.ReviewThreshold)

		out = *rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record score: %w", err)
	}
	return &out, nil
}

// ReconcileAll recomputes difference and review flags for every
// record in the sheet. Replaying it is idempotent.
func (m *MarkingService) ReconcileAll(ctx context.Context, key domain.CourseKey) (int, error) {
	count := 0
	err := m.store.UpdateSheet(ctx, key, func(sheet *domain.MarkingSheet) error {
		for i := range sheet.Results {
			sheet.Results[i].Reconcile(m.settings.ReviewThreshold)
		}
		count = len(sheet.Results)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reconcile sheet: %w", err)
	}
	logger.Info("Reconciled %d records for %s", count, key.Code)
	return count, nil
}

// List returns the sheet's records, optionally only those flagged for
// review.
func (m *MarkingService) List(ctx context.Context, key domain.CourseKey, needingReviewOnly bool) ([]domain.MarkingRecord, error) {
	sheet, err := m.store.LoadSheet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load sheet: %w", err)
	}
	if !needingReviewOnly {
		return sheet.Results, nil
	}

	var flagged []domain.MarkingRecord
	for _, rec := range sheet.Results {
		if rec.NeedsReview {
			flagged = append(flagged, rec)
		}
	}
	return flagged, nil
}

// SetReviewStatus moves a record through the review workflow and
// re-reconciles it.
func (m *MarkingService) SetReviewStatus(ctx context.Context, key domain.CourseKey, zid string, assignmentID *int64, status, comments string) error {
	return m.store.UpdateSheet(ctx, key, func(sheet *domain.MarkingSheet) error {
		rec := sheet.Find(zid, assignmentID)
		if rec == nil {
			return fmt.Errorf("set review status %s: %w", zid, domain.ErrNotFound)
		}

		rec.ReviewStatus = strings.ToLower(strings.TrimSpace(status))
		if comments != "" {
			rec.ReviewComments = comments
		}
		rec.UpdatedAt = time.Now()
		rec.Reconcile(m.settings.ReviewThreshold)
		return nil
	})
}

// ExportCSV writes the sheet as CSV. Base columns are followed by one
// column per rubric dimension for the tutor detail, then the AI
// detail; dimension columns are collected across all records in
// first-seen order.
func (m *MarkingService) ExportCSV(ctx context.Context, key domain.CourseKey, w io.Writer) error {
	sheet, err := m.store.LoadSheet(ctx, key)
	if err != nil {
		return fmt.Errorf("load sheet: %w", err)
	}

	tutorKeys := collectDetailKeys(sheet.Results, false)
	aiKeys := collectDetailKeys(sheet.Results, true)

	header := []string{"course_code", "course_name", "term", "zid", "student_name", "assignment", "tutor_total", "ai_total", "difference"}
	for _, k := range tutorKeys {
		header = append(header, csvColumn("tutor", k))
	}
	for _, k := range aiKeys {
		header = append(header, csvColumn("ai", k))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range sheet.Results {
		row := []string{
			sheet.Course,
			sheet.Name,
			sheet.Term,
			rec.ZID,
			rec.StudentName,
			rec.Assignment,
			formatScore(rec.TutorTotal),
			formatScore(rec.AITotal),
			formatScore(rec.Difference),
		}
		for _, k := range tutorKeys {
			row = append(row, formatDetail(rec.TutorDetail, k))
		}
		for _, k := range aiKeys {
			row = append(row, formatDetail(rec.AIDetail, k))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", rec.ZID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// collectDetailKeys gathers dimension names across records in
// first-seen order, scanning records in sheet order.
func collectDetailKeys(records []domain.MarkingRecord, ai bool) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, rec := range records {
		detail := rec.TutorDetail
		if ai {
			detail = rec.AIDetail
		}
		for _, k := range sortedDetailKeys(detail) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func sortedDetailKeys(detail map[string]domain.DimensionMark) []string {
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	// Map iteration order is random; sort for a stable export.
	sort.Strings(keys)
	return keys
}

func csvColumn(prefix, dimension string) string {
	safe := strings.NewReplacer(" ", "_", ":", "_").Replace(dimension)
	return prefix + "_" + safe
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatDetail(detail map[string]domain.DimensionMark, key string) string {
	mark, ok := detail[key]
	if !ok {
		return ""
	}
	return strconv.FormatFloat(mark.Score, 'f', -1, 64)
}
