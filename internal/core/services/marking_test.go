package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

func testCourseKey() domain.CourseKey {
	return domain.CourseKey{Code: "COMP9900", Year: "2025", Term: "Term3"}
}

func testMarkingService(store *memoryMarkingStore) *MarkingService {
	settings := domain.DefaultPipelineSettings()
	settings.ReviewThreshold = 0.2
	return NewMarkingService(store, settings)
}

func TestMarkingServiceRecordScores(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMarkingStore()
	svc := testMarkingService(store)
	key := testCourseKey()

	t.Run("ai score creates record", func(t *testing.T) {
		rec, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{
			ZID:   "Z1234567",
			Total: 24,
			Detail: map[string]domain.DimensionMark{
				"Content": {Score: 12},
			},
			MarkedBy: "ai",
		})
		require.NoError(t, err)
		assert.Equal(t, "z1234567", rec.ZID)
		require.NotNil(t, rec.AITotal)
		assert.Equal(t, 24.0, *rec.AITotal)
		assert.Nil(t, rec.TutorTotal)
		assert.Nil(t, rec.Difference)
		assert.Equal(t, domain.ReviewStatusPending, rec.ReviewStatus)
	})

	t.Run("tutor score merges and reconciles", func(t *testing.T) {
		rec, err := svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{
			ZID:         "z1234567",
			StudentName: "Alex Chen",
			Total:       20,
			MarkedBy:    "tutor",
		})
		require.NoError(t, err)
		require.NotNil(t, rec.AITotal)
		require.NotNil(t, rec.Difference)
		assert.Equal(t, 4.0, *rec.Difference)
		assert.True(t, rec.NeedsReview)
		assert.Equal(t, "Alex Chen", rec.StudentName)

		sheet, err := store.LoadSheet(ctx, key)
		require.NoError(t, err)
		assert.Len(t, sheet.Results, 1)
	})

	t.Run("close difference stays unflagged", func(t *testing.T) {
		_, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{ZID: "z7654321", Total: 21})
		require.NoError(t, err)
		rec, err := svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{ZID: "z7654321", Total: 20})
		require.NoError(t, err)
		require.NotNil(t, rec.Difference)
		assert.Equal(t, 1.0, *rec.Difference)
		assert.False(t, rec.NeedsReview)
	})

	t.Run("qualified score adopts unqualified record", func(t *testing.T) {
		_, err := svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{ZID: "z3333333", Total: 18})
		require.NoError(t, err)

		aid := int64(5)
		rec, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{ZID: "z3333333", AssignmentID: &aid, Total: 17})
		require.NoError(t, err)
		require.NotNil(t, rec.AssignmentID)
		assert.Equal(t, int64(5), *rec.AssignmentID)
		require.NotNil(t, rec.TutorTotal, "the earlier tutor score stays on the adopted record")
		require.NotNil(t, rec.Difference)

		sheet, err := store.LoadSheet(ctx, key)
		require.NoError(t, err)
		count := 0
		for _, r := range sheet.Results {
			if r.ZID == "z3333333" {
				count++
			}
		}
		assert.Equal(t, 1, count, "one record per zid, not one per qualification")
	})

	t.Run("missing zid rejected", func(t *testing.T) {
		_, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{Total: 10})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestMarkingServiceConcurrentRecording(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMarkingStore()
	svc := testMarkingService(store)
	key := testCourseKey()

	const students = 20
	var wg sync.WaitGroup
	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			zid := fmt.Sprintf("z%07d", i)
			_, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{ZID: zid, Total: 20})
			assert.NoError(t, err)
			_, err = svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{ZID: zid, Total: 19})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every read-modify-write cycle runs inside the store's critical
	// section, so no goroutine's record is lost to a stale sheet.
	records, err := svc.List(ctx, key, false)
	require.NoError(t, err)
	require.Len(t, records, students)
	for _, rec := range records {
		require.NotNil(t, rec.AITotal, rec.ZID)
		require.NotNil(t, rec.TutorTotal, rec.ZID)
	}
}

func TestMarkingServiceReconcileAll(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMarkingStore()
	svc := testMarkingService(store)
	key := testCourseKey()

	ai := 25.0
	tutor := 20.0
	require.NoError(t, store.UpsertRecord(ctx, key, domain.MarkingRecord{
		ZID: "z1111111", AITotal: &ai, TutorTotal: &tutor,
	}))
	require.NoError(t, store.UpsertRecord(ctx, key, domain.MarkingRecord{
		ZID: "z2222222", AITotal: &ai,
	}))

	n, err := svc.ReconcileAll(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sheet, err := store.LoadSheet(ctx, key)
	require.NoError(t, err)
	first := sheet.Find("z1111111", nil)
	require.NotNil(t, first)
	require.NotNil(t, first.Difference)
	assert.Equal(t, 5.0, *first.Difference)
	assert.True(t, first.NeedsReview)

	second := sheet.Find("z2222222", nil)
	require.NotNil(t, second)
	assert.Nil(t, second.Difference)
	assert.False(t, second.NeedsReview)

	// Replaying changes nothing.
	n, err = svc.ReconcileAll(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMarkingServiceList(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMarkingStore()
	svc := testMarkingService(store)
	key := testCourseKey()

	_, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{ZID: "z1111111", Total: 28})
	require.NoError(t, err)
	_, err = svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{ZID: "z1111111", Total: 18})
	require.NoError(t, err)
	_, err = svc.RecordAIScore(ctx, key, driving.ScoreUpdate{ZID: "z2222222", Total: 20})
	require.NoError(t, err)
	_, err = svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{ZID: "z2222222", Total: 20})
	require.NoError(t, err)

	all, err := svc.List(ctx, key, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	flagged, err := svc.List(ctx, key, true)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, "z1111111", flagged[0].ZID)
}

func TestMarkingServiceSetReviewStatus(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMarkingStore()
	svc := testMarkingService(store)
	key := testCourseKey()

	_, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{ZID: "z1111111", Total: 28})
	require.NoError(t, err)
	_, err = svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{ZID: "z1111111", Total: 18})
	require.NoError(t, err)

	t.Run("terminal status clears the flag", func(t *testing.T) {
		require.NoError(t, svc.SetReviewStatus(ctx, key, "z1111111", nil, "Resolved", "scores discussed"))

		sheet, err := store.LoadSheet(ctx, key)
		require.NoError(t, err)
		rec := sheet.Find("z1111111", nil)
		require.NotNil(t, rec)
		assert.Equal(t, "resolved", rec.ReviewStatus)
		assert.Equal(t, "scores discussed", rec.ReviewComments)
		assert.False(t, rec.NeedsReview)
	})

	t.Run("flag stays down after re-reconcile", func(t *testing.T) {
		_, err := svc.ReconcileAll(ctx, key)
		require.NoError(t, err)

		flagged, err := svc.List(ctx, key, true)
		require.NoError(t, err)
		assert.Empty(t, flagged)
	})

	t.Run("unknown record", func(t *testing.T) {
		err := svc.SetReviewStatus(ctx, key, "z9999999", nil, "resolved", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMarkingServiceExportCSV(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMarkingStore()
	svc := testMarkingService(store)
	key := testCourseKey()

	_, err := svc.RecordAIScore(ctx, key, driving.ScoreUpdate{
		ZID:        "z1234567",
		Assignment: "Project Proposal",
		Total:      24,
		Detail: map[string]domain.DimensionMark{
			"Content Quality": {Score: 12},
			"Structure":       {Score: 12},
		},
	})
	require.NoError(t, err)
	_, err = svc.RecordTutorScore(ctx, key, driving.ScoreUpdate{
		ZID:         "z1234567",
		StudentName: "Alex Chen",
		Total:       20,
		Detail: map[string]domain.DimensionMark{
			"Content Quality": {Score: 10},
			"Structure":       {Score: 10},
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, key, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	assert.Equal(t, []string{
		"course_code", "course_name", "term", "zid", "student_name", "assignment",
		"tutor_total", "ai_total", "difference",
		"tutor_Content_Quality", "tutor_Structure",
		"ai_Content_Quality", "ai_Structure",
	}, header)

	row := rows[1]
	assert.Equal(t, "COMP9900", row[0])
	assert.Equal(t, "2025 Term3", row[2])
	assert.Equal(t, "z1234567", row[3])
	assert.Equal(t, "Alex Chen", row[4])
	assert.Equal(t, "Project Proposal", row[5])
	assert.Equal(t, "20", row[6])
	assert.Equal(t, "24", row[7])
	assert.Equal(t, "4", row[8])
	assert.Equal(t, "10", row[9])
	assert.Equal(t, "12", row[11])
}
