package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestReconcile_SmallGapNoReview(t *testing.T) {
	r := &MarkingRecord{
		ZID:          "z1234567",
		AITotal:      f64(85),
		TutorTotal:   f64(80),
		ReviewStatus: ReviewStatusPending,
	}
	r.Reconcile(0.2)

	require.NotNil(t, r.Difference)
	assert.Equal(t, 5.0, *r.Difference)
	assert.False(t, r.NeedsReview, "ratio 0.0625 is below 0.2")
}

func TestReconcile_LargeGapNeedsReview(t *testing.T) {
	r := &MarkingRecord{
		ZID:          "z1234567",
		AITotal:      f64(60),
		TutorTotal:   f64(80),
		ReviewStatus: ReviewStatusPending,
	}
	r.Reconcile(0.2)

	require.NotNil(t, r.Difference)
	assert.Equal(t, -20.0, *r.Difference, "difference is signed, not absolute")
	assert.True(t, r.NeedsReview, "ratio 0.25 meets 0.2")
}

func TestReconcile_TerminalStatusNeverReopens(t *testing.T) {
	for _, status := range []string{
		ReviewStatusReviewed, ReviewStatusCompleted, ReviewStatusResolved, ReviewStatusChecked,
	} {
		t.Run(status, func(t *testing.T) {
			r := &MarkingRecord{
				ZID:          "z1234567",
				AITotal:      f64(10),
				TutorTotal:   f64(80),
				NeedsReview:  true,
				ReviewStatus: status,
			}
			r.Reconcile(0.2)
			assert.False(t, r.NeedsReview, "human-closed review must not reopen")
			require.NotNil(t, r.Difference)
		})
	}
}

func TestReconcile_MissingTotalClearsDifference(t *testing.T) {
	r := &MarkingRecord{ZID: "z1", AITotal: f64(50)}
	r.Reconcile(0.2)
	assert.Nil(t, r.Difference)
	assert.Equal(t, "ai_scored", r.State())
}

func TestReconcile_ZeroTutorTotal(t *testing.T) {
	// Epsilon guard: any nonzero gap against a zero tutor total flags review.
	r := &MarkingRecord{ZID: "z1", AITotal: f64(3), TutorTotal: f64(0)}
	r.Reconcile(0.2)
	assert.True(t, r.NeedsReview)
}

func TestReconcile_Idempotent(t *testing.T) {
	r := &MarkingRecord{ZID: "z1", AITotal: f64(60), TutorTotal: f64(80)}
	r.Reconcile(0.2)
	first := *r
	r.Reconcile(0.2)
	assert.Equal(t, *first.Difference, *r.Difference)
	assert.Equal(t, first.NeedsReview, r.NeedsReview)
}

func TestMatches_ExactIdentity(t *testing.T) {
	qualified := &MarkingRecord{ZID: "z1234567", AssignmentID: i64(7)}
	unqualified := &MarkingRecord{ZID: "z1234567"}

	assert.True(t, qualified.Matches("Z1234567", i64(7)), "zid match is case-insensitive")
	assert.False(t, qualified.Matches("z1234567", i64(8)))
	assert.False(t, qualified.Matches("z1234567", nil))
	assert.True(t, unqualified.Matches("z1234567", nil))
	assert.False(t, unqualified.Matches("z1234567", i64(7)),
		"exact predicate carries no nil fallback; MarkingSheet.Find does")
}

func TestState_Lifecycle(t *testing.T) {
	r := &MarkingRecord{ZID: "z1"}
	assert.Equal(t, "unscored", r.State())
	r.AITotal = f64(20)
	assert.Equal(t, "ai_scored", r.State())
	r.AITotal = nil
	r.TutorTotal = f64(22)
	assert.Equal(t, "tutor_scored", r.State())
	r.AITotal = f64(20)
	assert.Equal(t, "reconciled", r.State())
}

func TestIsTerminalReviewStatus(t *testing.T) {
	assert.True(t, IsTerminalReviewStatus("Reviewed"))
	assert.True(t, IsTerminalReviewStatus(" completed "))
	assert.False(t, IsTerminalReviewStatus(ReviewStatusPending))
	assert.False(t, IsTerminalReviewStatus(""))
}
