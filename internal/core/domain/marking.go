package domain

import (
	"math"
	"strings"
	"time"
)

// ReviewEpsilon guards the relative-difference computation against a
// zero tutor total.
const ReviewEpsilon = 1e-9

// Review statuses that a human moves a record through. The terminal
// statuses close a review permanently: once set, the review flag is
// never re-raised automatically, whatever the numeric gap.
const (
	ReviewStatusPending   = "pending"
	ReviewStatusReviewed  = "reviewed"
	ReviewStatusCompleted = "completed"
	ReviewStatusResolved  = "resolved"
	ReviewStatusChecked   = "checked"
)

// IsTerminalReviewStatus reports whether a review status is human-closed.
func IsTerminalReviewStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case ReviewStatusReviewed, ReviewStatusCompleted, ReviewStatusResolved, ReviewStatusChecked:
		return true
	default:
		return false
	}
}

// DimensionMark is one rubric dimension's score with optional
// commentary.
type DimensionMark struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
}

// MarkingRecord merges the automated and human scores for one
// submission. It is uniquely identified by (ZID, AssignmentID) and is
// upserted, never duplicated.
type MarkingRecord struct {
	// ZID is the student identifier, stored lower-case.
	ZID string `json:"zid"`

	// AssignmentID qualifies the record; nil means unqualified.
	AssignmentID *int64 `json:"assignment_id"`

	// StudentName is the student's display name, when known.
	StudentName string `json:"student_name,omitempty"`

	// Assignment is the assignment's display label, when known.
	Assignment string `json:"assignment,omitempty"`

	// AIDetail holds the automated per-dimension scores.
	AIDetail map[string]DimensionMark `json:"ai_marking_detail,omitempty"`

	// TutorDetail holds the human per-dimension scores.
	TutorDetail map[string]DimensionMark `json:"tutor_marking_detail,omitempty"`

	// AITotal is the automated total, nil until scored.
	AITotal *float64 `json:"ai_total"`

	// TutorTotal is the human total, nil until marked.
	TutorTotal *float64 `json:"tutor_total"`

	// Difference is AITotal - TutorTotal (signed), nil until both present.
	Difference *float64 `json:"difference"`

	// NeedsReview flags a discrepancy exceeding the review threshold.
	NeedsReview bool `json:"needs_review"`

	// ReviewStatus tracks the human review workflow.
	ReviewStatus string `json:"review_status"`

	// ReviewComments carries reviewer notes.
	ReviewComments string `json:"review_comments,omitempty"`

	// AIFeedback is the automated per-dimension commentary.
	AIFeedback string `json:"ai_feedback,omitempty"`

	// TutorFeedback is the human commentary.
	TutorFeedback string `json:"tutor_feedback,omitempty"`

	// MarkedBy records the last writer ("ai" or "tutor").
	MarkedBy string `json:"marked_by,omitempty"`

	// CreatedAt is when the record was first written.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record was last rewritten.
	UpdatedAt time.Time `json:"updated_at"`
}

// Matches reports whether this record carries exactly the given
// identity, with no nil fallback on either side. Identity resolution
// with the unqualified-record fallback lives in MarkingSheet.Find.
func (r *MarkingRecord) Matches(zid string, assignmentID *int64) bool {
	if !strings.EqualFold(r.ZID, zid) {
		return false
	}
	if r.AssignmentID == nil || assignmentID == nil {
		return r.AssignmentID == nil && assignmentID == nil
	}
	return *r.AssignmentID == *assignmentID
}

// Reconcile recomputes Difference and NeedsReview from the totals.
// Difference is the signed gap AITotal - TutorTotal. The review flag is
// raised when |difference| / max(|tutor_total|, epsilon) meets or
// exceeds threshold, unless the review has already been human-closed.
// Reconcile is deterministic and idempotent.
func (r *MarkingRecord) Reconcile(threshold float64) {
	if r.AITotal == nil || r.TutorTotal == nil {
		r.Difference = nil
		if IsTerminalReviewStatus(r.ReviewStatus) {
			r.NeedsReview = false
		}
		return
	}

	diff := math.Round((*r.AITotal-*r.TutorTotal)*100) / 100
	r.Difference = &diff

	if IsTerminalReviewStatus(r.ReviewStatus) {
		r.NeedsReview = false
		return
	}

	denom := math.Max(math.Abs(*r.TutorTotal), ReviewEpsilon)
	r.NeedsReview = math.Abs(diff)/denom >= threshold
}

// State returns the record's position in the scoring lifecycle:
// unscored, ai_scored, tutor_scored or reconciled.
func (r *MarkingRecord) State() string {
	switch {
	case r.AITotal != nil && r.TutorTotal != nil:
		return "reconciled"
	case r.TutorTotal != nil:
		return "tutor_scored"
	case r.AITotal != nil:
		return "ai_scored"
	default:
		return "unscored"
	}
}
