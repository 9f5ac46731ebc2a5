package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/adapters/driven/storage/memory"
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

const scorerAssignment = int64(7)

func seedScoringFixture(t *testing.T) (*memory.DocumentStore, *memoryArtifactStore, *memoryMarkingStore) {
	t.Helper()
	ctx := context.Background()

	docs := memory.NewDocumentStore()
	aid := scorerAssignment
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID:           "sub-1",
		Kind:         domain.KindSubmission,
		StudentID:    "z1234567",
		AssignmentID: &aid,
	}))

	artifacts := newMemoryArtifactStore()
	require.NoError(t, artifacts.Save(driven.ArtifactRubric, "7", domain.Rubric{
		AssignmentID: scorerAssignment,
		Dimensions: []domain.RubricDimension{
			{ID: "dim-1", Name: "technical contents", MaxScore: 20},
			{ID: "dim-2", Name: "presentation", MaxScore: 10},
		},
	}))
	require.NoError(t, artifacts.Save(driven.ArtifactRubricToText, "sub-1", map[string][]string{
		"dim-1": {"the system uses a layered architecture", "queries are indexed"},
	}))

	return docs, artifacts, newMemoryMarkingStore()
}

func TestScoreSubmission(t *testing.T) {
	ctx := context.Background()
	key := testCourseKey()

	t.Run("records clamped scores and no-evidence zeroes", func(t *testing.T) {
		docs, artifacts, store := seedScoringFixture(t)
		llm := &fakeLLM{answer: `{"score": 25, "feedback": "well argued"}`}
		svc := NewScoringService(docs, artifacts, llm, fakePrompts{driven.PromptGuidedScore: "dim %s style %s evidence %s"}, testMarkingService(store))

		rec, err := svc.ScoreSubmission(ctx, key, "sub-1")
		require.NoError(t, err)
		assert.Equal(t, "z1234567", rec.ZID)
		require.NotNil(t, rec.AITotal)

		// Answer exceeds the dimension maximum and is clamped to it.
		assert.Equal(t, 20.0, rec.AIDetail["technical contents"].Score)
		assert.Equal(t, "well argued", rec.AIDetail["technical contents"].Feedback)

		// No evidence anywhere for the second dimension.
		assert.Equal(t, 0.0, rec.AIDetail["presentation"].Score)
		assert.Equal(t, noEvidenceFeedback, rec.AIDetail["presentation"].Feedback)

		assert.Equal(t, 20.0, *rec.AITotal)
	})

	t.Run("style notes are woven into the prompt", func(t *testing.T) {
		docs, artifacts, store := seedScoringFixture(t)
		require.NoError(t, artifacts.Save(driven.ArtifactStyleNotes, "7", []domain.StyleNote{
			{BandRange: "5-7.5", Guidance: map[string]any{"tone": "strict on citations"}},
		}))
		llm := &fakeLLM{answer: `{"score": 10, "feedback": "fine"}`}
		svc := NewScoringService(docs, artifacts, llm, fakePrompts{driven.PromptGuidedScore: "dim %s style %s evidence %s"}, testMarkingService(store))

		_, err := svc.ScoreSubmission(ctx, key, "sub-1")
		require.NoError(t, err)
		assert.Contains(t, llm.prompt, "strict on citations")
		assert.Contains(t, llm.prompt, "layered architecture")
	})

	t.Run("nil llm", func(t *testing.T) {
		docs, artifacts, store := seedScoringFixture(t)
		svc := NewScoringService(docs, artifacts, nil, fakePrompts{}, testMarkingService(store))
		_, err := svc.ScoreSubmission(ctx, key, "sub-1")
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("unknown submission", func(t *testing.T) {
		docs, artifacts, store := seedScoringFixture(t)
		svc := NewScoringService(docs, artifacts, &fakeLLM{}, fakePrompts{}, testMarkingService(store))
		_, err := svc.ScoreSubmission(ctx, key, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing rubric index artifacts", func(t *testing.T) {
		docs, _, store := seedScoringFixture(t)
		svc := NewScoringService(docs, newMemoryArtifactStore(), &fakeLLM{}, fakePrompts{}, testMarkingService(store))
		_, err := svc.ScoreSubmission(ctx, key, "sub-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestScoreBatch(t *testing.T) {
	ctx := context.Background()
	key := testCourseKey()
	docs, artifacts, store := seedScoringFixture(t)

	aid := scorerAssignment
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "sub-2", Kind: domain.KindSubmission, StudentID: "z7654321", AssignmentID: &aid,
	}))
	// No evidence artifact for sub-3, so it fails while the batch continues.
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "sub-3", Kind: domain.KindSubmission, StudentID: "z9999999", AssignmentID: &aid,
	}))
	require.NoError(t, artifacts.Save(driven.ArtifactRubricToText, "sub-2", map[string][]string{
		"dim-1": {"chunk text"},
	}))

	llm := &fakeLLM{answer: `{"score": 15, "feedback": "solid"}`}
	marking := testMarkingService(store)
	svc := NewScoringService(docs, artifacts, llm, fakePrompts{driven.PromptGuidedScore: "dim %s style %s evidence %s"}, marking)

	// Pre-score the first student so the batch skips them.
	_, err := svc.ScoreSubmission(ctx, key, "sub-1")
	require.NoError(t, err)

	report, err := svc.ScoreBatch(ctx, key, scorerAssignment)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scored)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "sub-3", report.Failed[0].Path)

	records, err := marking.List(ctx, key, false)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
