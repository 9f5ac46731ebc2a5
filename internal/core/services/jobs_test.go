package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

// fakePipeline records ProcessBatch calls and can block them on a
// gate to simulate long-running jobs.
type fakePipeline struct {
	mu    sync.Mutex
	calls []int64
	gate  chan struct{}
}

func (f *fakePipeline) ProcessRubric(context.Context, string, int64) (*driving.RubricReport, error) {
	return &driving.RubricReport{}, nil
}

func (f *fakePipeline) ProcessSubmission(context.Context, string, int64) (*driving.SubmissionReport, error) {
	return &driving.SubmissionReport{}, nil
}

func (f *fakePipeline) ProcessBatch(_ context.Context, _ string, assignmentID int64) (*driving.BatchReport, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, assignmentID)
	return &driving.BatchReport{}, nil
}

func (f *fakePipeline) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func waitForJobs(t *testing.T, runner *JobRunner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, runner.Wait(ctx))
}

func TestJobRunnerTrigger(t *testing.T) {
	pipeline := &fakePipeline{}
	runner := NewJobRunner(pipeline)

	runner.Trigger(7, "uploads/7")
	waitForJobs(t, runner)

	assert.Equal(t, 1, pipeline.callCount())
}

func TestJobRunnerCoalescesTriggers(t *testing.T) {
	pipeline := &fakePipeline{gate: make(chan struct{})}
	runner := NewJobRunner(pipeline)

	runner.Trigger(7, "uploads/7")
	// These arrive while the first run is still blocked and must fold
	// into a single follow-up run.
	runner.Trigger(7, "uploads/7")
	runner.Trigger(7, "uploads/7")
	runner.Trigger(7, "uploads/7")

	close(pipeline.gate)
	waitForJobs(t, runner)

	assert.Equal(t, 2, pipeline.callCount())
}

func TestJobRunnerIndependentAssignments(t *testing.T) {
	pipeline := &fakePipeline{}
	runner := NewJobRunner(pipeline)

	runner.Trigger(1, "uploads/1")
	runner.Trigger(2, "uploads/2")
	waitForJobs(t, runner)

	assert.Equal(t, 2, pipeline.callCount())

	pipeline.mu.Lock()
	defer pipeline.mu.Unlock()
	assert.ElementsMatch(t, []int64{1, 2}, pipeline.calls)
}

func TestJobRunnerWaitCancellation(t *testing.T) {
	pipeline := &fakePipeline{gate: make(chan struct{})}
	runner := NewJobRunner(pipeline)
	runner.Trigger(7, "uploads/7")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, runner.Wait(ctx))

	close(pipeline.gate)
	waitForJobs(t, runner)
}
