package services

import (
	"context"
	"sync"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Ensure JobRunner implements the interface.
var _ driving.JobRunner = (*JobRunner)(nil)

// jobState tracks one assignment's processing job. A trigger while
// the job runs sets pending instead of starting a second run, so two
// jobs for one assignment never interleave and a burst of triggers
// coalesces into at most one follow-up run.
type jobState struct {
	running bool
	pending bool
	dir     string
}

// JobRunner serialises assignment-level batch processing.
type JobRunner struct {
	pipeline driving.PipelineService

	mu   sync.Mutex
	jobs map[int64]*jobState
	wg   sync.WaitGroup
}

// NewJobRunner creates a runner over the processing pipeline.
func NewJobRunner(pipeline driving.PipelineService) *JobRunner {
	return &JobRunner{
		pipeline: pipeline,
		jobs:     make(map[int64]*jobState),
	}
}

// Trigger requests processing of an assignment's upload directory.
// Returns immediately; the job runs asynchronously.
func (j *JobRunner) Trigger(assignmentID int64, dir string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	st, ok := j.jobs[assignmentID]
	if !ok {
		st = &jobState{}
		j.jobs[assignmentID] = st
	}
	st.dir = dir

	if st.running {
		st.pending = true
		logger.Debug("Assignment %d already processing, queued follow-up run", assignmentID)
		return
	}

	st.running = true
	j.wg.Add(1)
	go j.run(assignmentID, st)
}

// run processes the assignment, repeating while triggers arrived
// during the run, then releases the slot.
func (j *JobRunner) run(assignmentID int64, st *jobState) {
	defer j.wg.Done()

	for {
		j.mu.Lock()
		dir := st.dir
		j.mu.Unlock()

		report, err := j.pipeline.ProcessBatch(context.Background(), dir, assignmentID)
		if err != nil {
			logger.Warn("Assignment %d processing failed: %v", assignmentID, err)
		} else {
			logger.Info("Assignment %d: %d processed, %d skipped, %d failed",
				assignmentID, report.Processed, report.Skipped, len(report.Failed))
		}

		j.mu.Lock()
		if st.pending {
			st.pending = false
			j.mu.Unlock()
			continue
		}
		st.running = false
		j.mu.Unlock()
		return
	}
}

// Wait blocks until all in-flight and queued jobs finish or the
// context is cancelled.
func (j *JobRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
