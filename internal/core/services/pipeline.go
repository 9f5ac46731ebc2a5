package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/markwise-labs/markwise-cli/internal/chunk"
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
	"github.com/markwise-labs/markwise-cli/internal/logger"
	"github.com/markwise-labs/markwise-cli/internal/normalise"
	"github.com/markwise-labs/markwise-cli/internal/segment"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// zidPattern extracts the student identifier from a submission
// filename, e.g. "z1234567_report.docx".
var zidPattern = regexp.MustCompile(`[zZ]\d{7}`)

// PipelineService runs documents through extraction, normalisation,
// chunking, embedding and retrieval, persisting each stage's output.
type PipelineService struct {
	registry  driven.ExtractorRegistry
	embedding driven.EmbeddingService
	docs      driven.DocumentStore
	artifacts driven.ArtifactStore
	cleaner   *normalise.Cleaner
	chunker   *chunk.Chunker
	sections  *segment.Categoriser
	keywords  *KeywordService
	indexer   *Indexer
	retriever *Retriever
	settings  domain.PipelineSettings
}

// NewPipelineService wires the pipeline stages together.
func NewPipelineService(
	registry driven.ExtractorRegistry,
	embedding driven.EmbeddingService,
	docs driven.DocumentStore,
	artifacts driven.ArtifactStore,
	keywords *KeywordService,
	indexer *Indexer,
	retriever *Retriever,
	settings domain.PipelineSettings,
) *PipelineService {
	return &PipelineService{
		registry:  registry,
		embedding: embedding,
		docs:      docs,
		artifacts: artifacts,
		cleaner:   normalise.New(),
		chunker:   chunk.New(settings.MaxChunkLen, settings.UseTopicSegmentation),
		sections:  segment.New(),
		keywords:  keywords,
		indexer:   indexer,
		retriever: retriever,
		settings:  settings,
	}
}

// ProcessRubric ingests a rubric document: extract, clean, parse the
// dimensions, expand keywords and rebuild the rubric index. A rebuild
// replaces the previous index; a failed rebuild leaves it untouched.
func (p *PipelineService) ProcessRubric(ctx context.Context, path string, assignmentID int64) (*driving.RubricReport, error) {
	text, err := p.registry.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract rubric %s: %w", path, err)
	}

	cleaned := p.cleaner.Clean(text)
	if cleaned.IsEmpty() {
		return nil, fmt.Errorf("rubric %s: %w", path, domain.ErrExtractionEmpty)
	}

	rubric := ParseRubric(assignmentID, cleaned.Paragraphs)
	if len(rubric.Dimensions) == 0 {
		return nil, fmt.Errorf("rubric %s: no dimensions found: %w", path, domain.ErrInvalidInput)
	}
	p.keywords.ExpandRubric(ctx, rubric)

	size, err := p.indexer.Build(ctx, rubric)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:           uuid.NewString(),
		Kind:         domain.KindRubric,
		URI:          path,
		AssignmentID: &assignmentID,
		Content:      text,
		CreatedAt:    time.Now(),
	}
	if err := p.docs.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save rubric document: %w", err)
	}

	logger.Info("Rubric processed: %d dimensions indexed for assignment %d", size, assignmentID)
	return &driving.RubricReport{
		AssignmentID: assignmentID,
		Dimensions:   rubric.Dimensions,
		IndexSize:    size,
	}, nil
}

// ProcessSubmission runs one submission through the pipeline and
// persists the evidence map alongside each intermediate stage.
func (p *PipelineService) ProcessSubmission(ctx context.Context, path string, assignmentID int64) (*driving.SubmissionReport, error) {
	var rubric domain.Rubric
	rubricKey := fmt.Sprintf("%d", assignmentID)
	if err := p.artifacts.Load(driven.ArtifactRubric, rubricKey, &rubric); err != nil {
		return nil, fmt.Errorf("assignment %d has no rubric index: %w", assignmentID, domain.ErrIndexUnavailable)
	}

	text, err := p.registry.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	cleaned := p.cleaner.Clean(text)
	if cleaned.IsEmpty() {
		return nil, fmt.Errorf("submission %s: %w", path, domain.ErrExtractionEmpty)
	}

	doc := &domain.Document{
		ID:           uuid.NewString(),
		Kind:         domain.KindSubmission,
		URI:          path,
		StudentID:    parseStudentID(path),
		AssignmentID: &assignmentID,
		Content:      text,
		CreatedAt:    time.Now(),
	}
	if err := p.docs.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	if err := p.artifacts.Save(driven.ArtifactCleaned, doc.ID, cleaned); err != nil {
		return nil, fmt.Errorf("save cleaned text: %w", err)
	}
	if err := p.artifacts.Save(driven.ArtifactSections, doc.ID, p.sections.Summarise(cleaned.Paragraphs)); err != nil {
		return nil, fmt.Errorf("save section summary: %w", err)
	}

	chunks := p.chunker.Chunk(cleaned.Paragraphs)
	for i := range chunks {
		chunks[i].SubmissionID = doc.ID
	}
	if err := p.artifacts.Save(driven.ArtifactChunks, doc.ID, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	if err := EmbedChunks(ctx, p.embedding, chunks); err != nil {
		return nil, fmt.Errorf("embed %s: %w", doc.ID, err)
	}
	if err := p.docs.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return nil, fmt.Errorf("save chunk records: %w", err)
	}
	embeddings := make([][]float32, len(chunks))
	for i, c := range chunks {
		embeddings[i] = c.Embedding
	}
	if err := p.artifacts.Save(driven.ArtifactChunkEmbeddings, doc.ID, embeddings); err != nil {
		return nil, fmt.Errorf("save chunk embeddings: %w", err)
	}

	dimensionIDs := make([]string, len(rubric.Dimensions))
	for i, dim := range rubric.Dimensions {
		dimensionIDs[i] = dim.ID
	}
	evidence, err := p.retriever.Retrieve(ctx, chunks, dimensionIDs, p.settings.Retrieval)
	if err != nil {
		return nil, fmt.Errorf("retrieve evidence for %s: %w", doc.ID, err)
	}
	if err := p.artifacts.Save(driven.ArtifactRubricToChunk, doc.ID, evidence); err != nil {
		return nil, fmt.Errorf("save evidence map: %w", err)
	}
	if err := p.artifacts.Save(driven.ArtifactRubricToText, doc.ID, ResolveText(evidence, chunks)); err != nil {
		return nil, fmt.Errorf("save evidence text: %w", err)
	}

	logger.Info("Processed %s: %d paragraphs, %d chunks", filepath.Base(path), len(cleaned.Paragraphs), len(chunks))
	return &driving.SubmissionReport{
		SubmissionID: doc.ID,
		StudentID:    doc.StudentID,
		Paragraphs:   len(cleaned.Paragraphs),
		Chunks:       len(chunks),
		Evidence:     evidence,
	}, nil
}

// ProcessBatch processes every supported file in a directory through
// a bounded worker pool. Per-file failures are collected, not fatal.
func (p *PipelineService) ProcessBatch(ctx context.Context, dir string, assignmentID int64) (*driving.BatchReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	supported := make(map[string]bool)
	for _, ext := range p.registry.SupportedExtensions() {
		supported[ext] = true
	}

	report := &driving.BatchReport{}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".")
		if !supported[ext] {
			logger.Debug("Skipping %s: unsupported extension", entry.Name())
			report.Skipped++
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	workers := p.settings.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := p.ProcessSubmission(ctx, path, assignmentID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("Processing %s failed: %v", filepath.Base(path), err)
				report.Failed = append(report.Failed, driving.BatchFailure{Path: path, Err: err.Error()})
				return
			}
			report.Processed++
		}(path)
	}
	wg.Wait()

	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Path < report.Failed[j].Path })
	logger.Info("Batch: %d processed, %d skipped, %d failed", report.Processed, report.Skipped, len(report.Failed))
	return report, ctx.Err()
}

// parseStudentID pulls the zid out of a submission filename. Files
// named without one keep the bare filename as a fallback identifier.
func parseStudentID(path string) string {
	if m := zidPattern.FindString(filepath.Base(path)); m != "" {
		return strings.ToLower(m)
	}
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
