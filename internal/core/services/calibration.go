package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Ensure CalibrationService implements the interface.
var _ driving.CalibrationService = (*CalibrationService)(nil)

// calibrationStyleTemperature keeps style learning near-deterministic.
const calibrationStyleTemperature = 0.2

// CalibrationService learns a marker's scoring tendencies from the
// tutor-scored records of a course offering.
type CalibrationService struct {
	marking   driven.MarkingStore
	llm       driven.LLMService
	prompts   driven.PromptStore
	artifacts driven.ArtifactStore
	settings  domain.PipelineSettings
}

// NewCalibrationService creates the service. The LLM is only needed
// for LearnStyle; Analyse works without it. A nil artifact store
// skips style-note persistence.
func NewCalibrationService(marking driven.MarkingStore, llm driven.LLMService, prompts driven.PromptStore, artifacts driven.ArtifactStore, settings domain.PipelineSettings) *CalibrationService {
	return &CalibrationService{
		marking:   marking,
		llm:       llm,
		prompts:   prompts,
		artifacts: artifacts,
		settings:  settings,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (c *CalibrationService) SetPromptStore(store driven.PromptStore) {
	c.prompts = store
}

// BuildBands constructs the fixed-width score bands for a range.
// Bands are half-open [k*w, (k+1)*w); the final band is clamped to
// the total and closed so a full-marks sample still lands in a band.
func BuildBands(totalScore, bandWidth float64) []domain.ScoreBand {
	n := domain.NumBands(totalScore, bandWidth)
	bands := make([]domain.ScoreBand, n)
	for k := 0; k < n; k++ {
		low := round1(float64(k) * bandWidth)
		high := round1(low + bandWidth)
		closed := false
		if high >= totalScore {
			high = totalScore
			closed = true
		}
		bands[k] = domain.ScoreBand{
			Index:  k,
			Low:    low,
			High:   high,
			Closed: closed,
		}
	}
	return bands
}

// AssignSamples places each sample into the band containing its
// score, in scan order. Samples outside [0, total] are dropped.
func AssignSamples(bands []domain.ScoreBand, samples []domain.CalibrationSample) {
	for _, s := range samples {
		for i := range bands {
			if bands[i].Contains(s.TotalScore) {
				bands[i].Samples = append(bands[i].Samples, s)
				break
			}
		}
	}
}

// SelectRepresentatives picks, per non-empty band, the sample whose
// score is closest to the band midpoint. Ties keep the first sample
// scanned. Empty bands contribute nothing.
func SelectRepresentatives(bands []domain.ScoreBand) []domain.Representative {
	var reps []domain.Representative
	for _, band := range bands {
		if len(band.Samples) == 0 {
			continue
		}
		mid := band.Midpoint()
		best := band.Samples[0]
		bestDiff := math.Abs(best.TotalScore - mid)
		for _, s := range band.Samples[1:] {
			if diff := math.Abs(s.TotalScore - mid); diff < bestDiff {
				best, bestDiff = s, diff
			}
		}
		reps = append(reps, domain.Representative{
			BandIndex: band.Index,
			Low:       band.Low,
			High:      band.High,
			Sample:    best,
		})
	}
	return reps
}

// Analyse bands the sheet's tutor-scored records and selects band
// representatives.
func (c *CalibrationService) Analyse(ctx context.Context, key domain.CourseKey, assignmentID *int64) (*driving.CalibrationReport, error) {
	samples, err := c.loadSamples(ctx, key, assignmentID)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("calibrate %s: no tutor-scored records: %w", key.Code, domain.ErrNotFound)
	}

	bands := BuildBands(c.settings.TotalScore, c.settings.BandWidth)
	AssignSamples(bands, samples)
	reps := SelectRepresentatives(bands)

	logger.Info("Calibration: %d samples across %d bands, %d representatives", len(samples), len(bands), len(reps))
	return &driving.CalibrationReport{
		TotalScore:      c.settings.TotalScore,
		BandWidth:       c.settings.BandWidth,
		Bands:           bands,
		Representatives: reps,
	}, nil
}

// LearnStyle walks the representative ladder by ascending band. Each
// representative is evaluated against its immediate lower and higher
// neighbours through the completion service, yielding one style note
// per band.
func (c *CalibrationService) LearnStyle(ctx context.Context, key domain.CourseKey, assignmentID *int64) ([]domain.StyleNote, error) {
	if c.llm == nil {
		return nil, fmt.Errorf("learn style: %w", domain.ErrLLMUnavailable)
	}

	report, err := c.Analyse(ctx, key, assignmentID)
	if err != nil {
		return nil, err
	}
	reps := report.Representatives

	template, err := c.prompts.Load(driven.PromptCalibrationStyle)
	if err != nil {
		return nil, fmt.Errorf("load style prompt: %w", err)
	}

	notes := make([]domain.StyleNote, 0, len(reps))
	for i, rep := range reps {
		lower, higher := "N/A", "N/A"
		if i > 0 {
			lower = describeSample(reps[i-1])
		}
		if i < len(reps)-1 {
			higher = describeSample(reps[i+1])
		}

		prompt := fmt.Sprintf(template, lower, describeSample(rep), higher)
		answer, err := c.llm.Generate(ctx, prompt, driven.GenerateOptions{
			Temperature:  calibrationStyleTemperature,
			JSONResponse: true,
		})
		if err != nil {
			return nil, fmt.Errorf("style for band %d: %w", rep.BandIndex, err)
		}

		guidance := map[string]any{}
		if err := json.Unmarshal([]byte(answer), &guidance); err != nil {
			guidance = map[string]any{"raw_output": answer}
		}
		notes = append(notes, domain.StyleNote{
			BandRange: fmt.Sprintf("%g-%g", rep.Low, rep.High),
			Guidance:  guidance,
		})
		logger.Debug("Learned style for band %d (%g-%g)", rep.BandIndex, rep.Low, rep.High)
	}

	if c.artifacts != nil {
		if err := c.artifacts.Save(driven.ArtifactStyleNotes, styleKey(key, assignmentID), notes); err != nil {
			return nil, fmt.Errorf("save style notes: %w", err)
		}
	}
	return notes, nil
}

// styleKey locates the persisted style notes. Notes learned for a
// specific assignment are keyed by it; otherwise by the offering.
func styleKey(key domain.CourseKey, assignmentID *int64) string {
	if assignmentID != nil {
		return fmt.Sprintf("%d", *assignmentID)
	}
	return key.Code + "_" + key.Folder()
}

// loadSamples turns the sheet's tutor-scored records into samples, in
// sheet order.
func (c *CalibrationService) loadSamples(ctx context.Context, key domain.CourseKey, assignmentID *int64) ([]domain.CalibrationSample, error) {
	sheet, err := c.marking.LoadSheet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load sheet: %w", err)
	}

	var samples []domain.CalibrationSample
	for _, rec := range sheet.Results {
		if rec.TutorTotal == nil {
			continue
		}
		if assignmentID != nil && !rec.Matches(rec.ZID, assignmentID) {
			continue
		}
		samples = append(samples, domain.CalibrationSample{
			StudentID:  rec.ZID,
			TotalScore: *rec.TutorTotal,
		})
	}
	return samples, nil
}

func describeSample(rep domain.Representative) string {
	return fmt.Sprintf("%s (%.1f, band %g-%g)", rep.Sample.StudentID, rep.Sample.TotalScore, rep.Low, rep.High)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
