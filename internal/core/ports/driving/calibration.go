package driving

import (
	"context"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// CalibrationService learns a marking style from human-scored
// submissions. Scores are banded, a representative is chosen per
// band, and neighbouring representatives are compared through the
// completion service to derive per-band style guidance.
type CalibrationService interface {
	// Analyse bands the tutor-scored records of a course offering and
	// selects one representative per non-empty band.
	Analyse(ctx context.Context, key domain.CourseKey, assignmentID *int64) (*CalibrationReport, error)

	// LearnStyle walks the representative ladder, evaluating each
	// representative against its lower and higher neighbours, and
	// returns one style note per band boundary. Requires an LLM.
	LearnStyle(ctx context.Context, key domain.CourseKey, assignmentID *int64) ([]domain.StyleNote, error)
}

// CalibrationReport is the banded view of a course's human scores.
type CalibrationReport struct {
	// TotalScore is the score ceiling used for banding.
	TotalScore float64

	// BandWidth is the band width used for banding.
	BandWidth float64

	// Bands holds every band, including empty ones, by ascending index.
	Bands []domain.ScoreBand

	// Representatives holds one entry per non-empty band, by
	// ascending band index.
	Representatives []domain.Representative
}
