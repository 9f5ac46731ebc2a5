package domain

import "math"

// CalibrationSample is one previously human-marked submission used to
// learn a marker's scoring tendencies.
type CalibrationSample struct {
	// StudentID identifies the marked submission.
	StudentID string `json:"student_id"`

	// TotalScore is the human-assigned total.
	TotalScore float64 `json:"total_score"`
}

// ScoreBand is a fixed-width score interval [Low, High). The top band is
// closed at the theoretical total so a full-marks sample still lands in
// a band.
type ScoreBand struct {
	// Index is the 0-based band position.
	Index int `json:"index"`

	// Low is the inclusive lower bound.
	Low float64 `json:"low"`

	// High is the exclusive upper bound (inclusive for the top band).
	High float64 `json:"high"`

	// Closed marks the top band, whose upper bound is inclusive.
	Closed bool `json:"closed"`

	// Samples are the members in scan order.
	Samples []CalibrationSample `json:"samples"`
}

// Contains reports whether a score falls inside this band.
func (b ScoreBand) Contains(score float64) bool {
	if b.Closed {
		return score >= b.Low && score <= b.High
	}
	return score >= b.Low && score < b.High
}

// Midpoint returns the band centre used for representative selection.
func (b ScoreBand) Midpoint() float64 {
	return (b.Low + b.High) / 2.0
}

// Representative is the single sample per band closest to the band
// midpoint, used to anchor style calibration.
type Representative struct {
	BandIndex int               `json:"band_index"`
	Low       float64           `json:"low"`
	High      float64           `json:"high"`
	Sample    CalibrationSample `json:"sample"`
}

// StyleNote is the learned marking style for one score level, produced
// by comparing a band representative against its neighbours.
type StyleNote struct {
	// BandRange labels the score interval, e.g. "7.5-10".
	BandRange string `json:"level_range"`

	// Guidance is the completion service's structured output.
	Guidance map[string]any `json:"guidance"`
}

// NumBands returns the band count for a score range and width:
// ceil(totalScore / bandWidth).
func NumBands(totalScore, bandWidth float64) int {
	if bandWidth <= 0 || totalScore <= 0 {
		return 0
	}
	return int(math.Ceil(totalScore / bandWidth))
}
