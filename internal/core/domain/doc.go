// Package domain defines the core business entities for Markwise.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document (rubric, assignment spec or submission)
//   - NormalisedText: Cleaned, paragraph-segmented text
//   - RubricDimension: One scored criterion of a grading rubric
//   - Chunk: A bounded span of a submission's normalised text
//   - RetrievalResult: Evidence chunks retrieved for a rubric dimension
//   - ScoreBand / CalibrationSample: Score-level bucketing for calibration
//   - MarkingRecord: Reconciled automated and human scores
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
