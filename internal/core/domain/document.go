package domain

import "time"

// DocumentKind classifies an ingested document.
type DocumentKind string

// Document kinds handled by the pipeline.
const (
	// KindRubric is a grading rubric listing the scored dimensions.
	KindRubric DocumentKind = "rubric"

	// KindAssignmentSpec is the assignment requirements document.
	KindAssignmentSpec DocumentKind = "assignment_spec"

	// KindSubmission is a student submission to be marked.
	KindSubmission DocumentKind = "submission"
)

// IsValid returns true if the document kind is recognised.
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindRubric, KindAssignmentSpec, KindSubmission:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k DocumentKind) String() string {
	return string(k)
}

// Document represents an ingested document before normalisation.
// It is immutable once loaded and produces exactly one NormalisedText.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Kind classifies the document.
	Kind DocumentKind

	// URI is the original location (file path).
	URI string

	// StudentID is the submission owner, if Kind is KindSubmission.
	StudentID string

	// AssignmentID links the document to an assignment, if known.
	AssignmentID *int64

	// Content is the extracted raw text.
	Content string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Paragraph is one titled paragraph of normalised text.
type Paragraph struct {
	// ID is the 1-based, contiguous paragraph identifier.
	ID int `json:"para_id"`

	// Text is the cleaned paragraph text, never empty.
	Text string `json:"text"`
}

// NormalisedText is the result of cleaning and segmenting a document.
// FullText is the paragraphs joined by a blank line.
type NormalisedText struct {
	FullText   string      `json:"full_text"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// IsEmpty returns true if normalisation produced no paragraphs.
func (n NormalisedText) IsEmpty() bool {
	return len(n.Paragraphs) == 0
}

// Chunk represents a bounded contiguous span of a submission's
// normalised text. A chunk never spans two submissions, and chunk
// indices are dense and strictly increasing from 0.
type Chunk struct {
	// Index is the ordinal position within the submission.
	Index int `json:"chunk_index"`

	// Text is the chunk content: whole paragraphs joined by a blank line.
	Text string `json:"chunk_text"`

	// SubmissionID identifies the source submission.
	SubmissionID string `json:"-"`

	// Embedding is the vector representation, populated by the embedder.
	Embedding []float32 `json:"-"`
}
