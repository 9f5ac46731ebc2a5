package domain

// RubricDimension is one scored criterion of a grading rubric.
// Keywords are produced once at rubric-ingestion time and are immutable.
// The ID is stable across a course offering and is the join key for
// every downstream per-dimension record.
type RubricDimension struct {
	// ID is the stable dimension identifier.
	ID string `json:"id"`

	// Name is the human-readable criterion name, e.g. "technical contents".
	Name string `json:"name"`

	// Keywords are the extracted and LLM-expanded retrieval terms.
	Keywords []string `json:"keywords"`

	// MaxScore is the maximum mark awardable for this dimension.
	MaxScore float64 `json:"max_score"`
}

// Rubric is the full dimension set for one assignment.
type Rubric struct {
	// AssignmentID links the rubric to an assignment.
	AssignmentID int64 `json:"assignment_id"`

	// Dimensions are the scored criteria in document order.
	Dimensions []RubricDimension `json:"dimensions"`
}

// TotalScore returns the sum of the dimension maxima.
func (r Rubric) TotalScore() float64 {
	var total float64
	for _, d := range r.Dimensions {
		total += d.MaxScore
	}
	return total
}

// Dimension returns the dimension with the given ID, or nil.
func (r Rubric) Dimension(id string) *RubricDimension {
	for i := range r.Dimensions {
		if r.Dimensions[i].ID == id {
			return &r.Dimensions[i]
		}
	}
	return nil
}
