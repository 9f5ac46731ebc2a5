package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// termPattern accepts "2025 Term 3", "2025T3", "2025 3" and similar.
var termPattern = regexp.MustCompile(`(?i)^\s*(\d{4})\s*(?:Term|T)?\s*([0-9]+)\s*$`)

// CourseKey identifies one course offering. Marking results are
// grouped per offering, one sheet per course code per term.
type CourseKey struct {
	// Code is the course code, e.g. "COMP9900".
	Code string

	// Year is the four-digit offering year.
	Year string

	// Term is the normalised term label, e.g. "Term3".
	Term string
}

// ParseTerm normalises a free-form term label into a CourseKey for
// the given course code.
func ParseTerm(code, term string) (CourseKey, error) {
	m := termPattern.FindStringSubmatch(term)
	if m == nil {
		return CourseKey{}, fmt.Errorf("%w: unexpected term format %q", ErrInvalidInput, term)
	}
	return CourseKey{
		Code: strings.TrimSpace(code),
		Year: m[1],
		Term: "Term" + m[2],
	}, nil
}

// IsZero reports whether the key is unset.
func (k CourseKey) IsZero() bool {
	return k.Code == "" && k.Year == "" && k.Term == ""
}

// Folder returns the per-offering directory name, e.g. "2025_Term3".
func (k CourseKey) Folder() string {
	return k.Year + "_" + k.Term
}

// SheetPath returns the marking sheet location relative to a root
// directory.
func (k CourseKey) SheetPath() string {
	return filepath.Join(k.Folder(), k.Code+".json")
}

// MarkingSheet is the per-offering collection of marking records,
// stored as a single document and rewritten atomically on change.
type MarkingSheet struct {
	Course            string          `json:"course"`
	Name              string          `json:"name"`
	Term              string          `json:"term"`
	CreatedAt         time.Time       `json:"created_at"`
	AIMarkingFinished bool            `json:"ai_marking_finished"`
	Results           []MarkingRecord `json:"marking_results"`
}

// NewMarkingSheet creates an empty sheet for a course offering.
func NewMarkingSheet(key CourseKey, name string) *MarkingSheet {
	return &MarkingSheet{
		Course:    key.Code,
		Name:      name,
		Term:      key.Year + " " + key.Term,
		CreatedAt: time.Now(),
	}
}

// Find returns the record for (zid, assignmentID), resolving identity
// by the most specific match. An exact assignment match always wins.
// A qualified lookup falls back to the zid's unqualified record when
// the zid has no assignment-qualified record at all; an unqualified
// lookup falls back to the zid's qualified record when exactly one
// exists. Returns nil when nothing matches, including the ambiguous
// unqualified lookup against several qualified records.
func (s *MarkingSheet) Find(zid string, assignmentID *int64) *MarkingRecord {
	var unqualified *MarkingRecord
	var qualified []*MarkingRecord
	for i := range s.Results {
		r := &s.Results[i]
		if !strings.EqualFold(r.ZID, zid) {
			continue
		}
		if r.AssignmentID == nil {
			if assignmentID == nil {
				return r
			}
			unqualified = r
			continue
		}
		if assignmentID != nil && *r.AssignmentID == *assignmentID {
			return r
		}
		qualified = append(qualified, r)
	}

	if assignmentID != nil {
		if len(qualified) > 0 {
			return nil
		}
		return unqualified
	}
	if len(qualified) == 1 {
		return qualified[0]
	}
	return nil
}

// Upsert inserts or replaces the record matching the given record's
// identity. The sheet never holds two records for the same identity:
// a qualified record adopts the zid's earlier unqualified record
// rather than sitting beside it.
func (s *MarkingSheet) Upsert(rec MarkingRecord) {
	if existing := s.Find(rec.ZID, rec.AssignmentID); existing != nil {
		*existing = rec
		return
	}
	s.Results = append(s.Results, rec)
}
