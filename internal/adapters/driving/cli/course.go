package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// Course offering flags shared by the marking-sheet commands.
var (
	courseCode string
	courseTerm string
)

// addCourseFlags registers the --course and --term flags on a command.
func addCourseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&courseCode, "course", "c", "", "course code, e.g. COMP9900 (required)")
	cmd.Flags().StringVarP(&courseTerm, "term", "t", "", `offering term, e.g. "2025 Term 3" (required)`)
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("term")
}

// courseKeyFromFlags resolves the course flags into a CourseKey.
func courseKeyFromFlags() (domain.CourseKey, error) {
	if courseCode == "" || courseTerm == "" {
		return domain.CourseKey{}, errors.New("course and term are required")
	}
	return domain.ParseTerm(courseCode, courseTerm)
}

// optionalAssignment converts an assignment flag into the nil-when-unset
// form the marking services take.
func optionalAssignment(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
