package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

var (
	markZID          string
	markAssignmentID int64
	markStudentName  string
	markAssignment   string
	markTotal        float64
	markFeedback     string
	markMarker       string
	markDims         []string
)

var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Record tutor marks",
}

var markTutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Record a tutor score for a submission",
	Long: `Upserts the human score for one submission and reconciles it
against any automated score. Per-dimension scores are passed as
repeated --dim flags, e.g. --dim "technical contents=8.5".`,
	RunE: runMarkTutor,
}

func init() {
	addCourseFlags(markTutorCmd)
	markTutorCmd.Flags().StringVarP(&markZID, "zid", "z", "", "student identifier (required)")
	markTutorCmd.Flags().Int64VarP(&markAssignmentID, "assignment", "a", 0, "assignment ID")
	markTutorCmd.Flags().StringVar(&markStudentName, "name", "", "student display name")
	markTutorCmd.Flags().StringVar(&markAssignment, "label", "", "assignment display label")
	markTutorCmd.Flags().Float64Var(&markTotal, "total", 0, "overall score (required)")
	markTutorCmd.Flags().StringVar(&markFeedback, "feedback", "", "overall commentary")
	markTutorCmd.Flags().StringVar(&markMarker, "marker", "tutor", "marker name")
	markTutorCmd.Flags().StringArrayVar(&markDims, "dim", nil, "per-dimension score as name=score")
	_ = markTutorCmd.MarkFlagRequired("zid")
	_ = markTutorCmd.MarkFlagRequired("total")
	markCmd.AddCommand(markTutorCmd)
	rootCmd.AddCommand(markCmd)
}

func runMarkTutor(cmd *cobra.Command, _ []string) error {
	if markingService == nil {
		return errors.New("marking service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	detail, err := parseDimensionMarks(markDims)
	if err != nil {
		return err
	}

	update := driving.ScoreUpdate{
		ZID:          markZID,
		AssignmentID: optionalAssignment(markAssignmentID),
		StudentName:  markStudentName,
		Assignment:   markAssignment,
		Detail:       detail,
		Total:        markTotal,
		Feedback:     markFeedback,
		MarkedBy:     markMarker,
	}

	record, err := markingService.RecordTutorScore(context.Background(), key, update)
	if err != nil {
		return fmt.Errorf("failed to record tutor score: %w", err)
	}

	cmd.Printf("Recorded tutor score %.2f for %s\n", markTotal, record.ZID)
	if record.Difference != nil {
		cmd.Printf("  Difference vs AI: %+.2f\n", *record.Difference)
	}
	if record.NeedsReview {
		cmd.Println("  Flagged for review.")
	}
	return nil
}

// parseDimensionMarks turns repeated name=score flags into a detail map.
func parseDimensionMarks(pairs []string) (map[string]domain.DimensionMark, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	detail := make(map[string]domain.DimensionMark, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --dim %q, expected name=score", pair)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score in --dim %q: %w", pair, err)
		}
		detail[name] = domain.DimensionMark{Score: score}
	}
	return detail, nil
}
