package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	scoreAssignmentID int64
	scoreSubmissionID string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score processed submissions",
	Long: `Scores processed submissions against the assignment's rubric, one
dimension at a time, guided by any learned marking style.

Use --submission to score one submission, or --assignment to score
every processed submission that does not already carry an AI total.`,
	RunE: runScore,
}

func init() {
	addCourseFlags(scoreCmd)
	scoreCmd.Flags().Int64VarP(&scoreAssignmentID, "assignment", "a", 0, "assignment ID for batch scoring")
	scoreCmd.Flags().StringVarP(&scoreSubmissionID, "submission", "s", "", "submission ID to score")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if scoringService == nil {
		return errors.New("scoring service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if scoreSubmissionID != "" {
		record, err := scoringService.ScoreSubmission(ctx, key, scoreSubmissionID)
		if err != nil {
			return fmt.Errorf("scoring failed: %w", err)
		}

		cmd.Printf("Scored %s", record.ZID)
		if record.AITotal != nil {
			cmd.Printf(": %.2f", *record.AITotal)
		}
		cmd.Println()

		dims := make([]string, 0, len(record.AIDetail))
		for id := range record.AIDetail {
			dims = append(dims, id)
		}
		sort.Strings(dims)
		for _, id := range dims {
			mark := record.AIDetail[id]
			cmd.Printf("  %s: %.2f\n", id, mark.Score)
			if mark.Feedback != "" {
				cmd.Printf("      %s\n", mark.Feedback)
			}
		}
		return nil
	}

	if scoreAssignmentID == 0 {
		return errors.New("either --submission or --assignment is required")
	}

	report, err := scoringService.ScoreBatch(ctx, key, scoreAssignmentID)
	if err != nil {
		return fmt.Errorf("batch scoring failed: %w", err)
	}

	cmd.Printf("Scoring complete: %d scored, %d skipped, %d failed\n",
		report.Scored, report.Skipped, len(report.Failed))
	for _, f := range report.Failed {
		cmd.Printf("  FAILED %s: %s\n", f.Path, f.Err)
	}
	return nil
}
