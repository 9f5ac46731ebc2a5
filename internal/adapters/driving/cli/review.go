package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reviewPendingOnly  bool
	reviewZID          string
	reviewAssignmentID int64
	reviewStatus       string
	reviewComments     string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Work through flagged marking records",
	RunE:  runReviewList,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List marking records",
	RunE:  runReviewList,
}

var reviewSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a record's review status",
	Long: `Moves a record through the review workflow. The statuses reviewed,
completed, resolved and checked close the review permanently; the flag
is never re-raised for that record.`,
	RunE: runReviewSet,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute differences and review flags",
	Long: `Recomputes the AI-versus-tutor difference and review flag for every
record in the course's marking sheet. Safe to re-run.`,
	RunE: runReconcile,
}

func init() {
	addCourseFlags(reviewCmd)
	addCourseFlags(reviewListCmd)
	addCourseFlags(reviewSetCmd)
	addCourseFlags(reconcileCmd)
	reviewCmd.PersistentFlags().BoolVar(&reviewPendingOnly, "pending", false, "only records needing review")
	reviewSetCmd.Flags().StringVarP(&reviewZID, "zid", "z", "", "student identifier (required)")
	reviewSetCmd.Flags().Int64VarP(&reviewAssignmentID, "assignment", "a", 0, "assignment ID")
	reviewSetCmd.Flags().StringVar(&reviewStatus, "status", "", "new review status (required)")
	reviewSetCmd.Flags().StringVar(&reviewComments, "comments", "", "reviewer notes")
	_ = reviewSetCmd.MarkFlagRequired("zid")
	_ = reviewSetCmd.MarkFlagRequired("status")
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewSetCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(reconcileCmd)
}

func runReviewList(cmd *cobra.Command, _ []string) error {
	if markingService == nil {
		return errors.New("marking service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	records, err := markingService.List(context.Background(), key, reviewPendingOnly)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No records found.")
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("  %s", r.ZID)
		if r.StudentName != "" {
			cmd.Printf(" (%s)", r.StudentName)
		}
		cmd.Printf("  state=%s", r.State())
		if r.AITotal != nil {
			cmd.Printf("  ai=%.2f", *r.AITotal)
		}
		if r.TutorTotal != nil {
			cmd.Printf("  tutor=%.2f", *r.TutorTotal)
		}
		if r.Difference != nil {
			cmd.Printf("  diff=%+.2f", *r.Difference)
		}
		if r.NeedsReview {
			cmd.Printf("  NEEDS REVIEW")
		}
		if r.ReviewStatus != "" {
			cmd.Printf("  [%s]", r.ReviewStatus)
		}
		cmd.Println()
	}
	return nil
}

func runReviewSet(cmd *cobra.Command, _ []string) error {
	if markingService == nil {
		return errors.New("marking service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	err = markingService.SetReviewStatus(context.Background(), key, reviewZID,
		optionalAssignment(reviewAssignmentID), reviewStatus, reviewComments)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}

	cmd.Printf("Review status for %s set to %s\n", reviewZID, reviewStatus)
	return nil
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	if markingService == nil {
		return errors.New("marking service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	n, err := markingService.ReconcileAll(context.Background(), key)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	cmd.Printf("Reconciled %d records\n", n)
	return nil
}
