package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui"
)

var reviewUIAssignmentID int64

// reviewUICmd represents the review ui command.
var reviewUICmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive review sheet",
	Long: `Launch the interactive terminal interface for working through a
course's marking sheet.

Controls:
  ↑/k, ↓/j - Navigate records
  Enter    - Open record detail
  f        - Toggle flagged-only filter
  v        - Mark selected record reviewed
  x        - Mark selected record resolved
  r        - Refresh
  ?        - Toggle help
  q        - Quit`,
	RunE: runReviewUI,
}

func init() {
	addCourseFlags(reviewUICmd)
	reviewUICmd.Flags().Int64VarP(&reviewUIAssignmentID, "assignment", "a", 0, "assignment ID")
	reviewCmd.AddCommand(reviewUICmd)
}

func runReviewUI(cmd *cobra.Command, _ []string) error {
	if markingService == nil {
		return errors.New("marking service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	// Surface stack traces from rendering panics
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in review UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Marking:      markingService,
		Key:          key,
		AssignmentID: optionalAssignment(reviewUIAssignmentID),
	})
	if err != nil {
		return fmt.Errorf("failed to create review UI: %w", err)
	}

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("review UI error: %w", err)
	}

	return nil
}
