package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var rubricAssignmentID int64

var rubricCmd = &cobra.Command{
	Use:   "rubric [file]",
	Short: "Ingest a rubric document",
	Long: `Parses a rubric document into scored dimensions, expands each
dimension's keywords and builds the retrieval index for the assignment.
Re-running replaces the previous index.`,
	Args: cobra.ExactArgs(1),
	RunE: runRubric,
}

func init() {
	rubricCmd.Flags().Int64VarP(&rubricAssignmentID, "assignment", "a", 0, "assignment ID (required)")
	_ = rubricCmd.MarkFlagRequired("assignment")
	rootCmd.AddCommand(rubricCmd)
}

func runRubric(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	report, err := pipelineService.ProcessRubric(context.Background(), args[0], rubricAssignmentID)
	if err != nil {
		return fmt.Errorf("rubric ingestion failed: %w", err)
	}

	cmd.Printf("Rubric ingested for assignment %d\n", report.AssignmentID)
	cmd.Printf("Indexed dimensions: %d\n\n", report.IndexSize)
	for _, dim := range report.Dimensions {
		cmd.Printf("  [%s] %s (max %.1f)\n", dim.ID, dim.Name, dim.MaxScore)
		if len(dim.Keywords) > 0 {
			cmd.Printf("      keywords: %s\n", strings.Join(dim.Keywords, ", "))
		}
	}

	return nil
}
