package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

var processAssignmentID int64

var processCmd = &cobra.Command{
	Use:   "process [path]",
	Short: "Process submissions through the pipeline",
	Long: `Runs submissions through extraction, cleaning, chunking, embedding
and evidence retrieval against the assignment's rubric index.

Pass a single file to process one submission, or a directory to process
every supported file in it. The rubric must be ingested first.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Int64VarP(&processAssignmentID, "assignment", "a", 0, "assignment ID (required)")
	_ = processCmd.MarkFlagRequired("assignment")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	ctx := context.Background()
	if info.IsDir() {
		report, err := pipelineService.ProcessBatch(ctx, path, processAssignmentID)
		if err != nil {
			return fmt.Errorf("batch processing failed: %w", err)
		}
		printBatchReport(cmd, report)
		return nil
	}

	report, err := pipelineService.ProcessSubmission(ctx, path, processAssignmentID)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	printSubmissionReport(cmd, report)
	return nil
}

func printSubmissionReport(cmd *cobra.Command, report *driving.SubmissionReport) {
	cmd.Printf("Processed submission %s\n", report.SubmissionID)
	if report.StudentID != "" {
		cmd.Printf("  Student: %s\n", report.StudentID)
	}
	cmd.Printf("  Paragraphs: %d\n", report.Paragraphs)
	cmd.Printf("  Chunks: %d\n", report.Chunks)

	dims := make([]string, 0, len(report.Evidence))
	for id := range report.Evidence {
		dims = append(dims, id)
	}
	sort.Strings(dims)

	cmd.Println("  Evidence:")
	for _, id := range dims {
		cmd.Printf("    %s: %d chunks\n", id, len(report.Evidence[id].Chunks))
	}
}

func printBatchReport(cmd *cobra.Command, report *driving.BatchReport) {
	cmd.Printf("Batch complete: %d processed, %d skipped, %d failed\n",
		report.Processed, report.Skipped, len(report.Failed))
	for _, f := range report.Failed {
		cmd.Printf("  FAILED %s: %s\n", f.Path, f.Err)
	}
}
