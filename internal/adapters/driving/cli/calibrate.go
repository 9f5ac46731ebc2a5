package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var calibrateAssignmentID int64

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Analyse tutor scores for style calibration",
	Long: `Bands the tutor-scored submissions of a course offering and selects
one representative per band. Run 'calibrate learn' afterwards to derive
per-band style guidance for automated scoring.`,
	RunE: runCalibrate,
}

var calibrateLearnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn the marking style from band representatives",
	Long: `Walks the representative ladder, comparing each representative
against its neighbours through the LLM, and stores one style note per
band boundary. Requires a configured LLM provider.`,
	RunE: runCalibrateLearn,
}

func init() {
	addCourseFlags(calibrateCmd)
	addCourseFlags(calibrateLearnCmd)
	calibrateCmd.Flags().Int64VarP(&calibrateAssignmentID, "assignment", "a", 0, "restrict to one assignment")
	calibrateLearnCmd.Flags().Int64VarP(&calibrateAssignmentID, "assignment", "a", 0, "restrict to one assignment")
	calibrateCmd.AddCommand(calibrateLearnCmd)
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	if calibrationService == nil {
		return errors.New("calibration service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	report, err := calibrationService.Analyse(context.Background(), key, optionalAssignment(calibrateAssignmentID))
	if err != nil {
		return fmt.Errorf("calibration analysis failed: %w", err)
	}

	cmd.Printf("Score bands (total %.1f, width %.1f)\n\n", report.TotalScore, report.BandWidth)
	for _, band := range report.Bands {
		upper := ")"
		if band.Closed {
			upper = "]"
		}
		cmd.Printf("  band %d [%.1f, %.1f%s: %d samples\n", band.Index, band.Low, band.High, upper, len(band.Samples))
	}

	cmd.Println("\nRepresentatives:")
	if len(report.Representatives) == 0 {
		cmd.Println("  (none; no tutor-scored submissions)")
		return nil
	}
	for _, rep := range report.Representatives {
		cmd.Printf("  band %d: %s (%.2f)\n", rep.BandIndex, rep.Sample.StudentID, rep.Sample.TotalScore)
	}
	return nil
}

func runCalibrateLearn(cmd *cobra.Command, _ []string) error {
	if calibrationService == nil {
		return errors.New("calibration service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	notes, err := calibrationService.LearnStyle(context.Background(), key, optionalAssignment(calibrateAssignmentID))
	if err != nil {
		return fmt.Errorf("style learning failed: %w", err)
	}

	cmd.Printf("Learned %d style notes\n\n", len(notes))
	for _, note := range notes {
		cmd.Printf("  %s:\n", note.BandRange)
		guidance, err := json.MarshalIndent(note.Guidance, "    ", "  ")
		if err != nil {
			return fmt.Errorf("failed to render guidance: %w", err)
		}
		cmd.Printf("    %s\n", string(guidance))
	}
	return nil
}
