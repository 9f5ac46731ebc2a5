// Package cli implements the markwise command-line interface using cobra.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// version is the build version, overridden at link time.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	pipelineService    driving.PipelineService
	scoringService     driving.ScoringService
	calibrationService driving.CalibrationService
	markingService     driving.MarkingService
	settingsService    driving.SettingsService
	jobRunner          driving.JobRunner
	schedulerService   driving.Scheduler
	uploadsRoot        string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "markwise",
	Short: "Automated assignment marking from the command line",
	Long: `Markwise processes assignment submissions against a rubric:
extract, clean and chunk each document, retrieve evidence per rubric
dimension, score it with an LLM calibrated to your marking style, and
reconcile the results against tutor marks.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services carries the driving-port implementations the commands use.
type Services struct {
	Pipeline    driving.PipelineService
	Scoring     driving.ScoringService
	Calibration driving.CalibrationService
	Marking     driving.MarkingService
	Settings    driving.SettingsService
	Jobs        driving.JobRunner
	Scheduler   driving.Scheduler

	// UploadsRoot is the directory watched for new submissions.
	UploadsRoot string
}

// SetServices wires the driving ports into the command tree.
func SetServices(s Services) {
	pipelineService = s.Pipeline
	scoringService = s.Scoring
	calibrationService = s.Calibration
	markingService = s.Marking
	settingsService = s.Settings
	jobRunner = s.Jobs
	schedulerService = s.Scheduler
	uploadsRoot = s.UploadsRoot
}

// SetVersion records the build version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
