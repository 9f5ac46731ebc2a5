package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/markwise-labs/markwise-cli/internal/logger"
	"github.com/markwise-labs/markwise-cli/internal/watch"
)

var (
	watchDebounce time.Duration
	watchSchedule bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch an uploads directory for new submissions",
	Long: `Watches an uploads directory laid out as one numeric subdirectory
per assignment. New or changed submissions trigger a debounced pipeline
run for their assignment; runs for one assignment never overlap.

Runs until interrupted. With --schedule the background scheduler runs
alongside the watcher for periodic reprocessing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before processing")
	watchCmd.Flags().BoolVar(&watchSchedule, "schedule", false, "also run the background scheduler")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if jobRunner == nil {
		return errors.New("job runner not configured")
	}

	root := uploadsRoot
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		return errors.New("no uploads directory configured; pass one as an argument")
	}

	watcher, err := watch.New(jobRunner, watch.Config{
		Root:       root,
		Debounce:   watchDebounce,
		Extensions: []string{"pdf", "doc", "docx", "txt", "md"},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchSchedule && schedulerService != nil {
		go func() {
			if err := schedulerService.Start(ctx); err != nil {
				logger.Warn("Scheduler stopped: %v", err)
			}
		}()
		defer func() {
			if err := schedulerService.Stop(); err != nil {
				logger.Warn("Scheduler shutdown: %v", err)
			}
		}()
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", root)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher failed: %w", err)
	}

	// Let in-flight jobs drain before exiting.
	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := jobRunner.Wait(drainCtx); err != nil {
		logger.Warn("Jobs still running at shutdown: %v", err)
	}
	return nil
}
