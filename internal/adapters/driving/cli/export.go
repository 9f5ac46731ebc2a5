package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the marking sheet as CSV",
	Long: `Writes the course's marking sheet as CSV, one row per submission
with a column per rubric dimension for both the tutor and AI scores.
Writes to stdout unless --out is given.`,
	RunE: runExport,
}

func init() {
	addCourseFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if markingService == nil {
		return errors.New("marking service not configured")
	}

	key, err := courseKeyFromFlags()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if exportOut == "" {
		return markingService.ExportCSV(ctx, key, cmd.OutOrStdout())
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", exportOut, err)
	}
	defer f.Close()

	if err := markingService.ExportCSV(ctx, key, f); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	cmd.Printf("Exported %s to %s\n", key.Code, exportOut)
	return nil
}
