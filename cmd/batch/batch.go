// Package batch handles batch processing of files
package batch

import (
	"fmt"
	"strings"

	"fjacquet/statement-parser/cmd/root"
	"fjacquet/statement-parser/internal/batch"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statements from a directory",
	Long: `Batch process statements from an input directory and write the exports to another directory.

Every PDF and CSV file directly inside the input directory is extracted into its own
ledger and written as <name>_<YYYY-MM-DD>.csv and .json. Files are processed
concurrently (batch.concurrency). A statement without transactions is skipped with a
warning. A failing file is reported and does not stop the others; the command exits
non-zero if any file failed.

Example:
  statement-parser batch -i statements/ -o exports/`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	if inputDir == "" {
		return fmt.Errorf("an input directory is required (--input)")
	}

	ctx := cmd.Context()
	c, err := root.GetContainer(ctx)
	if err != nil {
		return err
	}

	processor := c.GetBatchProcessor().WithOutputDir(root.SharedFlags.Output)
	report, err := processor.Run(ctx, inputDir)
	printReport(cmd, report)
	if err != nil {
		return err
	}

	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(report.Results))
	}
	return nil
}

func printReport(cmd *cobra.Command, report batch.Report) {
	out := cmd.OutOrStdout()
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", res.File, res.Err)
			continue
		}
		if res.Skipped {
			fmt.Fprintf(out, "SKIP %s: no transactions\n", res.File)
			continue
		}
		period := res.DateRange.String()
		if period == "" {
			period = "no dated transactions"
		}
		fmt.Fprintf(out, "OK   %s: %d transactions (%s) -> %s\n", res.File, res.Count, period, strings.Join(res.Outputs, ", "))
	}
	fmt.Fprintf(out, "%d of %d statements processed\n", report.Succeeded(), len(report.Results))
}
