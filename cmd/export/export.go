// Package export handles re-exporting a JSON ledger
package export

import (
	"fjacquet/statement-parser/cmd/common"
	"fjacquet/statement-parser/cmd/root"
	"fjacquet/statement-parser/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Convert a JSON ledger to CSV, JSON or a readable table",
	Long: `Validate a JSON ledger and write it as CSV, JSON or a table. The table shows
dates as "Jan 2, 2006" and amounts in export.currency. No interpretation service is
contacted, so no API key is needed.

Without --output the export is printed. With an existing directory as --output the
file is named <prefix>_<YYYY-MM-DD>.<ext> after export.file_prefix.

Example:
  statement-parser export -i ledger.json -o exports/
  statement-parser export -i ledger.json -f table`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	format, err := common.ParseFormat(root.SharedFlags.Format)
	if err != nil {
		return err
	}
	ledger, err := common.LoadLedger(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	logger := root.Log.WithField(logging.FieldFile, root.SharedFlags.Input)

	content, err := common.RenderLedger(ledger, format, root.AppConfig.Export.Currency)
	if common.IsEmptyLedger(err) {
		logger.Warn("Nothing to export: the ledger has no transactions")
		return nil
	}
	if err != nil {
		return err
	}

	return common.WriteOutput(cmd.OutOrStdout(), content, root.SharedFlags.Output, root.AppConfig.Export.FilePrefix, format, logger)
}
