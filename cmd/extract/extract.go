// Package extract handles the statement extraction command
package extract

import (
	"fjacquet/statement-parser/cmd/common"
	"fjacquet/statement-parser/cmd/root"
	"fjacquet/statement-parser/internal/logging"

	"github.com/spf13/cobra"
)

var (
	categorize bool
	summarize  bool
	categories []string
	month      string
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transactions from a bank statement",
	Long: `Extract the transactions and account metadata from a PDF or CSV bank statement.

The ledger is written as CSV (default), JSON or a readable table (display dates,
formatted amounts, expense/income markers and totals). A JSON ledger can be fed back to the
categorize, summarize and export commands. With --categorize the ledger is categorized
against the configured taxonomy before it is written; with --summarize a spending
summary is printed after it.

Example:
  statement-parser extract -i statement.pdf -o exports/
  statement-parser extract -i statement.csv -f json --categorize --summarize`,
	RunE: run,
}

func init() {
	Cmd.Flags().BoolVar(&categorize, "categorize", false, "Categorize the extracted ledger")
	Cmd.Flags().BoolVar(&summarize, "summarize", false, "Print a spending summary of the extracted ledger")
	Cmd.Flags().StringSliceVar(&categories, "categories", nil, "Categories to use instead of the configured taxonomy")
	Cmd.Flags().StringVar(&month, "month", "", `Month label for the summary, e.g. "January 2023" (default: dominant month of the ledger)`)
}

func run(cmd *cobra.Command, args []string) error {
	format, err := common.ParseFormat(root.SharedFlags.Format)
	if err != nil {
		return err
	}
	data, mimeType, err := common.ReadStatement(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := root.GetContainer(ctx)
	if err != nil {
		return err
	}
	logger := c.GetLogger().WithField(logging.FieldFile, root.SharedFlags.Input)
	cfg := c.GetConfig()
	sess := c.GetSession()

	result, err := sess.Extract(ctx, data, mimeType)
	if err != nil {
		return err
	}
	common.LogMetadata(logger, result.Metadata)
	logger.Info("Extraction completed", logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)})

	var content string
	if categorize {
		categorized, catErr := sess.Categorize(ctx, common.ResolveCategories(categories, c.GetCategories()))
		if catErr != nil {
			return catErr
		}
		content, err = common.RenderCategorized(categorized, format, cfg.Export.Currency)
	} else {
		content, err = common.RenderLedger(result.Transactions, format, cfg.Export.Currency)
	}
	if common.IsEmptyLedger(err) {
		logger.Warn("Nothing to export: the statement has no transactions")
		return nil
	}
	if err != nil {
		return err
	}

	if err := common.WriteOutput(cmd.OutOrStdout(), content, root.SharedFlags.Output, cfg.Export.FilePrefix, format, logger); err != nil {
		return err
	}

	if summarize {
		summary, label, err := sess.Summarize(ctx, month)
		if err != nil {
			return err
		}
		return common.PrintSummary(cmd.OutOrStdout(), summary, label, cfg.Export.Currency, format)
	}
	return nil
}
