// Package summarize handles the spending summary command
package summarize

import (
	"fjacquet/statement-parser/cmd/common"
	"fjacquet/statement-parser/cmd/root"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/session"
	"fjacquet/statement-parser/internal/summarizer"

	"github.com/spf13/cobra"
)

var month string

// Cmd represents the summarize command
var Cmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the spending in a JSON ledger",
	Long: `Summarize the spending in a JSON ledger: total expenses, top spending categories,
unusual transactions and a short narrative. Prints text, or JSON with -f json.

Example:
  statement-parser summarize -i ledger.json --month "January 2023"`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&month, "month", "", `Month label, e.g. "January 2023" (default: dominant month of the ledger)`)
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

	label := month
	if label == "" {
		label = session.DefaultMonth(ledger)
	}

	ctx := cmd.Context()
	c, err := root.GetContainer(ctx)
	if err != nil {
		return err
	}
	c.GetLogger().WithFields(
		logging.Field{Key: logging.FieldFile, Value: root.SharedFlags.Input},
		logging.Field{Key: logging.FieldMonth, Value: label},
	).Debug("Summarizing ledger")

	summary, err := c.GetSummarizer().Summarize(ctx, summarizer.RenderLedger(ledger), label)
	if err != nil {
		return err
	}
	return common.PrintSummary(cmd.OutOrStdout(), summary, label, c.GetConfig().Export.Currency, format)
}
