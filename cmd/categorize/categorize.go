// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"fjacquet/statement-parser/cmd/common"
	"fjacquet/statement-parser/cmd/root"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/store"

	"github.com/spf13/cobra"
)

var (
	categories     []string
	initCategories bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize the transactions of a JSON ledger",
	Long: `Categorize every transaction of a JSON ledger against a category taxonomy.

The taxonomy comes from --categories, else from the categories file
(categorization.categories_file), else from categorization.default_categories.
A category outside the taxonomy fails the command unless
categorization.allow_unknown is set. Use --init-categories to write the default
taxonomy to the categories file for editing.

Example:
  statement-parser categorize -i ledger.json -o categorized.csv
  statement-parser categorize -i ledger.json --categories Food,Rent,Income -f json
  statement-parser categorize --init-categories`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringSliceVar(&categories, "categories", nil, "Categories to use instead of the configured taxonomy")
	Cmd.Flags().BoolVar(&initCategories, "init-categories", false, "Write the default taxonomy to the categories file and exit")
}

func run(cmd *cobra.Command, args []string) error {
	if initCategories {
		return writeDefaultTaxonomy(cmd)
	}

	format, err := common.ParseFormat(root.SharedFlags.Format)
	if err != nil {
		return err
	}
	ledger, err := common.LoadLedger(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := root.GetContainer(ctx)
	if err != nil {
		return err
	}
	logger := c.GetLogger().WithField(logging.FieldFile, root.SharedFlags.Input)

	categorized, err := c.GetCategorizer().Categorize(ctx, ledger, common.ResolveCategories(categories, c.GetCategories()))
	if err != nil {
		return err
	}

	content, err := common.RenderCategorized(categorized, format, c.GetConfig().Export.Currency)
	if common.IsEmptyLedger(err) {
		logger.Warn("Nothing to export: the ledger has no transactions")
		return nil
	}
	if err != nil {
		return err
	}
	return common.WriteOutput(cmd.OutOrStdout(), content, root.SharedFlags.Output, c.GetConfig().Export.FilePrefix, format, logger)
}

func writeDefaultTaxonomy(cmd *cobra.Command) error {
	cfg := root.AppConfig
	names := cfg.Categorization.DefaultCategories
	if len(categories) > 0 {
		names = categories
	}

	s := store.NewCategoryStore(cfg.Categorization.CategoriesFile, root.Log)
	path, err := s.SaveCategories(store.FromNames(names))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d categories to %s\n", len(names), path)
	return err
}
