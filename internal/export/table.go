package export

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/statement-parser/internal/currencyutils"
	"fjacquet/statement-parser/internal/dateutils"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"
)

var cellSanitizer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// ToTable renders transactions for reading: display dates, amounts in the
// given currency and an expense/income marker per row, then the totals.
// The stored values are not modified.
func ToTable(transactions []models.Transaction, currency string) (string, error) {
	return renderTable(transactions, nil, currency)
}

// CategorizedToTable is ToTable with a trailing Category column.
func CategorizedToTable(transactions []models.CategorizedTransaction, currency string) (string, error) {
	categories := make([]string, len(transactions))
	for i, ct := range transactions {
		categories[i] = ct.Category
	}
	return renderTable(models.Transactions(transactions), categories, currency)
}

func renderTable(transactions []models.Transaction, categories []string, currency string) (string, error) {
	if len(transactions) == 0 {
		return "", &pipelineerror.ExportError{Kind: pipelineerror.KindEmptyLedger, Format: FormatTable}
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	header := "Date\tDescription\tAmount\tType"
	if categories != nil {
		header += "\tCategory"
	}
	fmt.Fprintln(w, header)

	for i, tx := range transactions {
		row := fmt.Sprintf("%s\t%s\t%s\t%s",
			dateutils.NormalizeDate(tx.Date),
			cellSanitizer.Replace(tx.Description),
			currencyutils.FormatCurrency(tx.Amount, currency),
			currencyutils.AmountStyle(tx.Amount))
		if categories != nil {
			row += "\t" + cellSanitizer.Replace(categories[i])
		}
		fmt.Fprintln(w, row)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("error rendering table: %w", err)
	}

	fmt.Fprintf(&b, "\nTotal expenses: %s\nTotal income: %s",
		currencyutils.FormatCurrency(models.TotalExpenses(transactions), currency),
		currencyutils.FormatCurrency(models.TotalIncome(transactions), currency))
	return b.String(), nil
}
