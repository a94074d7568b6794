// Package export renders ledgers as CSV, JSON or display tables and saves them.
package export

import (
	"fmt"
	"strings"

	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"

	"github.com/gocarina/gocsv"
)

// Export formats, as reported in ExportError.
const (
	FormatCSV   = "CSV"
	FormatJSON  = "JSON"
	FormatTable = "TABLE"
)

// Extension returns the file extension used for an export format.
func Extension(format string) string {
	if strings.EqualFold(format, FormatTable) {
		return "txt"
	}
	return strings.ToLower(format)
}

type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
}

type categorizedCSVRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// ToCSV renders transactions with a "Date,Description,Amount" header. Every
// data field is double-quoted with embedded quotes doubled and rows are
// separated by "\n" with no trailing newline.
func ToCSV(transactions []models.Transaction) (string, error) {
	if len(transactions) == 0 {
		return "", &pipelineerror.ExportError{Kind: pipelineerror.KindEmptyLedger, Format: FormatCSV}
	}

	rows := make([]csvRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, csvRow{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount.String(),
		})
	}
	return marshal(rows)
}

// CategorizedToCSV renders a categorized ledger with an extra Category column.
func CategorizedToCSV(transactions []models.CategorizedTransaction) (string, error) {
	if len(transactions) == 0 {
		return "", &pipelineerror.ExportError{Kind: pipelineerror.KindEmptyLedger, Format: FormatCSV}
	}

	rows := make([]categorizedCSVRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, categorizedCSVRow{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Category:    tx.Category,
		})
	}
	return marshal(rows)
}

func marshal(rows interface{}) (string, error) {
	w := &quoteAllWriter{}
	if err := gocsv.MarshalCSV(rows, w); err != nil {
		return "", fmt.Errorf("error writing CSV data: %w", err)
	}
	return w.String(), nil
}

// quoteAllWriter implements gocsv.CSVWriter. The header row is written bare;
// every later field is quoted unconditionally.
type quoteAllWriter struct {
	lines []string
}

func (w *quoteAllWriter) Write(row []string) error {
	if len(w.lines) == 0 {
		w.lines = append(w.lines, strings.Join(row, ","))
		return nil
	}
	quoted := make([]string, len(row))
	for i, field := range row {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	w.lines = append(w.lines, strings.Join(quoted, ","))
	return nil
}

func (w *quoteAllWriter) Flush() {}

func (w *quoteAllWriter) Error() error { return nil }

func (w *quoteAllWriter) String() string {
	return strings.Join(w.lines, "\n")
}
