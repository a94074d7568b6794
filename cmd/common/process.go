// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/statement-parser/internal/currencyutils"
	"fjacquet/statement-parser/internal/export"
	"fjacquet/statement-parser/internal/fileutils"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"
	"fjacquet/statement-parser/internal/schema"
)

// ErrNoInput is returned when a command needs --input and none was given.
var ErrNoInput = errors.New("an input file is required (--input)")

// ReadStatement reads a statement file and sniffs its MIME type.
func ReadStatement(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", ErrNoInput
	}
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, fileutils.DetectMIMEType(path, data), nil
}

// LoadLedger reads a JSON ledger, as written by "extract --format json" or
// "export --format json". Extra fields such as category are ignored.
func LoadLedger(path string) ([]models.Transaction, error) {
	if path == "" {
		return nil, ErrNoInput
	}
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ledger, err := schema.ParseLedger(data)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid JSON ledger: %w", path, err)
	}
	return ledger, nil
}

// IsEmptyLedger reports an export refused because there was nothing to export.
// Commands surface it as a warning rather than a failure.
func IsEmptyLedger(err error) bool {
	return pipelineerror.KindOf(err) == pipelineerror.KindEmptyLedger
}

// ParseFormat normalizes a --format value.
func ParseFormat(format string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "", export.FormatCSV:
		return export.FormatCSV, nil
	case export.FormatJSON:
		return export.FormatJSON, nil
	case export.FormatTable:
		return export.FormatTable, nil
	}
	return "", &pipelineerror.InvalidInputError{Field: "format", Reason: fmt.Sprintf("unsupported format %q (expected csv, json or table)", format)}
}

// RenderLedger renders transactions in the given format. currency only
// affects the table format.
func RenderLedger(transactions []models.Transaction, format, currency string) (string, error) {
	switch format {
	case export.FormatJSON:
		return export.ToJSON(transactions)
	case export.FormatTable:
		return export.ToTable(transactions, currency)
	}
	return export.ToCSV(transactions)
}

// RenderCategorized renders a categorized ledger in the given format.
func RenderCategorized(transactions []models.CategorizedTransaction, format, currency string) (string, error) {
	switch format {
	case export.FormatJSON:
		return export.ToJSON(transactions)
	case export.FormatTable:
		return export.CategorizedToTable(transactions, currency)
	}
	return export.CategorizedToCSV(transactions)
}

// WriteOutput writes content to stdout when output is empty. An existing
// directory (or a path ending in a separator) receives "<prefix>_<date>.<ext>";
// anything else is used as the file path.
func WriteOutput(stdout io.Writer, content, output, prefix, format string, logger logging.Logger) error {
	if output == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}

	dir, name := output, ""
	if !fileutils.DirectoryExists(output) && !strings.HasSuffix(output, "/") {
		dir, name = filepath.Dir(output), filepath.Base(output)
	}
	if name == "" {
		name = export.FileName(prefix, export.Extension(format), time.Now())
	}

	path, err := export.WriteFile(dir, name, content)
	if err != nil {
		return err
	}
	logger.Info("Export written", logging.Field{Key: logging.FieldOutputFile, Value: path})
	return nil
}

// ResolveCategories returns the --categories flag values, or the configured
// taxonomy when the flag is empty.
func ResolveCategories(flag, taxonomy []string) []string {
	if len(flag) > 0 {
		return flag
	}
	return taxonomy
}

// PrintSummary writes a summary as labelled text, or as JSON for the json format.
func PrintSummary(w io.Writer, summary models.Summary, month, currency, format string) error {
	if format == export.FormatJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding summary: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	_, err := fmt.Fprintf(w, "Summary for %s\n\nTotal expenses: %s\nTop spending categories: %s\nUnusual transactions: %s\n\n%s\n",
		month,
		currencyutils.FormatCurrency(summary.TotalExpenses, currency),
		summary.TopSpendingCategories,
		summary.UnusualTransactions,
		summary.Summary)
	return err
}

// LogMetadata logs the statement metadata fields that were found.
func LogMetadata(logger logging.Logger, metadata models.BankMetadata) {
	fields := metadata.Present()
	if len(fields) == 0 {
		logger.Info("No statement metadata found")
		return
	}
	logFields := make([]logging.Field, 0, len(fields))
	for _, f := range fields {
		logFields = append(logFields, logging.Field{Key: f.Key, Value: f.Value})
	}
	logger.Info("Statement metadata", logFields...)
}
