package common_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/statement-parser/cmd/common"
	"fjacquet/statement-parser/internal/export"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWriter implements io.Writer for testing write failures
type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "csv", want: export.FormatCSV},
		{input: "", want: export.FormatCSV},
		{input: " JSON ", want: export.FormatJSON},
		{input: "Json", want: export.FormatJSON},
		{input: "table", want: export.FormatTable},
		{input: "xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := common.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pipelineerror.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadStatement(t *testing.T) {
	_, _, err := common.ReadStatement("")
	assert.ErrorIs(t, err, common.ErrNoInput)

	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7\n"), 0600))
	data, mimeType, err := common.ReadStatement(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7\n", string(data))
	assert.Equal(t, "application/pdf", mimeType)
}

func TestLoadLedger(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`[{"date":"2023-05-02","description":"Tram","amount":-3.4,"category":"Transportation"}]`), 0600))
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"transactions": []}`), 0600))

	ledger, err := common.LoadLedger(valid)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "Tram", ledger[0].Description)

	_, err = common.LoadLedger(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid.json is not a valid JSON ledger")

	_, err = common.LoadLedger("")
	assert.ErrorIs(t, err, common.ErrNoInput)
}

func TestRenderLedger_EmptyIsWarning(t *testing.T) {
	_, err := common.RenderLedger(nil, export.FormatCSV, "USD")
	require.Error(t, err)
	assert.True(t, common.IsEmptyLedger(err))
	assert.False(t, common.IsEmptyLedger(errors.New("disk full")))
}

func TestWriteOutput(t *testing.T) {
	const content = "Date,Description,Amount"

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, common.WriteOutput(&out, content, "", "ledger", export.FormatCSV, logging.NewMockLogger()))
		assert.Equal(t, content+"\n", out.String())
	})

	t.Run("existing directory", func(t *testing.T) {
		dir := t.TempDir()
		logger := logging.NewMockLogger()
		require.NoError(t, common.WriteOutput(&bytes.Buffer{}, content, dir, "ledger", export.FormatJSON, logger))

		matches, err := filepath.Glob(filepath.Join(dir, "ledger_*.json"))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.True(t, logger.HasEntry("INFO", "Export written"))
	})

	t.Run("table goes to a txt file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, common.WriteOutput(&bytes.Buffer{}, content, dir, "ledger", export.FormatTable, logging.NewMockLogger()))

		matches, err := filepath.Glob(filepath.Join(dir, "ledger_*.txt"))
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("new directory with trailing slash", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "exports") + "/"
		require.NoError(t, common.WriteOutput(&bytes.Buffer{}, content, dir, "", export.FormatCSV, logging.NewMockLogger()))

		matches, err := filepath.Glob(filepath.Join(dir, export.DefaultFilePrefix+"_*.csv"))
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "march.csv")
		require.NoError(t, common.WriteOutput(&bytes.Buffer{}, content, path, "ledger", export.FormatCSV, logging.NewMockLogger()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, strings.TrimSpace(string(data)))
	})

	t.Run("stdout failure", func(t *testing.T) {
		w := &MockWriter{}
		w.On("Write", mock.Anything).Return(0, errors.New("broken pipe"))

		err := common.WriteOutput(w, content, "", "ledger", export.FormatCSV, logging.NewMockLogger())
		assert.EqualError(t, err, "broken pipe")
		w.AssertExpectations(t)
	})
}

func TestResolveCategories(t *testing.T) {
	taxonomy := []string{"Groceries", "Rent"}
	assert.Equal(t, taxonomy, common.ResolveCategories(nil, taxonomy))
	assert.Equal(t, []string{"Food"}, common.ResolveCategories([]string{"Food"}, taxonomy))
}

func TestPrintSummary(t *testing.T) {
	summary := models.Summary{
		TotalExpenses:         decimal.RequireFromString("1234.5"),
		TopSpendingCategories: "Rent",
		UnusualTransactions:   "None",
		Summary:               "Rent dominated.",
	}

	var text bytes.Buffer
	require.NoError(t, common.PrintSummary(&text, summary, "May 2023", "USD", export.FormatCSV))
	assert.Equal(t, "Summary for May 2023\n\nTotal expenses: $1,234.50\nTop spending categories: Rent\nUnusual transactions: None\n\nRent dominated.\n", text.String())

	var js bytes.Buffer
	require.NoError(t, common.PrintSummary(&js, summary, "May 2023", "USD", export.FormatJSON))
	assert.JSONEq(t, `{"totalExpenses":1234.5,"topSpendingCategories":"Rent","unusualTransactions":"None","summary":"Rent dominated."}`, js.String())

	w := &MockWriter{}
	w.On("Write", mock.Anything).Return(0, errors.New("closed"))
	assert.Error(t, common.PrintSummary(w, summary, "May 2023", "USD", export.FormatCSV))
	w.AssertExpectations(t)
}

func TestLogMetadata(t *testing.T) {
	logger := logging.NewMockLogger()
	common.LogMetadata(logger, models.BankMetadata{})
	assert.True(t, logger.HasEntry("INFO", "No statement metadata found"))

	logger = logging.NewMockLogger()
	common.LogMetadata(logger, models.BankMetadata{
		BankName:      models.Some("First National"),
		AccountNumber: models.Some("****1234"),
	})
	entries := logger.GetEntriesByLevel("INFO")
	require.Len(t, entries, 1)
	assert.Equal(t, "Statement metadata", entries[0].Message)
	assert.Equal(t, []logging.Field{
		{Key: models.MetadataBankName, Value: "First National"},
		{Key: models.MetadataAccountNumber, Value: "****1234"},
	}, entries[0].Fields)
}
