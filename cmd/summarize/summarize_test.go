package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/statement-parser/cmd/root"
	"fjacquet/statement-parser/internal/config"
	"fjacquet/statement-parser/internal/container"
	"fjacquet/statement-parser/internal/interpreter"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/pipelineerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryPayload = `{"totalExpenses": 1234.5, "topSpendingCategories": "Rent, Groceries", "unusualTransactions": "A 900.00 furniture purchase", "summary": "Spending was dominated by rent."}`

func TestMain(m *testing.M) {
	root.Init()
	root.Cmd.AddCommand(Cmd)
	os.Exit(m.Run())
}

func execute(t *testing.T, mock *interpreter.MockInterpreter, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STATEMENT_EXPORT_CURRENCY", "CHF")
	t.Chdir(t.TempDir())

	restore := root.SetContainerFactory(func(ctx context.Context, cfg *config.Config, _ logging.Logger) (*container.Container, error) {
		return container.NewContainer(ctx, cfg, container.WithLogger(logging.NewMockLogger()), container.WithInterpreter(mock))
	})
	t.Cleanup(restore)
	t.Cleanup(func() { _ = root.CloseContainer() })

	root.SharedFlags = root.CommonFlags{Format: "csv"}
	month = ""

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetArgs(append([]string{"summarize"}, args...))
	err := root.Cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"date": "2023-03-01", "description": "Rent", "amount": -1000},
		{"date": "2023-03-14", "description": "Groceries", "amount": -234.5},
		{"date": "2023-04-01", "description": "Refund", "amount": 20}
	]`), 0600))
	return path
}

func TestSummarize_TextOutput(t *testing.T) {
	mock := &interpreter.MockInterpreter{SummarizeFunc: interpreter.Respond[interpreter.SummarizeRequest](summaryPayload)}

	out, err := execute(t, mock, "-i", writeLedger(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Summary for March 2023\n"))
	assert.Contains(t, out, "Total expenses: 1,234.50 CHF")
	assert.Contains(t, out, "Top spending categories: Rent, Groceries")
	assert.Contains(t, out, "Spending was dominated by rent.")

	calls := mock.SummarizeCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "March 2023", calls[0].Month)
	assert.Equal(t, "- Date: 2023-03-01, Description: Rent, Amount: -1000\n"+
		"- Date: 2023-03-14, Description: Groceries, Amount: -234.5\n"+
		"- Date: 2023-04-01, Description: Refund, Amount: 20", calls[0].Transactions)
}

func TestSummarize_JSONOutputWithMonth(t *testing.T) {
	mock := &interpreter.MockInterpreter{SummarizeFunc: interpreter.Respond[interpreter.SummarizeRequest](summaryPayload)}

	out, err := execute(t, mock, "-i", writeLedger(t), "-f", "json", "--month", "Q1 2023")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1234.5, decoded["totalExpenses"])
	assert.Equal(t, "Q1 2023", mock.SummarizeCalls()[0].Month)
}

func TestSummarize_MalformedResponse(t *testing.T) {
	mock := &interpreter.MockInterpreter{SummarizeFunc: interpreter.Respond[interpreter.SummarizeRequest](`{"summary": "missing fields"}`)}

	_, err := execute(t, mock, "-i", writeLedger(t))
	require.Error(t, err)
	assert.Equal(t, pipelineerror.KindMalformedResponse, pipelineerror.KindOf(err))
}
