package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"fjacquet/statement-parser/internal/interpreter"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
	"metadata": {"bankName": "First National", "accountNumber": "****1234"},
	"transactions": [
		{"date": "2023-01-01", "description": "Coffee", "amount": -4.5},
		{"date": "2023-01-02", "description": "Salary", "amount": 2000}
	]
}`

func newOrchestrator(mock *interpreter.MockInterpreter, opts Options) (*Orchestrator, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewOrchestrator(mock, logger, opts), logger
}

func TestExtract_Success(t *testing.T) {
	mock := &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](validPayload)}
	o, logger := newOrchestrator(mock, Options{})

	result, err := o.Extract(context.Background(), []byte("%PDF-1.4 statement"), "application/pdf")
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.True(t, result.Transactions[0].Equal(models.NewTransaction("2023-01-01", "Coffee", -4.5)))
	assert.Equal(t, models.Some("First National"), result.Metadata.BankName)
	assert.False(t, result.Metadata.AccountHolderName.IsPresent())

	calls := mock.StatementCalls()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].DocumentDataURI, "data:application/pdf;base64,"))
	assert.False(t, calls[0].RequestDirection)

	entries := logger.GetEntriesByLevel("INFO")
	require.NotEmpty(t, entries)
	runID, ok := entries[0].FieldValue(logging.FieldRunID)
	assert.True(t, ok)
	assert.NotEmpty(t, runID)
}

func TestExtract_MIMEParametersIgnored(t *testing.T) {
	mock := &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](validPayload)}
	o, _ := newOrchestrator(mock, Options{})

	_, err := o.Extract(context.Background(), []byte("date,description,amount"), "text/csv; charset=utf-8")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mock.StatementCalls()[0].DocumentDataURI, "data:text/csv;base64,"))
}

func TestExtract_LocalRejection(t *testing.T) {
	tests := []struct {
		name     string
		document []byte
		mimeType string
		opts     Options
		field    string
	}{
		{name: "image", document: []byte{0x89, 'P', 'N', 'G'}, mimeType: "image/png", field: "mimeType"},
		{name: "empty mime", document: []byte("x"), mimeType: "", field: "mimeType"},
		{name: "empty document", document: nil, mimeType: "application/pdf", field: "document"},
		{name: "too large", document: []byte("0123456789"), mimeType: "text/csv", opts: Options{MaxDocumentBytes: 5}, field: "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](validPayload)}
			o, _ := newOrchestrator(mock, tt.opts)

			_, err := o.Extract(context.Background(), tt.document, tt.mimeType)
			var invalid *pipelineerror.InvalidInputError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
			assert.Empty(t, mock.StatementCalls(), "no service call on local rejection")
		})
	}
}

func TestExtract_ServiceFailures(t *testing.T) {
	cases := []struct {
		name     string
		mock     *interpreter.MockInterpreter
		wantKind pipelineerror.Kind
	}{
		{
			name:     "transport fault",
			mock:     &interpreter.MockInterpreter{StatementFunc: interpreter.Fail[interpreter.StatementRequest](errors.New("dial tcp: connection refused"))},
			wantKind: pipelineerror.KindServiceUnavailable,
		},
		{
			name:     "non json answer",
			mock:     &interpreter.MockInterpreter{StatementFunc: interpreter.Fail[interpreter.StatementRequest](fmt.Errorf("%w: prose", interpreter.ErrMalformedOutput))},
			wantKind: pipelineerror.KindMalformedResponse,
		},
		{
			name:     "transactions missing",
			mock:     &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](`{"metadata":{}}`)},
			wantKind: pipelineerror.KindMalformedResponse,
		},
		{
			name:     "amount as string",
			mock:     &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](`{"transactions":[{"date":"2023-01-01","description":"x","amount":"-4.50"}]}`)},
			wantKind: pipelineerror.KindMalformedResponse,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newOrchestrator(tt.mock, Options{})

			_, err := o.Extract(context.Background(), []byte("%PDF"), "application/pdf")
			var extractionErr *pipelineerror.ExtractionError
			require.True(t, errors.As(err, &extractionErr), "got %v", err)
			assert.Equal(t, tt.wantKind, extractionErr.Kind)
		})
	}
}

func TestExtract_UnsupportedDocumentIsInvalidInput(t *testing.T) {
	mock := &interpreter.MockInterpreter{
		StatementFunc: interpreter.Fail[interpreter.StatementRequest](fmt.Errorf("%w: pdf", interpreter.ErrUnsupportedDocument)),
	}
	o, _ := newOrchestrator(mock, Options{})

	_, err := o.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	assert.True(t, pipelineerror.IsInvalidInput(err))
}

func TestExtract_PartialMetadataDropped(t *testing.T) {
	payload := `{"metadata":{"bankName":123,"accountHolderName":"Jane Doe"},"transactions":[]}`
	mock := &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](payload)}
	o, logger := newOrchestrator(mock, Options{})

	result, err := o.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.False(t, result.Metadata.BankName.IsPresent())
	assert.Equal(t, models.Some("Jane Doe"), result.Metadata.AccountHolderName)

	warnings := logger.GetEntriesByLevel("WARN")
	require.Len(t, warnings, 1)
	path, _ := warnings[0].FieldValue(logging.FieldPath)
	assert.Equal(t, "metadata.bankName", path)
}

func TestExtract_EmptyResult(t *testing.T) {
	mock := &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](`{"transactions":[]}`)}

	o, _ := newOrchestrator(mock, Options{})
	result, err := o.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())

	o, _ = newOrchestrator(mock, Options{RejectEmpty: true})
	_, err = o.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	assert.Equal(t, pipelineerror.KindEmptyResult, pipelineerror.KindOf(err))
}

func TestExtract_SignPolicies(t *testing.T) {
	payload := `{"transactions":[
		{"date":"2023-01-01","description":"Card charge","amount":4.5,"direction":"debit"},
		{"date":"2023-01-02","description":"Refund","amount":-10,"direction":"credit"},
		{"date":"2023-01-03","description":"Unknown","amount":7,"direction":"sideways"},
		{"date":"2023-01-04","description":"No indicator","amount":-3}
	]}`

	tests := []struct {
		policy SignPolicy
		want   []string
	}{
		{policy: SignAsIs, want: []string{"4.5", "-10", "7", "-3"}},
		{policy: SignIndicator, want: []string{"-4.5", "10", "7", "-3"}},
		{policy: SignInvert, want: []string{"-4.5", "10", "-7", "3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			mock := &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](payload)}
			o, _ := newOrchestrator(mock, Options{SignPolicy: tt.policy})

			result, err := o.Extract(context.Background(), []byte("%PDF"), "application/pdf")
			require.NoError(t, err)
			require.Len(t, result.Transactions, len(tt.want))
			for i, want := range tt.want {
				assert.True(t, result.Transactions[i].Amount.Equal(decimal.RequireFromString(want)),
					"row %d: got %s want %s", i, result.Transactions[i].Amount, want)
			}
			assert.Equal(t, tt.policy == SignIndicator, mock.StatementCalls()[0].RequestDirection)
		})
	}
}

func TestParseSignPolicy(t *testing.T) {
	p, err := ParseSignPolicy("")
	require.NoError(t, err)
	assert.Equal(t, SignAsIs, p)

	p, err = ParseSignPolicy(" Invert ")
	require.NoError(t, err)
	assert.Equal(t, SignInvert, p)

	_, err = ParseSignPolicy("guess")
	assert.Error(t, err)
}

func TestExtract_NoCaching(t *testing.T) {
	mock := &interpreter.MockInterpreter{StatementFunc: interpreter.Respond[interpreter.StatementRequest](validPayload)}
	o, _ := newOrchestrator(mock, Options{})

	for i := 0; i < 2; i++ {
		_, err := o.Extract(context.Background(), []byte("%PDF"), "application/pdf")
		require.NoError(t, err)
	}
	assert.Len(t, mock.StatementCalls(), 2)
}
