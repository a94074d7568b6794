package session

import (
	"context"
	"errors"
	"testing"

	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	result  models.ExtractionResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubExtractor) Extract(ctx context.Context, _ []byte, _ string) (models.ExtractionResult, error) {
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	return s.result, s.err
}

type stubCategorizer struct {
	rows []models.CategorizedTransaction
	err  error
	got  []models.Transaction
}

func (s *stubCategorizer) Categorize(_ context.Context, txs []models.Transaction, _ []string) ([]models.CategorizedTransaction, error) {
	s.got = txs
	return s.rows, s.err
}

type stubSummarizer struct {
	text  string
	month string
}

func (s *stubSummarizer) Summarize(_ context.Context, text, month string) (models.Summary, error) {
	s.text, s.month = text, month
	return models.Summary{Summary: "ok"}, nil
}

var extracted = models.ExtractionResult{
	Metadata: models.BankMetadata{BankName: models.Some("First National")},
	Transactions: []models.Transaction{
		models.NewTransaction("2023-01-01", "Coffee", -4.5),
		models.NewTransaction("2023-01-02", "Salary", 2000),
	},
}

func TestSession_ExtractThenCategorize(t *testing.T) {
	cat := &stubCategorizer{rows: []models.CategorizedTransaction{
		models.NewCategorizedTransaction(extracted.Transactions[0], "Dining"),
		models.NewCategorizedTransaction(extracted.Transactions[1], "Income"),
	}}
	s := New(&stubExtractor{result: extracted}, cat, &stubSummarizer{}, logging.NewMockLogger())

	assert.Equal(t, StatusIdle, s.State().Status)

	_, err := s.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, s.State().Status)
	assert.Len(t, s.State().Ledger, 2)

	rows, err := s.Categorize(context.Background(), []string{"Dining", "Income"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, cat.got, 2)
	assert.Equal(t, "Income", s.State().Categorized[1].Category)
}

func TestSession_CategorizationFailureLeavesState(t *testing.T) {
	cat := &stubCategorizer{err: errors.New("count mismatch")}
	s := New(&stubExtractor{result: extracted}, cat, &stubSummarizer{}, logging.NewMockLogger())

	_, err := s.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	before := s.State()

	_, err = s.Categorize(context.Background(), []string{"Dining"})
	require.Error(t, err)
	assert.Equal(t, before, s.State())

	// The session is usable again after a failure.
	cat.err = nil
	_, err = s.Categorize(context.Background(), []string{"Dining"})
	assert.NoError(t, err)
}

func TestSession_ExtractionFailureResetsLedger(t *testing.T) {
	ext := &stubExtractor{result: extracted}
	s := New(ext, &stubCategorizer{}, &stubSummarizer{}, logging.NewMockLogger())

	_, err := s.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)

	ext.err = errors.New("service down")
	_, err = s.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	require.Error(t, err)

	state := s.State()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Empty(t, state.Ledger)
	assert.Equal(t, ext.err, state.LastError)

	_, err = s.Categorize(context.Background(), []string{"Dining"})
	assert.ErrorIs(t, err, ErrNoLedger)
}

func TestSession_RefusesReentry(t *testing.T) {
	ext := &stubExtractor{result: extracted, started: make(chan struct{}), release: make(chan struct{})}
	s := New(ext, &stubCategorizer{}, &stubSummarizer{}, logging.NewMockLogger())

	done := make(chan error, 1)
	go func() {
		_, err := s.Extract(context.Background(), []byte("%PDF"), "application/pdf")
		done <- err
	}()
	<-ext.started

	assert.Equal(t, StatusExtracting, s.State().Status)

	_, err := s.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.Categorize(context.Background(), []string{"Dining"})
	assert.ErrorIs(t, err, ErrBusy)
	_, _, err = s.Summarize(context.Background(), "January 2023")
	assert.ErrorIs(t, err, ErrBusy)

	close(ext.release)
	require.NoError(t, <-done)
	assert.Equal(t, StatusReady, s.State().Status)
}

func TestSession_Summarize(t *testing.T) {
	sum := &stubSummarizer{}
	s := New(&stubExtractor{result: extracted}, &stubCategorizer{}, sum, logging.NewMockLogger())

	_, _, err := s.Summarize(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoLedger)

	_, err = s.Extract(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)

	got, label, err := s.Summarize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Summary)
	assert.Equal(t, "January 2023", label)
	assert.Equal(t, "January 2023", sum.month)
	assert.Contains(t, sum.text, "- Date: 2023-01-01, Description: Coffee, Amount: -4.5")

	_, label, err = s.Summarize(context.Background(), "Q1 2023")
	require.NoError(t, err)
	assert.Equal(t, "Q1 2023", label)
	assert.Equal(t, "Q1 2023", sum.month)
}
