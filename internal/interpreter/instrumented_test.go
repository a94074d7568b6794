package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *metrics.Metrics, operation, outcome string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "statement_interpreter_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestInstrumented_RecordsOutcomes(t *testing.T) {
	m := metrics.New()
	mock := &MockInterpreter{
		StatementFunc:  Respond[StatementRequest](`{"transactions":[]}`),
		CategorizeFunc: Fail[CategorizeRequest](errors.New("boom")),
	}
	wrapped := NewInstrumented(mock, InstrumentOptions{Provider: "mock", Metrics: m, Logger: logging.NewMockLogger()})

	raw, err := wrapped.InterpretStatement(context.Background(), StatementRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"transactions":[]}`, string(raw))

	_, err = wrapped.CategorizeTransactions(context.Background(), CategorizeRequest{})
	assert.Error(t, err)

	assert.Equal(t, 1.0, counterValue(t, m, OperationExtract, metrics.OutcomeSuccess))
	assert.Equal(t, 1.0, counterValue(t, m, OperationCategorize, metrics.OutcomeError))
	count, err := testutil.GatherAndCount(m.Registry(), "statement_interpreter_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInstrumented_Timeout(t *testing.T) {
	m := metrics.New()
	mock := &MockInterpreter{
		SummarizeFunc: func(ctx context.Context, _ SummarizeRequest) (json.RawMessage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	wrapped := NewInstrumented(mock, InstrumentOptions{Provider: "mock", Timeout: 20 * time.Millisecond, Metrics: m})

	_, err := wrapped.SummarizeTransactions(context.Background(), SummarizeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1.0, counterValue(t, m, OperationSummarize, metrics.OutcomeTimeout))
}

func TestInstrumented_RateLimitHonoursContext(t *testing.T) {
	mock := &MockInterpreter{StatementFunc: Respond[StatementRequest](`{}`)}
	wrapped := NewInstrumented(mock, InstrumentOptions{Provider: "mock", RequestsPerMinute: 1})

	_, err := wrapped.InterpretStatement(context.Background(), StatementRequest{})
	require.NoError(t, err, "first request uses the burst")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = wrapped.InterpretStatement(ctx, StatementRequest{})
	assert.Error(t, err, "second request must wait a minute and gives up with the context")
	assert.Len(t, mock.StatementCalls(), 1)
}

func TestMockInterpreter_Unscripted(t *testing.T) {
	mock := &MockInterpreter{}
	_, err := mock.SummarizeTransactions(context.Background(), SummarizeRequest{Month: "May"})
	assert.Error(t, err)
	require.Len(t, mock.SummarizeCalls(), 1)
	assert.Equal(t, "May", mock.SummarizeCalls()[0].Month)
}
