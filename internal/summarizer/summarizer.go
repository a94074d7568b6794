// Package summarizer produces a monthly spending summary from a rendered
// ledger snapshot.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fjacquet/statement-parser/internal/interpreter"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/pipelineerror"
	"fjacquet/statement-parser/internal/schema"
)

// Engine requests summaries from the interpretation service.
type Engine struct {
	interpreter interpreter.DocumentInterpreter
	logger      logging.Logger
}

// NewEngine creates a summarization Engine.
func NewEngine(interp interpreter.DocumentInterpreter, logger logging.Logger) *Engine {
	return &Engine{interpreter: interp, logger: logger}
}

// Summarize asks for a summary of transactionsText for the given month label.
// Both inputs must be non-blank.
func (e *Engine) Summarize(ctx context.Context, transactionsText, month string) (models.Summary, error) {
	if strings.TrimSpace(transactionsText) == "" {
		return models.Summary{}, &pipelineerror.InvalidInputError{Field: "transactions", Reason: "transaction text is empty"}
	}
	if strings.TrimSpace(month) == "" {
		return models.Summary{}, &pipelineerror.InvalidInputError{Field: "month", Reason: "month label is empty"}
	}

	logger := e.logger.WithField(logging.FieldMonth, month)

	raw, err := e.interpreter.SummarizeTransactions(ctx, interpreter.SummarizeRequest{
		Transactions: transactionsText,
		Month:        month,
	})
	if err != nil {
		logger.WithError(err).Warn("Summarization service call failed")
		kind := pipelineerror.KindServiceUnavailable
		if errors.Is(err, interpreter.ErrMalformedOutput) {
			kind = pipelineerror.KindMalformedResponse
		}
		return models.Summary{}, &pipelineerror.SummarizationError{Kind: kind, Err: err}
	}

	summary, err := schema.ValidateSummary(raw)
	if err != nil {
		logger.WithError(err).Warn("Summarization service returned an invalid payload")
		return models.Summary{}, &pipelineerror.SummarizationError{Kind: pipelineerror.KindMalformedResponse, Err: err}
	}

	logger.Info("Summary generated")
	return summary, nil
}

// RenderLedger renders transactions as the plain-text block sent for
// summarization, one "- Date: …, Description: …, Amount: …" line each.
func RenderLedger(transactions []models.Transaction) string {
	lines := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		lines = append(lines, fmt.Sprintf("- Date: %s, Description: %s, Amount: %s", tx.Date, tx.Description, tx.Amount.String()))
	}
	return strings.Join(lines, "\n")
}
