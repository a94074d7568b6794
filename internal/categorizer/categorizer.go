// Package categorizer assigns each ledger transaction a category from a
// caller-supplied taxonomy, using the interpretation service.
package categorizer

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

// Options tunes an Engine.
type Options struct {
	// AllowUnknown keeps categories outside the taxonomy instead of failing.
	AllowUnknown bool
	// Hints are keyword hints per category forwarded to the service.
	Hints map[string][]string
}

// Engine categorizes ledger snapshots. It holds no per-ledger state.
type Engine struct {
	interpreter interpreter.DocumentInterpreter
	logger      logging.Logger
	opts        Options
}

// NewEngine creates a categorization Engine.
func NewEngine(interp interpreter.DocumentInterpreter, logger logging.Logger, opts Options) *Engine {
	return &Engine{
		interpreter: interp,
		logger:      logger,
		opts:        opts,
	}
}

// Categorize returns one CategorizedTransaction per input transaction, in input
// order. Date, description and amount always come from the input row; the
// service only contributes the category.
func (e *Engine) Categorize(ctx context.Context, transactions []models.Transaction, categories []string) ([]models.CategorizedTransaction, error) {
	taxonomy := NormalizeCategories(categories)
	if len(taxonomy) == 0 {
		return nil, &pipelineerror.InvalidInputError{Field: "categories", Reason: "at least one non-empty category is required"}
	}
	if len(transactions) == 0 {
		return []models.CategorizedTransaction{}, nil
	}

	logger := e.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldOperation, Value: interpreter.OperationCategorize},
	)

	raw, err := e.interpreter.CategorizeTransactions(ctx, interpreter.CategorizeRequest{
		Transactions: transactions,
		Categories:   taxonomy,
		Hints:        e.hintsFor(taxonomy),
	})
	if err != nil {
		logger.WithError(err).Warn("Categorization service call failed")
		kind := pipelineerror.KindServiceUnavailable
		if errors.Is(err, interpreter.ErrMalformedOutput) {
			kind = pipelineerror.KindMalformedResponse
		}
		return nil, &pipelineerror.CategorizationError{Kind: kind, Err: err}
	}

	rows, err := schema.ValidateCategorized(raw)
	if err != nil {
		logger.WithError(err).Warn("Categorization service returned an invalid payload")
		return nil, &pipelineerror.CategorizationError{Kind: pipelineerror.KindMalformedResponse, Err: err}
	}
	if len(rows) != len(transactions) {
		return nil, &pipelineerror.CategorizationError{
			Kind: pipelineerror.KindCountMismatch,
			Err:  fmt.Errorf("expected %d categorized transactions, got %d", len(transactions), len(rows)),
		}
	}

	matcher := newMatcher(taxonomy)
	out := make([]models.CategorizedTransaction, len(transactions))
	for i, row := range rows {
		category, ok := matcher.match(row.Category)
		if !ok {
			if !e.opts.AllowUnknown || strings.TrimSpace(row.Category) == "" {
				return nil, &pipelineerror.CategorizationError{
					Kind: pipelineerror.KindUnknownCategory,
					Err:  fmt.Errorf("transaction %d: category %q is not in the taxonomy", i, row.Category),
				}
			}
			category = strings.TrimSpace(row.Category)
			logger.WithFields(
				logging.Field{Key: logging.FieldCategory, Value: category},
			).Warn("Keeping category outside the taxonomy")
		}
		out[i] = models.NewCategorizedTransaction(transactions[i], category)
	}

	logger.Info("Transactions categorized")
	return out, nil
}

func (e *Engine) hintsFor(taxonomy []string) map[string][]string {
	if len(e.opts.Hints) == 0 {
		return nil
	}
	hints := make(map[string][]string)
	for _, category := range taxonomy {
		if keywords, ok := e.opts.Hints[category]; ok {
			hints[category] = keywords
		}
	}
	if len(hints) == 0 {
		return nil
	}
	return hints
}
