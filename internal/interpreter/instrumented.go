package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/metrics"

	"golang.org/x/time/rate"
)

// InstrumentOptions configures an Instrumented interpreter. Zero values disable
// the corresponding behaviour.
type InstrumentOptions struct {
	Provider          string
	Timeout           time.Duration
	RequestsPerMinute int
	Metrics           *metrics.Metrics
	Logger            logging.Logger
}

// Instrumented wraps a DocumentInterpreter with a per-call timeout, a shared
// request-rate limit and request metrics.
type Instrumented struct {
	next     DocumentInterpreter
	provider string
	timeout  time.Duration
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	logger   logging.Logger
}

// NewInstrumented wraps next.
func NewInstrumented(next DocumentInterpreter, opts InstrumentOptions) *Instrumented {
	i := &Instrumented{
		next:     next,
		provider: opts.Provider,
		timeout:  opts.Timeout,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
	if opts.RequestsPerMinute > 0 {
		i.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return i
}

// InterpretStatement implements DocumentInterpreter.
func (i *Instrumented) InterpretStatement(ctx context.Context, req StatementRequest) (json.RawMessage, error) {
	return i.call(ctx, OperationExtract, func(ctx context.Context) (json.RawMessage, error) {
		return i.next.InterpretStatement(ctx, req)
	})
}

// CategorizeTransactions implements DocumentInterpreter.
func (i *Instrumented) CategorizeTransactions(ctx context.Context, req CategorizeRequest) (json.RawMessage, error) {
	return i.call(ctx, OperationCategorize, func(ctx context.Context) (json.RawMessage, error) {
		return i.next.CategorizeTransactions(ctx, req)
	})
}

// SummarizeTransactions implements DocumentInterpreter.
func (i *Instrumented) SummarizeTransactions(ctx context.Context, req SummarizeRequest) (json.RawMessage, error) {
	return i.call(ctx, OperationSummarize, func(ctx context.Context) (json.RawMessage, error) {
		return i.next.SummarizeTransactions(ctx, req)
	})
}

func (i *Instrumented) call(ctx context.Context, operation string, fn func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	if i.limiter != nil {
		if err := i.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for interpreter rate limit: %w", err)
		}
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := fn(ctx)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.OutcomeTimeout
	default:
		outcome = metrics.OutcomeError
	}
	i.metrics.Observe(operation, i.provider, outcome, elapsed)

	if i.logger != nil {
		entry := i.logger.WithFields(
			logging.Field{Key: logging.FieldOperation, Value: operation},
			logging.Field{Key: logging.FieldProvider, Value: i.provider},
			logging.Field{Key: logging.FieldStatus, Value: outcome},
			logging.Field{Key: logging.FieldDuration, Value: elapsed.Milliseconds()},
		)
		if err != nil {
			entry.WithError(err).Debug("Interpreter request failed")
		} else {
			entry.Debug("Interpreter request completed")
		}
	}

	return out, err
}
