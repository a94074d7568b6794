package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/statement-parser/internal/logging"
)

// LLMInterpreter implements DocumentInterpreter by prompting a Generator and
// returning the JSON it answers with.
type LLMInterpreter struct {
	generator Generator
	logger    logging.Logger
}

// NewLLMInterpreter creates an interpreter over the given provider.
func NewLLMInterpreter(generator Generator, logger logging.Logger) *LLMInterpreter {
	return &LLMInterpreter{
		generator: generator,
		logger:    logger,
	}
}

// Provider returns the name of the underlying generator.
func (l *LLMInterpreter) Provider() string {
	return l.generator.Name()
}

// InterpretStatement sends the statement document to the model.
func (l *LLMInterpreter) InterpretStatement(ctx context.Context, req StatementRequest) (json.RawMessage, error) {
	mimeType, data, err := DecodeDataURI(req.DocumentDataURI)
	if err != nil {
		return nil, fmt.Errorf("invalid statement request: %w", err)
	}

	text, err := l.generator.Generate(ctx, buildStatementPrompt(req.RequestDirection), &Document{
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		return nil, err
	}
	return l.finish(OperationExtract, text)
}

// CategorizeTransactions asks the model for one category per transaction.
func (l *LLMInterpreter) CategorizeTransactions(ctx context.Context, req CategorizeRequest) (json.RawMessage, error) {
	prompt, err := buildCategorizePrompt(req)
	if err != nil {
		return nil, err
	}
	text, err := l.generator.Generate(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}
	return l.finish(OperationCategorize, text)
}

// SummarizeTransactions asks the model for a monthly spending summary.
func (l *LLMInterpreter) SummarizeTransactions(ctx context.Context, req SummarizeRequest) (json.RawMessage, error) {
	text, err := l.generator.Generate(ctx, buildSummarizePrompt(req), nil)
	if err != nil {
		return nil, err
	}
	return l.finish(OperationSummarize, text)
}

// Close releases the provider's client when it holds one.
func (l *LLMInterpreter) Close() error {
	if closer, ok := l.generator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (l *LLMInterpreter) finish(operation, text string) (json.RawMessage, error) {
	cleaned := cleanModelJSON(text)
	if cleaned == "" || !json.Valid([]byte(cleaned)) {
		l.logger.WithFields(
			logging.Field{Key: logging.FieldOperation, Value: operation},
			logging.Field{Key: logging.FieldProvider, Value: l.generator.Name()},
			logging.Field{Key: logging.FieldSize, Value: len(text)},
		).Debug("Model answer is not valid JSON")
		return nil, fmt.Errorf("%w: %s answer is not valid JSON", ErrMalformedOutput, l.generator.Name())
	}
	return json.RawMessage(cleaned), nil
}
