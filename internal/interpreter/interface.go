// Package interpreter defines the contract with the external document
// interpretation service and the LLM-backed providers that satisfy it.
//
// Interpreters return the raw JSON payload produced by the service. They never
// validate it: schema checks belong to the engines that consume the payload.
package interpreter

import (
	"context"
	"encoding/json"
	"errors"

	"fjacquet/statement-parser/internal/models"
)

// Operation names used in logs and metrics.
const (
	OperationExtract    = "extract"
	OperationCategorize = "categorize"
	OperationSummarize  = "summarize"
)

var (
	// ErrMalformedOutput is returned when the service answered with something
	// that is not a JSON document.
	ErrMalformedOutput = errors.New("interpreter returned malformed output")

	// ErrUnsupportedDocument is returned when a provider cannot accept the
	// document's MIME type.
	ErrUnsupportedDocument = errors.New("document type not supported by provider")
)

// StatementRequest asks the service to interpret one bank statement.
type StatementRequest struct {
	// DocumentDataURI is "data:<mimetype>;base64,<payload>".
	DocumentDataURI string `json:"documentDataUri"`
	// RequestDirection asks the service for a per-transaction debit/credit
	// indicator in addition to the signed amount.
	RequestDirection bool `json:"-"`
}

// CategorizeRequest asks the service to assign one category per transaction.
type CategorizeRequest struct {
	Transactions []models.Transaction `json:"transactions"`
	Categories   []string             `json:"categories"`
	// Hints maps a category to keywords that usually indicate it. Optional.
	Hints map[string][]string `json:"hints,omitempty"`
}

// SummarizeRequest asks the service for a spending summary of a rendered ledger.
type SummarizeRequest struct {
	Transactions string `json:"transactions"`
	Month        string `json:"month"`
}

// DocumentInterpreter is the capability interface for the interpretation
// service. Each call is a single blocking request; there is no retry.
type DocumentInterpreter interface {
	InterpretStatement(ctx context.Context, req StatementRequest) (json.RawMessage, error)
	CategorizeTransactions(ctx context.Context, req CategorizeRequest) (json.RawMessage, error)
	SummarizeTransactions(ctx context.Context, req SummarizeRequest) (json.RawMessage, error)
}

// Document is binary content attached to a generation request.
type Document struct {
	MIMEType string
	Data     []byte
}

// Generator is a concrete LLM provider: it sends a prompt, plus an optional
// document, and returns the model's text answer.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, doc *Document) (string, error)
}
