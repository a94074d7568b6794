// Package session holds the per-user pipeline state: the current ledger, its
// metadata and categorization, and the status of the last extraction.
//
// State transitions are pure functions; Session serializes the engine calls
// that drive them.
package session

import (
	"errors"
	"slices"

	"fjacquet/statement-parser/internal/models"
)

// Status of the session's extraction lifecycle.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusExtracting Status = "extracting"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

var (
	// ErrBusy is returned when an operation is requested while another one is
	// still running.
	ErrBusy = errors.New("another operation is already in progress")

	// ErrNoLedger is returned when an operation needs an extracted ledger.
	ErrNoLedger = errors.New("no statement has been extracted yet")
)

// State is an immutable snapshot of a session.
type State struct {
	Ledger      []models.Transaction
	Metadata    models.BankMetadata
	Categorized []models.CategorizedTransaction
	Status      Status
	LastError   error
}

// BeginExtraction starts a new extraction, clearing the previous ledger,
// metadata and categorization. It refuses to start while one is running.
func BeginExtraction(s State) (State, error) {
	if s.Status == StatusExtracting {
		return s, ErrBusy
	}
	return State{Ledger: []models.Transaction{}, Status: StatusExtracting}, nil
}

// CompleteExtraction replaces the session content with result. Results are
// never merged with earlier ones.
func CompleteExtraction(_ State, result models.ExtractionResult) State {
	ledger := slices.Clone(result.Transactions)
	if ledger == nil {
		ledger = []models.Transaction{}
	}
	return State{
		Ledger:   ledger,
		Metadata: result.Metadata,
		Status:   StatusReady,
	}
}

// FailExtraction records err and leaves an empty ledger.
func FailExtraction(_ State, err error) State {
	return State{
		Ledger:    []models.Transaction{},
		Status:    StatusFailed,
		LastError: err,
	}
}

// ApplyCategorization stores a successful categorization. Failed
// categorizations are never applied, so the state stays untouched.
func ApplyCategorization(s State, categorized []models.CategorizedTransaction) State {
	s.Categorized = slices.Clone(categorized)
	return s
}
