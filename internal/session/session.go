package session

import (
	"context"
	"slices"
	"strings"
	"sync"

	"fjacquet/statement-parser/internal/dateutils"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/models"
	"fjacquet/statement-parser/internal/summarizer"
)

// Extractor extracts a ledger from a statement document.
type Extractor interface {
	Extract(ctx context.Context, document []byte, mimeType string) (models.ExtractionResult, error)
}

// Categorizer assigns categories to a ledger.
type Categorizer interface {
	Categorize(ctx context.Context, transactions []models.Transaction, categories []string) ([]models.CategorizedTransaction, error)
}

// Summarizer summarizes a rendered ledger.
type Summarizer interface {
	Summarize(ctx context.Context, transactionsText, month string) (models.Summary, error)
}

// Session drives the engines for one ledger. At most one operation runs at a
// time; a concurrent request fails with ErrBusy instead of queueing.
type Session struct {
	mu    sync.Mutex
	state State
	busy  bool

	extractor   Extractor
	categorizer Categorizer
	summarizer  Summarizer
	logger      logging.Logger
}

// New creates an idle Session.
func New(extractor Extractor, categorizer Categorizer, summarizer Summarizer, logger logging.Logger) *Session {
	return &Session{
		state:       State{Ledger: []models.Transaction{}, Status: StatusIdle},
		extractor:   extractor,
		categorizer: categorizer,
		summarizer:  summarizer,
		logger:      logger,
	}
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state
	snapshot.Ledger = slices.Clone(s.state.Ledger)
	snapshot.Categorized = slices.Clone(s.state.Categorized)
	return snapshot
}

// acquire marks the session busy, or returns ErrBusy.
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// Extract runs an extraction and replaces the session content with its result.
func (s *Session) Extract(ctx context.Context, document []byte, mimeType string) (models.ExtractionResult, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return models.ExtractionResult{}, ErrBusy
	}
	next, err := BeginExtraction(s.state)
	if err != nil {
		s.mu.Unlock()
		return models.ExtractionResult{}, err
	}
	s.state = next
	s.busy = true
	s.mu.Unlock()

	result, err := s.extractor.Extract(ctx, document, mimeType)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.state = FailExtraction(s.state, err)
		s.logger.WithError(err).Debug("Session extraction failed")
		return models.ExtractionResult{}, err
	}
	s.state = CompleteExtraction(s.state, result)
	return result, nil
}

// Categorize categorizes the current ledger. On failure the state is left
// untouched.
func (s *Session) Categorize(ctx context.Context, categories []string) ([]models.CategorizedTransaction, error) {
	ledger, err := s.ledgerForOperation()
	if err != nil {
		return nil, err
	}

	categorized, err := s.categorizer.Categorize(ctx, ledger, categories)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return nil, err
	}
	s.state = ApplyCategorization(s.state, categorized)
	return categorized, nil
}

// Summarize summarizes the current ledger and returns the month label it was
// summarized under. An empty label defaults to the month most of the ledger
// dates fall in.
func (s *Session) Summarize(ctx context.Context, month string) (models.Summary, string, error) {
	ledger, err := s.ledgerForOperation()
	if err != nil {
		return models.Summary{}, "", err
	}
	defer s.release()

	if strings.TrimSpace(month) == "" {
		month = DefaultMonth(ledger)
	}
	summary, err := s.summarizer.Summarize(ctx, summarizer.RenderLedger(ledger), month)
	if err != nil {
		return models.Summary{}, month, err
	}
	return summary, month, nil
}

// ledgerForOperation acquires the session and snapshots the ready ledger.
func (s *Session) ledgerForOperation() ([]models.Transaction, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusReady {
		s.busy = false
		return nil, ErrNoLedger
	}
	return slices.Clone(s.state.Ledger), nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// DefaultMonth picks the dominant month label of a ledger, or "" when no date
// can be parsed.
func DefaultMonth(ledger []models.Transaction) string {
	dates := make([]string, 0, len(ledger))
	for _, tx := range ledger {
		dates = append(dates, tx.Date)
	}
	month, _ := dateutils.DominantMonth(dates)
	return month
}
