package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockInterpreter is a scripted DocumentInterpreter for tests. An unset
// function makes the matching call fail.
type MockInterpreter struct {
	StatementFunc  func(ctx context.Context, req StatementRequest) (json.RawMessage, error)
	CategorizeFunc func(ctx context.Context, req CategorizeRequest) (json.RawMessage, error)
	SummarizeFunc  func(ctx context.Context, req SummarizeRequest) (json.RawMessage, error)

	mu              sync.Mutex
	statementCalls  []StatementRequest
	categorizeCalls []CategorizeRequest
	summarizeCalls  []SummarizeRequest
}

var errNotScripted = errors.New("mock interpreter: no response scripted")

// Respond returns a function answering every call with raw.
func Respond[R any](raw string) func(context.Context, R) (json.RawMessage, error) {
	return func(context.Context, R) (json.RawMessage, error) {
		return json.RawMessage(raw), nil
	}
}

// Fail returns a function failing every call with err.
func Fail[R any](err error) func(context.Context, R) (json.RawMessage, error) {
	return func(context.Context, R) (json.RawMessage, error) {
		return nil, err
	}
}

// InterpretStatement implements DocumentInterpreter.
func (m *MockInterpreter) InterpretStatement(ctx context.Context, req StatementRequest) (json.RawMessage, error) {
	m.mu.Lock()
	m.statementCalls = append(m.statementCalls, req)
	m.mu.Unlock()
	if m.StatementFunc == nil {
		return nil, errNotScripted
	}
	return m.StatementFunc(ctx, req)
}

// CategorizeTransactions implements DocumentInterpreter.
func (m *MockInterpreter) CategorizeTransactions(ctx context.Context, req CategorizeRequest) (json.RawMessage, error) {
	m.mu.Lock()
	m.categorizeCalls = append(m.categorizeCalls, req)
	m.mu.Unlock()
	if m.CategorizeFunc == nil {
		return nil, errNotScripted
	}
	return m.CategorizeFunc(ctx, req)
}

// SummarizeTransactions implements DocumentInterpreter.
func (m *MockInterpreter) SummarizeTransactions(ctx context.Context, req SummarizeRequest) (json.RawMessage, error) {
	m.mu.Lock()
	m.summarizeCalls = append(m.summarizeCalls, req)
	m.mu.Unlock()
	if m.SummarizeFunc == nil {
		return nil, errNotScripted
	}
	return m.SummarizeFunc(ctx, req)
}

// StatementCalls returns the recorded statement requests.
func (m *MockInterpreter) StatementCalls() []StatementRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StatementRequest(nil), m.statementCalls...)
}

// CategorizeCalls returns the recorded categorization requests.
func (m *MockInterpreter) CategorizeCalls() []CategorizeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CategorizeRequest(nil), m.categorizeCalls...)
}

// SummarizeCalls returns the recorded summarization requests.
func (m *MockInterpreter) SummarizeCalls() []SummarizeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SummarizeRequest(nil), m.summarizeCalls...)
}
