package graph

import (
	"context"
	"maps"
	"sync"
)

// MemoryClient is an in-memory Client for tests: it records every statement
// and replays queued results.
type MemoryClient struct {
	mu           sync.Mutex
	writeCalls   []ExecutedQuery
	readCalls    []ExecutedQuery
	readResults  []Result
	writeResults []Result
	err          error
	connectivity error
	closed       bool
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient returns an empty MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes every subsequent query fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushReadResult queues the result of the next ExecuteRead call.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, res)
}

// PushWriteResult queues the result of the next ExecuteWrite call.
func (m *MemoryClient) PushWriteResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResults = append(m.writeResults, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record(&m.writeCalls, &m.writeResults, cypher, params)
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record(&m.readCalls, &m.readResults, cypher, params)
}

// record must be called with m.mu held.
func (m *MemoryClient) record(calls *[]ExecutedQuery, queued *[]Result, cypher string, params map[string]any) (Result, error) {
	if m.err != nil {
		return Result{}, m.err
	}
	*calls = append(*calls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})
	if len(*queued) == 0 {
		return Result{}, nil
	}
	res := (*queued)[0]
	*queued = (*queued)[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns a snapshot of executed write queries.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// ReadCalls returns a snapshot of executed read queries.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}
