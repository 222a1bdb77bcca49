package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/store"
)

// MockStore wraps a MemoryStore and counts snapshot loads.
type MockStore struct {
	*store.MemoryStore
	Loads atomic.Int32
	Delay time.Duration
	Err   error
}

func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: store.NewMemoryStore()}
}

func (m *MockStore) Snapshot(ctx context.Context, ownerID string) (*model.Snapshot, error) {
	m.Loads.Add(1)
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.MemoryStore.Snapshot(ctx, ownerID)
}

type MockLLM struct {
	mu            sync.Mutex
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
