package store

import (
	"context"
	"sort"
	"sync"

	"github.com/agenthands/kinship/internal/core/model"
)

type MemoryStore struct {
	mu     sync.RWMutex
	owners map[string]*model.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{owners: make(map[string]*model.Snapshot)}
}

func (s *MemoryStore) Snapshot(ctx context.Context, ownerID string) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.owners[ownerID]
	if !ok || len(snap.Contacts) == 0 {
		return nil, ErrNotFound
	}
	return snap.Clone(), nil
}

func (s *MemoryStore) Import(ctx context.Context, ownerID string, snap *model.Snapshot) error {
	prepared, err := prepare(ownerID, snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[ownerID] = prepared
	return nil
}

func (s *MemoryStore) Owners(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make([]string, 0, len(s.owners))
	for id, snap := range s.owners {
		if len(snap.Contacts) > 0 {
			owners = append(owners, id)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
