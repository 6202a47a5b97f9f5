package store

import (
	"context"
	"sync"

	"github.com/mkoller/domainmap/pkg/graph"
)

// ===== In-Memory Store =====

// MemoryStore keeps node tables in process memory. It is the default for
// serve mode when no MongoDB URI is configured; datasets are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]graph.Table
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]graph.Table)}
}

func (s *MemoryStore) SaveTable(_ context.Context, dataset string, tbl graph.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[dataset] = tbl
	return nil
}

func (s *MemoryStore) LoadTable(_ context.Context, dataset string) (graph.Table, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tbl, ok := s.tables[dataset]
	return tbl, ok, nil
}

func (s *MemoryStore) Datasets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}
