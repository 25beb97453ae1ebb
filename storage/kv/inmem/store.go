package inmemkv

import (
	"context"
	"sync"

	"github.com/brightpath/academia/storage/kv"
)

type store struct {
	mu    sync.RWMutex
	table map[string][]byte
}

var _ kv.Store = (*store)(nil)

func Open() kv.Store {
	return &store{table: make(map[string][]byte)}
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.table[key]
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *store) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.table[key] = cp
	return nil
}
