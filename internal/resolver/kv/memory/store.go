package memory

import (
	"sync"

	"github.com/nearfaucet/backend/internal/resolver/kv"
)

type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewStore() *Store {
	return &Store{
		data: map[string]string{},
	}
}

func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return val, nil
}

func (s *Store) Set(key string, val string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = val
	return nil
}
