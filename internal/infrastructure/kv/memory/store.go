// Package memory is an in-process kv.Store used by tests and ephemeral servers.
package memory

import (
	"context"
	"sort"
	"sync"

	"funkokeeper/internal/infrastructure/kv"
)

type Store struct {
	mu         sync.RWMutex
	namespaces map[string]map[string][]byte
}

var _ kv.Store = (*Store)(nil)

func New() *Store {
	return &Store{namespaces: make(map[string]map[string][]byte)}
}

func (s *Store) EnsureNamespace(_ context.Context, ns string) error {
	if err := kv.ValidateName(ns); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(ns)
	return nil
}

func (s *Store) HasNamespace(_ context.Context, ns string) (bool, error) {
	if err := kv.ValidateName(ns); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.namespaces[ns]
	return ok, nil
}

func (s *Store) Get(_ context.Context, ns, key string) ([]byte, error) {
	if err := kv.ValidateNames(ns, key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.namespaces[ns][key]
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	return clone(v), nil
}

func (s *Store) Put(_ context.Context, ns, key string, value []byte) error {
	if err := kv.ValidateNames(ns, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(ns)[key] = clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, ns, key string) (bool, error) {
	if err := kv.ValidateNames(ns, key); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.namespaces[ns]
	if !ok {
		return false, nil
	}
	if _, ok := entries[key]; !ok {
		return false, nil
	}
	delete(entries, key)
	return true, nil
}

func (s *Store) ListKeys(_ context.Context, ns string) ([]string, error) {
	if err := kv.ValidateName(ns); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.namespaces[ns]
	if !ok {
		return nil, kv.ErrNamespaceNotFound
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) ensureLocked(ns string) map[string][]byte {
	entries, ok := s.namespaces[ns]
	if !ok {
		entries = make(map[string][]byte)
		s.namespaces[ns] = entries
	}
	return entries
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
