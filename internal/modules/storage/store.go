package storage

import (
	"fmt"
	"sync"
)

// Store is the local-storage contract seen by the API client and the page layer.
// Reads go to the database every time so that a token cleared by one request is
// not seen by the next.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// Scoped is a Store backed by one row of storage_scopes.
type Scoped struct {
	repo  *Repository
	scope string
}

// Name returns the scope identifier.
func (s *Scoped) Name() string {
	return s.scope
}

// Get returns the value stored under key. Read failures are logged and treated as absent.
func (s *Scoped) Get(key string) (string, bool) {
	values, err := s.repo.Load(s.scope)
	if err != nil {
		s.repo.log.Error().Err(err).Str("scope", s.scope).Str("key", key).Msg("Failed to read local storage")
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

// Set stores value under key.
func (s *Scoped) Set(key, value string) error {
	err := s.repo.Update(s.scope, func(values map[string]string) bool {
		values[key] = value
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Scoped) Remove(key string) error {
	return s.repo.Update(s.scope, func(values map[string]string) bool {
		if _, ok := values[key]; !ok {
			return false
		}
		delete(values, key)
		return true
	})
}

// Clear drops every key of the scope.
func (s *Scoped) Clear() error {
	return s.repo.Delete(s.scope)
}

// Memory is an in-process Store, used by tests and as a fallback when no database is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-process Store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string]string{}
	return nil
}
