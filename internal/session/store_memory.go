package session

import (
	"context"
	"sync"

	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// InMemoryBackend is a CredentialBackend for single-instance deployments and tests.
type InMemoryBackend struct {
	mu     sync.RWMutex
	values map[domain.SessionID]map[string]string
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{values: make(map[domain.SessionID]map[string]string)}
}

func (s *InMemoryBackend) Get(_ context.Context, sid domain.SessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[sid][key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return v, nil
}

func (s *InMemoryBackend) Set(_ context.Context, sid domain.SessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[sid] == nil {
		s.values[sid] = make(map[string]string)
	}
	s.values[sid][key] = value
	return nil
}

func (s *InMemoryBackend) Delete(_ context.Context, sid domain.SessionID, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values[sid], k)
	}
	if len(s.values[sid]) == 0 {
		delete(s.values, sid)
	}
	return nil
}
