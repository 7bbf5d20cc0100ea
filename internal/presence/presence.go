// Package presence tracks user online status keyed by user id, decoupled
// from the user identity record.
package presence

import (
	"context"
	"sync"
	"time"
)

// Service is the presence interface consumed by the rest of the system.
// Online status is heartbeat-based: a user is online while their last
// heartbeat is within the TTL.
type Service interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// MemoryService is a mutex-map presence implementation for development and
// tests.
type MemoryService struct {
	mu     sync.Mutex
	expiry map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryService creates an in-memory presence service.
func NewMemoryService(ttl time.Duration) *MemoryService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryService{
		expiry: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetOnline records a heartbeat for the user.
func (s *MemoryService) SetOnline(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry[userID] = s.now().Add(s.ttl)
	return nil
}

// SetOffline clears the user's presence immediately.
func (s *MemoryService) SetOffline(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expiry, userID)
	return nil
}

// IsOnline reports whether the user's last heartbeat is still fresh.
func (s *MemoryService) IsOnline(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expiry[userID]
	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		delete(s.expiry, userID)
		return false, nil
	}
	return true, nil
}
