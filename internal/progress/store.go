// Package progress tracks which planned topics a learner has completed.
// Completion is keyed by topic ID, never by position in a plan, so it survives
// plan regeneration.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a completion record does not exist.
	ErrNotFound = errors.New("progress record not found")
	// ErrInvalidKey is returned for an empty user or topic ID.
	ErrInvalidKey = errors.New("invalid progress key")
	// ErrMissingTime is returned when MarkDone is given a zero completion time.
	ErrMissingTime = errors.New("completion time is required")
)

// Completion records a finished topic.
type Completion struct {
	UserID      string    `json:"user_id"`
	TopicID     string    `json:"topic_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store persists topic completion per user.
type Store interface {
	MarkDone(ctx context.Context, userID, topicID string, at time.Time) error
	MarkUndone(ctx context.Context, userID, topicID string) error
	Completed(ctx context.Context, userID string) (map[string]Completion, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	done map[string]map[string]Completion
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory progress store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		done: make(map[string]map[string]Completion),
	}
}

func (s *MemoryStore) MarkDone(_ context.Context, userID, topicID string, at time.Time) error {
	if err := checkKeys(userID, topicID); err != nil {
		return err
	}
	if at.IsZero() {
		return ErrMissingTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byTopic, ok := s.done[userID]
	if !ok {
		byTopic = make(map[string]Completion)
		s.done[userID] = byTopic
	}
	if _, exists := byTopic[topicID]; exists {
		return nil
	}
	byTopic[topicID] = Completion{UserID: userID, TopicID: topicID, CompletedAt: at}
	return nil
}

func (s *MemoryStore) MarkUndone(_ context.Context, userID, topicID string) error {
	if err := checkKeys(userID, topicID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.done[userID][topicID]; !ok {
		return fmt.Errorf("%w: user %s topic %s", ErrNotFound, userID, topicID)
	}
	delete(s.done[userID], topicID)
	return nil
}

func (s *MemoryStore) Completed(_ context.Context, userID string) (map[string]Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Completion, len(s.done[userID]))
	for id, c := range s.done[userID] {
		out[id] = c
	}
	return out, nil
}

func checkKeys(userID, topicID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidKey)
	}
	if topicID == "" {
		return fmt.Errorf("%w: topic_id is required", ErrInvalidKey)
	}
	return nil
}
