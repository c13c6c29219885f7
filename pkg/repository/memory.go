package repository

import (
	"context"
	"sync"

	"github.com/promptly-dev/promptly/pkg/model"
)

// Memory is an in-memory Repository for local development and tests
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]*model.HistoryEntry
}

// NewMemory creates an in-memory repository
func NewMemory() *Memory {
	return &Memory{
		entries: map[string][]*model.HistoryEntry{},
	}
}

func (r *Memory) PutHistory(_ context.Context, entry *model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *entry
	r.entries[entry.UserID] = append(r.entries[entry.UserID], &copied)
	return nil
}

func (r *Memory) ListHistory(_ context.Context, userID string, limit int) ([]*model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[userID]
	limit = clampLimit(limit)

	results := []*model.HistoryEntry{}
	for i := len(stored) - 1; i >= 0 && len(results) < limit; i-- {
		copied := *stored[i]
		results = append(results, &copied)
	}

	return results, nil
}
