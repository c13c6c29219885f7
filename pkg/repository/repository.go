package repository

import (
	"context"

	"github.com/promptly-dev/promptly/pkg/model"
)

// Repository defines the interface for history persistence. Entries are
// append-only per user; nothing in this interface mutates or deletes.
type Repository interface {
	// PutHistory saves one generation record
	PutHistory(ctx context.Context, entry *model.HistoryEntry) error

	// ListHistory retrieves up to limit entries for a user, newest first.
	// A user with no history yields an empty slice, not an error.
	ListHistory(ctx context.Context, userID string, limit int) ([]*model.HistoryEntry, error)
}

// clampLimit bounds a caller-supplied limit to 1..MaxHistoryLimit
func clampLimit(limit int) int {
	if limit <= 0 || limit > model.MaxHistoryLimit {
		return model.MaxHistoryLimit
	}
	return limit
}
