package history

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/adapter"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/repository"
)

// UseCase provides read access to a user's generation history
type UseCase struct {
	repo    repository.Repository
	archive adapter.Storage
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithArchive enables transcript lookups from object storage
func WithArchive(archive adapter.Storage) Option {
	return func(u *UseCase) {
		u.archive = archive
	}
}

// New creates a history UseCase instance
func New(repo repository.Repository, opts ...Option) *UseCase {
	u := &UseCase{repo: repo}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// List returns up to limit entries for a user, newest first. The limit is
// clamped to the repository cap; a user without history gets an empty
// slice.
func (u *UseCase) List(ctx context.Context, userID string, limit int) ([]*model.HistoryEntry, error) {
	if userID == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "userId is required")
	}

	entries, err := u.repo.ListHistory(ctx, userID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list history", goerr.Value("user_id", userID))
	}

	return entries, nil
}

// Transcript rehydrates one archived generation. The archive key embeds
// the user ID, so a caller can only read its own transcripts.
func (u *UseCase) Transcript(ctx context.Context, userID string, id model.HistoryID) (*model.HistoryEntry, error) {
	if userID == "" || id == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "userId and entry id are required")
	}
	if u.archive == nil {
		return nil, goerr.Wrap(model.ErrTranscriptNotFound, "transcript archive is not configured")
	}

	r, err := u.archive.Get(ctx, model.TranscriptKey(userID, id))
	if err != nil {
		return nil, goerr.Wrap(model.ErrTranscriptNotFound, "failed to load transcript",
			goerr.Value("cause", err),
			goerr.Value("user_id", userID),
			goerr.Value("entry_id", id))
	}
	defer r.Close()

	var entry model.HistoryEntry
	if err := json.NewDecoder(r).Decode(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode transcript",
			goerr.Value("entry_id", id))
	}

	return &entry, nil
}
