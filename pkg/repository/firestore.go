package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/model"
	"google.golang.org/api/iterator"
)

const historyCollection = "histories"

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{client: client}, nil
}

func (r *Firestore) PutHistory(ctx context.Context, entry *model.HistoryEntry) error {
	doc := r.client.Collection(historyCollection).Doc(string(entry.ID))
	if _, err := doc.Set(ctx, entry); err != nil {
		return goerr.Wrap(model.ErrPersistenceUnavailable, "failed to save history",
			goerr.Value("cause", err),
			goerr.Value("user_id", entry.UserID))
	}
	return nil
}

func (r *Firestore) ListHistory(ctx context.Context, userID string, limit int) ([]*model.HistoryEntry, error) {
	// Requires a composite index on (user_id, created_at desc)
	query := r.client.Collection(historyCollection).
		Where("user_id", "==", userID).
		OrderBy("created_at", firestore.Desc).
		Limit(clampLimit(limit))

	it := query.Documents(ctx)
	defer it.Stop()

	entries := []*model.HistoryEntry{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(model.ErrPersistenceUnavailable, "failed to iterate histories",
				goerr.Value("cause", err),
				goerr.Value("user_id", userID))
		}

		var entry model.HistoryEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode history entry",
				goerr.Value("doc_id", doc.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}
