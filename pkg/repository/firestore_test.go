package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestFirestorePutAndListHistory(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	userID := "test-user-" + string(model.NewHistoryID())

	first := &model.HistoryEntry{
		ID:       model.NewHistoryID(),
		UserID:   userID,
		Prompt:   "What is fusion energy?",
		Response: "Fusion combines light nuclei to release energy.",
		Metadata: model.ResponseMetadata{
			Sources:        []model.SourceRef{{Title: "ITER", URL: "https://iter.org/about"}},
			Domains:        []string{"iter.org"},
			ProcessingTime: 1.23,
			Highlights:     []string{"light nuclei", "net energy"},
		},
		CreatedAt: time.Now().Add(-time.Minute),
	}
	second := &model.HistoryEntry{
		ID:        model.NewHistoryID(),
		UserID:    userID,
		Prompt:    "And fission?",
		Response:  "Fission splits heavy nuclei.",
		CreatedAt: time.Now(),
	}

	gt.NoError(t, repo.PutHistory(ctx, first))
	gt.NoError(t, repo.PutHistory(ctx, second))

	entries, err := repo.ListHistory(ctx, userID, 10)
	gt.NoError(t, err)
	gt.A(t, entries).Length(2)
	gt.Equal(t, entries[0].Prompt, "And fission?")
	gt.Equal(t, entries[1].Metadata.Domains, []string{"iter.org"})
}

func TestFirestoreListHistoryEmpty(t *testing.T) {
	repo := setupFirestore(t)

	entries, err := repo.ListHistory(context.Background(), "no-such-user", 10)
	gt.NoError(t, err)
	gt.A(t, entries).Length(0)
}
