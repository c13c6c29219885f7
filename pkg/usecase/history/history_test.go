package history_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/repository"
	"github.com/promptly-dev/promptly/pkg/usecase/history"
)

func TestListRequiresUserID(t *testing.T) {
	uc := history.New(repository.NewMemory())

	_, err := uc.List(context.Background(), "", 10)
	gt.True(t, errors.Is(err, model.ErrInvalidRequest))
}

func TestListReturnsNewestFirst(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		gt.NoError(t, repo.PutHistory(ctx, &model.HistoryEntry{
			ID:        model.NewHistoryID(),
			UserID:    "alice",
			Prompt:    fmt.Sprintf("prompt-%d", i),
			Response:  "r",
			CreatedAt: time.Now(),
		}))
	}

	uc := history.New(repo)

	entries, err := uc.List(ctx, "alice", 100)
	gt.NoError(t, err)
	gt.A(t, entries).Length(model.MaxHistoryLimit)
	gt.Equal(t, entries[0].Prompt, "prompt-24")
}

func TestListEmptyHistory(t *testing.T) {
	uc := history.New(repository.NewMemory())

	entries, err := uc.List(context.Background(), "nobody", 10)
	gt.NoError(t, err)
	gt.A(t, entries).Length(0)
}

type memoryArchive struct {
	objects map[string][]byte
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{objects: map[string][]byte{}}
}

type archiveWriter struct {
	bytes.Buffer
	commit func([]byte)
}

func (w *archiveWriter) Close() error {
	w.commit(w.Bytes())
	return nil
}

func (a *memoryArchive) Put(_ context.Context, key string) (io.WriteCloser, error) {
	return &archiveWriter{commit: func(data []byte) {
		a.objects[key] = data
	}}, nil
}

func (a *memoryArchive) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := a.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such object: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestTranscriptRoundTrip(t *testing.T) {
	archive := newMemoryArchive()
	ctx := context.Background()

	entry := &model.HistoryEntry{
		ID:       model.NewHistoryID(),
		UserID:   "alice",
		Prompt:   "what is fusion",
		Response: "a long answer",
		Metadata: model.ResponseMetadata{
			Domains:        []string{"a.com"},
			ProcessingTime: 1.23,
		},
	}

	w, err := archive.Put(ctx, model.TranscriptKey(entry.UserID, entry.ID))
	gt.NoError(t, err)
	gt.NoError(t, json.NewEncoder(w).Encode(entry))
	gt.NoError(t, w.Close())

	uc := history.New(repository.NewMemory(), history.WithArchive(archive))

	got, err := uc.Transcript(ctx, "alice", entry.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Prompt, "what is fusion")
	gt.Equal(t, got.Response, "a long answer")
	gt.Equal(t, got.Metadata.ProcessingTime, 1.23)
}

func TestTranscriptNotFound(t *testing.T) {
	uc := history.New(repository.NewMemory(), history.WithArchive(newMemoryArchive()))

	_, err := uc.Transcript(context.Background(), "alice", model.NewHistoryID())
	gt.True(t, errors.Is(err, model.ErrTranscriptNotFound))
}

func TestTranscriptWithoutArchive(t *testing.T) {
	uc := history.New(repository.NewMemory())

	_, err := uc.Transcript(context.Background(), "alice", model.NewHistoryID())
	gt.True(t, errors.Is(err, model.ErrTranscriptNotFound))
}

func TestTranscriptRequiresIdentifiers(t *testing.T) {
	uc := history.New(repository.NewMemory(), history.WithArchive(newMemoryArchive()))

	_, err := uc.Transcript(context.Background(), "", "some-id")
	gt.True(t, errors.Is(err, model.ErrInvalidRequest))

	_, err = uc.Transcript(context.Background(), "alice", "")
	gt.True(t, errors.Is(err, model.ErrInvalidRequest))
}
