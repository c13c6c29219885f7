package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type HistoryID string

// NewHistoryID generates a new unique HistoryID
func NewHistoryID() HistoryID {
	return HistoryID(uuid.New().String())
}

// HistoryEntry is one recorded generation for a user. Entries are
// append-only: the pipeline never mutates or deletes them.
type HistoryEntry struct {
	ID        HistoryID        `json:"id" firestore:"id"`
	UserID    string           `json:"userId" firestore:"user_id"`
	Prompt    string           `json:"prompt" firestore:"prompt"`
	Response  string           `json:"response" firestore:"response"`
	Metadata  ResponseMetadata `json:"metadata" firestore:"metadata"`
	CreatedAt time.Time        `json:"createdAt" firestore:"created_at"`
}

// MaxHistoryLimit caps how many entries a single list call returns
const MaxHistoryLimit = 20

// TranscriptKey returns the archive object key for one history entry.
// Writers and readers of the transcript archive must agree on this.
func TranscriptKey(userID string, id HistoryID) string {
	return fmt.Sprintf("transcripts/%s/%s.json", userID, id)
}
