package model

import (
	"time"

	"github.com/google/uuid"
)

// Section is a category-labeled, grounded summary of one document.
// A cached section is never mutated, only fully replaced.
type Section struct {
	ID           int       `json:"-"`
	DocumentID   int64     `json:"-"`
	DocumentRID  uuid.UUID `json:"-"`
	Category     string    `json:"category"`
	Content      string    `json:"content"`
	SourceChunks []int64   `json:"source_chunks"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatAnswer is the ephemeral result of one grounded Q&A turn.
type ChatAnswer struct {
	Answer  string     `json:"answer"`
	Sources []ChunkRef `json:"sources"`
}
