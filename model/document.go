package model

import (
	"time"

	"github.com/google/uuid"
)

// Document represents one uploaded source paper. The converted markdown
// text is stored alongside the metadata and is immutable after upload.
type Document struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"` // original filename
	Content   string    `json:"content,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
