package model

import (
	"time"

	"github.com/google/uuid"
)

// Chunk represents a bounded slice of a document's text, the unit of
// retrieval. ChunkIndex is always assigned (monotonically increasing per
// document) so provenance in answers is never empty.
type Chunk struct {
	ID          int       `json:"id"`
	DocumentID  int64     `json:"document_id"`
	DocumentRID uuid.UUID `json:"document_rid"`
	Content     string    `json:"content"`
	ChunkIndex  int       `json:"chunk_index"`
	StartPos    *int      `json:"start_pos,omitempty"`
	EndPos      *int      `json:"end_pos,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	// Results
	Similarity *float64 `json:"similarity,omitempty"`
}

// Ref returns the citation metadata of the chunk.
func (c *Chunk) Ref() ChunkRef {
	return ChunkRef{
		Source:     c.DocumentRID.String(),
		ChunkIndex: c.ChunkIndex,
	}
}

// ChunkRef is the provenance trail of a chunk placed in generation context.
type ChunkRef struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
}
