package pipeline

import (
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
)

// ChunkFunc is a function that splits document text into ordered pieces.
// Every piece is tagged with the source document id and a monotonically
// increasing chunk index.
type ChunkFunc func(text string, sourceID string) ([]ChunkPiece, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// ChunkPiece represents a chunk produced by a ChunkFunc before embedding
type ChunkPiece struct {
	Content    string
	Source     string
	ChunkIndex int
	StartPos   *int
	EndPos     *int
	Metadata   map[string]interface{}
}

// Pipeline combines chunking and embedding functions. The same Embedder
// instance must be used at build and query time for a document's index.
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder EmbedFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
	}
}

// Process processes text through the pipeline, returning chunks with
// embeddings ready for indexing. Empty text yields an empty chunk set.
func (p *Pipeline) Process(text string, sourceID string) ([]*model.Chunk, error) {
	pieces, err := p.Chunker(text, sourceID)
	if err != nil {
		return nil, err
	}

	chunks := make([]*model.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		embedding, err := p.Embedder(piece.Content)
		if err != nil {
			return nil, helper.NewKindError(helper.KindEncodingFailed, "embed chunk", err)
		}

		metadata := model.Metadata{}
		for k, v := range piece.Metadata {
			metadata[k] = v
		}
		metadata["source"] = piece.Source

		chunks = append(chunks, &model.Chunk{
			Content:    piece.Content,
			ChunkIndex: piece.ChunkIndex,
			StartPos:   piece.StartPos,
			EndPos:     piece.EndPos,
			Embedding:  embedding,
			Metadata:   metadata,
		})
	}

	return chunks, nil
}
