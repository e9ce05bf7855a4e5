package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/siherrmann/paperrag/core/pipeline"
	"github.com/siherrmann/paperrag/database"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
)

// Engine performs semantic retrieval over one document's vector index.
// The embedder must be the same function used when the index was built.
type Engine struct {
	chunks    *database.ChunksDBHandler
	documents *database.DocumentsDBHandler
	embed     pipeline.EmbedFunc
}

// NewEngine creates a new retrieval engine
func NewEngine(chunks *database.ChunksDBHandler, documents *database.DocumentsDBHandler, embed pipeline.EmbedFunc) *Engine {
	return &Engine{
		chunks:    chunks,
		documents: documents,
		embed:     embed,
	}
}

// Retrieve returns the top k chunks of a document for a query, best match
// first. A k larger than the number of indexed chunks returns all chunks.
// It fails with a NotFound kind when no index exists for the document,
// distinct from a failing similarity query.
func (e *Engine) Retrieve(ctx context.Context, documentRID uuid.UUID, query string, k int) ([]*model.RetrievalResult, error) {
	if k < 1 {
		return nil, helper.NewError("retrieve", fmt.Errorf("k must be at least 1, got %d", k))
	}

	// Loads the per-document index; missing document is the dominant
	// query-time failure and surfaces as NotFound.
	if _, err := e.documents.SelectDocument(documentRID); err != nil {
		return nil, helper.NewError("load index", err)
	}

	embedding, err := e.embed(query)
	if err != nil {
		return nil, helper.NewKindError(helper.KindEncodingFailed, "embed query", err)
	}

	chunks, err := e.chunks.SelectChunksBySimilarity(embedding, k, documentRID)
	if err != nil {
		return nil, helper.NewError("similarity search", err)
	}

	results := make([]*model.RetrievalResult, len(chunks))
	for i, chunk := range chunks {
		score := 0.0
		if chunk.Similarity != nil {
			score = *chunk.Similarity
		}
		results[i] = &model.RetrievalResult{
			Chunk:           chunk,
			Score:           score,
			RetrievalMethod: model.RetrievalMethodVector,
		}
	}

	return results, nil
}

// ContextualRetrieve performs vector retrieval and additionally pulls the
// chunks adjacent to each match, so callers get the surrounding context of
// every hit. Matches come first in similarity order, neighbors follow in
// index order.
func (e *Engine) ContextualRetrieve(ctx context.Context, documentRID uuid.UUID, query string, k int) ([]*model.RetrievalResult, error) {
	results, err := e.Retrieve(ctx, documentRID, query, k)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(results))
	for _, result := range results {
		seen[result.Chunk.ChunkIndex] = true
	}

	var neighbors []*model.Chunk
	for _, result := range results {
		idx := result.Chunk.ChunkIndex
		adjacent, err := e.chunks.SelectChunksByIndexRange(documentRID, idx-1, idx+1)
		if err != nil {
			return nil, helper.NewError("select neighbor chunks", err)
		}
		for _, chunk := range adjacent {
			if seen[chunk.ChunkIndex] {
				continue
			}
			seen[chunk.ChunkIndex] = true
			neighbors = append(neighbors, chunk)
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].ChunkIndex < neighbors[j].ChunkIndex
	})

	for _, chunk := range neighbors {
		results = append(results, &model.RetrievalResult{
			Chunk:           chunk,
			Score:           0,
			RetrievalMethod: model.RetrievalMethodNeighbor,
		})
	}

	return results, nil
}
