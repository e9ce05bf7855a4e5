package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
)

// Answerer answers free-form questions about one document, grounded in
// retrieved evidence. Every call is stateless: no conversation history,
// no caching.
type Answerer struct {
	retriever Retriever
	generate  GenerateFunc
	config    model.GenerationConfig
	log       *slog.Logger
}

// NewAnswerer creates a new chat answerer
func NewAnswerer(retriever Retriever, generate GenerateFunc, config model.GenerationConfig, log *slog.Logger) (*Answerer, error) {
	if retriever == nil || generate == nil {
		return nil, helper.NewKindError(helper.KindConfiguration, "answerer", fmt.Errorf("retriever and generate must be set"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Answerer{
		retriever: retriever,
		generate:  generate,
		config:    config,
		log:       log,
	}, nil
}

// Answer retrieves the best matching chunks for the question, grounds the
// generation capability in them and returns the answer together with the
// chunk references it was grounded on.
func (a *Answerer) Answer(ctx context.Context, documentRID uuid.UUID, question string) (*model.ChatAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, helper.NewError("answer", fmt.Errorf("question must not be empty"))
	}

	retrieved, err := a.retriever.Retrieve(ctx, documentRID, question, a.config.ChatTopK)
	if err != nil {
		return nil, helper.NewError("retrieve evidence", err)
	}

	context := BuildContext(retrieved, a.config.MaxContextChars)

	answer, err := a.generate(ctx, model.RenderChatPrompt(context, question))
	if err != nil {
		return nil, helper.NewError("generate answer", err)
	}

	sources := make([]model.ChunkRef, 0, len(retrieved))
	for _, result := range retrieved {
		sources = append(sources, result.Chunk.Ref())
	}

	a.log.Info("Answered question",
		slog.String("document_id", documentRID.String()),
		slog.Int("num_sources", len(sources)),
	)

	return &model.ChatAnswer{Answer: answer, Sources: sources}, nil
}
