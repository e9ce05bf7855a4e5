package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
)

// GenerateFunc is the generation capability contract: one prompt in, one
// completion out.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Retriever selects the supporting evidence for a query, best match first.
type Retriever interface {
	Retrieve(ctx context.Context, documentRID uuid.UUID, query string, k int) ([]*model.RetrievalResult, error)
}

// SectionCache persists generated sections per (document, category).
type SectionCache interface {
	UpsertSection(section *model.Section) error
	SelectSectionsByDocument(documentRID uuid.UUID) ([]*model.Section, error)
}

// SectionGenerator extracts the configured semantic categories of a
// document by grounding the generation capability in retrieved evidence.
// Cached categories are never regenerated.
type SectionGenerator struct {
	retriever Retriever
	generate  GenerateFunc
	cache     SectionCache
	specs     []model.SectionSpec
	config    model.GenerationConfig
	locks     sync.Map // per-document generation locks
	log       *slog.Logger
}

// NewSectionGenerator creates a section generator. All section specs and
// the generation bounds are validated here so a malformed template fails
// startup instead of the first request.
func NewSectionGenerator(retriever Retriever, generate GenerateFunc, cache SectionCache, specs []model.SectionSpec, config model.GenerationConfig, log *slog.Logger) (*SectionGenerator, error) {
	if retriever == nil || generate == nil || cache == nil {
		return nil, helper.NewKindError(helper.KindConfiguration, "section generator", fmt.Errorf("retriever, generate and cache must be set"))
	}
	if len(specs) == 0 {
		return nil, helper.NewKindError(helper.KindConfiguration, "section generator", fmt.Errorf("at least one section spec must be configured"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	categories := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if categories[spec.Category] {
			return nil, helper.NewKindError(helper.KindConfiguration, "section generator", fmt.Errorf("duplicate category %s", spec.Category))
		}
		categories[spec.Category] = true
	}

	return &SectionGenerator{
		retriever: retriever,
		generate:  generate,
		cache:     cache,
		specs:     specs,
		config:    config,
		log:       log,
	}, nil
}

func (g *SectionGenerator) lock(documentRID uuid.UUID) *sync.Mutex {
	mu, _ := g.locks.LoadOrStore(documentRID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetOrGenerate returns all configured sections of a document. Cached
// categories are returned as-is; missing ones are generated in the fixed
// spec order and persisted only after every category succeeded, so a
// failed pass never caches a partial result. Concurrent calls for the
// same document collapse into one generation pass plus waiters.
func (g *SectionGenerator) GetOrGenerate(ctx context.Context, documentRID uuid.UUID) (map[string]*model.Section, error) {
	mu := g.lock(documentRID)
	mu.Lock()
	defer mu.Unlock()

	cached, err := g.cache.SelectSectionsByDocument(documentRID)
	if err != nil {
		return nil, helper.NewError("load cached sections", err)
	}

	results := make(map[string]*model.Section, len(g.specs))
	for _, section := range cached {
		results[section.Category] = section
	}

	var missing []model.SectionSpec
	for _, spec := range g.specs {
		if _, ok := results[spec.Category]; !ok {
			missing = append(missing, spec)
		}
	}
	if len(missing) == 0 {
		return results, nil
	}

	generated := make([]*model.Section, 0, len(missing))
	for _, spec := range missing {
		section, err := g.generateSection(ctx, documentRID, spec)
		if err != nil {
			return nil, err
		}
		generated = append(generated, section)
	}

	// Persist only after the whole pass succeeded.
	for _, section := range generated {
		if err := g.cache.UpsertSection(section); err != nil {
			return nil, helper.NewError("cache section", err)
		}
		results[section.Category] = section
	}

	g.log.Info("Generated sections",
		slog.String("document_id", documentRID.String()),
		slog.Int("num_generated", len(generated)),
		slog.Int("num_cached", len(cached)),
	)

	return results, nil
}

func (g *SectionGenerator) generateSection(ctx context.Context, documentRID uuid.UUID, spec model.SectionSpec) (*model.Section, error) {
	retrieved, err := g.retriever.Retrieve(ctx, documentRID, spec.Query, g.config.SectionTopK)
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("retrieve evidence for %s", spec.Category), err)
	}

	context := BuildContext(retrieved, g.config.MaxContextChars)

	output, err := g.generate(ctx, spec.Render(context))
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("generate %s", spec.Category), err)
	}

	sourceChunks := make([]int64, 0, len(retrieved))
	for _, result := range retrieved {
		sourceChunks = append(sourceChunks, int64(result.Chunk.ChunkIndex))
	}

	return &model.Section{
		DocumentRID:  documentRID,
		Category:     spec.Category,
		Content:      output,
		SourceChunks: sourceChunks,
	}, nil
}
