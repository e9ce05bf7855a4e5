package paperrag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/paperrag/core/convert"
	"github.com/siherrmann/paperrag/core/generation"
	"github.com/siherrmann/paperrag/core/pipeline"
	"github.com/siherrmann/paperrag/core/retrieval"
	"github.com/siherrmann/paperrag/database"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
	loadSql "github.com/siherrmann/paperrag/sql"
)

// PaperRag provides a unified interface to the document analysis pipeline:
// upload, section extraction and grounded chat over single documents.
type PaperRag struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Chunks    *database.ChunksDBHandler
	Sections  *database.SectionsDBHandler
	Pipeline  *pipeline.Pipeline // Chunking and embedding pipeline
	Engine    *retrieval.Engine  // Per-document retrieval engine
	Converter convert.Converter  // Upload byte-to-text conversion

	generator *generation.SectionGenerator
	answerer  *generation.Answerer
	genConfig model.GenerationConfig
	// Logging
	log *slog.Logger
}

// NewPaperRag creates a new PaperRag instance with all handlers initialized
func NewPaperRag(config *helper.DatabaseConfiguration, embeddingDim int) (*PaperRag, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("paperrag", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in the correct order (documents first, then the
	// tables referencing them)
	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	sections, err := database.NewSectionsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create sections handler", err)
	}

	return &PaperRag{
		DB:        db,
		Documents: documents,
		Chunks:    chunks,
		Sections:  sections,
		Converter: convert.NewPDFConverter(),
		genConfig: model.DefaultGenerationConfig(),
		log:       logger,
	}, nil
}

// Close closes the database connection
func (p *PaperRag) Close() error {
	if p.DB != nil && p.DB.Instance != nil {
		return p.DB.Instance.Close()
	}
	return nil
}

// SetConverter replaces the upload conversion, e.g. for plain text ingest
func (p *PaperRag) SetConverter(converter convert.Converter) {
	p.Converter = converter
}

// SetPipeline sets the chunking pipeline for document processing. The
// retrieval engine is rebuilt so query embedding always matches the
// embedder the indexes were built with.
func (p *PaperRag) SetPipeline(pl *pipeline.Pipeline) {
	p.Pipeline = pl
	p.Engine = retrieval.NewEngine(p.Chunks, p.Documents, pl.Embedder)
}

// UseDefaultPipeline sets up the default chunking and embedding pipeline.
// This uses MarkdownChunker with 600 char max chunks and 100 char overlap,
// and DefaultEmbedder with the all-MiniLM-L6-v2 model (384 dimensions).
func (p *PaperRag) UseDefaultPipeline() error {
	chunker := pipeline.MarkdownChunker(600, 100)
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	p.SetPipeline(pipeline.NewPipeline(chunker, embedder))
	return nil
}

// SetGenerate wires the generation capability and builds the section
// generator and chat answerer on top of it. Must be called after the
// pipeline is set.
func (p *PaperRag) SetGenerate(generate generation.GenerateFunc) error {
	if p.Engine == nil {
		return helper.NewKindError(helper.KindConfiguration, "set generate", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	generator, err := generation.NewSectionGenerator(p.Engine, generate, p.Sections, model.DefaultSectionSpecs(), p.genConfig, p.log)
	if err != nil {
		return helper.NewError("create section generator", err)
	}

	answerer, err := generation.NewAnswerer(p.Engine, generate, p.genConfig, p.log)
	if err != nil {
		return helper.NewError("create answerer", err)
	}

	p.generator = generator
	p.answerer = answerer
	return nil
}

// UploadDocument converts an uploaded file to text, stores the document
// and builds its vector index. Returns the stored document and the number
// of indexed chunks. Nothing is stored when conversion fails.
func (p *PaperRag) UploadDocument(ctx context.Context, filename string, data []byte) (*model.Document, int, error) {
	if p.Pipeline == nil {
		return nil, 0, helper.NewKindError(helper.KindConfiguration, "upload document", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	if p.Converter == nil {
		return nil, 0, helper.NewKindError(helper.KindConfiguration, "upload document", fmt.Errorf("converter not set"))
	}

	text, err := p.Converter.Convert(data)
	if err != nil {
		return nil, 0, helper.NewError("convert upload", err)
	}

	doc := &model.Document{
		Title:    strings.TrimSuffix(filename, ".pdf"),
		Source:   filename,
		Content:  text,
		Metadata: model.Metadata{},
	}
	if err := p.Documents.InsertDocument(doc); err != nil {
		return nil, 0, helper.NewError("insert document", err)
	}

	p.log.Info("Inserted document", slog.String("document_id", doc.RID.String()), slog.String("title", doc.Title))

	chunks, err := p.Pipeline.Process(text, doc.RID.String())
	if err != nil {
		return nil, 0, helper.NewError("process chunks", err)
	}

	p.log.Info("Processed document into chunks", slog.Int("num_chunks", len(chunks)), slog.String("document_id", doc.RID.String()))

	for i, chunk := range chunks {
		chunk.DocumentID = doc.ID
		if err := p.Chunks.InsertChunk(chunk); err != nil {
			return nil, i, helper.NewError(fmt.Sprintf("insert chunk %d", i), err)
		}
	}

	return doc, len(chunks), nil
}

// AnalyzeSections returns all configured sections of a document, generating
// and caching the ones not generated yet
func (p *PaperRag) AnalyzeSections(ctx context.Context, documentRID uuid.UUID) (map[string]*model.Section, error) {
	if p.generator == nil {
		return nil, helper.NewKindError(helper.KindConfiguration, "analyze sections", fmt.Errorf("generation capability not set, use SetGenerate() first"))
	}

	return p.generator.GetOrGenerate(ctx, documentRID)
}

// Chat answers a free-form question about a document, grounded in its
// indexed chunks. Stateless: no conversation history is kept.
func (p *PaperRag) Chat(ctx context.Context, documentRID uuid.UUID, question string) (*model.ChatAnswer, error) {
	if p.answerer == nil {
		return nil, helper.NewKindError(helper.KindConfiguration, "chat", fmt.Errorf("generation capability not set, use SetGenerate() first"))
	}

	return p.answerer.Answer(ctx, documentRID, question)
}

// Search performs exploratory retrieval over one document without any
// generation on top
func (p *PaperRag) Search(ctx context.Context, documentRID uuid.UUID, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if p.Engine == nil {
		return nil, helper.NewKindError(helper.KindConfiguration, "search", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if config == nil {
		defaultConfig := model.DefaultQueryConfig()
		config = &defaultConfig
	}

	if config.IncludeNeighbors {
		return p.Engine.ContextualRetrieve(ctx, documentRID, query, config.TopK)
	}
	return p.Engine.Retrieve(ctx, documentRID, query, config.TopK)
}

// ListDocuments retrieves stored documents newest first, paginated by the
// created_at cursor
func (p *PaperRag) ListDocuments(lastCreatedAt *time.Time, limit int) ([]*model.Document, error) {
	return p.Documents.SelectAllDocuments(lastCreatedAt, limit)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (p *PaperRag) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return p.Chunks.ChangeIndexType(ctx, indexType, params)
}
