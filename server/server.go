package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
)

// Service is the pipeline surface the HTTP layer exposes. The handlers
// only translate between HTTP and these calls, no pipeline logic lives
// here.
type Service interface {
	UploadDocument(ctx context.Context, filename string, data []byte) (*model.Document, int, error)
	AnalyzeSections(ctx context.Context, documentRID uuid.UUID) (map[string]*model.Section, error)
	Chat(ctx context.Context, documentRID uuid.UUID, question string) (*model.ChatAnswer, error)
	ListDocuments(lastCreatedAt *time.Time, limit int) ([]*model.Document, error)
}

// NewRouter creates the gin router with all routes registered
func NewRouter(service Service) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
	}))

	handler := &Handler{service: service}

	router.GET("/", handler.Root)
	router.POST("/upload_pdf", handler.UploadPDF)
	router.POST("/analyze_sections", handler.AnalyzeSections)
	router.POST("/chat", handler.Chat)
	router.GET("/documents", handler.ListDocuments)

	return router
}

// statusForError maps error kinds to HTTP status codes. Unknown kinds are
// internal errors.
func statusForError(err error) int {
	switch helper.KindOf(err) {
	case helper.KindNotFound:
		return http.StatusNotFound
	case helper.KindConversionFailed:
		return http.StatusUnprocessableEntity
	case helper.KindEncodingFailed, helper.KindGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusForError(err), gin.H{
		"error": err.Error(),
		"kind":  string(helper.KindOf(err)),
	})
}
