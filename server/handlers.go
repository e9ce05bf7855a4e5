package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxUploadBytes   = 50 << 20 // 50 MiB
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Handler translates HTTP requests into service calls
type Handler struct {
	service Service
}

// Root reports that the service is up
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "PaperRag API is running"})
}

// UploadPDF accepts a multipart PDF upload, stores the document and builds
// its index. Responds with the document id the other endpoints expect.
func (h *Handler) UploadPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", maxUploadBytes)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "could not read file upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "could not read file upload"})
		return
	}

	doc, numChunks, err := h.service.UploadDocument(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.RID.String(),
		"title":       doc.Title,
		"num_chunks":  numChunks,
	})
}

type analyzeSectionsRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
}

// AnalyzeSections returns all configured sections of a document, generating
// the missing ones
func (h *Handler) AnalyzeSections(c *gin.Context) {
	var req analyzeSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "document_id is required"})
		return
	}

	documentRID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "document_id must be a valid uuid"})
		return
	}

	sections, err := h.service.AnalyzeSections(c.Request.Context(), documentRID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": documentRID.String(),
		"sections":    sections,
	})
}

type chatRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
	Question   string `json:"question" binding:"required"`
}

// Chat answers one grounded question about a document
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "document_id and question are required"})
		return
	}

	documentRID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "document_id must be a valid uuid"})
		return
	}

	answer, err := h.service.Chat(c.Request.Context(), documentRID, req.Question)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// ListDocuments returns stored documents newest first. Pagination via the
// before cursor (RFC 3339 created_at of the last seen document) and limit.
func (h *Handler) ListDocuments(c *gin.Context) {
	limit := defaultPageLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxPageLimit {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxPageLimit)})
			return
		}
		limit = parsed
	}

	var lastCreatedAt *time.Time
	if v := c.Query("before"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC 3339 timestamp"})
			return
		}
		lastCreatedAt = &parsed
	}

	documents, err := h.service.ListDocuments(lastCreatedAt, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}
