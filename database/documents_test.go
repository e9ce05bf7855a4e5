package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentsNewDocumentsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewDocumentsDBHandler", func(t *testing.T) {
		documentsDbHandler, err := NewDocumentsDBHandler(database, true)
		assert.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")
		require.NotNil(t, documentsDbHandler, "Expected NewDocumentsDBHandler to return a non-nil instance")
		require.NotNil(t, documentsDbHandler.db, "Expected NewDocumentsDBHandler to have a non-nil database instance")
		require.NotNil(t, documentsDbHandler.db.Instance, "Expected NewDocumentsDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewDocumentsDBHandler with nil database", func(t *testing.T) {
		_, err := NewDocumentsDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating DocumentsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestDocumentsInsert(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")

	t.Run("Insert document with content", func(t *testing.T) {
		doc := &model.Document{
			Title:    "Attention Is All You Need",
			Source:   "attention.pdf",
			Content:  "## Abstract\n\nThe dominant sequence transduction models are based on recurrent networks.",
			Metadata: map[string]interface{}{"author": "Test Author", "year": 2024},
		}

		err := documentsDbHandler.InsertDocument(doc)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotEmpty(t, doc.RID, "Expected inserted document to have a RID")
		assert.WithinDuration(t, doc.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
		assert.WithinDuration(t, doc.UpdatedAt, time.Now(), 2*time.Second, "Expected UpdatedAt to be set")
		assert.Equal(t, "Attention Is All You Need", doc.Title, "Expected title to match")

		// Cleanup
		documentsDbHandler.DeleteDocument(doc.RID)
	})
}

func TestDocumentsGet(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Title:    "Test Document",
		Source:   "test.pdf",
		Content:  "Some converted markdown text.",
		Metadata: map[string]interface{}{"key": "value"},
	}
	err = documentsDbHandler.InsertDocument(doc)
	require.NoError(t, err)

	t.Run("Select document returns metadata without content", func(t *testing.T) {
		retrievedDoc, err := documentsDbHandler.SelectDocument(doc.RID)
		assert.NoError(t, err, "Expected SelectDocument to not return an error")
		assert.NotNil(t, retrievedDoc, "Expected SelectDocument to return a non-nil document")
		assert.Equal(t, doc.RID, retrievedDoc.RID, "Expected document RIDs to match")
		assert.Equal(t, doc.Title, retrievedDoc.Title, "Expected titles to match")
		assert.Equal(t, doc.Source, retrievedDoc.Source, "Expected sources to match")
		assert.Empty(t, retrievedDoc.Content, "Expected content to not be loaded")
	})

	t.Run("Select document content returns stored text", func(t *testing.T) {
		content, err := documentsDbHandler.SelectDocumentContent(doc.RID)
		assert.NoError(t, err, "Expected SelectDocumentContent to not return an error")
		assert.Equal(t, "Some converted markdown text.", content, "Expected content to match")
	})

	t.Run("Select unknown document returns not found", func(t *testing.T) {
		_, err := documentsDbHandler.SelectDocument(uuid.New())
		assert.Error(t, err, "Expected error for unknown document")
		assert.True(t, helper.IsNotFound(err), "Expected not found kind")
	})

	// Cleanup
	documentsDbHandler.DeleteDocument(doc.RID)
}

func TestDocumentsGetAll(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	docCount := 5
	docs := make([]*model.Document, docCount)
	for i := 0; i < docCount; i++ {
		docs[i] = &model.Document{
			Title:    "Test Document " + string(rune('A'+i)),
			Source:   "test.pdf",
			Content:  "Content " + string(rune('A'+i)),
			Metadata: map[string]interface{}{},
		}
		err = documentsDbHandler.InsertDocument(docs[i])
		require.NoError(t, err)
	}

	// Test SelectAllDocuments
	retrievedDocs, err := documentsDbHandler.SelectAllDocuments(nil, 10)
	assert.NoError(t, err, "Expected SelectAllDocuments to not return an error")
	assert.GreaterOrEqual(t, len(retrievedDocs), docCount, "Expected to retrieve at least the inserted documents")

	// Test pagination
	pageLength := 3
	paginatedDocs, err := documentsDbHandler.SelectAllDocuments(nil, pageLength)
	assert.NoError(t, err, "Expected SelectAllDocuments to not return an error")
	assert.LessOrEqual(t, len(paginatedDocs), pageLength, "Expected at most pageLength documents")

	// Cleanup
	for _, doc := range docs {
		documentsDbHandler.DeleteDocument(doc.RID)
	}
}

func TestDocumentsDelete(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Title:    "Test Document",
		Source:   "test.pdf",
		Content:  "Content",
		Metadata: map[string]interface{}{},
	}
	err = documentsDbHandler.InsertDocument(doc)
	require.NoError(t, err)

	// Delete the document
	err = documentsDbHandler.DeleteDocument(doc.RID)
	assert.NoError(t, err, "Expected Delete to not return an error")

	// Verify deletion
	_, err = documentsDbHandler.SelectDocument(doc.RID)
	assert.Error(t, err, "Expected SelectDocument to return an error for deleted document")

	// Deleting again is a not found error
	err = documentsDbHandler.DeleteDocument(doc.RID)
	assert.Error(t, err, "Expected error when deleting twice")
	assert.True(t, helper.IsNotFound(err), "Expected not found kind")
}
