package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	database := initDB(t)

	t.Run("Init is idempotent", func(t *testing.T) {
		err := Init(database.Instance)
		assert.NoError(t, err, "Expected Init to not return an error on repeated call")
	})

	t.Run("Schema version is tagged", func(t *testing.T) {
		version, err := SchemaVersion(database.Instance)
		assert.NoError(t, err, "Expected SchemaVersion to not return an error")
		assert.Equal(t, 1, version, "Expected schema version 1")
	})
}

func TestLoadDocumentsSql(t *testing.T) {
	database := initDB(t)

	t.Run("Loads all documents functions", func(t *testing.T) {
		err := LoadDocumentsSql(database.Instance, true)
		assert.NoError(t, err, "Expected LoadDocumentsSql to not return an error")

		exist, err := checkFunctions(database.Instance, DocumentsFunctions)
		require.NoError(t, err)
		assert.True(t, exist, "Expected all documents functions to exist")
	})

	t.Run("Skips reload without force", func(t *testing.T) {
		err := LoadDocumentsSql(database.Instance, false)
		assert.NoError(t, err, "Expected LoadDocumentsSql to not return an error when functions exist")
	})
}

func TestLoadChunksSql(t *testing.T) {
	database := initDB(t)

	err := LoadChunksSql(database.Instance, true)
	assert.NoError(t, err, "Expected LoadChunksSql to not return an error")

	exist, err := checkFunctions(database.Instance, ChunksFunctions)
	require.NoError(t, err)
	assert.True(t, exist, "Expected all chunks functions to exist")
}

func TestLoadSectionsSql(t *testing.T) {
	database := initDB(t)

	err := LoadSectionsSql(database.Instance, true)
	assert.NoError(t, err, "Expected LoadSectionsSql to not return an error")

	exist, err := checkFunctions(database.Instance, SectionsFunctions)
	require.NoError(t, err)
	assert.True(t, exist, "Expected all sections functions to exist")
}

func TestLoadAllSql(t *testing.T) {
	database := initDB(t)

	err := LoadAllSql(database.Instance, true)
	assert.NoError(t, err, "Expected LoadAllSql to not return an error")

	for _, functions := range [][]string{DocumentsFunctions, ChunksFunctions, SectionsFunctions} {
		exist, err := checkFunctions(database.Instance, functions)
		require.NoError(t, err)
		assert.True(t, exist, "Expected all functions to exist")
	}
}

func TestCheckFunctions(t *testing.T) {
	database := initDB(t)

	t.Run("Missing function reported as not existing", func(t *testing.T) {
		exist, err := checkFunctions(database.Instance, []string{"definitely_not_a_function"})
		assert.NoError(t, err)
		assert.False(t, exist, "Expected unknown function to not exist")
	})
}
