package generation

import (
	"strings"
	"testing"

	"github.com/siherrmann/paperrag/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildContext(t *testing.T) {
	t.Run("Joins chunks in retrieval order", func(t *testing.T) {
		results := []*model.RetrievalResult{
			{Chunk: &model.Chunk{Content: "First chunk."}},
			{Chunk: &model.Chunk{Content: "Second chunk."}},
		}

		context := BuildContext(results, 3000)

		assert.Equal(t, "First chunk.\n\nSecond chunk.", context)
	})

	t.Run("Truncates at the character boundary", func(t *testing.T) {
		results := []*model.RetrievalResult{
			{Chunk: &model.Chunk{Content: strings.Repeat("a", 100)}},
			{Chunk: &model.Chunk{Content: strings.Repeat("b", 100)}},
		}

		context := BuildContext(results, 150)

		assert.Len(t, context, 150)
		assert.True(t, strings.HasPrefix(context, strings.Repeat("a", 100)))
	})

	t.Run("Empty results yield an empty context", func(t *testing.T) {
		assert.Equal(t, "", BuildContext(nil, 3000))
	})
}
