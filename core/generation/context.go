package generation

import (
	"strings"

	"github.com/siherrmann/paperrag/model"
)

// BuildContext joins the retrieved chunk contents in retrieval order into
// one grounding context, truncated to maxChars. Truncation cuts at the
// exact character boundary; the prompt templates tolerate a cut sentence.
func BuildContext(results []*model.RetrievalResult, maxChars int) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		parts = append(parts, result.Chunk.Content)
	}

	context := strings.Join(parts, "\n\n")
	if maxChars > 0 && len(context) > maxChars {
		context = context[:maxChars]
	}

	return context
}
