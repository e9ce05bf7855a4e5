package pipeline

import (
	"fmt"
	"strings"

	"github.com/siherrmann/paperrag/helper"
)

// markdownSeparators in descending structural priority. Separators stay
// attached to the piece that follows them so headings and list markers
// remain readable in citations.
var markdownSeparators = []string{"\n## ", "\n### ", "\n#### ", "\n- ", "\n\n", "\n", " "}

// MarkdownChunker creates a chunker that splits markdown text on
// structural boundaries first and merges the pieces into chunks of at
// most maxChunkSize characters. Consecutive chunks overlap by up to
// overlap characters so no semantic unit is lost at a boundary.
// The overlap must be strictly smaller than the maximum size, otherwise
// the chunker cannot make progress.
func MarkdownChunker(maxChunkSize int, overlap int) ChunkFunc {
	return func(text string, sourceID string) ([]ChunkPiece, error) {
		if maxChunkSize <= 0 {
			return nil, helper.NewKindError(helper.KindConfiguration, "chunker configuration", fmt.Errorf("max chunk size must be positive, got %d", maxChunkSize))
		}
		if overlap < 0 || overlap >= maxChunkSize {
			return nil, helper.NewKindError(helper.KindConfiguration, "chunker configuration", fmt.Errorf("overlap must be non-negative and smaller than max chunk size, got overlap %d for size %d", overlap, maxChunkSize))
		}
		if sourceID == "" {
			return nil, fmt.Errorf("source id must not be empty")
		}
		if strings.TrimSpace(text) == "" {
			return []ChunkPiece{}, nil
		}

		parts := splitStructural(text, markdownSeparators, maxChunkSize)

		var pieces []ChunkPiece
		chunkIdx := 0
		current := ""
		carried := 0 // length of the overlap carried into current
		chunkStart := 0
		pos := 0 // offset of the next part in the original text

		emit := func(content string, start int) {
			startPos := start
			endPos := start + len(content)
			pieces = append(pieces, ChunkPiece{
				Content:    content,
				Source:     sourceID,
				ChunkIndex: chunkIdx,
				StartPos:   &startPos,
				EndPos:     &endPos,
				Metadata:   make(map[string]interface{}),
			})
			chunkIdx++
		}

		for _, part := range parts {
			if current != "" && len(current)+len(part) > maxChunkSize {
				if len(current) > carried {
					emit(current, chunkStart)
					tail := overlapTail(current, overlap)
					// Shrink the carried overlap if the next part would
					// push the chunk over the limit.
					if len(tail)+len(part) > maxChunkSize {
						tail = tail[len(tail)+len(part)-maxChunkSize:]
					}
					current = tail
					carried = len(tail)
					chunkStart = pos - len(tail)
				} else {
					// Nothing but carried overlap, drop it to make room.
					current = ""
					carried = 0
					chunkStart = pos
				}
			}
			if current == "" {
				chunkStart = pos
			}
			current += part
			pos += len(part)
		}

		if len(current) > carried && strings.TrimSpace(current) != "" {
			emit(current, chunkStart)
		}

		return pieces, nil
	}
}

// ParagraphChunker creates a chunker that splits plain text by paragraphs
// without overlap. Paragraphs longer than maxChunkSize are cut at line
// and word boundaries.
func ParagraphChunker(maxChunkSize int) ChunkFunc {
	return func(text string, sourceID string) ([]ChunkPiece, error) {
		if maxChunkSize <= 0 {
			return nil, helper.NewKindError(helper.KindConfiguration, "chunker configuration", fmt.Errorf("max chunk size must be positive, got %d", maxChunkSize))
		}
		if sourceID == "" {
			return nil, fmt.Errorf("source id must not be empty")
		}
		if strings.TrimSpace(text) == "" {
			return []ChunkPiece{}, nil
		}

		var pieces []ChunkPiece
		chunkIdx := 0
		pos := 0

		emit := func(content string, start int) {
			startPos := start
			endPos := start + len(content)
			pieces = append(pieces, ChunkPiece{
				Content:    content,
				Source:     sourceID,
				ChunkIndex: chunkIdx,
				StartPos:   &startPos,
				EndPos:     &endPos,
				Metadata:   make(map[string]interface{}),
			})
			chunkIdx++
		}

		for _, para := range strings.Split(text, "\n\n") {
			if strings.TrimSpace(para) == "" {
				pos += len(para) + 2
				continue
			}

			current := ""
			chunkStart := pos
			for _, part := range splitStructural(para, []string{"\n", " "}, maxChunkSize) {
				if current != "" && len(current)+len(part) > maxChunkSize {
					emit(current, chunkStart)
					current = ""
					chunkStart = pos
				}
				if current == "" {
					chunkStart = pos
				}
				current += part
				pos += len(part)
			}
			if strings.TrimSpace(current) != "" {
				emit(current, chunkStart)
			}

			pos += 2 // account for "\n\n"
		}

		return pieces, nil
	}
}

// splitStructural splits text into parts of at most maxSize characters,
// preferring the given separators in order and hard-cutting only when no
// separator is left.
func splitStructural(text string, separators []string, maxSize int) []string {
	if len(text) <= maxSize {
		return []string{text}
	}

	if len(separators) == 0 {
		var parts []string
		for len(text) > maxSize {
			parts = append(parts, text[:maxSize])
			text = text[maxSize:]
		}
		if text != "" {
			parts = append(parts, text)
		}
		return parts
	}

	splits := splitKeepSeparator(text, separators[0])
	if len(splits) == 1 {
		return splitStructural(text, separators[1:], maxSize)
	}

	var parts []string
	for _, s := range splits {
		if len(s) <= maxSize {
			parts = append(parts, s)
		} else {
			parts = append(parts, splitStructural(s, separators[1:], maxSize)...)
		}
	}
	return parts
}

// splitKeepSeparator splits text on sep, keeping the separator attached
// to the start of the piece that follows it.
func splitKeepSeparator(text string, sep string) []string {
	splits := strings.Split(text, sep)
	parts := make([]string, 0, len(splits))
	for i, s := range splits {
		if i > 0 {
			s = sep + s
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// overlapTail returns the trailing overlap of an emitted chunk, cut at a
// whitespace boundary when one exists so the carried text stays readable.
func overlapTail(content string, overlap int) string {
	if overlap <= 0 || content == "" {
		return ""
	}
	if len(content) <= overlap {
		return content
	}
	tail := content[len(content)-overlap:]
	if idx := strings.IndexAny(tail, " \n"); idx >= 0 && idx+1 < len(tail) {
		tail = tail[idx+1:]
	}
	return tail
}
