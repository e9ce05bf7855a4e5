package model

import (
	"fmt"

	"github.com/siherrmann/paperrag/helper"
)

// QueryConfig represents configuration for a retrieval query
type QueryConfig struct {
	// Number of chunks to return, best match first
	TopK int `json:"top_k"`
	// Also pull the chunks adjacent to each match for more context
	IncludeNeighbors bool `json:"include_neighbors"`
}

// DefaultQueryConfig returns a sensible default configuration for
// exploratory retrieval
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:             5,
		IncludeNeighbors: false,
	}
}

// GenerationConfig bounds the context and retrieval breadth of the
// generation layer. The two consumers use different k on purpose:
// section extraction needs tight evidence, chat needs more breadth.
type GenerationConfig struct {
	SectionTopK     int `json:"section_top_k"`
	ChatTopK        int `json:"chat_top_k"`
	MaxContextChars int `json:"max_context_chars"`
}

// DefaultGenerationConfig returns the standard generation bounds.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		SectionTopK:     2,
		ChatTopK:        3,
		MaxContextChars: 3000,
	}
}

// Validate rejects non-positive bounds at startup.
func (c GenerationConfig) Validate() error {
	if c.SectionTopK < 1 {
		return helper.NewKindError(helper.KindConfiguration, "generation configuration", fmt.Errorf("section top k must be at least 1, got %d", c.SectionTopK))
	}
	if c.ChatTopK < 1 {
		return helper.NewKindError(helper.KindConfiguration, "generation configuration", fmt.Errorf("chat top k must be at least 1, got %d", c.ChatTopK))
	}
	if c.MaxContextChars < 1 {
		return helper.NewKindError(helper.KindConfiguration, "generation configuration", fmt.Errorf("max context chars must be positive, got %d", c.MaxContextChars))
	}
	return nil
}
