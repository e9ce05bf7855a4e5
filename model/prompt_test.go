package model

import (
	"strings"
	"testing"

	"github.com/siherrmann/paperrag/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionSpecValidate(t *testing.T) {
	t.Run("All default specs are valid", func(t *testing.T) {
		for _, spec := range DefaultSectionSpecs() {
			assert.NoError(t, spec.Validate(), "Expected spec %s to be valid", spec.Category)
		}
	})

	t.Run("Empty category is rejected", func(t *testing.T) {
		spec := SectionSpec{Query: "q", Template: sectionTemplate("task")}

		err := spec.Validate()
		require.Error(t, err)
		assert.True(t, helper.IsKind(err, helper.KindConfiguration))
	})

	t.Run("Empty query is rejected", func(t *testing.T) {
		spec := SectionSpec{Category: "c", Template: sectionTemplate("task")}

		err := spec.Validate()
		require.Error(t, err)
		assert.True(t, helper.IsKind(err, helper.KindConfiguration))
	})

	t.Run("Template without context placeholder is rejected", func(t *testing.T) {
		spec := SectionSpec{Category: "c", Query: "q", Template: "No placeholder but sentinel " + SectionNotStated}

		err := spec.Validate()
		require.Error(t, err)
		assert.True(t, helper.IsKind(err, helper.KindConfiguration))
	})

	t.Run("Template without sentinel is rejected", func(t *testing.T) {
		spec := SectionSpec{Category: "c", Query: "q", Template: "Context: " + ContextPlaceholder}

		err := spec.Validate()
		require.Error(t, err)
		assert.True(t, helper.IsKind(err, helper.KindConfiguration))
	})
}

func TestSectionSpecRender(t *testing.T) {
	spec := DefaultSectionSpecs()[0]

	prompt := spec.Render("The retrieved evidence.")

	assert.Contains(t, prompt, "The retrieved evidence.", "Expected context to be substituted")
	assert.NotContains(t, prompt, ContextPlaceholder, "Expected no placeholder left")
	assert.Contains(t, prompt, SectionNotStated, "Expected the sentinel instruction to remain")
}

func TestDefaultSectionSpecs(t *testing.T) {
	specs := DefaultSectionSpecs()

	require.Len(t, specs, 5)

	expectedOrder := []string{"problem_statement", "motivation", "methodology", "key_contributions", "limitations"}
	for i, category := range expectedOrder {
		assert.Equal(t, category, specs[i].Category, "Expected fixed generation order")
	}

	seen := map[string]bool{}
	for _, spec := range specs {
		assert.False(t, seen[spec.Category], "Expected unique categories")
		seen[spec.Category] = true
	}
}

func TestRenderChatPrompt(t *testing.T) {
	prompt := RenderChatPrompt("Some chunk text.", "What is the main result?")

	assert.Contains(t, prompt, "Some chunk text.")
	assert.Contains(t, prompt, "What is the main result?")
	assert.Contains(t, prompt, ChatNotFound, "Expected the refusal sentinel instruction")
	assert.False(t, strings.Contains(prompt, ContextPlaceholder), "Expected no placeholder left")
	assert.False(t, strings.Contains(prompt, QuestionPlaceholder), "Expected no placeholder left")
}
