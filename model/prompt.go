package model

import (
	"fmt"
	"strings"

	"github.com/siherrmann/paperrag/helper"
)

const (
	// ContextPlaceholder is substituted with the retrieved context.
	ContextPlaceholder = "{{context}}"
	// QuestionPlaceholder is substituted with the user question.
	QuestionPlaceholder = "{{question}}"

	// SectionNotStated is the sentinel a section template must instruct the
	// model to emit when the requested information is absent from the context.
	SectionNotStated = "Not clearly stated in the paper"
	// ChatNotFound is the refusal sentinel of the chat prompt.
	ChatNotFound = "Not found in the provided document."
)

// SectionSpec describes one semantic category: the canonical retrieval
// query that finds its evidence and the prompt template that extracts it.
// Templates are data so a category can be added or hardened without
// touching the generation code.
type SectionSpec struct {
	Category string `json:"category"`
	Query    string `json:"query"`
	Template string `json:"template"`
}

// Validate rejects malformed specs. Every template must carry the
// answer-only-from-context instruction and the "not stated" sentinel,
// otherwise the grounding contract cannot hold.
func (s SectionSpec) Validate() error {
	if s.Category == "" {
		return helper.NewKindError(helper.KindConfiguration, "section spec validation", fmt.Errorf("category must not be empty"))
	}
	if s.Query == "" {
		return helper.NewKindError(helper.KindConfiguration, "section spec validation", fmt.Errorf("retrieval query for %s must not be empty", s.Category))
	}
	if !strings.Contains(s.Template, ContextPlaceholder) {
		return helper.NewKindError(helper.KindConfiguration, "section spec validation", fmt.Errorf("template for %s is missing the %s placeholder", s.Category, ContextPlaceholder))
	}
	if !strings.Contains(s.Template, SectionNotStated) {
		return helper.NewKindError(helper.KindConfiguration, "section spec validation", fmt.Errorf("template for %s is missing the %q sentinel", s.Category, SectionNotStated))
	}
	return nil
}

// Render fills the template with the retrieved context.
func (s SectionSpec) Render(context string) string {
	return strings.ReplaceAll(s.Template, ContextPlaceholder, context)
}

func sectionTemplate(task string) string {
	return `You are an AI research assistant.

You must answer ONLY using the provided context.
Do NOT use prior knowledge or external information.
If the requested information is not explicitly stated, say "` + SectionNotStated + `".

Context:
` + ContextPlaceholder + `

Task:
` + task + `
`
}

// DefaultSectionSpecs returns the configured categories in their fixed
// generation order.
func DefaultSectionSpecs() []SectionSpec {
	return []SectionSpec{
		{
			Category: "problem_statement",
			Query:    "This paper addresses the problem of",
			Template: sectionTemplate("Extract the main research problem addressed by the paper."),
		},
		{
			Category: "motivation",
			Query:    "The motivation for this research is",
			Template: sectionTemplate("Explain the motivation of the paper."),
		},
		{
			Category: "methodology",
			Query:    "The proposed method consists of",
			Template: sectionTemplate("Explain the methodology proposed in the paper."),
		},
		{
			Category: "key_contributions",
			Query:    "The key contributions of this paper are",
			Template: sectionTemplate("List the key contributions claimed by the paper."),
		},
		{
			Category: "limitations",
			Query:    "The limitations of this approach are",
			Template: sectionTemplate("Describe the limitations of the proposed approach."),
		},
	}
}

// ChatPromptTemplate is the single-shot grounding contract for ad-hoc
// question answering.
const ChatPromptTemplate = `You are an AI research assistant performing context-grounded question answering.

STRICT RULES (must be followed):
1. Use ONLY the information contained in the provided context.
2. Do NOT use prior knowledge or external information.
3. If the answer exists in the context, you MUST extract and summarize it.
4. ONLY reply "` + ChatNotFound + `" if the information is completely absent.
5. Every claim in the answer MUST be supported by the provided context.
6. Include verbatim context excerpts that directly support the answer.

Answer guidelines:
- Answer the question fully using information from the context.
- 3-5 concise sentences.
- Prefer technical specificity over general summaries.

Required output format:

Answer:
<concise, context-grounded answer>

Supporting Context (verbatim):
<exact excerpts used>

Context:
` + ContextPlaceholder + `

Question:
` + QuestionPlaceholder + `
`

// RenderChatPrompt fills the chat template with context and question.
func RenderChatPrompt(context string, question string) string {
	prompt := strings.ReplaceAll(ChatPromptTemplate, ContextPlaceholder, context)
	return strings.ReplaceAll(prompt, QuestionPlaceholder, question)
}
