package application

import (
	"fmt"
	"strings"

	"ai-coder/services/coder-service/internal/domain"
)

const thinkDirective = "\nThink step-by-step, explain your reasoning clearly, " +
	"and provide a detailed solution with thorough comments."

// BuildSystemPrompt returns the role instruction for language, with the
// step-by-step directive appended in think mode.
func BuildSystemPrompt(language string, thinkMode bool) string {
	prompt := "You are a witty and helpful coding assistant. " +
		"Provide clear, concise, and accurate answers with a touch of humor. " +
		fmt.Sprintf("For coding tasks, generate clean, well-commented %s code in markdown code blocks. ", language) +
		"Include brief explanations for complex logic and follow best practices. " +
		"If the prompt is unclear, ask clarifying questions or suggest improvements."
	if thinkMode {
		prompt += thinkDirective
	}
	return prompt
}

// BuildContext renders recent interactions, given newest first, as an
// oldest-to-newest transcript.
func BuildContext(recent []*domain.Interaction) string {
	if len(recent) == 0 {
		return ""
	}
	turns := make([]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		turns = append(turns, fmt.Sprintf("User: %s\nAssistant: %s", recent[i].Prompt, recent[i].Response))
	}
	return strings.Join(turns, "\n")
}

func systemInstruction(language string, thinkMode bool, recent []*domain.Interaction) string {
	system := BuildSystemPrompt(language, thinkMode)
	if history := BuildContext(recent); history != "" {
		system += "\n\nConversation so far:\n" + history
	}
	return system
}
