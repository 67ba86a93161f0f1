package openai

import (
	"fmt"
	"strings"
)

const answerSystemPrompt = "You answer questions using only the context passages supplied " +
	"in the user message. Never use outside knowledge. If the context does not contain " +
	"enough information to answer, say explicitly that there is not enough information " +
	"in the recorded content. When an answer is supported by the context, cite the " +
	"relevant excerpt. Keep answers concise and natural."

const passageSeparator = "\n\n---\n\n"

// BuildAnswerPrompt renders the user message: every passage verbatim, in the
// order supplied (highest similarity first), followed by the question.
func BuildAnswerPrompt(question string, contextPassages []string) string {
	var b strings.Builder
	b.WriteString("CONTEXT PASSAGES (most relevant first):\n\n")
	for i, p := range contextPassages {
		if i > 0 {
			b.WriteString(passageSeparator)
		}
		b.WriteString(fmt.Sprintf("[passage %d]\n", i+1))
		b.WriteString(p)
	}
	b.WriteString("\n\nQUESTION:\n")
	b.WriteString(question)
	return b.String()
}
