package chat

import (
	"fmt"
	"strings"
)

// personaInstructions maps persona keys to the system instruction prepended
// to the prompt. Unknown keys fall back to no instruction.
var personaInstructions = map[string]string{
	"general":   "You are a helpful, friendly assistant.",
	"technical": "You are a precise technical assistant. Prefer exact terminology and short, correct examples.",
	"creative":  "You are an imaginative assistant. Favor vivid, original phrasing.",
	"concise":   "You are a terse assistant. Answer in as few words as possible.",
}

// buildPrompt concatenates persona instruction, language directive, recent
// history, and the new user content into a single generation prompt.
func buildPrompt(history []string, req Request) string {
	var b strings.Builder

	if instruction, ok := personaInstructions[req.Persona]; ok {
		b.WriteString(instruction)
		b.WriteString("\n")
	}
	if req.Language != "" {
		fmt.Fprintf(&b, "Respond in %s.\n", req.Language)
	}

	fmt.Fprintf(&b, "Conversation history:\n%s\nUser: %s\nAI:", strings.Join(history, " "), req.Content)

	return b.String()
}
