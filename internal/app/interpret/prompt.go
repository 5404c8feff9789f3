package interpret

import (
	"strings"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// PromptInput is the user-side content of an interpretation request. Title,
// symbols, themes and the lucid/recurring flags are optional; when none is
// set the short single-line request is used.
type PromptInput struct {
	Text      string
	Title     string
	Symbols   []string
	Themes    []string
	Lucid     bool
	Recurring bool
}

func (in PromptInput) augmented() bool {
	return strings.TrimSpace(in.Title) != "" ||
		len(in.Symbols) > 0 ||
		len(in.Themes) > 0 ||
		in.Lucid ||
		in.Recurring
}

// BuildMessages returns exactly two messages: the persona's system prompt,
// verbatim, and the user content.
func BuildMessages(persona domain.Persona, in PromptInput) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: persona.SystemPrompt},
		{Role: domain.RoleUser, Content: BuildUserContent(in)},
	}
}

// BuildUserContent renders the user message.
func BuildUserContent(in PromptInput) string {
	if !in.augmented() {
		return "Please interpret this dream: " + in.Text
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = UntitledDream
	}

	var b strings.Builder
	b.WriteString("Dream: ")
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(in.Text)

	if len(in.Symbols) > 0 {
		b.WriteString("\n\nSymbols present: ")
		b.WriteString(strings.Join(in.Symbols, ", "))
	}
	if len(in.Themes) > 0 {
		b.WriteString("\n\nThemes detected: ")
		b.WriteString(strings.Join(in.Themes, ", "))
	}
	if in.Lucid {
		b.WriteString("\n\nNote: This was a lucid dream (the dreamer was aware they were dreaming).")
	}
	if in.Recurring {
		b.WriteString("\n\nNote: This is a recurring dream.")
	}

	return b.String()
}
