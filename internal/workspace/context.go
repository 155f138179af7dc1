package workspace

import (
	"strings"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

// DefaultPreamble opens the system message when no system_prompt is configured.
const DefaultPreamble = "You are ClassMate, a study assistant. Answer the student's questions, " +
	"using the class documents below as background when they are relevant."

const noDocumentsNote = "No documents have been uploaded for this class yet."

const truncatedNote = "\n\n[class documents truncated]"

// BuildContext renders documents as "name: content" separated by a blank line.
func BuildContext(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Name+": "+d.Content)
	}
	return strings.Join(parts, "\n\n")
}

// ClipContext cuts ctx to roughly limit tokens. A limit <= 0 means no cap.
func ClipContext(ctx string, limit int) string {
	if limit <= 0 || utils.CountTokens(ctx) <= limit {
		return ctx
	}
	return utils.TruncateToTokenLimit(ctx, limit) + truncatedNote
}

// SystemPrompt is the instruction that carries the class context, capped at
// contextLimit tokens when contextLimit > 0.
func SystemPrompt(preamble, class string, docs []Document, contextLimit int) string {
	if strings.TrimSpace(preamble) == "" {
		preamble = DefaultPreamble
	}
	var sb strings.Builder
	sb.WriteString(preamble)
	if class != "" {
		sb.WriteString("\n\nClass: ")
		sb.WriteString(class)
	}
	sb.WriteString("\n\n")
	if ctx := BuildContext(docs); ctx != "" {
		sb.WriteString("Class documents:\n\n")
		sb.WriteString(ClipContext(ctx, contextLimit))
	} else {
		sb.WriteString(noDocumentsNote)
	}
	return sb.String()
}

// BuildTranscript assembles the messages for one round-trip: the system
// instruction, the prior history and the new user message. Error bubbles are
// left out of the history. The preamble and context cap come from s.
func BuildTranscript(class string, docs []Document, history []ChatMessage, userText string, s Settings) []ai.Message {
	msgs := make([]ai.Message, 0, len(history)+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: SystemPrompt(s.Preamble, class, docs, s.ContextLimit)})
	for _, m := range history {
		if m.Error {
			continue
		}
		role := ai.RoleUser
		if m.Sender == SenderAssistant {
			role = ai.RoleAssistant
		}
		msgs = append(msgs, ai.Message{Role: role, Content: m.Text})
	}
	return append(msgs, ai.Message{Role: ai.RoleUser, Content: userText})
}
