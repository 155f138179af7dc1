package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

const welcome = "Ask a question about the active class.\nPress tab to reach the input, enter to send."

// messageRenderer turns the transcript into viewport content. Assistant
// replies are rendered as markdown.
type messageRenderer struct {
	md    *glamour.TermRenderer
	width int
}

func newMessageRenderer() *messageRenderer {
	return &messageRenderer{}
}

func (r *messageRenderer) setWidth(width int) {
	if width == r.width && r.md != nil {
		return
	}
	r.width = width
	md, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(max(width-2, 20)),
	)
	if err != nil {
		r.md = nil
		return
	}
	r.md = md
}

func (r *messageRenderer) render(msgs []workspace.ChatMessage) string {
	if len(msgs) == 0 {
		return dimStyle.Render(welcome)
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, r.renderMessage(m))
	}
	return strings.Join(parts, "\n\n")
}

func (r *messageRenderer) renderMessage(m workspace.ChatMessage) string {
	switch {
	case m.Sender == workspace.SenderUser:
		return userStyle.Render("You:") + " " + m.Text
	case m.Error:
		return assistantStyle.Render("ClassMate:") + "\n" + errorStyle.Render(m.Text)
	default:
		return assistantStyle.Render("ClassMate:") + "\n" + r.markdown(m.Text)
	}
}

func (r *messageRenderer) markdown(s string) string {
	if r.md == nil {
		return s
	}
	out, err := r.md.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}
