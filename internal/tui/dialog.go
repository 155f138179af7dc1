package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KaramelBytes/classmate-cli/internal/parser"
)

// uploadDialog holds the transient state of the upload modal.
type uploadDialog struct {
	name  textinput.Model
	path  textinput.Model
	field int
	err   string
}

func newUploadDialog() uploadDialog {
	name := textinput.New()
	name.Placeholder = "Document name (optional)"
	name.Prompt = "Name: "
	name.CharLimit = 128

	path := textinput.New()
	path.Placeholder = "~/notes/chapter1.md"
	path.Prompt = "File: "
	path.CharLimit = 1024

	d := uploadDialog{name: name, path: path}
	d.reset()
	return d
}

func (d *uploadDialog) reset() {
	d.name.Reset()
	d.path.Reset()
	d.err = ""
	d.focusField(0)
}

func (d *uploadDialog) focusField(i int) tea.Cmd {
	d.field = i
	if i == 0 {
		d.path.Blur()
		return d.name.Focus()
	}
	d.name.Blur()
	return d.path.Focus()
}

func (d *uploadDialog) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if d.field == 0 {
		d.name, cmd = d.name.Update(msg)
	} else {
		d.path, cmd = d.path.Update(msg)
	}
	return cmd
}

func (d uploadDialog) view(class string) string {
	lines := []string{
		titleStyle.Render("Upload to " + class),
		"",
		d.name.View(),
		d.path.View(),
		"",
		dimStyle.Render("Accepted: " + strings.Join(parser.Extensions(), " ")),
		dimStyle.Render("tab switch field · enter upload · esc cancel"),
	}
	if d.err != "" {
		lines = append(lines, "", errorStyle.Render("✗ "+d.err))
	}
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func newClassPrompt() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. Biology"
	ti.Prompt = "Class name: "
	ti.CharLimit = 128
	return ti
}
