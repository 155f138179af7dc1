package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const footerHeight = 2

func (m Model) panelWidths() (classes, docs, chat int) {
	classes = max(m.width/5, 18)
	docs = max(m.width*3/10, 24)
	chat = max(m.width-classes-docs, 30)
	return
}

func (m *Model) layout() {
	_, _, chatW := m.panelWidths()
	inner := max(m.height-footerHeight-2, 3)
	m.input.SetWidth(chatW - 2)
	m.chat.Width = chatW - 2
	m.chat.Height = max(inner-m.input.Height()-1, 1)
	m.refresh()
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	bodyHeight := max(m.height-footerHeight, 5)
	var body string
	switch m.mode {
	case modeAddClass:
		box := dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("New class"), "", m.classPrompt.View(), "",
			dimStyle.Render("enter add · esc cancel")))
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, box)
	case modeUpload:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.upload.view(m.active))
	default:
		body = m.panels(bodyHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

func (m Model) panels(height int) string {
	classW, docW, chatW := m.panelWidths()
	inner := height - 2

	var cls strings.Builder
	cls.WriteString(titleStyle.Render("Classes"))
	for i, c := range m.classes {
		line := "  " + c
		if c == m.active {
			line = activeMarkStyle.Render("● ") + c
		}
		if m.focus == focusClasses && i == m.classCursor {
			line = selectedStyle.Render(line)
		}
		cls.WriteString("\n" + line)
	}
	if len(m.classes) == 0 {
		cls.WriteString("\n" + dimStyle.Render("press a to add"))
	}

	var docs strings.Builder
	docs.WriteString(titleStyle.Render("Documents"))
	if m.active != "" {
		docs.WriteString(dimStyle.Render(" · " + m.active))
	}
	for i, d := range m.docs {
		line := fmt.Sprintf("  #%d %s", d.ID, d.Name)
		if m.focus == focusDocuments && i == m.docCursor {
			line = selectedStyle.Render(line)
		}
		docs.WriteString("\n" + line)
	}
	if len(m.docs) == 0 {
		docs.WriteString("\n" + dimStyle.Render("press u to upload"))
	}

	chat := lipgloss.JoinVertical(lipgloss.Left, m.chat.View(), "", m.input.View())

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.panelStyle(focusClasses).Width(classW-2).Height(inner).Render(cls.String()),
		m.panelStyle(focusDocuments).Width(docW-2).Height(inner).Render(docs.String()),
		m.panelStyle(focusChat).Width(chatW-2).Height(inner).Render(chat),
	)
}

func (m Model) panelStyle(f focus) lipgloss.Style {
	if m.focus == f && m.mode == modeNormal {
		return focusedPanelStyle
	}
	return panelStyle
}

func (m Model) footer() string {
	status := m.status
	if m.pending > 0 {
		status = fmt.Sprintf("%s %s", m.spinner.View(), status)
	}
	help := dimStyle.Render("tab focus · enter select/send · a add class · u upload · d remove · ctrl+c quit")
	return lipgloss.JoinVertical(lipgloss.Left, status, help)
}
