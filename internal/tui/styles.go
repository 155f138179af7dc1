package tui

import "github.com/charmbracelet/lipgloss"

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("205"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true)

	activeMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)
