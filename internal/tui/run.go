package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

// Run starts the full-screen UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ws *workspace.Workspace, rt ai.Runtime, opts Options) error {
	m := New(ws, rt, opts)
	defer m.cancel()
	program := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	return err
}
