package cmd

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/classmate-cli/internal/store"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

// loadWorkspace opens the workspace file. A missing file yields an empty workspace.
func loadWorkspace(ctx context.Context, model string) (*workspace.Workspace, *store.File, error) {
	fs, err := store.NewFile(cfg.WorkspaceFile)
	if err != nil {
		return nil, nil, err
	}
	ws := workspace.New(
		workspace.WithLogger(zapLogger()),
		workspace.WithSettings(chatSettings(model)),
	)
	snap, found, err := fs.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load workspace %s: %w", fs.Path, err)
	}
	if found {
		ws.Restore(snap)
	}
	return ws, fs, nil
}

func saveWorkspace(ctx context.Context, ws *workspace.Workspace, fs *store.File) error {
	if err := fs.Save(ctx, ws.Snapshot()); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	logger.Debugw("workspace saved", "path", fs.Path)
	return nil
}

func chatSettings(model string) workspace.Settings {
	return workspace.Settings{
		Model:        selectModel(cfg, model),
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
		Preamble:     cfg.SystemPrompt,
		ContextLimit: contextLimit(),
	}
}

// requireActiveClass resolves the class a command works on.
func requireActiveClass(ws *workspace.Workspace, explicit string) (string, error) {
	if explicit != "" {
		if _, err := ws.Documents(explicit); err != nil {
			return "", fmt.Errorf("class %q: %w", explicit, err)
		}
		return explicit, nil
	}
	if a := ws.ActiveClass(); a != "" {
		return a, nil
	}
	return "", fmt.Errorf("%w (create one with 'classmate class add <name>')", workspace.ErrNoActiveClass)
}

// contextLimit prefers --prompt-limit over context_token_limit.
func contextLimit() int {
	if chatPromptLimit > 0 {
		return chatPromptLimit
	}
	return cfg.ContextTokenLimit
}
