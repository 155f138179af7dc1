package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/classmate-cli/internal/config"
	"github.com/KaramelBytes/classmate-cli/internal/logging"
	"github.com/KaramelBytes/classmate-cli/internal/store"
	"github.com/KaramelBytes/classmate-cli/internal/tui"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

var (
	tuiDemo     bool
	tuiProvider string
	tuiModel    string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive three-panel UI",
	Long: `Opens the classes, documents and chat panels in the terminal.

Keys: tab switches panels, enter selects or sends, a adds a class, u uploads a
document, d removes the selected document, ctrl+c quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The UI owns the terminal, so logs go to a file.
		log := logging.Nop()
		if dir, err := cfgpkg.Dir(); err == nil {
			if l, err := logging.ToFile(cfg.LogLevel, filepath.Join(dir, "classmate.log")); err == nil {
				log = l
				defer func() { _ = l.Sync() }()
			}
		}

		rt, provider, err := buildRuntime(cfg, runtimeOptions{ProviderFlag: tuiProvider})
		if err != nil {
			return err
		}
		log.Infow("starting tui", "provider", provider, "demo", tuiDemo)

		opts := []workspace.Option{workspace.WithLogger(log), workspace.WithSettings(chatSettings(tuiModel))}
		var ws *workspace.Workspace
		var fs *store.File
		if tuiDemo {
			ws = workspace.NewDemoWorkspace(opts...)
		} else {
			fs, err = store.NewFile(cfg.WorkspaceFile)
			if err != nil {
				return err
			}
			ws = workspace.New(opts...)
			snap, found, err := fs.Load(ctx)
			if err != nil {
				return fmt.Errorf("load workspace %s: %w", fs.Path, err)
			}
			if found {
				ws.Restore(snap)
			}
		}
		defer ws.Close()

		saved := make(chan struct{})
		saveCtx, stopSave := context.WithCancel(ctx)
		if fs != nil {
			go func() {
				defer close(saved)
				store.AutoSave(saveCtx, ws, fs, 500*time.Millisecond, log)
			}()
		} else {
			close(saved)
		}

		err = tui.Run(ctx, ws, rt, tui.Options{ChatTimeout: chatTimeout(cfg), Logger: log})
		stopSave()
		<-saved
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().BoolVar(&tuiDemo, "demo", false, "start with sample classes and documents (not saved)")
	tuiCmd.Flags().StringVar(&tuiProvider, "provider", "", "provider: openrouter|ollama|mock")
	tuiCmd.Flags().StringVar(&tuiModel, "model", "", "model override")
}
