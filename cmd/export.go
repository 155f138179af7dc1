package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/classmate-cli/internal/store"
	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

var transferFormat string

func transferFormatFor(path string) store.Format {
	if transferFormat != "" {
		return store.Format(transferFormat)
	}
	return store.FormatFromPath(path)
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the workspace (classes, documents, transcript) to a file",
	Example: `  classmate export backup.json
  classmate export semester.yaml
  classmate export --format toml workspace.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, _, err := loadWorkspace(cmd.Context(), "")
		if err != nil {
			return err
		}
		data, err := store.Encode(transferFormatFor(args[0]), ws.Snapshot())
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(args[0], data); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d classes to %s\n", len(ws.Classes()), args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the workspace with one previously exported",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import: %w", err)
		}
		snap, err := store.Decode(transferFormatFor(args[0]), data)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		ws, fs, err := loadWorkspace(ctx, "")
		if err != nil {
			return err
		}
		ws.Restore(snap)
		if err := saveWorkspace(ctx, ws, fs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d classes from %s\n", len(ws.Classes()), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringVar(&transferFormat, "format", "", "json|yaml|toml (defaults to the file extension)")
	importCmd.Flags().StringVar(&transferFormat, "format", "", "json|yaml|toml (defaults to the file extension)")
}
