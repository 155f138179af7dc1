package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Manage classes",
}

var classAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a class (the first class becomes active)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, fs, err := loadWorkspace(ctx, "")
		if err != nil {
			return err
		}
		added, err := ws.AddClass(args[0])
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ Class %q already exists\n", args[0])
			return nil
		}
		if err := saveWorkspace(ctx, ws, fs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Class added: %s\n", args[0])
		return nil
	},
}

var classListCmd = &cobra.Command{
	Use:   "list",
	Short: "List classes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, _, err := loadWorkspace(cmd.Context(), "")
		if err != nil {
			return err
		}
		names := ws.Classes()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no classes)")
			return nil
		}
		active := ws.ActiveClass()
		for _, name := range names {
			docs, _ := ws.Documents(name)
			marker := "-"
			if name == active {
				marker = "●"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d documents)\n", marker, name, len(docs))
		}
		return nil
	},
}

var classSelectCmd = &cobra.Command{
	Use:   "select <name>",
	Short: "Make a class active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, fs, err := loadWorkspace(ctx, "")
		if err != nil {
			return err
		}
		if err := ws.SelectClass(args[0]); err != nil {
			return fmt.Errorf("class %q: %w", args[0], err)
		}
		if err := saveWorkspace(ctx, ws, fs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Active class: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classCmd)
	classCmd.AddCommand(classAddCmd)
	classCmd.AddCommand(classListCmd)
	classCmd.AddCommand(classSelectCmd)
}
