package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/classmate-cli/internal/parser"
)

var (
	docName  string
	docClass string
)

var docCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"docs"},
	Short:   "Manage documents of a class",
}

var docAddCmd = &cobra.Command{
	Use:   "add <file|glob>...",
	Short: "Add documents to the active class",
	Example: `  classmate doc add notes.md
  classmate doc add --name "Week 1" lecture1.pdf
  classmate doc add --class History "essays/**/*.docx"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, fs, err := loadWorkspace(ctx, "")
		if err != nil {
			return err
		}
		class, err := requireActiveClass(ws, docClass)
		if err != nil {
			return err
		}
		paths, err := parser.ExpandPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no supported files found (accepted: %v)", parser.Extensions())
		}
		if docName != "" && len(paths) > 1 {
			return fmt.Errorf("--name can only be used with a single file (matched %d)", len(paths))
		}
		for _, p := range paths {
			content, err := parser.ParseFile(p)
			if err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			doc, err := ws.AddDocument(class, docName, p, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Document added: #%d %s (~%d tokens)\n", doc.ID, doc.Name, doc.Tokens)
		}
		return saveWorkspace(ctx, ws, fs)
	},
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents of the active class",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, _, err := loadWorkspace(cmd.Context(), "")
		if err != nil {
			return err
		}
		class, err := requireActiveClass(ws, docClass)
		if err != nil {
			return err
		}
		docs, err := ws.Documents(class)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no documents)")
			return nil
		}
		for _, d := range docs {
			fmt.Fprintf(cmd.OutOrStdout(), "- #%d: %s (~%d tokens)\n", d.ID, d.Name, d.Tokens)
		}
		return nil
	},
}

var docRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a document from the active class",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id: %s", args[0])
		}
		ctx := cmd.Context()
		ws, fs, err := loadWorkspace(ctx, "")
		if err != nil {
			return err
		}
		if !ws.RemoveDocument(id) {
			return fmt.Errorf("document #%d not found in class %q", id, ws.ActiveClass())
		}
		if err := saveWorkspace(ctx, ws, fs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Document removed: #%d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docRemoveCmd)

	docAddCmd.Flags().StringVar(&docName, "name", "", "display name (defaults to the file name)")
	docAddCmd.Flags().StringVar(&docClass, "class", "", "target class (defaults to the active class)")
	docListCmd.Flags().StringVar(&docClass, "class", "", "class to list (defaults to the active class)")
}
