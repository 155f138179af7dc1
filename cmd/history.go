package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/classmate-cli/internal/utils"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

var (
	historyClear bool
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the chat transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, fs, err := loadWorkspace(ctx, "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if historyClear {
			n := ws.ClearHistory()
			if err := saveWorkspace(ctx, ws, fs); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Cleared %d messages\n", n)
			return nil
		}
		msgs := ws.Messages()
		if historyJSON {
			b, err := utils.PrettyJSON(msgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		if len(msgs) == 0 {
			fmt.Fprintln(out, "(no messages)")
			return nil
		}
		for _, m := range msgs {
			who := "You"
			if m.Sender != workspace.SenderUser {
				who = "ClassMate"
			}
			fmt.Fprintf(out, "[%s] %s: %s\n", m.CreatedAt.Format("15:04"), who, m.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "clear the transcript")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the transcript as JSON")
}
