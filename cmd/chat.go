package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
)

var (
	chatClass       string
	chatProvider    string
	chatModel       string
	chatJSON        bool
	chatDryRun      bool
	chatOutput      string
	chatFormat      string
	chatOllamaHost  string
	chatPromptLimit int
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the assistant a question using the active class's documents",
	Example: `  classmate chat "Summarize this week's notes"
  classmate chat --class History --dry-run "What caused the war?"
  classmate chat --provider ollama --model llama3.1:8b-instruct "Quiz me"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return fmt.Errorf("message cannot be empty")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ws, fs, err := loadWorkspace(ctx, chatModel)
		if err != nil {
			return err
		}
		if chatClass != "" {
			if err := ws.SelectClass(chatClass); err != nil {
				return fmt.Errorf("class %q: %w", chatClass, err)
			}
		}
		class := ws.ActiveClass()
		if class == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠ No active class; sending without document context")
		}
		model := ws.Settings().Model

		if chatDryRun {
			msgs, tokens := ws.Preview(text)
			for _, m := range msgs {
				fmt.Fprintf(cmd.OutOrStdout(), "--- %s ---\n%s\n", m.Role, m.Content)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nClass: %s\nModel: %s\nMessages: %d\nPrompt tokens (est.): %d\n", class, model, len(msgs), tokens)
			if mi, ok := ai.LookupModel(model); ok && mi.ContextTokens > 0 && tokens > mi.ContextTokens {
				fmt.Fprintf(cmd.OutOrStdout(), "⚠ Prompt exceeds the model's context window (%d tokens)\n", mi.ContextTokens)
			}
			if cost, ok := ai.EstimateCostUSD(model, tokens, ws.Settings().MaxTokens); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Estimated cost: ~$%.4f\n", cost)
			}
			return nil
		}

		rt, provider, err := buildRuntime(cfg, runtimeOptions{ProviderFlag: chatProvider, OllamaHost: chatOllamaHost})
		if err != nil {
			return err
		}

		cctx, cancel := context.WithTimeout(ctx, chatTimeout(cfg))
		defer cancel()
		ex, err := ws.Send(cctx, rt, text)
		if err != nil {
			return err
		}
		// The transcript keeps the error bubble, so persist before reporting.
		if err := saveWorkspace(ctx, ws, fs); err != nil {
			return err
		}
		if ex.Err != nil {
			if hint := ai.Hint(ex.Err); hint != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Hint:", hint)
			}
			if errors.Is(ex.Err, context.DeadlineExceeded) {
				return fmt.Errorf("chat timed out: %w", ex.Err)
			}
			return fmt.Errorf("chat failed: %w", ex.Err)
		}
		return formatAndWriteOutput(ex.Reply.Text, outputOptions{
			JSON:         chatJSON,
			Class:        class,
			Model:        model,
			Provider:     provider,
			Usage:        ex.Usage,
			ElapsedMs:    ex.Elapsed.Milliseconds(),
			OutputPath:   chatOutput,
			OutputFormat: chatFormat,
			Writer:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatClass, "class", "", "class to chat about (becomes the active class)")
	chatCmd.Flags().StringVar(&chatProvider, "provider", "", "provider: openrouter|ollama|mock (defaults to config, then mock when no API key)")
	chatCmd.Flags().StringVar(&chatModel, "model", "", "model override")
	chatCmd.Flags().StringVar(&chatOllamaHost, "ollama-host", "", "Ollama host (default http://127.0.0.1:11434)")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "print the reply as JSON")
	chatCmd.Flags().IntVar(&chatPromptLimit, "prompt-limit", 0, "cap class-document context to about N tokens (overrides context_token_limit)")
	chatCmd.Flags().BoolVar(&chatDryRun, "dry-run", false, "show prompt size and estimated cost without sending")
	chatCmd.Flags().StringVar(&chatOutput, "output", "", "also write the reply to a file")
	chatCmd.Flags().StringVar(&chatFormat, "format", "", "output file format: text|markdown|json")
}
