package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/classmate-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ClassMate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "api_key: %s\n", mask(cfg.APIKey))
		fmt.Fprintf(out, "default_model: %s\n", cfg.DefaultModel)
		if cfg.DefaultProvider != "" {
			fmt.Fprintf(out, "default_provider: %s\n", cfg.DefaultProvider)
		}
		if cfg.SystemPrompt != "" {
			fmt.Fprintf(out, "system_prompt: %s\n", cfg.SystemPrompt)
		}
		fmt.Fprintf(out, "max_tokens: %d\n", cfg.MaxTokens)
		fmt.Fprintf(out, "temperature: %.3f\n", cfg.Temperature)
		if cfg.ContextTokenLimit > 0 {
			fmt.Fprintf(out, "context_token_limit: %d\n", cfg.ContextTokenLimit)
		}
		fmt.Fprintf(out, "workspace_file: %s\n", cfg.WorkspaceFile)
		fmt.Fprintf(out, "token_counter: %s\n", cfg.TokenCounter)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(out, "ollama_host: %s\n", cfg.OllamaHost)
		fmt.Fprintf(out, "server_addr: %s\n", cfg.ServerAddr)
		if cfg.RedisAddr != "" {
			fmt.Fprintf(out, "redis_addr: %s\n", cfg.RedisAddr)
			fmt.Fprintf(out, "redis_password: %s\n", mask(cfg.RedisPassword))
			fmt.Fprintf(out, "redis_db: %d\n", cfg.RedisDB)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		atoi := func() (int, error) {
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return 0, fmt.Errorf("invalid int for %s: %v", key, val)
			}
			return i, nil
		}
		var err error
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "default_model":
			cfg.DefaultModel = val
		case "default_provider":
			p := ai.ResolveProvider(val, "")
			switch p {
			case ai.ProviderOpenRouter, ai.ProviderOllama, ai.ProviderMock:
				cfg.DefaultProvider = p
			default:
				return fmt.Errorf("invalid default_provider: %s (use openrouter, ollama or mock)", val)
			}
		case "system_prompt":
			cfg.SystemPrompt = val
		case "max_tokens":
			cfg.MaxTokens, err = atoi()
		case "temperature":
			f, perr := strconv.ParseFloat(val, 64)
			if perr != nil {
				return fmt.Errorf("invalid float for temperature: %w", perr)
			}
			cfg.Temperature = f
		case "context_token_limit":
			cfg.ContextTokenLimit, err = atoi()
		case "workspace_file":
			cfg.WorkspaceFile = val
		case "token_counter":
			cfg.TokenCounter = strings.ToLower(val)
		case "log_level":
			cfg.LogLevel = strings.ToLower(val)
		case "http_timeout_sec":
			cfg.HTTPTimeoutSec, err = atoi()
		case "retry_max_attempts":
			cfg.RetryMaxAttempts, err = atoi()
		case "ollama_host":
			cfg.OllamaHost = val
		case "mock_delay_ms":
			cfg.MockDelayMs, err = atoi()
		case "server_addr":
			cfg.ServerAddr = val
		case "redis_addr":
			cfg.RedisAddr = val
		case "redis_password":
			cfg.RedisPassword = val
		case "redis_db":
			cfg.RedisDB, err = atoi()
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
