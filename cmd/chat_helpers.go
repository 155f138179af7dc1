package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/classmate-cli/internal/config"
	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

type runtimeOptions struct {
	ProviderFlag string
	OllamaHost   string
}

// buildRuntime resolves the provider and constructs its runtime from config.
func buildRuntime(cfg *cfgpkg.Global, opts runtimeOptions) (ai.Runtime, string, error) {
	httpTimeout := 60 * time.Second
	retryMax := 1
	baseDelay := 500 * time.Millisecond
	maxDelay := 4 * time.Second
	var mockDelay time.Duration
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			httpTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.RetryMaxAttempts > 0 {
			retryMax = cfg.RetryMaxAttempts
		}
		if cfg.RetryBaseDelayMs > 0 {
			baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		}
		if cfg.RetryMaxDelayMs > 0 {
			maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
		}
		mockDelay = time.Duration(cfg.MockDelayMs) * time.Millisecond
	}

	apiKey := cfg.ResolveAPIKey()

	providerName := strings.TrimSpace(opts.ProviderFlag)
	if providerName == "" && cfg != nil {
		providerName = cfg.DefaultProvider
	}
	providerName = ai.ResolveProvider(providerName, apiKey)

	rc := ai.RuntimeConfig{
		HTTPTimeout: httpTimeout,
		RetryMax:    retryMax,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		APIKey:      apiKey,
		MockDelay:   mockDelay,
	}

	if providerName == ai.ProviderOllama {
		host := strings.TrimSpace(opts.OllamaHost)
		if host == "" {
			host = os.Getenv("CLASSMATE_OLLAMA_HOST")
		}
		if host == "" && cfg != nil && cfg.OllamaHost != "" {
			host = cfg.OllamaHost
		}
		if host == "" {
			host = "http://127.0.0.1:11434"
		}
		rc.Host = host
		if v := os.Getenv("CLASSMATE_OLLAMA_TIMEOUT_SEC"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				rc.HTTPTimeout = time.Duration(n) * time.Second
			}
		} else if cfg != nil && cfg.OllamaTimeoutSec > 0 {
			rc.HTTPTimeout = time.Duration(cfg.OllamaTimeoutSec) * time.Second
		}
	}

	if providerName == ai.ProviderOpenRouter && apiKey == "" {
		return nil, providerName, fmt.Errorf("OPENROUTER_API_KEY is not set (use 'classmate config set api_key ...' or --provider mock)")
	}

	client, ok := ai.GetRuntime(providerName, rc)
	if !ok {
		return nil, providerName, fmt.Errorf("provider not supported: %s", providerName)
	}
	logger.Debugw("runtime ready", "provider", providerName, "retry_max", retryMax, "timeout", rc.HTTPTimeout)
	return client, providerName, nil
}

func selectModel(cfg *cfgpkg.Global, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cfg != nil && cfg.DefaultModel != "" {
		return cfg.DefaultModel
	}
	return "openai/gpt-4o-mini"
}

type outputOptions struct {
	JSON         bool
	Class        string
	Model        string
	Provider     string
	Usage        ai.Usage
	ElapsedMs    int64
	OutputPath   string
	OutputFormat string
	Writer       io.Writer
}

func (o outputOptions) payload(content string) map[string]any {
	return map[string]any{
		"class":             o.Class,
		"model":             o.Model,
		"provider":          o.Provider,
		"prompt_tokens":     o.Usage.PromptTokens,
		"completion_tokens": o.Usage.CompletionTokens,
		"elapsed_ms":        o.ElapsedMs,
		"content":           content,
	}
}

func formatAndWriteOutput(content string, opts outputOptions) error {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	if opts.JSON {
		b, err := json.MarshalIndent(opts.payload(content), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Fprintln(w, string(b))
	} else {
		fmt.Fprintln(w, "\n=== ClassMate ===")
		fmt.Fprintln(w, content)
	}

	if opts.OutputPath == "" {
		return nil
	}

	var data []byte
	switch opts.OutputFormat {
	case "", "text", "markdown", "md":
		data = []byte(content)
	case "json":
		b, err := utils.PrettyJSON(opts.payload(content))
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		data = b
	default:
		return fmt.Errorf("unsupported --format: %s (use text|markdown|json)", opts.OutputFormat)
	}
	if err := utils.SafeWriteFile(opts.OutputPath, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(w, "\n💾 Saved output to %s\n", opts.OutputPath)
	return nil
}

// chatTimeout bounds a whole chat round-trip including retries.
func chatTimeout(cfg *cfgpkg.Global) time.Duration {
	per := 60 * time.Second
	attempts := 1
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			per = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.RetryMaxAttempts > 1 {
			attempts = cfg.RetryMaxAttempts
		}
	}
	return per*time.Duration(attempts) + 5*time.Second
}
