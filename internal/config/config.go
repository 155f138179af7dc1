package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	APIKey          string  `mapstructure:"api_key" yaml:"api_key"`
	DefaultModel    string  `mapstructure:"default_model" yaml:"default_model" validate:"required"`
	DefaultProvider string  `mapstructure:"default_provider" yaml:"default_provider" validate:"omitempty,oneof=openrouter ollama mock"`
	SystemPrompt    string  `mapstructure:"system_prompt" yaml:"system_prompt"`
	MaxTokens       int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gte=0"`
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	WorkspaceFile   string  `mapstructure:"workspace_file" yaml:"workspace_file"`
	TokenCounter    string  `mapstructure:"token_counter" yaml:"token_counter" validate:"omitempty,oneof=heuristic tiktoken"`
	LogLevel        string  `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// Cap on class-document tokens in the system message; 0 means no cap.
	ContextTokenLimit int `mapstructure:"context_token_limit" yaml:"context_token_limit" validate:"gte=0"`

	// HTTP/Retry configuration. One attempt keeps a chat round-trip single-shot.
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec" validate:"gte=0"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts" validate:"gte=0,lte=10"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms" validate:"gte=0"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms" validate:"gte=0"`

	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec" validate:"gte=0"`

	// Canned responder used when no API key is configured
	MockDelayMs int `mapstructure:"mock_delay_ms" yaml:"mock_delay_ms" validate:"gte=0"`

	// HTTP API
	ServerAddr string `mapstructure:"server_addr" yaml:"server_addr"`

	// Optional Redis-backed workspace for `serve --redis`
	RedisAddr            string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword        string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB              int    `mapstructure:"redis_db" yaml:"redis_db" validate:"gte=0"`
	RedisWorkspaceTTLSec int    `mapstructure:"redis_workspace_ttl_sec" yaml:"redis_workspace_ttl_sec" validate:"gte=0"`
}

// Dir returns the default configuration directory (~/.classmate).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".classmate"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.classmate/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CLASSMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	c, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Defaults returns the built-in configuration, ignoring files and environment.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	c, err := decode(v)
	if err != nil {
		return &Global{DefaultModel: "openai/gpt-4o-mini", RetryMaxAttempts: 1}
	}
	return c
}

func decode(v *viper.Viper) (*Global, error) {
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.WorkspaceFile == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.WorkspaceFile = filepath.Join(dir, "workspace.json")
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("default_model", "openai/gpt-4o-mini")
	v.SetDefault("default_provider", "")
	v.SetDefault("system_prompt", "")
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("context_token_limit", 0)
	v.SetDefault("workspace_file", "")
	v.SetDefault("token_counter", "heuristic")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 1)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 60)
	v.SetDefault("mock_delay_ms", 0)
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_workspace_ttl_sec", 0)
}

var validate = validator.New()

// Validate checks field constraints and reports every failing key.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// ResolveAPIKey returns the OpenRouter key from the environment or config.
func (c *Global) ResolveAPIKey() string {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		return v
	}
	if c == nil {
		return ""
	}
	return c.APIKey
}
