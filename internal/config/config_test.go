package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/classmate-cli/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "openai/gpt-4o-mini", c.DefaultModel)
	require.Equal(t, 1, c.RetryMaxAttempts)
	require.Equal(t, filepath.Join(home, ".classmate", "workspace.json"), c.WorkspaceFile)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLASSMATE_DEFAULT_MODEL", "anthropic/claude-3-haiku")
	t.Setenv("CLASSMATE_DEFAULT_PROVIDER", "mock")

	c, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "anthropic/claude-3-haiku", c.DefaultModel)
	require.Equal(t, "mock", c.DefaultProvider)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "cfg.yaml")

	c, err := config.Load(path)
	require.NoError(t, err)
	c.DefaultProvider = "ollama"
	c.MockDelayMs = 250
	require.NoError(t, config.Save(c, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.False(t, info.IsDir())

	again, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "ollama", again.DefaultProvider)
	require.Equal(t, 250, again.MockDelayMs)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := config.Load("")
	require.NoError(t, err)
	c.DefaultProvider = "skynet"
	err = c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DefaultProvider")
}

func TestResolveAPIKeyPrefersEnv(t *testing.T) {
	c := &config.Global{APIKey: "from-config"}
	t.Setenv("OPENROUTER_API_KEY", "")
	require.Equal(t, "from-config", c.ResolveAPIKey())
	t.Setenv("OPENROUTER_API_KEY", "from-env")
	require.Equal(t, "from-env", c.ResolveAPIKey())
}

func TestDefaultsIgnoreEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLASSMATE_DEFAULT_MODEL", "env/model")
	c := config.Defaults()
	require.Equal(t, "openai/gpt-4o-mini", c.DefaultModel)
	require.Equal(t, 1, c.RetryMaxAttempts)
	require.NoError(t, c.Validate())
}

func TestContextTokenLimit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLASSMATE_CONTEXT_TOKEN_LIMIT", "2000")
	c, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 2000, c.ContextTokenLimit)

	c.ContextTokenLimit = -1
	err = c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ContextTokenLimit")
}
