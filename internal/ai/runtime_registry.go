package ai

import (
	"strings"
	"sync"
	"time"
)

// RuntimeFactory builds a Runtime from the generic config below.
type RuntimeFactory func(RuntimeConfig) Runtime

// RuntimeConfig carries common knobs used by runtimes.
type RuntimeConfig struct {
	HTTPTimeout time.Duration
	RetryMax    int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// OpenRouter
	APIKey string
	// Ollama
	Host string
	// Mock
	MockDelay time.Duration
}

var (
	registryMu sync.RWMutex
	registry   = map[string]RuntimeFactory{}
)

// RegisterRuntime registers a provider name with its factory.
func RegisterRuntime(name string, f RuntimeFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// GetRuntime creates a Runtime for the given provider if registered.
func GetRuntime(name string, cfg RuntimeConfig) (Runtime, bool) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return f(cfg), true
}

// ResolveProvider normalizes a provider name. An empty name picks the live
// OpenRouter runtime when an API key is available and the mock responder otherwise.
func ResolveProvider(name, apiKey string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		if apiKey != "" {
			return ProviderOpenRouter
		}
		return ProviderMock
	case ProviderLocal, ProviderOllama:
		return ProviderOllama
	case "openai", "anthropic", "google", "gemini", "meta", "llama", ProviderOpenRouter:
		return ProviderOpenRouter
	case ProviderMock, "dummy":
		return ProviderMock
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func init() {
	RegisterRuntime(ProviderOpenRouter, func(c RuntimeConfig) Runtime {
		return NewClient(c.APIKey, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	})
	RegisterRuntime(ProviderOllama, func(c RuntimeConfig) Runtime {
		return NewOllamaClient(c.Host, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	})
	RegisterRuntime(ProviderMock, func(c RuntimeConfig) Runtime {
		return NewMockClient(c.MockDelay)
	})
}
