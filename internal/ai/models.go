package ai

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ModelInfo is what cost estimates and the dry-run context check need to know
// about a model. Prices are USD per 1K tokens and only indicative.
type ModelInfo struct {
	Name          string  `json:"name"`
	ContextTokens int     `json:"context_tokens"`
	InputPerK     float64 `json:"input_per_k"`
	OutputPerK    float64 `json:"output_per_k"`
}

// Built-in entries cover the default model, a cheaper hosted alternative and
// the local model used in examples. Anything else comes from `models sync|fetch`.
var builtinModels = []ModelInfo{
	{Name: "openai/gpt-4o-mini", ContextTokens: 128000, InputPerK: 0.0006, OutputPerK: 0.0024},
	{Name: "anthropic/claude-3-haiku", ContextTokens: 200000, InputPerK: 0.00025, OutputPerK: 0.00125},
	{Name: "llama3.1:8b-instruct", ContextTokens: 8192},
}

var (
	catalogMu sync.RWMutex
	catalog   = func() map[string]ModelInfo {
		m := make(map[string]ModelInfo, len(builtinModels))
		for _, mi := range builtinModels {
			m[mi.Name] = mi
		}
		return m
	}()
)

// LookupModel reports the catalog entry for name.
func LookupModel(name string) (ModelInfo, bool) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	mi, ok := catalog[name]
	return mi, ok
}

// EstimateCostUSD prices a request; ok is false for models missing from the catalog.
func EstimateCostUSD(model string, promptTokens, completionTokens int) (float64, bool) {
	mi, ok := LookupModel(model)
	if !ok {
		return 0, false
	}
	return float64(promptTokens)/1000*mi.InputPerK + float64(completionTokens)/1000*mi.OutputPerK, true
}

// LoadCatalogFromJSON reads a JSON object keyed by model name, e.g.
// {"openai/gpt-4o-mini": {"context_tokens": 128000, "input_per_k": 0.0006, "output_per_k": 0.0024}}.
func LoadCatalogFromJSON(path string) (map[string]ModelInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]ModelInfo
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return m, nil
}

// MergeCatalog adds or replaces entries. A missing Name is taken from the key.
func MergeCatalog(m map[string]ModelInfo) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	for name, mi := range m {
		if mi.Name == "" {
			mi.Name = name
		}
		catalog[name] = mi
	}
}

// Catalog returns a copy of the current catalog.
func Catalog() map[string]ModelInfo {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	out := make(map[string]ModelInfo, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}
