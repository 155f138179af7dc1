package ai

import "context"

// Runtime is the single call the chat panel needs: one transcript in, one completion out.
// Implemented by the OpenRouter client, the local Ollama client and the mock responder.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers used across the CLI for selection.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderLocal      = "local"
	ProviderMock       = "mock"
)
