package ai

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

// DefaultMockReply is what the canned responder answers with.
const DefaultMockReply = "AI response placeholder"

// MockClient is the offline responder used when no API key is configured.
type MockClient struct {
	Reply string
	Delay time.Duration
}

// NewMockClient returns a canned responder that waits delay before answering.
func NewMockClient(delay time.Duration) *MockClient {
	return &MockClient{Reply: DefaultMockReply, Delay: delay}
}

func (m *MockClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}
	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	reply := m.Reply
	if reply == "" {
		reply = DefaultMockReply
	}
	prompt := 0
	for _, msg := range req.Messages {
		prompt += utils.CountTokens(msg.Content)
	}
	completion := utils.CountTokens(reply)
	id := "mock_" + uuid.NewString()
	return &GenerateResponse{
		ID:        id,
		Choices:   []Choice{{Message: Message{Role: RoleAssistant, Content: reply}}},
		Usage:     Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion},
		RequestID: id,
	}, nil
}

// RuntimeFunc adapts a function to Runtime.
type RuntimeFunc func(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

func (f RuntimeFunc) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return f(ctx, req)
}
